// Package adahuff is the codec driver for adaptive FGK Huffman coding:
// it orchestrates the bit buffer, code tree, and update engine in the
// fgk and bitbuf packages into a single-shot byte-sequence codec, with
// an optional DPCM pre/post filter.
package adahuff

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"adahuff/bitbuf"
	"adahuff/dpcm"
	"adahuff/fgk"
)

// ErrCodecReused is returned by Encode or Decode on a Codec that has
// already processed a stream. The driver's IDLE -> in progress -> DONE
// state machine has no resumability: a Codec handles exactly one
// stream.
var ErrCodecReused = errors.New("adahuff: codec already used; construct a new Codec per stream")

type codecState int

const (
	stateIdle codecState = iota
	stateDone
)

// Options configures a Codec.
type Options struct {
	// AlphabetLow, AlphabetHigh bound the contiguous integer alphabet
	// [AlphabetLow, AlphabetHigh]. The zero value of Options is not
	// valid on its own; use DefaultOptions for the common (0, 255)
	// byte alphabet.
	AlphabetLow, AlphabetHigh int

	// DPCM enables the first-order differential filter.
	DPCM bool

	// Logger receives informational events (input entropy, symbol
	// counts). The zero value, zerolog.Logger{}, behaves like
	// zerolog.Nop() once passed through DefaultOptions; callers that
	// build Options by hand should set this explicitly.
	Logger zerolog.Logger

	// Reporter receives progress ticks. Nil is treated as NopReporter.
	Reporter Reporter

	// Paranoid, when true, runs Tree.CheckInvariants after every symbol
	// processed by Encode or Decode and fails fast on the first
	// violation instead of letting a corrupted tree silently diverge
	// from its counterpart. It is off by default: the check is
	// O(alphabet size log alphabet size) per symbol and is meant for
	// debugging, not production throughput.
	Paranoid bool
}

// DefaultOptions returns Options for the default byte alphabet [0,
// 255], DPCM disabled, with a no-op logger and reporter.
func DefaultOptions() Options {
	return Options{
		AlphabetLow:  0,
		AlphabetHigh: 255,
		Logger:       zerolog.Nop(),
		Reporter:     NopReporter{},
	}
}

// Codec is a single-use adaptive FGK Huffman encoder/decoder.
type Codec struct {
	params   *fgk.AlphabetParams
	dpcm     bool
	paranoid bool
	logger   zerolog.Logger
	reporter Reporter
	state    codecState
}

// New validates opts and returns a Codec ready to Encode or Decode
// exactly one stream.
func New(opts Options) (*Codec, error) {
	params, err := fgk.NewAlphabetParams(opts.AlphabetLow, opts.AlphabetHigh)
	if err != nil {
		return nil, err
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Codec{
		params:   params,
		dpcm:     opts.DPCM,
		paranoid: opts.Paranoid,
		logger:   opts.Logger,
		reporter: reporter,
	}, nil
}

// Encode compresses data into a self-delimiting FGK bit stream: a
// 3-bit padding header followed by the coded body. It fails only on
// ctx cancellation or, with fgk.ErrAlphabetMismatch, on an input byte
// (after the DPCM filter, if enabled) outside the configured alphabet.
func (c *Codec) Encode(ctx context.Context, data []byte) ([]byte, error) {
	if c.state != stateIdle {
		return nil, ErrCodecReused
	}
	defer func() { c.state = stateDone }()

	input := data
	if c.dpcm {
		input = dpcm.Forward(data)
	}

	c.logger.Info().
		Int("input_bytes", len(data)).
		Float64("entropy_bits_per_symbol", Entropy(data)).
		Bool("dpcm", c.dpcm).
		Msg("fgk: encoding")

	tree, err := fgk.NewTree(c.params.A)
	if err != nil {
		return nil, err
	}

	body := bitbuf.New()
	for _, raw := range input {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		v := int(raw)
		idx, err := c.params.Index(v)
		if err != nil {
			return nil, fmt.Errorf("adahuff: %w", err)
		}

		path, first, err := tree.Search(idx)
		if err != nil {
			return nil, err
		}
		body.AppendBits(path)
		if first {
			fixed, err := c.params.EncodeFixed(v)
			if err != nil {
				return nil, fmt.Errorf("adahuff: %w", err)
			}
			body.AppendBits(fixed)
		}
		if err := tree.Update(idx, first); err != nil {
			return nil, err
		}
		if c.paranoid {
			if err := tree.CheckInvariants(); err != nil {
				return nil, fmt.Errorf("adahuff: %w", err)
			}
		}
		c.reporter.OnSymbol()
	}

	total := body.Len() + 3
	p := 8*((total+7)/8) - total

	out := bitbuf.New()
	out.AppendBits(packHeader(p))
	out.Append(body)
	for i := 0; i < p; i++ {
		out.AppendBit(false)
	}

	encoded := out.ToBytes()
	c.logger.Info().Int("output_bytes", len(encoded)).Msg("fgk: encoded")
	return encoded, nil
}

// Decode reverses Encode. It fails with fgk.ErrCorruptStream if bits
// run out mid-symbol or the padding header is inconsistent with the
// buffer length, and with fgk.ErrAlphabetMismatch if a decoded value
// falls outside the configured alphabet.
func (c *Codec) Decode(ctx context.Context, data []byte) ([]byte, error) {
	if c.state != stateIdle {
		return nil, ErrCodecReused
	}
	defer func() { c.state = stateDone }()

	buf := bitbuf.FromBytes(data)
	if buf.Len() < 3 {
		return nil, fmt.Errorf("adahuff: stream too short for padding header: %w", fgk.ErrCorruptStream)
	}
	headerBits, err := buf.ReadBits(3)
	if err != nil {
		return nil, fmt.Errorf("adahuff: %w", fgk.ErrCorruptStream)
	}
	p := unpackHeader(headerBits)
	if p > buf.Len()-3 {
		return nil, fmt.Errorf("adahuff: padding count %d exceeds buffer: %w", p, fgk.ErrCorruptStream)
	}
	if err := buf.Truncate(buf.Len() - p); err != nil {
		return nil, fmt.Errorf("adahuff: %w", fgk.ErrCorruptStream)
	}

	tree, err := fgk.NewTree(c.params.A)
	if err != nil {
		return nil, err
	}

	var out []byte
	for buf.Remaining() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bitsBefore := buf.Remaining()
		leaf, err := tree.Descend(buf.ReadBit)
		if err != nil {
			return nil, fmt.Errorf("adahuff: %w", fgk.ErrCorruptStream)
		}

		first := tree.IsNYT(leaf)
		var v int
		if first {
			v, err = c.params.DecodeFixed(buf)
			if err != nil {
				return nil, fmt.Errorf("adahuff: %w", fgk.ErrCorruptStream)
			}
		} else {
			v = c.params.Value(tree.Symbol(leaf))
		}
		if v < c.params.L || v > c.params.H {
			return nil, fmt.Errorf("adahuff: %w", fgk.ErrAlphabetMismatch)
		}

		out = append(out, byte(v))

		idx, err := c.params.Index(v)
		if err != nil {
			return nil, fmt.Errorf("adahuff: %w", err)
		}
		if err := tree.Update(idx, first); err != nil {
			return nil, err
		}
		if c.paranoid {
			if err := tree.CheckInvariants(); err != nil {
				return nil, fmt.Errorf("adahuff: %w", err)
			}
		}

		for n := bitsBefore - buf.Remaining(); n > 0; n-- {
			c.reporter.OnBit()
		}
	}

	if c.dpcm {
		out = dpcm.Inverse(out)
	}
	c.logger.Info().Int("output_bytes", len(out)).Msg("fgk: decoded")
	return out, nil
}

// packHeader encodes p (0..7) as 3 bits, most-significant bit first.
// The padding header's bit order is fixed regardless of the body's
// bit-packing convention, so it is always decodable up front.
func packHeader(p int) []bool {
	return []bool{p&4 != 0, p&2 != 0, p&1 != 0}
}

func unpackHeader(bits []bool) int {
	p := 0
	for _, b := range bits {
		p <<= 1
		if b {
			p |= 1
		}
	}
	return p
}
