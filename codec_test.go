package adahuff

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"adahuff/fgk"
)

func roundTrip(t *testing.T, opts Options, data []byte) []byte {
	t.Helper()
	enc, err := New(opts)
	require.NoError(t, err)
	compressed, err := enc.Encode(context.Background(), data)
	require.NoError(t, err)

	dec, err := New(opts)
	require.NoError(t, err)
	decompressed, err := dec.Decode(context.Background(), compressed)
	require.NoError(t, err)

	require.Equal(t, data, decompressed)
	return compressed
}

func TestRoundTripEmptyInput(t *testing.T) {
	roundTrip(t, DefaultOptions(), nil)
}

func TestRoundTripSingleSymbol(t *testing.T) {
	roundTrip(t, DefaultOptions(), []byte{42})
}

func TestRoundTripAllSameByte(t *testing.T) {
	data := make([]byte, 500)
	for i := range data {
		data[i] = 7
	}
	roundTrip(t, DefaultOptions(), data)
}

func TestRoundTripFullAlphabet(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	roundTrip(t, DefaultOptions(), data)
}

func TestRoundTripRandomText(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	data := make([]byte, 10_000)
	for i := range data {
		// Skewed distribution, like English text: mostly lowercase
		// letters with a long tail.
		if r.Intn(10) < 8 {
			data[i] = byte('a' + r.Intn(26))
		} else {
			data[i] = byte(r.Intn(256))
		}
	}
	compressed := roundTrip(t, DefaultOptions(), data)
	require.Less(t, len(compressed), len(data), "skewed input should compress smaller than its input")
}

func TestRoundTripWithDPCM(t *testing.T) {
	data := make([]byte, 1000)
	v := byte(128)
	r := rand.New(rand.NewSource(2))
	for i := range data {
		if r.Intn(4) == 0 {
			v += byte(r.Intn(5) - 2)
		}
		data[i] = v
	}

	opts := DefaultOptions()
	opts.DPCM = true
	withDPCM := roundTrip(t, opts, data)

	plain := DefaultOptions()
	withoutDPCM := roundTrip(t, plain, data)

	require.Less(t, len(withDPCM), len(withoutDPCM), "DPCM should help on a slowly varying signal")
}

func TestRoundTripRestrictedAlphabet(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	data := make([]byte, 200)
	for i := range data {
		data[i] = byte(10 + r.Intn(10)) // values in [10, 19]
	}

	opts := Options{AlphabetLow: 10, AlphabetHigh: 19, Reporter: NopReporter{}}
	roundTrip(t, opts, data)
}

func TestCodecRejectsReuse(t *testing.T) {
	c, err := New(DefaultOptions())
	require.NoError(t, err)

	_, err = c.Encode(context.Background(), []byte("a"))
	require.NoError(t, err)

	_, err = c.Encode(context.Background(), []byte("b"))
	require.ErrorIs(t, err, ErrCodecReused)

	_, err = c.Decode(context.Background(), []byte{0, 0, 0})
	require.ErrorIs(t, err, ErrCodecReused)
}

func TestDecodeRejectsTruncatedStream(t *testing.T) {
	enc, err := New(DefaultOptions())
	require.NoError(t, err)
	compressed, err := enc.Encode(context.Background(), []byte("hello, adaptive world"))
	require.NoError(t, err)

	truncated := compressed[:len(compressed)-1]
	dec, err := New(DefaultOptions())
	require.NoError(t, err)
	_, err = dec.Decode(context.Background(), truncated)
	require.ErrorIs(t, err, fgk.ErrCorruptStream)
}

func TestDecodeRejectsEmptyStream(t *testing.T) {
	dec, err := New(DefaultOptions())
	require.NoError(t, err)
	_, err = dec.Decode(context.Background(), nil)
	require.ErrorIs(t, err, fgk.ErrCorruptStream)
}

func TestDecodeWithMismatchedAlphabetFails(t *testing.T) {
	enc, err := New(DefaultOptions())
	require.NoError(t, err)
	compressed, err := enc.Encode(context.Background(), []byte("mismatched alphabet range on purpose"))
	require.NoError(t, err)

	dec, err := New(Options{AlphabetLow: 0, AlphabetHigh: 9})
	require.NoError(t, err)
	_, err = dec.Decode(context.Background(), compressed)
	require.Error(t, err)
}

func TestEncodeRejectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, err := New(DefaultOptions())
	require.NoError(t, err)
	_, err = c.Encode(ctx, []byte("abc"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewRejectsInvertedAlphabet(t *testing.T) {
	_, err := New(Options{AlphabetLow: 10, AlphabetHigh: 5})
	require.Error(t, err)
}

func TestRoundTripWithParanoidMode(t *testing.T) {
	opts := DefaultOptions()
	opts.Paranoid = true
	roundTrip(t, opts, []byte("paranoid mode runs CheckInvariants after every symbol"))
}
