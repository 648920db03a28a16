package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"adahuff"
)

var (
	flagDecompress   = flag.Bool("d", false, "decompress")
	flagIn           = flag.String("i", "", "input file (required)")
	flagOut          = flag.String("o", "", "output file")
	flagNoOut        = flag.Bool("no_out", false, "no output")
	flagReport       = flag.Bool("r", false, "report compression ratio")
	flagDPCM         = flag.Bool("dpcm", false, "apply the first-order differential filter before coding")
	flagAlphabetLow  = flag.Int("alphabet-low", 0, "lowest symbol value in the alphabet")
	flagAlphabetHigh = flag.Int("alphabet-high", 255, "highest symbol value in the alphabet")
	flagVerbose      = flag.Bool("v", false, "log entropy and sizes to stderr")
	flagParanoid     = flag.Bool("paranoid", false, "verify tree invariants after every symbol (slow, for debugging)")
	flagVersion      = flag.Bool("version", false, "report executable version")
)

const (
	extension = ".ahuff"
	version   = "0.1.0"
)

func quitF(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		panic(err)
	}
	os.Exit(1)
}

func assertNoError(err error) {
	if err != nil {
		quitF("%v\n", err)
	}
}

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Println("adahuff v" + version)
		os.Exit(0)
	}

	if *flagIn == "" {
		quitF("no input file specified\n")
	}

	logger := zerolog.Nop()
	if *flagVerbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	}

	in, err := os.ReadFile(*flagIn)
	assertNoError(err)

	if *flagOut != "" && *flagNoOut {
		quitF("options -no_out and -o are mutually exclusive\n")
	}

	if *flagOut == "" { // construct a file name from the input name
		if *flagDecompress {
			if strings.HasSuffix(*flagIn, extension) {
				*flagOut = (*flagIn)[:len(*flagIn)-len(extension)]
			} else {
				*flagOut = *flagIn + ".decompressed"
			}
		} else {
			*flagOut = *flagIn + extension
		}
	}

	opts := adahuff.Options{
		AlphabetLow:  *flagAlphabetLow,
		AlphabetHigh: *flagAlphabetHigh,
		DPCM:         *flagDPCM,
		Paranoid:     *flagParanoid,
		Logger:       logger,
		Reporter:     adahuff.NopReporter{},
	}
	codec, err := adahuff.New(opts)
	assertNoError(err)

	var (
		out           []byte
		lenIn, lenOut int
	)
	ctx := context.Background()
	if *flagDecompress {
		out, err = codec.Decode(ctx, in)
		assertNoError(err)
		lenIn, lenOut = len(in), len(out)
	} else {
		out, err = codec.Encode(ctx, in)
		assertNoError(err)
		lenIn, lenOut = len(in), len(out)
	}

	if *flagNoOut {
		*flagOut = ""
	} else {
		assertNoError(os.WriteFile(*flagOut, out, 0600))
	}

	if *flagReport {
		ratioPct := lenOut * 100 / max(lenIn, 1)
		fmt.Printf("%dB -> %dB compression ratio %d.%02d\n", lenIn, lenOut, ratioPct/100, ratioPct%100)
	}
}
