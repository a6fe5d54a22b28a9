package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adilg123/bitarchiver/internal/compression"
	"github.com/adilg123/bitarchiver/internal/compression/baseline"
	"github.com/adilg123/bitarchiver/internal/compression/report"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/text/encoding/charmap"
)

const demoPhrase = "На дворе трава, на траве дрова. Не руби дрова на траве двора!"

// demoAlphabet lists every symbol the uppercase phrase can contain.
func demoAlphabet() string {
	var sb strings.Builder
	sb.WriteString(" ,.!")
	for r := 'А'; r <= 'Я'; r++ {
		sb.WriteRune(r)
	}
	return sb.String()
}

type demoResult struct {
	Algorithm string
	Bits      int
}

func runDemo(context *cli.Context) error {
	encoder := charmap.KOI8R.NewEncoder()
	message, err := encoder.Bytes([]byte(strings.ToUpper(demoPhrase)))
	if err != nil {
		return errors.Wrap(err, "encoding the phrase as KOI8-R")
	}
	alphabet, err := encoder.Bytes([]byte(demoAlphabet()))
	if err != nil {
		return errors.Wrap(err, "encoding the alphabet as KOI8-R")
	}

	var rep report.Reporter = report.Nop
	if !context.Bool("quiet") {
		rep = report.NewLogReporter(logging.MustGetLogger(progName+"/demo"), charmap.KOI8R)
	}

	log.Infof("Input: %d bytes, %d bits", len(message), len(message)*8)
	var results []demoResult
	for _, algorithm := range compression.GetSupportedAlgorithms() {
		options := compression.Options{
			Algorithm:  algorithm,
			WindowSize: context.Int("window"),
			Alphabet:   alphabet,
			Reporter:   rep,
		}

		if rep.Enabled() {
			rep.Printf("==== %s ====", algorithm)
		}
		container, nBits, err := compression.Archive(message, options)
		if err != nil {
			return errors.Wrap(err, algorithm)
		}
		options.Reporter = nil
		decoded, err := compression.Unarchive(container, options)
		if err != nil {
			return errors.Wrap(err, algorithm)
		}
		if !bytes.Equal(decoded, message) {
			return errors.Errorf("%s: decoded message differs from the input", algorithm)
		}
		results = append(results, demoResult{Algorithm: algorithm, Bits: nBits})
	}

	sizes, err := baseline.Measure(message)
	if err != nil {
		return err
	}

	fmt.Printf("%-14s %8s\n", "algorithm", "bits")
	fmt.Printf("%-14s %8d\n", "input", len(message)*8)
	for _, result := range results {
		fmt.Printf("%-14s %8d\n", result.Algorithm, result.Bits)
	}
	fmt.Printf("%-14s %8d\n", "zstd", sizes.Zstd*8)
	fmt.Printf("%-14s %8d\n", "deflate", sizes.Deflate*8)
	return nil
}
