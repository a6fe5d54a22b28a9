package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adilg123/bitarchiver/internal/compression"
	pb "github.com/cheggaaa/pb/v3"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// fileOp turns the contents of one input into the contents of one output and
// names the output file.
type fileOp func(path string, data []byte, options compression.Options) (string, []byte, error)

func optionsFromFlags(context *cli.Context) (compression.Options, error) {
	options := compression.Options{
		Algorithm:     context.String("algorithm"),
		WindowSize:    context.Int("window"),
		MaxOutputSize: context.Int("max-output"),
	}
	if !compression.IsValidAlgorithm(options.Algorithm) {
		return options, errors.Wrapf(compression.ErrUnsupportedAlgorithm, "%q", options.Algorithm)
	}
	if options.WindowSize <= 0 {
		return options, errors.Errorf("window size must be positive, got %d", options.WindowSize)
	}
	if context.IsSet("alphabet") {
		if context.String("alphabet") == "" {
			return options, errors.New("alphabet must not be empty")
		}
		options.Alphabet = []byte(context.String("alphabet"))
	}
	return options, nil
}

// runBatch applies op to every file argument. A failing file does not stop the
// batch; all failures are returned together.
func runBatch(context *cli.Context, op fileOp) error {
	if context.NArg() == 0 {
		return cli.Exit("no input files", 2)
	}
	options, err := optionsFromFlags(context)
	if err != nil {
		return err
	}
	outputDir := context.String("output-dir")

	var total int64
	for _, path := range context.Args().Slice() {
		if info, err := os.Stat(path); err == nil {
			total += info.Size()
		}
	}
	bar := pb.New64(total)
	bar.Set(pb.Bytes, true)
	bar.SetWriter(os.Stderr)
	bar.Start()
	defer bar.Finish()

	var result *multierror.Error
	for _, path := range context.Args().Slice() {
		if err := processFile(path, outputDir, bar, op, options); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func processFile(path, outputDir string, bar *pb.ProgressBar, op fileOp, options compression.Options) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(bar.NewProxyReader(file))
	file.Close()
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	outputPath, output, err := op(path, data, options)
	if err != nil {
		return errors.Wrap(err, path)
	}
	if outputDir != "" {
		outputPath = filepath.Join(outputDir, filepath.Base(outputPath))
	}
	if err := os.WriteFile(outputPath, output, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", outputPath)
	}
	log.Debugf("%s -> %s (%d -> %d bytes)", path, outputPath, len(data), len(output))
	return nil
}

func archiveFile(path string, data []byte, options compression.Options) (string, []byte, error) {
	compressed, stats, err := compression.Compress(data, options)
	if err != nil {
		return "", nil, err
	}
	log.Infof("%s: %d bytes -> %d bits with %s", path, stats.OriginalSize, stats.ArchivedBits, options.Algorithm)
	return fmt.Sprintf("%s.%s", path, compression.Extension(options.Algorithm)), compressed, nil
}

func unarchiveFile(path string, data []byte, options compression.Options) (string, []byte, error) {
	decompressed, _, err := compression.Decompress(data, options)
	if err != nil {
		return "", nil, err
	}
	outputPath := strings.TrimSuffix(path, "."+compression.Extension(options.Algorithm))
	if outputPath == path {
		outputPath = path + ".out"
	}
	return outputPath, decompressed, nil
}
