package main

import (
	"os"
	"strings"

	"github.com/adilg123/bitarchiver/internal/compression"
	"github.com/adilg123/bitarchiver/internal/config"
	"github.com/op/go-logging"
	"github.com/urfave/cli/v2"
)

const progName = "bitarchiver"

var log = logging.MustGetLogger(progName)

var leveledLogBackend logging.Leveled

func startLogging(level logging.Level) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatSpec := "%{color:bold}%{level:6s}%{color:reset} %{module:-24s} | %{message}"
	formatter := logging.MustStringFormatter(formatSpec)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
	leveledLogBackend = leveled
}

func main() {
	cfg := config.Load()
	startLogging(cfg.Level())

	if err := newApp(cfg).Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func newApp(cfg *config.Config) *cli.App {
	algorithmFlag := &cli.StringFlag{
		Name:    "algorithm",
		Aliases: []string{"a"},
		Usage:   "one of " + strings.Join(compression.GetSupportedAlgorithms(), ", "),
		Value:   "huffman",
	}
	codingFlags := []cli.Flag{
		algorithmFlag,
		&cli.IntFlag{
			Name:  "window",
			Usage: "LZSS window size in symbols",
			Value: cfg.LZSSWindowSize,
		},
		&cli.StringFlag{
			Name:  "alphabet",
			Usage: "predefined lzw-alphabet dictionary (default: printable ASCII)",
		},
		&cli.IntFlag{
			Name:  "max-output",
			Usage: "largest decoded size in bytes an archive may declare",
			Value: cfg.MaxOutputSize,
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Usage:   "directory for the results (default: next to each input)",
		},
	}

	return &cli.App{
		Name:  progName,
		Usage: "Lossless bit-level archivers: Huffman, LZSS, LZW and BWT",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(context *cli.Context) error {
			if context.Bool("debug") && leveledLogBackend != nil {
				leveledLogBackend.SetLevel(logging.DEBUG, "")
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "demo",
				Usage:  "Run the sample phrase through every archiver and log each step",
				Action: runDemo,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "print only the summary",
					},
					&cli.IntFlag{
						Name:  "window",
						Usage: "LZSS window size in symbols",
						Value: cfg.LZSSWindowSize,
					},
				},
			},
			{
				Name:      "archive",
				Usage:     "Archive one or more files",
				ArgsUsage: "FILE...",
				Flags:     codingFlags,
				Action: func(context *cli.Context) error {
					return runBatch(context, archiveFile)
				},
			},
			{
				Name:      "unarchive",
				Usage:     "Restore one or more archives",
				ArgsUsage: "FILE...",
				Flags:     codingFlags,
				Action: func(context *cli.Context) error {
					return runBatch(context, unarchiveFile)
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: func(context *cli.Context) error { return runServer(context, cfg) },
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "port",
						Usage: "listen port",
						Value: cfg.Port,
					},
				},
			},
		},
	}
}
