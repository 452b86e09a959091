// SPDX-License-Identifier: GPL-2.0-only

// Command lzmatool is a thin CLI front end over the lzma package: compress,
// decompress, and pass through legacy LZW members.
package main

import (
	"bytes"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"

	lzma "github.com/CaveSystems/cave-compression-sub001"
	"github.com/CaveSystems/cave-compression-sub001/internal/log"
	lzwpkg "github.com/CaveSystems/cave-compression-sub001/lzw"
)

// fileConfig is the optional TOML configuration format: lets a user pin
// encoder defaults without repeating flags.
type fileConfig struct {
	DictSize    uint32 `toml:"dict_size"`
	LC          int    `toml:"lc"`
	LP          int    `toml:"lp"`
	PB          int    `toml:"pb"`
	FastBytes   int    `toml:"fast_bytes"`
	MatchFinder string `toml:"match_finder"`
}

func loadConfig(path string) (lzma.Options, error) {
	opts := lzma.DefaultOptions()
	if path == "" {
		return opts, nil
	}
	var cfg fileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return opts, err
	}
	if cfg.DictSize != 0 {
		opts.DictSize = cfg.DictSize
	}
	if cfg.LC != 0 || cfg.LP != 0 || cfg.PB != 0 {
		opts.LC, opts.LP, opts.PB = cfg.LC, cfg.LP, cfg.PB
	}
	if cfg.FastBytes != 0 {
		opts.FastBytes = cfg.FastBytes
	}
	if cfg.MatchFinder == "bt2" {
		opts.MatchFinder = lzma.BT2
	}
	return opts, nil
}

func main() {
	logger := log.New()

	app := &cli.App{
		Name:  "lzmatool",
		Usage: "compress, decompress, and inspect LZMA streams",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "emit debug-level driver logging"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				logger.SetLevel(log.LevelDebug)
			}
			return nil
		},
		Commands: []*cli.Command{
			compressCommand(logger),
			decompressCommand(logger),
			decodeLZWCommand(logger),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func compressCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "compress",
		Usage: "compress stdin to stdout as an LZMA stream",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "TOML config file"},
			&cli.BoolFlag{Name: "end-marker", Usage: "write an explicit end-of-stream marker"},
		},
		Action: func(c *cli.Context) error {
			opts, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			opts.EndMarker = c.Bool("end-marker")

			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			enc, err := lzma.NewEncoder(os.Stdout, opts)
			if err != nil {
				return err
			}
			if c.Bool("verbose") {
				enc.SetLogLevel(log.LevelDebug)
			}
			size := int64(len(data))
			if opts.EndMarker {
				size = -1
			}
			logger.Info("compressing %d bytes (dictSize=%d lc=%d lp=%d pb=%d)", len(data), opts.DictSize, opts.LC, opts.LP, opts.PB)
			return enc.Encode(bytes.NewReader(data), size)
		},
	}
}

func decompressCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "decompress",
		Usage: "decompress an LZMA stream on stdin to stdout",
		Action: func(c *cli.Context) error {
			dec, err := lzma.NewDecoder(os.Stdin)
			if err != nil {
				return err
			}
			if c.Bool("verbose") {
				dec.SetLogLevel(log.LevelDebug)
			}
			size := int64(-1)
			if declared, ok := dec.DeclaredSize(); ok {
				size = declared
			}
			logger.Info("decompressing stream")
			return dec.Decode(os.Stdout, size)
		},
	}
}

func decodeLZWCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "decode-lzw",
		Usage: "decode a legacy LZW member on stdin to stdout",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "lit-width", Value: 8},
			&cli.BoolFlag{Name: "msb", Usage: "use MSB-first bit order (GIF-style)"},
		},
		Action: func(c *cli.Context) error {
			order := lzwpkg.LSB
			if c.Bool("msb") {
				order = lzwpkg.MSB
			}
			logger.Info("decoding LZW member (litWidth=%d)", c.Int("lit-width"))
			return lzwpkg.Decompress(os.Stdout, os.Stdin, order, c.Int("lit-width"))
		},
	}
}
