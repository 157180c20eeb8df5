package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ironsheep/geink/internal/config"
	"github.com/ironsheep/geink/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	server.Version = Version

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "geink"
	app.Usage = "convert images into e-paper framebuffers"
	app.Version = fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit)

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "env-file",
			Value: ".env",
			Usage: "read GEINK_* settings from `FILE`; the environment wins",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "log every pipeline stage to stderr",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "process",
			Usage:     "Convert an image, or every image under a directory, into packed frames",
			ArgsUsage: "PATH",
			Flags:     append(panelFlags(), outputFlags()...),
			Action:    processAction,
		},
		{
			Name:      "preprocess",
			Usage:     "Crop, reframe and resize an image to the panel and save it as PNG",
			ArgsUsage: "IMAGE",
			Flags:     append(panelFlags(), outFileFlag()),
			Action:    preprocessAction,
		},
		{
			Name:      "dither",
			Usage:     "Preprocess and dither an image and save it as PNG",
			ArgsUsage: "IMAGE",
			Flags:     append(panelFlags(), outFileFlag()),
			Action:    ditherAction,
		},
		{
			Name:      "convert",
			Usage:     "Pack an already dithered image",
			ArgsUsage: "IMAGE",
			Flags:     append(panelFlags(), outDirFlag()),
			Action:    convertAction,
		},
		{
			Name:      "decode",
			Usage:     "Render a packed frame (.bin or .bin.zst) back to PNG",
			ArgsUsage: "FRAME",
			Flags: append(panelFlags(), outFileFlag(), &cli.BoolFlag{
				Name:  "portrait",
				Usage: "the frame came from a portrait image and is height x width",
			}),
			Action:    decodeAction,
		},
		{
			Name:      "grid",
			Usage:     "Cut an image into a grid of tiles",
			ArgsUsage: "IMAGE",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "rows", Value: 2, Usage: "number of tile rows"},
				&cli.IntFlag{Name: "cols", Value: 2, Usage: "number of tile columns"},
				outDirFlag(),
			},
			Action: gridAction,
		},
		{
			Name:   "methods",
			Usage:  "List dither methods",
			Action: methodsAction,
		},
		{
			Name:   "serve",
			Usage:  "Run the MCP server on stdin/stdout",
			Flags:  panelFlags(),
			Action: serveAction,
		},
	}

	return app
}

func panelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "width", Usage: "panel width in pixels"},
		&cli.IntFlag{Name: "height", Usage: "panel height in pixels"},
		&cli.IntFlag{Name: "levels", Usage: "gray levels: 2, 4, 16 or 256"},
		&cli.StringFlag{Name: "method", Usage: "dither method (see 'geink methods')"},
		&cli.StringFlag{Name: "layout", Usage: "frame layout: row or flat"},
		&cli.IntFlag{Name: "threshold", Usage: "bounds detector sensitivity (0-255)"},
		&cli.Float64Flag{Name: "solid-tolerance", Usage: "border variance below which images are padded"},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		outDirFlag(),
		&cli.IntFlag{Name: "workers", Usage: "number of images processed in parallel"},
		&cli.BoolFlag{Name: "compress", Usage: "also write a zstd copy of each frame"},
		&cli.BoolFlag{Name: "previews", Usage: "also write crop and dithered PNG previews"},
	}
}

func outDirFlag() cli.Flag {
	return &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "output", Usage: "output `DIR`"}
}

func outFileFlag() cli.Flag {
	return &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output `FILE` (default: next to the input)"}
}

// newLogger returns the pipeline logger: stderr when --verbose is set or
// GEINK_LOG_LEVEL=debug, otherwise discarded.
func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", log.Ltime)
	if c.Bool("verbose") || strings.EqualFold(os.Getenv("GEINK_LOG_LEVEL"), "debug") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// loadConfig reads the env file and environment, then applies any flags
// given on the command line. An unusable level count is replaced with the
// default after a warning.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return cfg, err
	}

	if c.IsSet("width") {
		cfg.TargetWidth = c.Int("width")
	}
	if c.IsSet("height") {
		cfg.TargetHeight = c.Int("height")
	}
	if c.IsSet("levels") {
		cfg.ColorLevels = c.Int("levels")
	}
	if c.IsSet("method") {
		cfg.DitherMethod = c.String("method")
	}
	if c.IsSet("layout") {
		cfg.Layout = c.String("layout")
	}
	if c.IsSet("threshold") {
		cfg.Threshold = c.Int("threshold")
	}
	if c.IsSet("solid-tolerance") {
		cfg.SolidTolerance = c.Float64("solid-tolerance")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("compress") {
		cfg.Compress = c.Bool("compress")
	}
	if c.IsSet("previews") {
		cfg.Previews = c.Bool("previews")
	}

	if err := config.ValidateColorLevels(cfg.ColorLevels); err != nil {
		log.Printf("Warning: %v; using %d", err, config.DefaultColorLevels)
		cfg.ColorLevels = config.DefaultColorLevels
	}
	return cfg, cfg.Validate()
}
