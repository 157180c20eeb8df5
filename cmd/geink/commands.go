package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ironsheep/geink/internal/dither"
	"github.com/ironsheep/geink/internal/epd"
	"github.com/ironsheep/geink/internal/imaging"
	"github.com/ironsheep/geink/internal/pipeline"
	"github.com/ironsheep/geink/internal/server"
)

// firstArg returns the single positional argument or exits with the
// command help.
func firstArg(c *cli.Context) string {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
	}
	return c.Args().First()
}

// outFile picks the --out value, or <stem><suffix> next to input.
func outFile(c *cli.Context, input, suffix string) string {
	if out := c.String("out"); out != "" {
		return out
	}
	return filepath.Join(filepath.Dir(input), pipeline.Stem(input)+suffix)
}

func newProcessor(c *cli.Context) (*pipeline.Processor, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, cli.Exit(err, 1)
	}
	p, err := pipeline.New(cfg, newLogger(c))
	if err != nil {
		return nil, cli.Exit(err, 1)
	}
	return p, nil
}

func processAction(c *cli.Context) error {
	path := firstArg(c)
	p, err := newProcessor(c)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if !info.IsDir() {
		out, err := p.ProcessFile(path, c.String("out"))
		if err != nil {
			return cli.Exit(err, 1)
		}
		fmt.Println(out.Frame)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sum, err := p.Batch(ctx, path, c.String("out"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Printf("%d processed, %d failed\n", sum.Processed, sum.Failed)
	if sum.Failed > 0 {
		return cli.Exit("", 2)
	}
	return nil
}

func preprocessAction(c *cli.Context) error {
	path := firstArg(c)
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	img, err := imaging.Load(path)
	if err != nil {
		return cli.Exit(err, 1)
	}
	opts := pipeline.Options{Threshold: cfg.Threshold, SolidTolerance: cfg.SolidTolerance}
	pre, err := pipeline.Preprocess(img, cfg.TargetWidth, cfg.TargetHeight, opts, newLogger(c))
	if err != nil {
		return cli.Exit(err, 1)
	}

	dst := outFile(c, path, "_preprocessed.png")
	if err := pipeline.SavePNG(dst, pre.Image); err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Println(dst)
	return nil
}

func ditherAction(c *cli.Context) error {
	path := firstArg(c)
	p, err := newProcessor(c)
	if err != nil {
		return err
	}

	img, err := imaging.Load(path)
	if err != nil {
		return cli.Exit(err, 1)
	}
	r, err := p.Render(img)
	if err != nil {
		return cli.Exit(err, 1)
	}

	dst := outFile(c, path, "_dithered.png")
	if err := pipeline.SavePNG(dst, r.Dithered); err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Println(dst)
	return nil
}

func convertAction(c *cli.Context) error {
	path := firstArg(c)
	p, err := newProcessor(c)
	if err != nil {
		return err
	}

	dst, err := p.ConvertFile(path, c.String("out"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Println(dst)
	return nil
}

func decodeAction(c *cli.Context) error {
	path := firstArg(c)
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	layout, err := epd.ParseLayout(cfg.Layout)
	if err != nil {
		return cli.Exit(err, 1)
	}

	data, err := pipeline.ReadFrame(path)
	if err != nil {
		return cli.Exit(err, 1)
	}
	w, h := cfg.TargetWidth, cfg.TargetHeight
	if c.Bool("portrait") {
		w, h = h, w
	}
	img, err := epd.Unpack(data, w, h, cfg.BitsPerPixel(), layout)
	if err != nil {
		return cli.Exit(err, 1)
	}

	stem := strings.TrimSuffix(path, pipeline.CompressedExt)
	dst := outFile(c, stem, "_decoded.png")
	if err := pipeline.SavePNG(dst, img); err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Println(dst)
	return nil
}

func gridAction(c *cli.Context) error {
	path := firstArg(c)
	img, err := imaging.Load(path)
	if err != nil {
		return cli.Exit(err, 1)
	}

	tiles, err := imaging.GridCut(img, c.Int("rows"), c.Int("cols"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	dir := filepath.Join(c.String("out"), pipeline.Stem(path))
	for _, t := range tiles {
		if err := pipeline.SavePNG(filepath.Join(dir, t.Name()+".png"), t.Image); err != nil {
			return cli.Exit(err, 1)
		}
	}
	fmt.Printf("%d tiles written to %s\n", len(tiles), dir)
	return nil
}

func methodsAction(c *cli.Context) error {
	for _, m := range dither.Methods() {
		kind := "error diffusion"
		if m.Ordered() {
			kind = "ordered"
		}
		fmt.Printf("%-22s %s\n", m, kind)
	}
	return nil
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if err := server.New(cfg, newLogger(c)).Run(); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}
