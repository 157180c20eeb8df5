package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ironsheep/geink/internal/imaging"
)

// Summary counts the outcome of a Batch.
type Summary struct {
	Processed int      `json:"processed"`
	Failed    int      `json:"failed"`
	Frames    []string `json:"frames"`
}

// findImages walks root and sends every candidate image. Hidden entries,
// the output directory, generated previews and files without a supported
// extension are skipped.
func (p *Processor) findImages(ctx context.Context, root, outDir string) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if path != root && info.Name()[0] == '.' {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if info.IsDir() {
				if path == outDir && path != root {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !imaging.IsSupported(path) || isGenerated(path) {
				return nil
			}

			select {
			case out <- path:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
	}()
	return out, errc
}

// imageWorker processes paths until in closes. Failures are logged and
// counted; only cancellation ends the worker early.
func (p *Processor) imageWorker(ctx context.Context, in <-chan string, outDir string, mu *sync.Mutex, sum *Summary) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for path := range in {
			if err := ctx.Err(); err != nil {
				errc <- err
				return
			}

			out, err := p.ProcessFile(path, outDir)

			mu.Lock()
			if err != nil {
				sum.Failed++
				p.logger.Printf("Failed %s: %v", path, err)
			} else {
				sum.Processed++
				sum.Frames = append(sum.Frames, out.Frame)
			}
			mu.Unlock()
		}
	}()
	return errc
}

// Batch converts every image under root, writing results to outDir with
// cfg.Workers workers. A failing image does not stop the batch; walk
// errors, output directory errors and cancellation do.
func (p *Processor) Batch(ctx context.Context, root, outDir string) (*Summary, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	outDir, err = filepath.Abs(outDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu  sync.Mutex
		sum Summary
	)

	paths, errc := p.findImages(ctx, root, outDir)
	errcList := []<-chan error{errc}
	for i := 0; i < p.cfg.Workers; i++ {
		errcList = append(errcList, p.imageWorker(ctx, paths, outDir, &mu, &sum))
	}

	err = waitForPipeline(cancel, errcList...)
	p.logger.Printf("Batch done: %d processed, %d failed", sum.Processed, sum.Failed)
	return &sum, err
}

// waitForPipeline returns the first error from any stage, cancelling the
// rest so the walker stops feeding them.
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}
