package verify

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/jameshicks/adios/internal/vcf"
)

// FileResult holds the outcome of checking one file.
type FileResult struct {
	Seq    int
	Path   string
	Report *Report
	Err    error
}

// CheckFiles checks paths using a pool of workers.
// Results are sent to the returned channel in arrival order (not input order).
// Use OrderedCollect to consume results in input order.
// If workers is 0, runtime.NumCPU() is used.
func (c *Checker) CheckFiles(paths []string, workers int) <-chan FileResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	items := make(chan int, len(paths))
	for i := range paths {
		items <- i
	}
	close(items)

	results := make(chan FileResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for seq := range items {
				report, err := c.checkFile(paths[seq])
				results <- FileResult{
					Seq:    seq,
					Path:   paths[seq],
					Report: report,
					Err:    err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (c *Checker) checkFile(path string) (*Report, error) {
	p, err := vcf.NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	c.logger.Debug("checking file", zap.String("path", path))
	report, err := c.Check(p)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", path, err)
	}
	return report, nil
}

// OrderedCollect calls fn for each result in input order.
// Out-of-order results wait in a pending map until their turn.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan FileResult, fn func(FileResult) error) error {
	pending := make(map[int]FileResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
