package preflight

import (
	"context"
	"os"
	"runtime"
	"sync"

	"github.com/ngcli/ng/internal/analyzer"
	"github.com/ngcli/ng/internal/rebuildctx"
)

// Parse registers every .nix file under Dir with a fresh analyzer.DB and
// fails critically on any syntax diagnostic. File I/O and parsing fan out
// across a worker pool sized to runtime.NumCPU(); db.RegisterAndParse
// itself serializes the actual state mutation.
type Parse struct {
	// Dir defaults to "." when empty.
	Dir string
}

func (Parse) Name() string { return "Nix Syntax Parse" }

func (c Parse) Run(ctx context.Context, op *rebuildctx.OperationContext, _ rebuildctx.Strategy, _ rebuildctx.PlatformArgs) (Status, error) {
	dir := c.Dir
	if dir == "" {
		dir = "."
	}

	files, err := findNixFiles(dir)
	if err != nil {
		return FailedCritical, err
	}
	if len(files) == 0 {
		return Passed, nil
	}

	db := analyzer.NewDB()

	var (
		mu       sync.Mutex
		allDiags []analyzer.Diagnostic
	)

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, path := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()

			text, readErr := os.ReadFile(path)
			if readErr != nil {
				return
			}
			_, diags := db.RegisterAndParse(path, string(text))
			if len(diags) == 0 {
				return
			}
			mu.Lock()
			allDiags = append(allDiags, diags...)
			mu.Unlock()
		}(path)
	}
	wg.Wait()

	if len(allDiags) == 0 {
		return Passed, nil
	}

	if op.Reporter != nil {
		op.Reporter.Report(c.Name(), allDiags, db)
	}
	return FailedCritical, nil
}
