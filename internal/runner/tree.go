package runner

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/roach88/htmlconf/internal/canon"
	"github.com/roach88/htmlconf/internal/fixture"
	"github.com/roach88/htmlconf/internal/parser"
)

// Config controls a suite run.
type Config struct {
	// TestsRoot is the html5lib-tests checkout to discover fixtures under.
	TestsRoot string
	// Workers is the number of parallel workers; it is clamped to the file
	// count and never below 1.
	Workers int
	// MaxFailures caps how many failure records the merged summary keeps.
	// Failures beyond the cap still count toward totals.
	MaxFailures int
	// FailFast stops dispatching further cases and files after the first
	// recorded failure. It never aborts a case already in flight.
	FailFast bool
	// Filter, when non-empty, keeps only fixture files whose path contains
	// it as a substring.
	Filter string
}

func (c Config) workers(fileCount int) int {
	n := c.Workers
	if n < 1 {
		n = 1
	}
	if n > fileCount {
		n = fileCount
	}
	return n
}

func (c Config) filterFiles(files []string) []string {
	if c.Filter == "" {
		return files
	}
	kept := files[:0]
	for _, f := range files {
		if strings.Contains(f, c.Filter) {
			kept = append(kept, f)
		}
	}
	return kept
}

// RunTreeSuite executes every tree-construction case under the tests root
// and returns the merged summary. Discovery I/O failure is the only fatal
// error; everything after discovery is recorded per case and the run
// continues.
func RunTreeSuite(ctx context.Context, eng parser.Engine, cfg Config) (Summary, error) {
	files, err := fixture.DiscoverTreeFiles(cfg.TestsRoot)
	if err != nil {
		return Summary{}, fmt.Errorf("discover tree-construction fixtures: %w", err)
	}
	files = cfg.filterFiles(files)

	var all Summary
	if len(files) == 0 {
		return all, nil
	}

	workers := cfg.workers(len(files))
	chunkSize := (len(files) + workers - 1) / workers
	slog.Debug("dispatching tree-construction suite",
		"files", len(files), "workers", workers, "chunk_size", chunkSize)

	// One result slot per chunk. Merging by chunk index keeps the merged
	// failure order aligned with sorted-discovery order regardless of which
	// worker finishes first.
	type chunkResult struct {
		index   int
		summary Summary
	}
	results := make(chan chunkResult, workers)

	chunks := 0
	for start := 0; start < len(files); start += chunkSize {
		end := min(start+chunkSize, len(files))
		go func(index int, paths []string) {
			var s Summary
			for _, path := range paths {
				if ctx.Err() != nil {
					break
				}
				budget := cfg.MaxFailures - len(s.Failures)
				fileSummary := runTreeFile(path, cfg.TestsRoot, eng, budget, cfg.FailFast)
				s.Merge(fileSummary, cfg.MaxFailures)
				if cfg.FailFast && s.Failed > 0 {
					break
				}
				if len(s.Failures) >= cfg.MaxFailures {
					break
				}
			}
			results <- chunkResult{index: index, summary: s}
		}(chunks, files[start:end])
		chunks++
	}

	collected := make([]Summary, chunks)
	for i := 0; i < chunks; i++ {
		r := <-results
		collected[r.index] = r.summary
	}
	for _, s := range collected {
		all.Merge(s, cfg.MaxFailures)
	}
	return all, nil
}

// runTreeFile runs every case of one .dat file. A file that cannot be read
// or decoded yields a single counted failure with placeholder detail.
func runTreeFile(path, testsRoot string, eng parser.Engine, budget int, failFast bool) Summary {
	var s Summary
	rel := relPath(testsRoot, path)

	cases, err := fixture.DecodeTreeFile(path)
	if err != nil {
		s.Total = 1
		s.recordFailure(Failure{
			File:      rel,
			CaseIndex: 0,
			Label:     "n/a",
			Input:     fmt.Sprintf("failed to read fixture: %v", err),
			Expected:  "(readable fixture)",
			Actual:    "(read error)",
		}, budget)
		return s
	}

	for i, c := range cases {
		// Both scripting modes of a single case always run to completion;
		// fail-fast only stops subsequent cases.
		for _, mode := range scriptModes(c.Script) {
			s.Total++
			opts := parser.Options{ScriptingEnabled: mode.enabled}
			actual := parseCase(eng, c, opts)

			expected := canon.Normalize(c.Expected)
			if actual == expected {
				s.Passed++
				continue
			}
			s.recordFailure(Failure{
				File:      rel,
				CaseIndex: i,
				Label:     mode.label,
				Input:     c.Data,
				Expected:  expected,
				Actual:    actual,
			}, budget)
		}
		if failFast && s.Failed > 0 {
			return s
		}
	}
	return s
}

// parseCase invokes the engine for one case/mode and canonicalizes the
// resulting tree.
func parseCase(eng parser.Engine, c fixture.TreeCase, opts parser.Options) string {
	if c.Fragment != nil {
		tree, _ := eng.ParseFragment(parser.FragmentContext{
			Namespace: c.Fragment.Namespace,
			TagName:   c.Fragment.TagName,
		}, c.Data, opts)
		return canon.Normalize(canon.Format(tree, tree.Root))
	}
	tree, _ := eng.ParseDocument(c.Data, opts)
	return canon.Normalize(canon.Format(tree, tree.Root))
}

type scriptMode struct {
	enabled bool
	label   string
}

func scriptModes(d fixture.ScriptDirective) []scriptMode {
	switch d {
	case fixture.ScriptOn:
		return []scriptMode{{true, "on"}}
	case fixture.ScriptOff:
		return []scriptMode{{false, "off"}}
	default:
		return []scriptMode{{true, "on"}, {false, "off"}}
	}
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
