package runner

import (
	"context"
	"fmt"

	"github.com/roach88/htmlconf/internal/fixture"
)

// RunTokenizerSuite decodes every tokenizer .test fixture and accounts for
// each test variant. Tokenizer execution is not wired to an engine yet, so
// every variant is recorded as a failure with placeholder detail — the
// fixture decoding and variant arithmetic are what this suite validates
// today.
func RunTokenizerSuite(ctx context.Context, cfg Config) (Summary, error) {
	files, err := fixture.DiscoverTokenizerFiles(cfg.TestsRoot)
	if err != nil {
		return Summary{}, fmt.Errorf("discover tokenizer fixtures: %w", err)
	}
	return runJSONSuite(ctx, cfg, cfg.filterFiles(files), tokenizerVariants)
}

// RunSerializerSuite is the serializer analogue of RunTokenizerSuite.
func RunSerializerSuite(ctx context.Context, cfg Config) (Summary, error) {
	files, err := fixture.DiscoverSerializerFiles(cfg.TestsRoot)
	if err != nil {
		return Summary{}, fmt.Errorf("discover serializer fixtures: %w", err)
	}
	return runJSONSuite(ctx, cfg, cfg.filterFiles(files), serializerVariants)
}

// variantFunc extracts the input label and required variant count from one
// test object.
type variantFunc func(test fixture.Value) (input string, variants int)

// tokenizerVariants: a non-empty initialStates array multiplies the test
// into one run per state.
func tokenizerVariants(test fixture.Value) (string, int) {
	obj, ok := test.(fixture.Object)
	if !ok {
		return "", 1
	}
	variants := 1
	if states := obj.GetArray("initialStates"); len(states) > 0 {
		variants = len(states)
	}
	return obj.GetString("input"), variants
}

// serializerVariants: serializer tests run once; the description is the
// most useful label.
func serializerVariants(test fixture.Value) (string, int) {
	obj, ok := test.(fixture.Object)
	if !ok {
		return "", 1
	}
	return obj.GetString("description"), 1
}

func runJSONSuite(ctx context.Context, cfg Config, files []string, variants variantFunc) (Summary, error) {
	var s Summary
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		rel := relPath(cfg.TestsRoot, path)

		doc, err := fixture.DecodeFile(path)
		if err != nil {
			s.Total++
			s.recordFailure(decodeFailure(rel, fmt.Sprintf("fixture error: %v", err)), cfg.MaxFailures)
			continue
		}

		tests, err := testsArray(doc)
		if err != nil {
			s.Total++
			s.recordFailure(decodeFailure(rel, err.Error()), cfg.MaxFailures)
			continue
		}

		for i, test := range tests {
			input, n := variants(test)
			for v := 0; v < n; v++ {
				s.Total++
				s.recordFailure(Failure{
					File:      rel,
					CaseIndex: i,
					Label:     "n/a",
					Input:     input,
					Expected:  "(implemented engine output)",
					Actual:    "(unimplemented)",
				}, cfg.MaxFailures)
				if cfg.FailFast {
					return s, nil
				}
			}
		}
	}
	return s, nil
}

// testsArray requires the fixture's top-level object and its tests array.
func testsArray(doc fixture.Value) ([]fixture.Value, error) {
	obj, ok := doc.(fixture.Object)
	if !ok {
		return nil, fmt.Errorf("top-level value is not an object")
	}
	arr := obj.GetArray("tests")
	if arr == nil {
		return nil, fmt.Errorf("missing top-level tests array")
	}
	return arr, nil
}

func decodeFailure(rel, msg string) Failure {
	return Failure{
		File:      rel,
		CaseIndex: 0,
		Label:     "n/a",
		Input:     msg,
		Expected:  "(decodable fixture)",
		Actual:    "(decode error)",
	}
}
