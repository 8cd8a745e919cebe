// Package runner executes discovered fixtures against a parsing engine and
// aggregates pass/fail results.
//
// Concurrency model: files are statically partitioned into contiguous
// chunks, one goroutine per chunk. Each worker owns a private Summary that
// it alone appends to and reports exactly once; the dispatcher is the only
// place merge arithmetic happens, so no lock is needed anywhere. Fail-fast
// and the failure cap are cooperative early-exit checks between cases and
// files — the merge step is what authoritatively enforces the cap.
package runner

// Failure records one genuine mismatch, or a fixture decode/read problem
// encountered while processing a case.
type Failure struct {
	// File is the fixture path relative to the tests root.
	File string
	// CaseIndex is the zero-based index of the case within the file.
	CaseIndex int
	// Label tags which variant of the case failed, e.g. the scripting mode
	// ("on"/"off"), or "n/a" for decode failures.
	Label string
	// Input is the case's raw input, or a description of the decode error.
	Input string
	// Expected and Actual hold the normalized canonical texts that were
	// compared, or placeholders for decode failures.
	Expected string
	Actual   string
}

// Summary aggregates results for a file, a chunk, or a whole suite.
type Summary struct {
	Total    int
	Passed   int
	Failed   int
	Failures []Failure
}

// Merge folds other into s: counts add field-wise, failure lists
// concatenate and are truncated to maxFailures. The cap holds after every
// merge, never just at the end.
func (s *Summary) Merge(other Summary, maxFailures int) {
	s.Total += other.Total
	s.Passed += other.Passed
	s.Failed += other.Failed
	if len(s.Failures) < maxFailures {
		s.Failures = append(s.Failures, other.Failures...)
		if len(s.Failures) > maxFailures {
			s.Failures = s.Failures[:maxFailures]
		}
	}
}

// recordFailure counts a failure and keeps its detail if the budget allows.
func (s *Summary) recordFailure(f Failure, budget int) {
	s.Failed++
	if len(s.Failures) < budget {
		s.Failures = append(s.Failures, f)
	}
}
