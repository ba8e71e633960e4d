package harness

import "github.com/roach88/sift/internal/record"

// CaseResult is the outcome of one query case.
type CaseResult struct {
	// Query is the query text as written in the scenario.
	Query string `json:"query"`

	// Parsed is the normalized rendering of the parsed query.
	Parsed string `json:"parsed"`

	Expected []record.Value `json:"expected"`
	Actual   []record.Value `json:"actual"`
	Ordered  bool           `json:"ordered"`
	Pass     bool           `json:"pass"`

	// Warnings are static query diagnostics such as malformed patterns.
	// They never fail a case.
	Warnings []string `json:"warnings,omitempty"`

	// Error describes the mismatch when Pass is false.
	Error string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every case returned what it expected.
	Pass bool `json:"pass"`

	// Cases holds one result per scenario case, in order.
	Cases []CaseResult `json:"cases"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddCase records a case result. A failing case fails the scenario.
func (r *Result) AddCase(c CaseResult) {
	r.Cases = append(r.Cases, c)
	if !c.Pass {
		r.AddError(c.Error)
	}
}

// Passed counts the passing cases.
func (r *Result) Passed() int {
	n := 0
	for _, c := range r.Cases {
		if c.Pass {
			n++
		}
	}
	return n
}
