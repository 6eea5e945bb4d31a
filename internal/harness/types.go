package harness

import "github.com/roach88/santa/internal/ir"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: expectations met and every assertion holds.
	Pass bool `json:"pass"`

	// Runs is the number of draws attempted.
	Runs int `json:"runs"`

	// Successes is the number of runs that produced a draw.
	Successes int `json:"successes"`

	// Failures counts failed runs by generation error code.
	Failures map[string]int `json:"failures,omitempty"`

	// Draws holds every successful draw in run order.
	Draws []*ir.Draw `json:"-"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Failures: make(map[string]int),
		Draws:    []*ir.Draw{},
		Errors:   []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// SuccessRate returns Successes/Runs, or 0 when nothing ran.
func (r *Result) SuccessRate() float64 {
	if r.Runs == 0 {
		return 0
	}
	return float64(r.Successes) / float64(r.Runs)
}
