package verify

import (
	"fmt"
	"io"
)

// CheckResult is the outcome of a single constraint check: the observed
// statistics and any failures found.
type CheckResult struct {
	Name     string
	Observed []string
	Failures []string
}

func (r *CheckResult) observef(format string, args ...any) {
	r.Observed = append(r.Observed, fmt.Sprintf(format, args...))
}

func (r *CheckResult) failf(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// Passed reports whether the check found no failures.
func (r *CheckResult) Passed() bool { return len(r.Failures) == 0 }

// Report is the verifier's full output: one result per constraint.
type Report struct {
	Results []CheckResult
}

// Passed is the logical AND of all per-constraint verdicts.
func (r *Report) Passed() bool {
	for i := range r.Results {
		if !r.Results[i].Passed() {
			return false
		}
	}
	return true
}

// Render writes the human-readable report: observed values per check, a
// PASS/FAIL summary table, and failure detail for anything that failed.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintln(w, "=== Constraint Verification ===")
	for i := range r.Results {
		res := &r.Results[i]
		fmt.Fprintf(w, "\n--- %s ---\n", res.Name)
		for _, line := range res.Observed {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	fmt.Fprintln(w)
	for i := range r.Results {
		res := &r.Results[i]
		status := "PASS"
		if !res.Passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(res.Failures))
		}
		fmt.Fprintf(w, "  %-44s %s\n", res.Name, status)
	}

	for i := range r.Results {
		res := &r.Results[i]
		if res.Passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s failures ---\n", res.Name)
		for j, f := range res.Failures {
			fmt.Fprintf(w, "  [%d] %s\n", j+1, f)
		}
	}

	fmt.Fprintln(w)
	if r.Passed() {
		fmt.Fprintln(w, "All constraints satisfied.")
	} else {
		fmt.Fprintln(w, "Verification FAILED.")
	}
}
