// Package verify wraps the external volume-authenticity and token-safety
// providers behind fail-closed boolean checks.
package verify

// Verdict classifies the outcome of a verification check. The pipeline only
// cares whether the check passed, but keeping the rejection class around
// makes the logs diagnosable.
type Verdict int

const (
	Accepted Verdict = iota
	RejectedByPolicy
	RejectedByFailure
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case RejectedByPolicy:
		return "rejected_by_policy"
	case RejectedByFailure:
		return "rejected_by_failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of one verification check.
type Result struct {
	Verdict Verdict
	Reason  string
}

// OK reports whether the check admitted the candidate.
func (r Result) OK() bool {
	return r.Verdict == Accepted
}

func accepted() Result {
	return Result{Verdict: Accepted}
}

func rejectedByPolicy(reason string) Result {
	return Result{Verdict: RejectedByPolicy, Reason: reason}
}

func rejectedByFailure(reason string) Result {
	return Result{Verdict: RejectedByFailure, Reason: reason}
}
