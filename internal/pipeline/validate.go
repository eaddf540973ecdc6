package pipeline

import (
	"github.com/richhaase/aifix/internal/domain"
)

// Delta classifies the outcome of re-linting touched files against the
// errors known before the batch was applied.
type Delta struct {
	// Resolved errors no longer appear.
	Resolved []domain.LintError
	// StillPresent errors survived the fix attempt.
	StillPresent []domain.LintError
	// Introduced errors are new since the fix, i.e. regressions.
	Introduced []domain.LintError
}

// ComputeDelta compares the before and after error sets of the touched
// files. Identity is (file, signature), so an error moving between
// files counts as resolved in one and introduced in the other.
// Regressions inherit the most urgent category among the batch errors
// in their file.
func ComputeDelta(before, after []domain.LintError) Delta {
	type key struct {
		file string
		sig  string
	}

	afterSet := make(map[key]bool, len(after))
	for _, e := range after {
		afterSet[key{e.File, e.Signature()}] = true
	}

	beforeSet := make(map[key]bool, len(before))
	originByFile := make(map[string]string)
	for _, e := range before {
		beforeSet[key{e.File, e.Signature()}] = true
		if cur, ok := originByFile[e.File]; !ok || lessUrgentCategory(cur, e.Category) {
			originByFile[e.File] = e.Category
		}
	}

	var delta Delta
	for _, e := range before {
		if afterSet[key{e.File, e.Signature()}] {
			delta.StillPresent = append(delta.StillPresent, e)
		} else {
			delta.Resolved = append(delta.Resolved, e)
		}
	}
	for _, e := range after {
		if !beforeSet[key{e.File, e.Signature()}] {
			e.OriginCategory = originByFile[e.File]
			delta.Introduced = append(delta.Introduced, e)
		}
	}
	return delta
}

// lessUrgentCategory reports whether a is less urgent than b.
func lessUrgentCategory(a, b string) bool {
	pa := (&domain.LintError{Category: a}).Priority()
	pb := (&domain.LintError{Category: b}).Priority()
	return pa > pb
}

// signatureSet builds the per-file signature identity set used for
// fixed-point detection across iterations.
func signatureSet(errs []domain.LintError) map[string]bool {
	set := make(map[string]bool, len(errs))
	for _, e := range errs {
		set[e.File+"\x00"+e.Signature()] = true
	}
	return set
}

// sameSignatureSet reports whether two sets are identical.
func sameSignatureSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
