// Package pipeline drives the iterative fix loop: aggregate, classify,
// fix, validate, repeat until convergence or budget exhaustion.
package pipeline

import (
	"github.com/richhaase/aifix/internal/classify"
	"github.com/richhaase/aifix/internal/domain"
)

// Default batch sizes per complexity. Complex errors are fixed one at
// a time; simple ones in bulk.
const (
	DefaultBatchSimple   = 10
	DefaultBatchModerate = 3
	DefaultBatchComplex  = 1
)

// BatchSizes configures the per-complexity batch limits.
type BatchSizes struct {
	Simple   int
	Moderate int
	Complex  int
}

// DefaultBatchSizes returns the standard limits.
func DefaultBatchSizes() BatchSizes {
	return BatchSizes{
		Simple:   DefaultBatchSimple,
		Moderate: DefaultBatchModerate,
		Complex:  DefaultBatchComplex,
	}
}

// forComplexity returns the size limit for a bucket, never below 1.
func (s BatchSizes) forComplexity(c domain.Complexity) int {
	var n int
	switch c {
	case domain.ComplexitySimple:
		n = s.Simple
	case domain.ComplexityModerate:
		n = s.Moderate
	case domain.ComplexityComplex:
		n = s.Complex
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Batch is one unit of sequential fix work.
type Batch struct {
	Complexity domain.Complexity
	Errors     []domain.LintError
}

// processOrder fixes hard problems first so the cheap bulk work never
// papers over a security fix.
var processOrder = []domain.Complexity{
	domain.ComplexityComplex,
	domain.ComplexityModerate,
	domain.ComplexitySimple,
}

// Partition splits errors into bounded batches ordered complex,
// moderate, simple. The input order inside each bucket is preserved,
// so identical input yields identical batches. singleIssue forces
// every batch to one error.
func Partition(errs []domain.LintError, classifier *classify.Classifier, sizes BatchSizes, singleIssue bool) []Batch {
	buckets := make(map[domain.Complexity][]domain.LintError)
	for _, e := range errs {
		c := classifier.Complexity(&e)
		buckets[c] = append(buckets[c], e)
	}

	var batches []Batch
	for _, c := range processOrder {
		bucket := buckets[c]
		size := sizes.forComplexity(c)
		if singleIssue {
			size = 1
		}
		for start := 0; start < len(bucket); start += size {
			end := start + size
			if end > len(bucket) {
				end = len(bucket)
			}
			batches = append(batches, Batch{Complexity: c, Errors: bucket[start:end]})
		}
	}
	return batches
}
