// Package images implements image set reconciliation and fetch/verify.
package images

import "github.com/bnema/senzup/internal/domain"

// Reconcile returns desired ∩ present. An empty intersection (nothing pulled
// yet, or the present set could not be enumerated) yields the full desired
// set, so the result is never empty when desired is not.
func Reconcile(desired, present domain.ImageSet) domain.ImageSet {
	both := desired.Intersect(present)
	if len(both) == 0 {
		return domain.NewImageSet(desired.Sorted()...)
	}
	return both
}
