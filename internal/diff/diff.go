// Package diff classifies freshly extracted products against the set of
// already-known records. It is a pure function layer: no I/O, no mutation
// of its inputs.
package diff

import "StoreWatch/internal/models"

// New returns the subset of current records whose Name does not appear in
// known. Matching is exact and case-sensitive; the returned slice keeps
// the order of current (document order of the listing page).
func New(current []models.ProductRecord, known []models.ProductRecord) []models.ProductRecord {
	knownNames := make(map[string]struct{}, len(known))
	for _, rec := range known {
		knownNames[rec.Name] = struct{}{}
	}

	fresh := []models.ProductRecord{}
	for _, rec := range current {
		if _, ok := knownNames[rec.Name]; !ok {
			fresh = append(fresh, rec)
		}
	}
	return fresh
}
