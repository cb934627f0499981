// Package adapter turns raw listing-page markup into ordered product
// field-sets. It is the only layer that knows CSS selectors; everything
// downstream (image cache, diff, store) works on the extracted fields.
package adapter

import (
	"fmt"

	"StoreWatch/internal/models"
)

// PageAdapter extracts structured product fields from one page of raw
// markup. Implementations must be side-effect free: no caching, no network.
type PageAdapter interface {
	// Extract returns the listing's products in document order. An empty
	// result is valid and means "no products listed"; a missing container
	// structure is an ExtractionError.
	Extract(pageContent string) ([]models.RawProductFields, error)
}

// ExtractionError reports that the page's expected container structure is
// absent — usually a site redesign. Operators need to tell this apart from
// "site unreachable", so it is a distinct type from the fetch errors.
type ExtractionError struct {
	Selector string
	Reason   string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %s (selector %q)", e.Reason, e.Selector)
}
