// Package notify delivers "new product" events to an outbound sink.
// Delivery results are returned to the caller, never thrown across the
// cycle boundary: a failed delivery is logged and does not roll back the
// persisted store.
package notify

import "fmt"

// NewProductEvent is the structured message handed to the sink for each
// newly discovered product.
type NewProductEvent struct {
	Title    string
	Price    string
	Link     string
	ImageURL string
}

// DeliveryError reports a failed outbound delivery. Non-fatal by contract:
// the store, not the notification stream, is the source of truth.
type DeliveryError struct {
	Sink string
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery via %s: %v", e.Sink, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Notifier accepts one event per new product. Implementations with
// delivery disabled or unconfigured must treat Notify as a no-op, not an
// error.
type Notifier interface {
	Notify(event NewProductEvent) error
}
