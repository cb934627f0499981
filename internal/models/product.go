package models

import "time"

// ProductRecord is one known product in the persisted store. The display
// name is the identity key: the listing page exposes no stable external ID,
// so two records never share a Name and a rename looks like a new product.
type ProductRecord struct {
	Name       string    `json:"name"`
	PageURL    string    `json:"pageUrl"`
	ImageID    string    `json:"imageId,omitempty"`
	ImageURL   string    `json:"imageUrl"`
	Price      string    `json:"price"`
	CachedTime time.Time `json:"cachedTime,omitempty"`
}

// RawProductFields is what the page adapter extracts for a single listing
// entry before any image resolution or diffing happens. All fields are raw
// strings straight from the markup, except ImageReference which is already
// normalized (size token resolved, query stripped) so that the same image
// fetched on different days compares equal.
type RawProductFields struct {
	Name            string
	PageURLFragment string
	ImageReference  string
	PriceText       string
}

// CycleStats summarizes one completed watch cycle for the history ledger
// and the status endpoint.
type CycleStats struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	State      string    `json:"state"` // terminal state, "idle" on success
	Seen       int       `json:"seen"`
	New        int       `json:"new"`
	Notified   int       `json:"notified"`
	Bootstrap  bool      `json:"bootstrap"`
	Error      string    `json:"error,omitempty"`
}
