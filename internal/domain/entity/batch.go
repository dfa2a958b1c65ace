package entity

import "time"

// TripBatch is everything one document-processing run persists: the parent
// document's classification update plus every extracted child record. The
// writer commits it as a single unit; partial visibility of one run's
// records is disallowed.
type TripBatch struct {
	TripID         string
	DocumentID     string
	DocType        string
	ClassifiedAt   time.Time
	Flights        []*FlightLeg
	Accommodations []*Accommodation
	IngestRunID    string
}
