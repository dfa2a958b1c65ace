package entity

import "time"

// FlightLeg is one directional flight segment extracted from a travel
// document. A document with a multi-segment ticket produces several legs
// sharing one booking reference. Legs are immutable once written;
// re-processing a document appends new legs.
type FlightLeg struct {
	ID                 string     `bson:"_id,omitempty"`
	TripID             string     `bson:"trip_id"`
	DocumentID         string     `bson:"document_id"`
	FlightNumber       string     `bson:"flight_number,omitempty"`
	Airline            string     `bson:"airline,omitempty"`
	OriginCode         string     `bson:"origin_code,omitempty"`
	DestinationCode    string     `bson:"destination_code,omitempty"`
	DepartureTime      *time.Time `bson:"departure_time,omitempty"`
	ArrivalTime        *time.Time `bson:"arrival_time,omitempty"`
	Gate               string     `bson:"gate,omitempty"`
	Terminal           string     `bson:"terminal,omitempty"`
	Seat               string     `bson:"seat,omitempty"`
	ConfirmationNumber string     `bson:"confirmation_number,omitempty"`
	PassengerName      string     `bson:"passenger_name,omitempty"`
	TicketNumber       string     `bson:"ticket_number,omitempty"`
	ClassOfService     string     `bson:"class_of_service,omitempty"`
	Status             string     `bson:"status,omitempty"`
	FlightIndex        int        `bson:"flight_index"`
	BookingReference   string     `bson:"booking_reference,omitempty"`
	OriginPlace        *Place     `bson:"origin_place,omitempty"`
	DestinationPlace   *Place     `bson:"destination_place,omitempty"`
	IngestRunID        string     `bson:"ingest_run_id,omitempty"`
	ExtractedAt        time.Time  `bson:"extracted_at"`
	CreatedAt          time.Time  `bson:"created_at"`
}
