package entity

import "time"

// Accommodation is one hotel stay extracted from a travel document.
// Numeric-looking fields (guests, nights, amounts) are kept verbatim as the
// document shows them; nothing is re-derived at extraction time.
type Accommodation struct {
	ID                 string     `bson:"_id,omitempty"`
	TripID             string     `bson:"trip_id"`
	DocumentID         string     `bson:"document_id"`
	HotelName          string     `bson:"hotel_name,omitempty"`
	Address            string     `bson:"address,omitempty"`
	CheckInDate        *time.Time `bson:"check_in_date,omitempty"`
	CheckOutDate       *time.Time `bson:"check_out_date,omitempty"`
	ReservationNumber  string     `bson:"reservation_number,omitempty"`
	ConfirmationNumber string     `bson:"confirmation_number,omitempty"`
	GuestName          string     `bson:"guest_name,omitempty"`
	RoomType           string     `bson:"room_type,omitempty"`
	RoomNumber         string     `bson:"room_number,omitempty"`
	NumberOfGuests     string     `bson:"number_of_guests,omitempty"`
	NumberOfNights     string     `bson:"number_of_nights,omitempty"`
	HotelChain         string     `bson:"hotel_chain,omitempty"`
	PhoneNumber        string     `bson:"phone_number,omitempty"`
	Email              string     `bson:"email,omitempty"`
	TotalAmount        string     `bson:"total_amount,omitempty"`
	Currency           string     `bson:"currency,omitempty"`
	CancellationPolicy string     `bson:"cancellation_policy,omitempty"`
	SpecialRequests    string     `bson:"special_requests,omitempty"`
	AccommodationIndex int        `bson:"accommodation_index"`
	BookingReference   string     `bson:"booking_reference,omitempty"`
	PlaceID            string     `bson:"place_id,omitempty"`
	Place              *Place     `bson:"place,omitempty"`
	IngestRunID        string     `bson:"ingest_run_id,omitempty"`
	ExtractedAt        time.Time  `bson:"extracted_at"`
	CreatedAt          time.Time  `bson:"created_at"`
}
