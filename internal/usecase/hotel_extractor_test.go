package usecase

import (
	"context"
	"testing"

	"tripdocs-service/internal/domain/entity"
	"tripdocs-service/pkg/logger"
)

const oneStayResponse = `{
  "booking_reference": "HB-778899",
  "accommodations": [
    {
      "hotel_name": "The Oberoi Grand",
      "address": "15 Jawaharlal Nehru Rd, Kolkata",
      "check_in_date": "2025-07-24T14:00:00",
      "check_out_date": "2025-07-27T11:00:00",
      "guest_name": "A Traveller",
      "number_of_guests": "2",
      "number_of_nights": "3",
      "total_amount": "45000.00",
      "currency": "INR"
    }
  ]
}`

func newTestHotelExtractor(t *testing.T, vision *fakeVision) *HotelExtractor {
	t.Helper()
	e, err := NewHotelExtractor(vision, logger.NewNopLogger())
	if err != nil {
		t.Fatalf("failed to build extractor: %v", err)
	}
	return e
}

func TestHotelExtractParsesResponse(t *testing.T) {
	e := newTestHotelExtractor(t, staticVision(oneStayResponse, nil))

	stays, bookingRef, err := e.Extract(context.Background(), entity.DocumentImage{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bookingRef != "HB-778899" {
		t.Fatalf("expected booking reference HB-778899, got %q", bookingRef)
	}
	if len(stays) != 1 {
		t.Fatalf("expected 1 accommodation, got %d", len(stays))
	}
	stay := stays[0]
	if stay.HotelName != "The Oberoi Grand" {
		t.Fatalf("unexpected hotel name %q", stay.HotelName)
	}
	// Numeric-looking values stay verbatim strings
	if stay.NumberOfGuests != "2" || stay.NumberOfNights != "3" || stay.TotalAmount != "45000.00" {
		t.Fatalf("numeric fields altered: %q %q %q", stay.NumberOfGuests, stay.NumberOfNights, stay.TotalAmount)
	}
	if stay.CheckInDate != "2025-07-24T14:00:00" {
		t.Fatalf("check-in altered: %q", stay.CheckInDate)
	}
}

func TestHotelExtractMalformedJSONIsNotAnError(t *testing.T) {
	e := newTestHotelExtractor(t, staticVision("```json\nnot json at all\n```", nil))

	stays, bookingRef, err := e.Extract(context.Background(), entity.DocumentImage{})
	if err != nil {
		t.Fatalf("malformed output must not fail the run: %v", err)
	}
	if stays != nil || bookingRef != "" {
		t.Fatalf("expected no accommodations, got %v / %q", stays, bookingRef)
	}
}

func TestHotelExtractEmptyAccommodations(t *testing.T) {
	e := newTestHotelExtractor(t, staticVision(`{"booking_reference": "X", "accommodations": []}`, nil))

	stays, bookingRef, err := e.Extract(context.Background(), entity.DocumentImage{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stays != nil || bookingRef != "" {
		t.Fatalf("empty list should drop the booking reference too, got %v / %q", stays, bookingRef)
	}
}
