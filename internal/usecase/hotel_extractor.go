package usecase

import (
	"context"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"tripdocs-service/internal/domain/entity"
	"tripdocs-service/internal/domain/repository"
	"tripdocs-service/pkg/logger"
)

const hotelExtractPrompt = `Extract every accommodation booking from this hotel document (booking confirmation, voucher or receipt).

Return a JSON object with this exact shape:
{
  "booking_reference": "reference shared by all bookings, or null",
  "accommodations": [
    {
      "hotel_name": "...", "address": "...",
      "check_in_date": "YYYY-MM-DDTHH:MM:SS",
      "check_out_date": "YYYY-MM-DDTHH:MM:SS",
      "reservation_number": "...", "confirmation_number": "...",
      "guest_name": "...", "room_type": "...", "room_number": "...",
      "number_of_guests": "...", "number_of_nights": "...",
      "hotel_chain": "...", "phone_number": "...", "email": "...",
      "total_amount": "...", "currency": "...",
      "cancellation_policy": "...", "special_requests": "..."
    }
  ]
}

Rules:
- Use the EXACT local clock time printed on the document. Do NOT convert between time zones or add any offset.
- Every date must use the YYYY-MM-DDTHH:MM:SS shape; use 00:00:00 when the document shows only a date.
- Write every value as a string; use null for any field not shown on the document.
- List bookings in the order they appear.
Respond with JSON only (no markdown).`

var hotelResponseSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"booking_reference": nullableString,
		"accommodations": map[string]interface{}{
			"type": []interface{}{"array", "null"},
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"hotel_name":          nullableString,
					"address":             nullableString,
					"check_in_date":       nullableString,
					"check_out_date":      nullableString,
					"reservation_number":  nullableString,
					"confirmation_number": nullableString,
					"guest_name":          nullableString,
					"room_type":           nullableString,
					"room_number":         nullableString,
					"number_of_guests":    nullableString,
					"number_of_nights":    nullableString,
					"hotel_chain":         nullableString,
					"phone_number":        nullableString,
					"email":               nullableString,
					"total_amount":        nullableString,
					"currency":            nullableString,
					"cancellation_policy": nullableString,
					"special_requests":    nullableString,
				},
			},
		},
	},
}

// RawAccommodation is one accommodation record exactly as the model
// returned it
type RawAccommodation struct {
	HotelName          string `json:"hotel_name"`
	Address            string `json:"address"`
	CheckInDate        string `json:"check_in_date"`
	CheckOutDate       string `json:"check_out_date"`
	ReservationNumber  string `json:"reservation_number"`
	ConfirmationNumber string `json:"confirmation_number"`
	GuestName          string `json:"guest_name"`
	RoomType           string `json:"room_type"`
	RoomNumber         string `json:"room_number"`
	NumberOfGuests     string `json:"number_of_guests"`
	NumberOfNights     string `json:"number_of_nights"`
	HotelChain         string `json:"hotel_chain"`
	PhoneNumber        string `json:"phone_number"`
	Email              string `json:"email"`
	TotalAmount        string `json:"total_amount"`
	Currency           string `json:"currency"`
	CancellationPolicy string `json:"cancellation_policy"`
	SpecialRequests    string `json:"special_requests"`
}

type hotelResponse struct {
	BookingReference string             `json:"booking_reference"`
	Accommodations   []RawAccommodation `json:"accommodations"`
}

// HotelExtractor pulls structured accommodation records out of a document
// already classified as a hotel document
type HotelExtractor struct {
	vision repository.VisionModel
	schema *jsonschema.Schema
	logger logger.Logger
}

// NewHotelExtractor creates a new hotel extractor
func NewHotelExtractor(vision repository.VisionModel, log logger.Logger) (*HotelExtractor, error) {
	schema, err := compileSchema("hotel-response.json", hotelResponseSchema)
	if err != nil {
		return nil, err
	}
	return &HotelExtractor{
		vision: vision,
		schema: schema,
		logger: log,
	}, nil
}

// Extract returns zero or more raw accommodation records plus the shared
// booking reference. Same parse-failure policy as the flight extractor.
func (e *HotelExtractor) Extract(ctx context.Context, image entity.DocumentImage) ([]RawAccommodation, string, error) {
	raw, err := e.vision.Generate(ctx, hotelExtractPrompt, image)
	if err != nil {
		return nil, "", err
	}

	payload := stripCodeFences(raw)
	if err := validateAgainstSchema(e.schema, payload); err != nil {
		e.logger.Warn("Hotel extraction response failed validation, treating as no accommodations",
			"error", err)
		return nil, "", nil
	}

	var response hotelResponse
	if err := json.Unmarshal([]byte(payload), &response); err != nil {
		e.logger.Warn("Hotel extraction response is not valid JSON, treating as no accommodations",
			"error", err)
		return nil, "", nil
	}

	if len(response.Accommodations) == 0 {
		e.logger.Info("No accommodations found in document")
		return nil, "", nil
	}

	e.logger.Info("Extracted accommodations",
		"count", len(response.Accommodations),
		"bookingReference", response.BookingReference)
	return response.Accommodations, response.BookingReference, nil
}
