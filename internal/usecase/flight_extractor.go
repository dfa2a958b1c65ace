package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"tripdocs-service/internal/domain/entity"
	"tripdocs-service/internal/domain/repository"
	"tripdocs-service/pkg/logger"
)

const flightExtractPrompt = `Extract every flight segment from this flight document (ticket, boarding pass or itinerary).

Return a JSON object with this exact shape:
{
  "booking_reference": "PNR shared by all segments, or null",
  "flights": [
    {
      "flight_number": "e.g. AI302",
      "airline": "airline name",
      "origin_code": "3-letter IATA code or null",
      "destination_code": "3-letter IATA code or null",
      "departure_time": "YYYY-MM-DDTHH:MM:SS",
      "arrival_time": "YYYY-MM-DDTHH:MM:SS or null",
      "gate": "...", "terminal": "...", "seat": "...",
      "confirmation_number": "...", "passenger_name": "...",
      "ticket_number": "...", "class_of_service": "...", "status": "..."
    }
  ]
}

Rules:
- Use the EXACT local clock time printed on the document. Do NOT convert between time zones or add any offset.
- Every date-time must use the YYYY-MM-DDTHH:MM:SS shape.
- Use null for any field not shown on the document.
- List segments in the order they appear.
Respond with JSON only (no markdown).`

// nullableString allows string or null for every extracted field
var nullableString = map[string]interface{}{"type": []interface{}{"string", "null"}}

var flightResponseSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"booking_reference": nullableString,
		"flights": map[string]interface{}{
			"type": []interface{}{"array", "null"},
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"flight_number":       nullableString,
					"airline":             nullableString,
					"origin_code":         nullableString,
					"destination_code":    nullableString,
					"departure_time":      nullableString,
					"arrival_time":        nullableString,
					"gate":                nullableString,
					"terminal":            nullableString,
					"seat":                nullableString,
					"confirmation_number": nullableString,
					"passenger_name":      nullableString,
					"ticket_number":       nullableString,
					"class_of_service":    nullableString,
					"status":              nullableString,
				},
			},
		},
	},
}

// RawFlight is one flight segment exactly as the model returned it, before
// any field is trusted or enriched
type RawFlight struct {
	FlightNumber       string `json:"flight_number"`
	Airline            string `json:"airline"`
	OriginCode         string `json:"origin_code"`
	DestinationCode    string `json:"destination_code"`
	DepartureTime      string `json:"departure_time"`
	ArrivalTime        string `json:"arrival_time"`
	Gate               string `json:"gate"`
	Terminal           string `json:"terminal"`
	Seat               string `json:"seat"`
	ConfirmationNumber string `json:"confirmation_number"`
	PassengerName      string `json:"passenger_name"`
	TicketNumber       string `json:"ticket_number"`
	ClassOfService     string `json:"class_of_service"`
	Status             string `json:"status"`
}

type flightResponse struct {
	BookingReference string      `json:"booking_reference"`
	Flights          []RawFlight `json:"flights"`
}

// FlightExtractor pulls structured flight legs out of a document already
// classified as a flight document
type FlightExtractor struct {
	vision repository.VisionModel
	schema *jsonschema.Schema
	logger logger.Logger
}

// NewFlightExtractor creates a new flight extractor
func NewFlightExtractor(vision repository.VisionModel, log logger.Logger) (*FlightExtractor, error) {
	schema, err := compileSchema("flight-response.json", flightResponseSchema)
	if err != nil {
		return nil, err
	}
	return &FlightExtractor{
		vision: vision,
		schema: schema,
		logger: log,
	}, nil
}

// Extract returns zero or more raw flight legs plus the shared booking
// reference. Malformed model output is "no flights found", not an error;
// only the model call itself can fail.
func (e *FlightExtractor) Extract(ctx context.Context, image entity.DocumentImage) ([]RawFlight, string, error) {
	raw, err := e.vision.Generate(ctx, flightExtractPrompt, image)
	if err != nil {
		return nil, "", err
	}

	payload := stripCodeFences(raw)
	if err := validateAgainstSchema(e.schema, payload); err != nil {
		e.logger.Warn("Flight extraction response failed validation, treating as no flights",
			"error", err)
		return nil, "", nil
	}

	var response flightResponse
	if err := json.Unmarshal([]byte(payload), &response); err != nil {
		e.logger.Warn("Flight extraction response is not valid JSON, treating as no flights",
			"error", err)
		return nil, "", nil
	}

	if len(response.Flights) == 0 {
		e.logger.Info("No flights found in document")
		return nil, "", nil
	}

	e.logger.Info("Extracted flight segments",
		"count", len(response.Flights),
		"bookingReference", response.BookingReference)
	return response.Flights, response.BookingReference, nil
}

// stripCodeFences removes a markdown code-fence wrapper from model output
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func compileSchema(name string, schemaMap map[string]interface{}) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// validateAgainstSchema checks untrusted model output before any field of
// it is read
func validateAgainstSchema(schema *jsonschema.Schema, payload string) error {
	var v interface{}
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
