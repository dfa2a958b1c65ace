package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tripdocs-service/internal/domain/entity"
	"tripdocs-service/internal/domain/repository"
	"tripdocs-service/pkg/logger"
	"tripdocs-service/pkg/metrics"
	"tripdocs-service/pkg/timeutil"
)

// Place category restrictions for resolver queries
const (
	categoryAirport = "airport"
	categoryLodging = "lodging"
)

// PlaceResolver resolves a free-text location query to the single best
// matching place. Best-effort: any upstream failure or zero results is
// "no match", never an error.
type PlaceResolver struct {
	places  repository.PlaceSearcher
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewPlaceResolver creates a new place resolver; m may be nil
func NewPlaceResolver(places repository.PlaceSearcher, m *metrics.Metrics, log logger.Logger) *PlaceResolver {
	return &PlaceResolver{
		places:  places,
		metrics: m,
		logger:  log,
	}
}

// Resolve returns the top match for the query or nil
func (r *PlaceResolver) Resolve(ctx context.Context, query, category string) *entity.Place {
	results, err := r.places.TextSearch(ctx, query, category, 1)
	if err != nil {
		r.logger.Warn("Place lookup failed", "query", query, "category", category, "error", err)
		r.countLookup("error")
		return nil
	}
	if len(results) == 0 {
		r.logger.Debug("Place lookup returned no results", "query", query, "category", category)
		r.countLookup("miss")
		return nil
	}
	r.countLookup("hit")
	place := results[0]
	return &place
}

func (r *PlaceResolver) countLookup(outcome string) {
	if r.metrics != nil {
		r.metrics.PlacesLookups.WithLabelValues(outcome).Inc()
	}
}

// Enricher runs the per-record enrichment stages over extracted records:
// timestamp normalization, place resolution and the optional arrival-time
// backfill. Every stage is total; a failed stage degrades the record
// instead of failing it.
type Enricher struct {
	resolver        *PlaceResolver
	estimator       *DurationEstimator
	backfillArrival bool
	logger          logger.Logger
}

// NewEnricher creates a new enricher. backfillArrival selects the policy
// for missing arrival times: estimate from the route duration, or leave
// null and trust the extractor's output exclusively.
func NewEnricher(resolver *PlaceResolver, estimator *DurationEstimator, backfillArrival bool, log logger.Logger) *Enricher {
	return &Enricher{
		resolver:        resolver,
		estimator:       estimator,
		backfillArrival: backfillArrival,
		logger:          log,
	}
}

// EnrichFlight turns one raw flight segment into a persistable leg. All
// originally extracted fields are carried over unchanged; place fields are
// attached only when the resolver found a match.
func (e *Enricher) EnrichFlight(ctx context.Context, raw RawFlight, index int, bookingReference string) (*entity.FlightLeg, error) {
	if raw == (RawFlight{}) {
		return nil, fmt.Errorf("empty flight record at index %d", index)
	}

	leg := &entity.FlightLeg{
		FlightNumber:       strings.TrimSpace(raw.FlightNumber),
		Airline:            strings.TrimSpace(raw.Airline),
		OriginCode:         normalizeIATACode(raw.OriginCode),
		DestinationCode:    normalizeIATACode(raw.DestinationCode),
		Gate:               raw.Gate,
		Terminal:           raw.Terminal,
		Seat:               raw.Seat,
		ConfirmationNumber: raw.ConfirmationNumber,
		PassengerName:      raw.PassengerName,
		TicketNumber:       raw.TicketNumber,
		ClassOfService:     raw.ClassOfService,
		Status:             raw.Status,
		FlightIndex:        index,
		BookingReference:   bookingReference,
		ExtractedAt:        time.Now(),
	}

	leg.DepartureTime = e.normalizeTime(raw.DepartureTime, "departure_time", index)
	leg.ArrivalTime = e.normalizeTime(raw.ArrivalTime, "arrival_time", index)

	if leg.OriginCode != "" {
		leg.OriginPlace = e.resolver.Resolve(ctx, leg.OriginCode+" airport", categoryAirport)
	}
	if leg.DestinationCode != "" {
		leg.DestinationPlace = e.resolver.Resolve(ctx, leg.DestinationCode+" airport", categoryAirport)
	}

	if e.backfillArrival && leg.ArrivalTime == nil && leg.DepartureTime != nil &&
		leg.OriginCode != "" && leg.DestinationCode != "" {
		estimated := leg.DepartureTime.Add(e.estimator.Estimate(ctx, leg.OriginCode, leg.DestinationCode))
		leg.ArrivalTime = &estimated
		e.logger.Info("Backfilled arrival time from route estimate",
			"segment", index,
			"origin", leg.OriginCode,
			"destination", leg.DestinationCode,
			"arrival", estimated.Format("2006-01-02 15:04:05"))
	}

	return leg, nil
}

// EnrichAccommodation turns one raw accommodation record into a
// persistable stay. When the resolver finds a match its formatted address
// is preferred over the extracted one.
func (e *Enricher) EnrichAccommodation(ctx context.Context, raw RawAccommodation, index int, bookingReference string) (*entity.Accommodation, error) {
	if raw == (RawAccommodation{}) {
		return nil, fmt.Errorf("empty accommodation record at index %d", index)
	}

	stay := &entity.Accommodation{
		HotelName:          strings.TrimSpace(raw.HotelName),
		Address:            strings.TrimSpace(raw.Address),
		ReservationNumber:  raw.ReservationNumber,
		ConfirmationNumber: raw.ConfirmationNumber,
		GuestName:          raw.GuestName,
		RoomType:           raw.RoomType,
		RoomNumber:         raw.RoomNumber,
		NumberOfGuests:     raw.NumberOfGuests,
		NumberOfNights:     raw.NumberOfNights,
		HotelChain:         raw.HotelChain,
		PhoneNumber:        raw.PhoneNumber,
		Email:              raw.Email,
		TotalAmount:        raw.TotalAmount,
		Currency:           raw.Currency,
		CancellationPolicy: raw.CancellationPolicy,
		SpecialRequests:    raw.SpecialRequests,
		AccommodationIndex: index,
		BookingReference:   bookingReference,
		ExtractedAt:        time.Now(),
	}

	stay.CheckInDate = e.normalizeTime(raw.CheckInDate, "check_in_date", index)
	stay.CheckOutDate = e.normalizeTime(raw.CheckOutDate, "check_out_date", index)

	if stay.HotelName != "" {
		query := stay.HotelName
		if stay.Address != "" {
			query += " " + stay.Address
		}
		if place := e.resolver.Resolve(ctx, query, categoryLodging); place != nil {
			stay.Place = place
			stay.PlaceID = place.PlaceID
			if place.FormattedAddress != "" {
				stay.Address = place.FormattedAddress
			}
		}
	}

	return stay, nil
}

// normalizeTime converts a model-returned timestamp, dropping invalid
// values with a warning rather than failing the record
func (e *Enricher) normalizeTime(value, field string, index int) *time.Time {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	t, err := timeutil.Normalize(value)
	if err != nil {
		e.logger.Warn("Dropping unparseable timestamp", "field", field, "record", index, "value", value)
		return nil
	}
	return &t
}

// normalizeIATACode keeps only plausible 3-letter IATA codes
func normalizeIATACode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return ""
	}
	return code
}
