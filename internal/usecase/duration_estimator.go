package usecase

import (
	"context"
	"strings"
	"time"

	"tripdocs-service/internal/domain/repository"
	"tripdocs-service/pkg/logger"
)

// staticRoutes holds known route durations used when no route database is
// configured or the database misses. Keys are "ORIGIN-DESTINATION".
var staticRoutes = map[string]time.Duration{
	"CCU-BLR": 2*time.Hour + 30*time.Minute,
	"CCU-DEL": 2*time.Hour + 15*time.Minute,
	"MAA-BLR": 1 * time.Hour,
	"BLR-HYD": 1*time.Hour + 15*time.Minute,
	"DEL-DXB": 3*time.Hour + 45*time.Minute,
	"BOM-SIN": 5*time.Hour + 30*time.Minute,
	"SIN-HKG": 3*time.Hour + 55*time.Minute,
	"JFK-LHR": 6*time.Hour + 55*time.Minute,
	"LHR-CDG": 1*time.Hour + 20*time.Minute,
	"DXB-LHR": 7*time.Hour + 30*time.Minute,
}

// airportCountries maps the airports the static table knows about to their
// country, so an unknown pairing of known airports can still be classified
// as domestic or international.
var airportCountries = map[string]string{
	"CCU": "IN",
	"DEL": "IN",
	"BLR": "IN",
	"MAA": "IN",
	"BOM": "IN",
	"HYD": "IN",
	"DXB": "AE",
	"SIN": "SG",
	"HKG": "HK",
	"JFK": "US",
	"LHR": "GB",
	"CDG": "FR",
}

// Fallbacks when a route is unknown. A pair inside one country is treated
// as short-haul; anything else, including unrecognized codes, as long-haul.
const (
	internationalFallback = 6 * time.Hour
	domesticFallback      = 2 * time.Hour
)

// DurationEstimator returns a best-effort flight duration for an
// origin/destination pair. Lookup order: route database, static table,
// reversed static table, country-based fallback. It always returns a value.
type DurationEstimator struct {
	routes repository.RouteRepository
	logger logger.Logger
}

// NewDurationEstimator creates a new estimator; routes may be nil
func NewDurationEstimator(routes repository.RouteRepository, log logger.Logger) *DurationEstimator {
	return &DurationEstimator{
		routes: routes,
		logger: log,
	}
}

// Estimate returns the estimated flight duration between two airports
func (e *DurationEstimator) Estimate(ctx context.Context, originCode, destinationCode string) time.Duration {
	origin := strings.ToUpper(strings.TrimSpace(originCode))
	destination := strings.ToUpper(strings.TrimSpace(destinationCode))

	if e.routes != nil {
		if d, err := e.routes.GetDuration(ctx, origin, destination); err == nil && d > 0 {
			return d
		}
	}

	if d, ok := staticRoutes[origin+"-"+destination]; ok {
		return d
	}
	if d, ok := staticRoutes[destination+"-"+origin]; ok {
		return d
	}

	originCountry, originKnown := airportCountries[origin]
	destinationCountry, destinationKnown := airportCountries[destination]
	if originKnown && destinationKnown && originCountry == destinationCountry {
		return domesticFallback
	}
	return internationalFallback
}
