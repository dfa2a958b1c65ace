package repository

import (
	"context"

	"tripdocs-service/internal/domain/entity"
)

// PlaceSearcher is the slice of the places directory the enrichment
// pipeline needs: a category-restricted free-text search.
type PlaceSearcher interface {
	// TextSearch returns up to maxResults places matching the query,
	// restricted to the given primary type (e.g. "airport", "lodging")
	TextSearch(ctx context.Context, query, includedType string, maxResults int) ([]entity.Place, error)
}

// PlacesDirectory is the full places capability consumed by the proxy
// endpoints
type PlacesDirectory interface {
	PlaceSearcher

	// Details fetches place details by id
	Details(ctx context.Context, placeID string) (*entity.PlaceDetails, error)

	// Autocomplete returns place predictions for a free-text input
	Autocomplete(ctx context.Context, input string, includedPrimaryTypes []string) ([]entity.AutocompleteSuggestion, error)

	// Photos fetches the photo resources of a place
	Photos(ctx context.Context, placeID string) ([]entity.PlacePhoto, error)

	// SearchNearby finds places of the given types within radiusMeters of
	// a point
	SearchNearby(ctx context.Context, center entity.LatLng, radiusMeters float64, includedTypes []string, maxResults int) ([]entity.PlaceDetails, error)

	// PhotoURL builds a media URL for a photo resource name
	PhotoURL(photoName string, maxWidthPx int) string
}
