package entity

import "encoding/json"

// LatLng is a WGS84 coordinate pair
type LatLng struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// Place is a resolved place attached to a flight leg or accommodation.
// It is produced by the resolver, never authored by the user.
type Place struct {
	PlaceID          string  `bson:"place_id" json:"place_id"`
	Name             string  `bson:"name" json:"name"`
	FormattedAddress string  `bson:"formatted_address,omitempty" json:"formatted_address,omitempty"`
	Location         *LatLng `bson:"location,omitempty" json:"location,omitempty"`
	PlaceType        string  `bson:"place_type,omitempty" json:"place_type,omitempty"`
}

// DisplayName mirrors the Places API displayName object
type DisplayName struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// PlacePhoto mirrors the Places API photo resource; Name is the photo
// resource path used to build media URLs
type PlacePhoto struct {
	Name string `json:"name"`
}

// PlaceDetails is the Places API detail shape forwarded by the proxy
// endpoints. PhotoURLs is filled in by the proxy, not the upstream API.
type PlaceDetails struct {
	ID               string       `json:"id"`
	DisplayName      DisplayName  `json:"displayName"`
	FormattedAddress string       `json:"formattedAddress,omitempty"`
	Location         *LatLng      `json:"location,omitempty"`
	Rating           float64      `json:"rating,omitempty"`
	UserRatingCount  int          `json:"userRatingCount,omitempty"`
	Types            []string     `json:"types,omitempty"`
	Photos           []PlacePhoto `json:"photos,omitempty"`
	PhotoURLs        []string     `json:"photoUrls,omitempty"`
}

// PlacePrediction is one autocomplete prediction. Text and StructuredFormat
// are passed through untouched.
type PlacePrediction struct {
	PlaceID          string          `json:"placeId"`
	Text             json.RawMessage `json:"text,omitempty"`
	StructuredFormat json.RawMessage `json:"structuredFormat,omitempty"`
}

// AutocompleteSuggestion wraps a prediction the way the Places API does
type AutocompleteSuggestion struct {
	PlacePrediction *PlacePrediction `json:"placePrediction,omitempty"`
}
