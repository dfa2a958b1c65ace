package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tripdocs-service/internal/domain/entity"
	"tripdocs-service/internal/domain/repository"
	"tripdocs-service/pkg/logger"
)

const (
	searchFieldMask       = "places.id,places.displayName,places.formattedAddress,places.location,places.types"
	detailsFieldMask      = "id,displayName,formattedAddress,location,rating,userRatingCount,types,photos"
	photosFieldMask       = "photos"
	nearbyFieldMask       = "places.photos"
	autocompleteFieldMask = "suggestions.placePrediction.placeId,suggestions.placePrediction.text,suggestions.placePrediction.structuredFormat"
)

// Client talks to the Google Places API v1
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  logger.Logger
}

// NewClient creates a new Places API client
func NewClient(baseURL, apiKey string, log logger.Logger) repository.PlacesDirectory {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  log,
	}
}

func (c *Client) do(ctx context.Context, method, url, fieldMask string, body interface{}, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return fmt.Errorf("places API returned status %d: %v", resp.StatusCode, errorBody)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// TextSearch searches places by free-text query restricted to one primary type
func (c *Client) TextSearch(ctx context.Context, query, includedType string, maxResults int) ([]entity.Place, error) {
	reqBody := map[string]interface{}{
		"textQuery":      query,
		"maxResultCount": maxResults,
	}
	if includedType != "" {
		reqBody["includedType"] = includedType
	}

	var response struct {
		Places []entity.PlaceDetails `json:"places"`
	}
	url := fmt.Sprintf("%s/places:searchText", c.baseURL)
	if err := c.do(ctx, http.MethodPost, url, searchFieldMask, reqBody, &response); err != nil {
		return nil, err
	}

	places := make([]entity.Place, 0, len(response.Places))
	for _, p := range response.Places {
		places = append(places, entity.Place{
			PlaceID:          p.ID,
			Name:             p.DisplayName.Text,
			FormattedAddress: p.FormattedAddress,
			Location:         p.Location,
			PlaceType:        includedType,
		})
	}
	return places, nil
}

// Details fetches place details by id
func (c *Client) Details(ctx context.Context, placeID string) (*entity.PlaceDetails, error) {
	var details entity.PlaceDetails
	url := fmt.Sprintf("%s/places/%s", c.baseURL, placeID)
	if err := c.do(ctx, http.MethodGet, url, detailsFieldMask, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// Autocomplete returns place predictions for a free-text input
func (c *Client) Autocomplete(ctx context.Context, input string, includedPrimaryTypes []string) ([]entity.AutocompleteSuggestion, error) {
	reqBody := map[string]interface{}{
		"input": input,
	}
	if len(includedPrimaryTypes) > 0 {
		reqBody["includedPrimaryTypes"] = includedPrimaryTypes
	}

	var response struct {
		Suggestions []entity.AutocompleteSuggestion `json:"suggestions"`
	}
	url := fmt.Sprintf("%s/places:autocomplete", c.baseURL)
	if err := c.do(ctx, http.MethodPost, url, autocompleteFieldMask, reqBody, &response); err != nil {
		return nil, err
	}
	return response.Suggestions, nil
}

// Photos fetches the photo resources of a place
func (c *Client) Photos(ctx context.Context, placeID string) ([]entity.PlacePhoto, error) {
	var response struct {
		Photos []entity.PlacePhoto `json:"photos"`
	}
	url := fmt.Sprintf("%s/places/%s", c.baseURL, placeID)
	if err := c.do(ctx, http.MethodGet, url, photosFieldMask, nil, &response); err != nil {
		return nil, err
	}
	return response.Photos, nil
}

// SearchNearby finds places of the given types within radiusMeters of a point
func (c *Client) SearchNearby(ctx context.Context, center entity.LatLng, radiusMeters float64, includedTypes []string, maxResults int) ([]entity.PlaceDetails, error) {
	reqBody := map[string]interface{}{
		"locationRestriction": map[string]interface{}{
			"circle": map[string]interface{}{
				"center": map[string]interface{}{
					"latitude":  center.Latitude,
					"longitude": center.Longitude,
				},
				"radius": radiusMeters,
			},
		},
		"includedTypes":  includedTypes,
		"maxResultCount": maxResults,
	}

	var response struct {
		Places []entity.PlaceDetails `json:"places"`
	}
	url := fmt.Sprintf("%s/places:searchNearby", c.baseURL)
	if err := c.do(ctx, http.MethodPost, url, nearbyFieldMask, reqBody, &response); err != nil {
		return nil, err
	}
	return response.Places, nil
}

// PhotoURL builds a media URL for a photo resource name
func (c *Client) PhotoURL(photoName string, maxWidthPx int) string {
	return fmt.Sprintf("%s/%s/media?maxWidthPx=%d&key=%s", c.baseURL, photoName, maxWidthPx, c.apiKey)
}
