package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tripdocs-service/internal/domain/entity"
	"tripdocs-service/internal/domain/repository"
	"tripdocs-service/pkg/logger"
)

// Destination search restricts autocomplete to geography-level results
var destinationTypes = []string{"locality", "country", "administrative_area_level_1"}

const (
	searchPhotoLimit  = 3
	searchPhotoWidth  = 200
	defaultMaxPhotos  = 20
	defaultPhotoWidth = 800
	nearbyRadius      = 1000.0
	nearbyMaxResults  = 5
)

// PlacesHandler exposes the places-proxy endpoints: stateless forwarders
// that reshape Places API calls for the travel-planning client
type PlacesHandler struct {
	places repository.PlacesDirectory
	logger logger.Logger
}

// NewPlacesHandler creates a new places proxy handler
func NewPlacesHandler(places repository.PlacesDirectory, log logger.Logger) *PlacesHandler {
	return &PlacesHandler{
		places: places,
		logger: log,
	}
}

// Routes mounts the proxy endpoints on a chi router
func (h *PlacesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/destinations/search", h.searchDestinations)
	r.Post("/autocomplete", h.autocomplete)
	r.Get("/places/{placeID}", h.getPlaceDetails)
	r.Get("/places/{placeID}/photos", h.getPlacePhotos)
	return r
}

type inputRequest struct {
	Input string `json:"input"`
}

// searchDestinations chains autocomplete and per-prediction details, adding
// up to three photo URLs per place. Per-place failures are skipped, not
// surfaced.
func (h *PlacesHandler) searchDestinations(w http.ResponseWriter, r *http.Request) {
	var req inputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Input == "" {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}

	h.logger.Info("Searching destinations", "input", req.Input)

	suggestions, err := h.places.Autocomplete(r.Context(), req.Input, destinationTypes)
	if err != nil {
		h.logger.Error("Destination autocomplete failed", "input", req.Input, "error", err)
		writeError(w, http.StatusBadGateway, "search destinations failed")
		return
	}

	places := make([]*entity.PlaceDetails, 0, len(suggestions))
	seen := make(map[string]bool)

	for _, suggestion := range suggestions {
		prediction := suggestion.PlacePrediction
		if prediction == nil || prediction.PlaceID == "" || seen[prediction.PlaceID] {
			continue
		}
		seen[prediction.PlaceID] = true

		details, err := h.places.Details(r.Context(), prediction.PlaceID)
		if err != nil {
			h.logger.Warn("Failed to get details for place", "placeId", prediction.PlaceID, "error", err)
			continue
		}

		details.PhotoURLs = h.photoURLs(details.Photos, searchPhotoLimit, searchPhotoWidth)
		places = append(places, details)
	}

	h.logger.Info("Found destinations", "count", len(places))
	writeJSON(w, map[string]interface{}{"places": places})
}

// getPlaceDetails forwards a place details lookup
func (h *PlacesHandler) getPlaceDetails(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "placeID")
	if placeID == "" {
		writeError(w, http.StatusBadRequest, "place ID is required")
		return
	}

	details, err := h.places.Details(r.Context(), placeID)
	if err != nil {
		h.logger.Error("Place details request failed", "placeId", placeID, "error", err)
		writeError(w, http.StatusBadGateway, "get place details failed")
		return
	}

	h.logger.Info("Place details retrieved", "placeId", placeID, "name", details.DisplayName.Text)
	writeJSON(w, map[string]interface{}{"place": details})
}

// getPlacePhotos returns photo media URLs for a place, topping up from
// nearby tourist attractions when the place itself has too few photos
func (h *PlacesHandler) getPlacePhotos(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "placeID")
	if placeID == "" {
		writeError(w, http.StatusBadRequest, "place ID is required")
		return
	}

	maxPhotos := queryInt(r, "maxPhotos", defaultMaxPhotos)
	maxWidth := queryInt(r, "maxWidth", defaultPhotoWidth)

	photos, err := h.places.Photos(r.Context(), placeID)
	if err != nil {
		h.logger.Error("Photos request failed", "placeId", placeID, "error", err)
		writeError(w, http.StatusBadGateway, "get place photos failed")
		return
	}

	photoURLs := h.photoURLs(photos, maxPhotos, maxWidth)

	if len(photoURLs) < maxPhotos {
		h.logger.Info("Topping up photos from nearby places",
			"placeId", placeID, "have", len(photoURLs), "want", maxPhotos)
		photoURLs = h.nearbyPhotoURLs(r, placeID, photoURLs, maxPhotos, maxWidth)
	}

	h.logger.Info("Returning photo URLs", "placeId", placeID, "count", len(photoURLs))
	writeJSON(w, map[string]interface{}{"photos": photoURLs})
}

// nearbyPhotoURLs extends photoURLs with photos of tourist attractions
// around the place; any failure returns the list unchanged
func (h *PlacesHandler) nearbyPhotoURLs(r *http.Request, placeID string, photoURLs []string, maxPhotos, maxWidth int) []string {
	details, err := h.places.Details(r.Context(), placeID)
	if err != nil || details.Location == nil {
		h.logger.Warn("Skipping nearby photo top-up", "placeId", placeID, "error", err)
		return photoURLs
	}

	nearby, err := h.places.SearchNearby(r.Context(), *details.Location, nearbyRadius,
		[]string{"tourist_attraction"}, nearbyMaxResults)
	if err != nil {
		h.logger.Warn("Nearby search failed", "placeId", placeID, "error", err)
		return photoURLs
	}

	for _, place := range nearby {
		for _, photo := range place.Photos {
			if len(photoURLs) >= maxPhotos {
				return photoURLs
			}
			if photo.Name != "" {
				photoURLs = append(photoURLs, h.places.PhotoURL(photo.Name, maxWidth))
			}
		}
	}
	return photoURLs
}

// autocomplete forwards raw autocomplete suggestions
func (h *PlacesHandler) autocomplete(w http.ResponseWriter, r *http.Request) {
	var req inputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Input == "" {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}

	suggestions, err := h.places.Autocomplete(r.Context(), req.Input, destinationTypes)
	if err != nil {
		h.logger.Error("Autocomplete request failed", "input", req.Input, "error", err)
		writeError(w, http.StatusBadGateway, "get autocomplete suggestions failed")
		return
	}

	h.logger.Info("Autocomplete returned suggestions", "count", len(suggestions))
	writeJSON(w, map[string]interface{}{"suggestions": suggestions})
}

func (h *PlacesHandler) photoURLs(photos []entity.PlacePhoto, limit, maxWidth int) []string {
	urls := make([]string, 0, limit)
	for _, photo := range photos {
		if len(urls) >= limit {
			break
		}
		if photo.Name != "" {
			urls = append(urls, h.places.PhotoURL(photo.Name, maxWidth))
		}
	}
	return urls
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil && v > 0 {
		return v
	}
	return defaultValue
}

func writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
