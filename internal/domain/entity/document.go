package entity

import (
	"time"
)

// Document type taxonomy. Classification output outside this set is coerced
// to TypeOther before it is trusted anywhere.
const (
	TypePassport  = "passport"
	TypeVisa      = "visa"
	TypeFlight    = "flight"
	TypeTrain     = "train"
	TypeHotel     = "hotel"
	TypeRental    = "rental"
	TypeCruise    = "cruise"
	TypeInsurance = "insurance"
	TypeOther     = "other"
)

// Taxonomy lists every valid document type label
var Taxonomy = []string{
	TypePassport,
	TypeVisa,
	TypeFlight,
	TypeTrain,
	TypeHotel,
	TypeRental,
	TypeCruise,
	TypeInsurance,
	TypeOther,
}

// IsTaxonomyLabel reports whether label is a member of the taxonomy
func IsTaxonomyLabel(label string) bool {
	for _, t := range Taxonomy {
		if label == t {
			return true
		}
	}
	return false
}

// Document process status
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
	StatusSkipped    = "SKIPPED"
)

// TravelDocument represents an uploaded travel document awaiting or past
// classification. Created by the upload pipeline; only the ingest processor
// mutates it.
type TravelDocument struct {
	ID               string                 `bson:"_id,omitempty"`
	TripID           string                 `bson:"trip_id"`
	DocumentID       string                 `bson:"document_id"`
	FileName         string                 `bson:"file_name,omitempty"`
	OriginalFileName string                 `bson:"original_file_name,omitempty"`
	DownloadURL      string                 `bson:"download_url,omitempty"`
	Type             string                 `bson:"type"`
	ClassifiedAt     *time.Time             `bson:"classified_at,omitempty"`
	CreatedAt        time.Time              `bson:"created_at"`
	ProcessStatus    string                 `bson:"process_status,omitempty"`
	ProcessStartedAt time.Time              `bson:"process_started_at,omitempty"`
	ProcessedAt      time.Time              `bson:"processed_at,omitempty"`
	ErrorDetail      string                 `bson:"error_detail,omitempty"`
	ExtractedData    map[string]interface{} `bson:"extracted_data,omitempty"`
}

// EffectiveFileName prefers the original upload name over the stored one
func (d *TravelDocument) EffectiveFileName() string {
	if d.OriginalFileName != "" {
		return d.OriginalFileName
	}
	return d.FileName
}

// DocumentImage is the fetched document content handed to the vision model
type DocumentImage struct {
	Data     []byte
	MIMEType string
}
