package usecase

import (
	"context"
	"strings"

	"tripdocs-service/internal/domain/entity"
	"tripdocs-service/internal/domain/repository"
	"tripdocs-service/pkg/logger"
)

const classifyPrompt = `You are classifying a travel document image. Look at the document and decide which single category it belongs to:

- passport: a passport identity page
- visa: a visa sticker, stamp or approval letter
- flight: a flight ticket, e-ticket, boarding pass or airline itinerary
- train: a train or rail ticket or reservation
- hotel: a hotel, hostel or apartment booking confirmation
- rental: a car or vehicle rental agreement or confirmation
- cruise: a cruise booking or boarding document
- insurance: a travel insurance policy or certificate
- other: anything that does not fit the categories above

Respond with exactly one lowercase word from the list above and nothing else.`

// filenameRules map filename substrings to taxonomy labels. Order matters:
// "boarding_pass.pdf" must win over a later generic keyword.
var filenameRules = []struct {
	keyword string
	label   string
}{
	{"passport", entity.TypePassport},
	{"visa", entity.TypeVisa},
	{"boarding", entity.TypeFlight},
	{"flight", entity.TypeFlight},
	{"itinerary", entity.TypeFlight},
	{"train", entity.TypeTrain},
	{"rail", entity.TypeTrain},
	{"hotel", entity.TypeHotel},
	{"booking", entity.TypeHotel},
	{"reservation", entity.TypeHotel},
	{"rental", entity.TypeRental},
	{"car", entity.TypeRental},
	{"cruise", entity.TypeCruise},
	{"insurance", entity.TypeInsurance},
	{"policy", entity.TypeInsurance},
	{"ticket", entity.TypeFlight},
}

// Classifier assigns one taxonomy label to a document image. When no vision
// model is configured it falls back to a deterministic filename heuristic.
type Classifier struct {
	vision repository.VisionModel
	logger logger.Logger
}

// NewClassifier creates a new classifier; vision may be nil
func NewClassifier(vision repository.VisionModel, log logger.Logger) *Classifier {
	return &Classifier{
		vision: vision,
		logger: log,
	}
}

// Classify returns exactly one taxonomy label for the document. Model
// output outside the taxonomy is coerced to "other". Model invocation
// failure propagates so the caller can abort the run without partial state.
func (c *Classifier) Classify(ctx context.Context, image entity.DocumentImage, fileName string) (string, error) {
	if c.vision == nil {
		label := ClassifyByFilename(fileName)
		c.logger.Info("Vision model unconfigured, classified by filename",
			"fileName", fileName, "type", label)
		return label, nil
	}

	raw, err := c.vision.Generate(ctx, classifyPrompt, image)
	if err != nil {
		return "", err
	}

	label := strings.ToLower(strings.TrimSpace(raw))
	if !entity.IsTaxonomyLabel(label) {
		c.logger.Warn("Model returned a label outside the taxonomy, coercing to other",
			"raw", raw, "fileName", fileName)
		label = entity.TypeOther
	}
	return label, nil
}

// ClassifyByFilename maps filename keywords to a taxonomy label,
// defaulting to "other" when no keyword matches
func ClassifyByFilename(fileName string) string {
	name := strings.ToLower(fileName)
	for _, rule := range filenameRules {
		if strings.Contains(name, rule.keyword) {
			return rule.label
		}
	}
	return entity.TypeOther
}
