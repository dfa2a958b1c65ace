package usecase

import (
	"context"
	"errors"
	"testing"

	"tripdocs-service/internal/domain/entity"
	"tripdocs-service/pkg/logger"
)

func TestClassifyCoercesUnknownLabelToOther(t *testing.T) {
	c := NewClassifier(staticVision("banana", nil), logger.NewNopLogger())

	label, err := c.Classify(context.Background(), entity.DocumentImage{}, "doc.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != entity.TypeOther {
		t.Fatalf("expected other, got %s", label)
	}
}

func TestClassifyTrimsAndLowercasesModelOutput(t *testing.T) {
	c := NewClassifier(staticVision("  Flight\n", nil), logger.NewNopLogger())

	label, err := c.Classify(context.Background(), entity.DocumentImage{}, "doc.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != entity.TypeFlight {
		t.Fatalf("expected flight, got %s", label)
	}
}

func TestClassifyPropagatesModelError(t *testing.T) {
	modelErr := errors.New("rate limited")
	c := NewClassifier(staticVision("", modelErr), logger.NewNopLogger())

	if _, err := c.Classify(context.Background(), entity.DocumentImage{}, "doc.pdf"); !errors.Is(err, modelErr) {
		t.Fatalf("expected model error to propagate, got %v", err)
	}
}

func TestClassifyFallsBackToFilenameWithoutVision(t *testing.T) {
	c := NewClassifier(nil, logger.NewNopLogger())

	label, err := c.Classify(context.Background(), entity.DocumentImage{}, "boarding_pass_123.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != entity.TypeFlight {
		t.Fatalf("expected flight from filename fallback, got %s", label)
	}
}

func TestClassifyByFilename(t *testing.T) {
	cases := []struct {
		fileName string
		want     string
	}{
		{"boarding_pass_123.pdf", entity.TypeFlight},
		{"random.pdf", entity.TypeOther},
		{"Passport_Scan.jpg", entity.TypePassport},
		{"schengen-visa.pdf", entity.TypeVisa},
		{"Hotel_Booking.pdf", entity.TypeHotel},
		{"train-reservation.pdf", entity.TypeTrain},
		{"car_rental_agreement.pdf", entity.TypeRental},
		{"cruise-confirmation.pdf", entity.TypeCruise},
		{"travel_insurance_policy.pdf", entity.TypeInsurance},
		{"e-ticket.pdf", entity.TypeFlight},
		{"", entity.TypeOther},
	}
	for _, c := range cases {
		if got := ClassifyByFilename(c.fileName); got != c.want {
			t.Fatalf("ClassifyByFilename(%q) = %s, want %s", c.fileName, got, c.want)
		}
	}
}
