package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tripdocs-service/internal/domain/entity"
	"tripdocs-service/pkg/logger"
)

// scriptedVision answers the classification and extraction prompts
// independently, the way one model instance serves both stages
func scriptedVision(classifyResponse, extractResponse string, extractErr error) *fakeVision {
	return &fakeVision{
		generate: func(ctx context.Context, prompt string, image entity.DocumentImage) (string, error) {
			if strings.Contains(prompt, "classifying a travel document") {
				return classifyResponse, nil
			}
			if extractErr != nil {
				return "", extractErr
			}
			return extractResponse, nil
		},
	}
}

func newTestProcessor(t *testing.T, repo *fakeDocRepo, vision *fakeVision, searcher *fakeSearcher, batch *fakeBatchWriter) *DocumentProcessor {
	t.Helper()
	log := logger.NewNopLogger()

	classifier := NewClassifier(vision, log)
	resolver := NewPlaceResolver(searcher, testMetrics, log)
	estimator := NewDurationEstimator(nil, log)
	enricher := NewEnricher(resolver, estimator, false, log)

	router := &fakeRouter{}
	flightExtractor, err := NewFlightExtractor(vision, log)
	if err != nil {
		t.Fatalf("failed to build flight extractor: %v", err)
	}
	hotelExtractor, err := NewHotelExtractor(vision, log)
	if err != nil {
		t.Fatalf("failed to build hotel extractor: %v", err)
	}
	router.Register(NewFlightDocumentHandler(flightExtractor, enricher, batch, testMetrics, log))
	router.Register(NewHotelDocumentHandler(hotelExtractor, enricher, batch, testMetrics, log))

	fetcher := &fakeFetcher{image: entity.DocumentImage{Data: []byte("img"), MIMEType: "image/png"}}
	return NewDocumentProcessor(repo, fetcher, classifier, router, testMetrics, log)
}

func pendingDoc() *entity.TravelDocument {
	return &entity.TravelDocument{
		TripID:        "trip-1",
		DocumentID:    "doc-1",
		FileName:      "upload.pdf",
		DownloadURL:   "https://files.example.com/upload.pdf",
		ProcessStatus: entity.StatusPending,
	}
}

func TestProcessDocumentBatchFailureWritesNoChildRecords(t *testing.T) {
	doc := pendingDoc()
	repo := newFakeDocRepo(doc)
	batch := &fakeBatchWriter{err: errors.New("transaction aborted")}
	vision := scriptedVision("flight", twoLegResponse, nil)

	p := newTestProcessor(t, repo, vision, &fakeSearcher{}, batch)
	p.ProcessDocument(context.Background(), doc)

	if len(batch.batches) != 0 {
		t.Fatalf("failed commit must persist zero child records, got %d batches", len(batch.batches))
	}
	if doc.ProcessStatus != entity.StatusCompleted {
		t.Fatalf("classification result must survive a failed batch, status %s", doc.ProcessStatus)
	}
	if persisted, ok := doc.ExtractedData["persisted"]; !ok || persisted != false {
		t.Fatalf("expected persisted=false recorded, got %v", doc.ExtractedData)
	}
}

func TestProcessDocumentTwoLegsWithPartialPlaceMatch(t *testing.T) {
	doc := pendingDoc()
	repo := newFakeDocRepo(doc)
	batch := &fakeBatchWriter{}
	searcher := &fakeSearcher{results: map[string][]entity.Place{
		"CCU airport": {{PlaceID: "place-ccu", Name: "Netaji Subhas Chandra Bose International Airport"}},
	}}
	vision := scriptedVision("flight", twoLegResponse, nil)

	p := newTestProcessor(t, repo, vision, searcher, batch)
	p.ProcessDocument(context.Background(), doc)

	if doc.ProcessStatus != entity.StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s (%s)", doc.ProcessStatus, doc.ErrorDetail)
	}
	if len(batch.batches) != 1 {
		t.Fatalf("expected one committed batch, got %d", len(batch.batches))
	}

	legs := batch.batches[0].Flights
	if len(legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(legs))
	}
	if legs[0].FlightIndex != 0 || legs[1].FlightIndex != 1 {
		t.Fatalf("leg indices wrong: %d, %d", legs[0].FlightIndex, legs[1].FlightIndex)
	}
	// Leg 0 is CCU->BLR, leg 1 is BLR->CCU; only CCU resolved
	if legs[0].OriginPlace == nil || legs[0].DestinationPlace != nil {
		t.Fatalf("leg 0 place attachment wrong: %+v / %+v", legs[0].OriginPlace, legs[0].DestinationPlace)
	}
	if legs[1].OriginPlace != nil || legs[1].DestinationPlace == nil {
		t.Fatalf("leg 1 place attachment wrong: %+v / %+v", legs[1].OriginPlace, legs[1].DestinationPlace)
	}
	if legs[0].BookingReference != "ABC123" || legs[1].BookingReference != "ABC123" {
		t.Fatalf("booking reference not shared across legs")
	}
}

func TestProcessDocumentMissingDownloadURL(t *testing.T) {
	doc := pendingDoc()
	doc.DownloadURL = ""
	repo := newFakeDocRepo(doc)

	p := newTestProcessor(t, repo, scriptedVision("flight", twoLegResponse, nil), &fakeSearcher{}, &fakeBatchWriter{})
	p.ProcessDocument(context.Background(), doc)

	if doc.ProcessStatus != entity.StatusFailed {
		t.Fatalf("expected FAILED, got %s", doc.ProcessStatus)
	}
	if doc.ErrorDetail == "" {
		t.Fatal("expected error detail recorded")
	}
	if len(repo.statusUpdates) != 0 {
		t.Fatalf("document must not be claimed without a download url: %v", repo.statusUpdates)
	}
}

func TestProcessDocumentFetchFailure(t *testing.T) {
	doc := pendingDoc()
	repo := newFakeDocRepo(doc)
	p := newTestProcessor(t, repo, scriptedVision("flight", twoLegResponse, nil), &fakeSearcher{}, &fakeBatchWriter{})
	p.fetcher = &fakeFetcher{err: errors.New("404 fetching document")}

	p.ProcessDocument(context.Background(), doc)

	if doc.ProcessStatus != entity.StatusFailed {
		t.Fatalf("expected FAILED, got %s", doc.ProcessStatus)
	}
}

func TestProcessDocumentExtractionFailureStillCompletes(t *testing.T) {
	doc := pendingDoc()
	repo := newFakeDocRepo(doc)
	batch := &fakeBatchWriter{}
	vision := scriptedVision("flight", "", errors.New("model overloaded"))

	p := newTestProcessor(t, repo, vision, &fakeSearcher{}, batch)
	p.ProcessDocument(context.Background(), doc)

	if doc.ProcessStatus != entity.StatusCompleted {
		t.Fatalf("extraction failure must not fail the run, got %s (%s)", doc.ProcessStatus, doc.ErrorDetail)
	}
	if len(repo.typeUpdates) != 1 || repo.typeUpdates[0] != entity.TypeFlight {
		t.Fatalf("classification result must persist on its own: %v", repo.typeUpdates)
	}
	if count, ok := doc.ExtractedData["flight_count"]; !ok || count != 0 {
		t.Fatalf("expected flight_count 0, got %v", doc.ExtractedData)
	}
	if len(batch.batches) != 0 {
		t.Fatalf("nothing to commit, got %d batches", len(batch.batches))
	}
}

func TestProcessDocumentNeverOverwritesTypeWithOther(t *testing.T) {
	doc := pendingDoc()
	doc.Type = entity.TypeFlight
	repo := newFakeDocRepo(doc)
	vision := scriptedVision("banana", "", nil)

	p := newTestProcessor(t, repo, vision, &fakeSearcher{}, &fakeBatchWriter{})
	p.ProcessDocument(context.Background(), doc)

	if len(repo.typeUpdates) != 0 {
		t.Fatalf("an other result must not touch the stored type: %v", repo.typeUpdates)
	}
	if doc.Type != entity.TypeFlight {
		t.Fatalf("stored type overwritten: %s", doc.Type)
	}
	if doc.ProcessStatus != entity.StatusSkipped {
		t.Fatalf("expected SKIPPED for unhandled type, got %s", doc.ProcessStatus)
	}
}

func TestProcessDocumentPassportIsTerminalWithoutExtraction(t *testing.T) {
	doc := pendingDoc()
	repo := newFakeDocRepo(doc)
	vision := scriptedVision("passport", "", nil)

	p := newTestProcessor(t, repo, vision, &fakeSearcher{}, &fakeBatchWriter{})
	p.ProcessDocument(context.Background(), doc)

	if doc.ProcessStatus != entity.StatusSkipped {
		t.Fatalf("expected SKIPPED, got %s", doc.ProcessStatus)
	}
	if len(repo.typeUpdates) != 1 || repo.typeUpdates[0] != entity.TypePassport {
		t.Fatalf("expected type persisted as passport: %v", repo.typeUpdates)
	}
	if reason, ok := doc.ExtractedData["reason"]; !ok || reason != "no_extraction_for_type" {
		t.Fatalf("expected skip reason recorded, got %v", doc.ExtractedData)
	}
}

func TestProcessPendingDocuments(t *testing.T) {
	docA := pendingDoc()
	docB := &entity.TravelDocument{
		TripID:      "trip-1",
		DocumentID:  "doc-2",
		FileName:    "other.pdf",
		DownloadURL: "https://files.example.com/other.pdf",
	}
	repo := newFakeDocRepo(docA, docB)
	vision := scriptedVision("passport", "", nil)

	p := newTestProcessor(t, repo, vision, &fakeSearcher{}, &fakeBatchWriter{})
	if err := p.ProcessPendingDocuments(context.Background(), 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.markedStatuses) != 2 {
		t.Fatalf("expected both pending documents processed, got %d", len(repo.markedStatuses))
	}
	if docA.ProcessStatus != entity.StatusSkipped || docB.ProcessStatus != entity.StatusSkipped {
		t.Fatalf("unexpected statuses: %s / %s", docA.ProcessStatus, docB.ProcessStatus)
	}
}
