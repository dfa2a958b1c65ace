package usecase

import (
	"context"
	"sync"
	"time"

	"tripdocs-service/internal/domain/entity"
	"tripdocs-service/pkg/metrics"
)

// Shared registration; promauto registers globally, so one instance serves
// every test in the package.
var testMetrics = metrics.NewMetrics("usecase_test")

type fakeVision struct {
	generate func(ctx context.Context, prompt string, image entity.DocumentImage) (string, error)
}

func (f *fakeVision) Generate(ctx context.Context, prompt string, image entity.DocumentImage) (string, error) {
	return f.generate(ctx, prompt, image)
}

func staticVision(response string, err error) *fakeVision {
	return &fakeVision{
		generate: func(context.Context, string, entity.DocumentImage) (string, error) {
			return response, err
		},
	}
}

type fakeSearcher struct {
	results map[string][]entity.Place
	err     error
	queries []string
}

func (f *fakeSearcher) TextSearch(ctx context.Context, query, includedType string, maxResults int) ([]entity.Place, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

type fakeRoutes struct {
	duration time.Duration
	err      error
}

func (f *fakeRoutes) GetDuration(ctx context.Context, originCode, destinationCode string) (time.Duration, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.duration, nil
}

type fakeBatchWriter struct {
	mu      sync.Mutex
	err     error
	batches []*entity.TripBatch
}

func (f *fakeBatchWriter) CommitBatch(ctx context.Context, batch *entity.TripBatch) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, batch)
	return nil
}

type fakeFetcher struct {
	image entity.DocumentImage
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context, downloadURL string) (entity.DocumentImage, error) {
	return f.image, f.err
}

// fakeDocRepo is an in-memory document store recording every mutation the
// processor makes.
type fakeDocRepo struct {
	docs            map[string]*entity.TravelDocument
	statusErr       error
	typeUpdates     []string
	statusUpdates   []string
	markedStatuses  []string
	staleResetCalls int
}

func newFakeDocRepo(docs ...*entity.TravelDocument) *fakeDocRepo {
	repo := &fakeDocRepo{docs: make(map[string]*entity.TravelDocument)}
	for _, d := range docs {
		repo.docs[d.TripID+"/"+d.DocumentID] = d
	}
	return repo
}

func (r *fakeDocRepo) get(tripID, documentID string) *entity.TravelDocument {
	return r.docs[tripID+"/"+documentID]
}

func (r *fakeDocRepo) FindByID(ctx context.Context, tripID, documentID string) (*entity.TravelDocument, error) {
	return r.get(tripID, documentID), nil
}

func (r *fakeDocRepo) FindPending(ctx context.Context, limit int) ([]*entity.TravelDocument, error) {
	var pending []*entity.TravelDocument
	for _, d := range r.docs {
		if d.ProcessStatus == "" || d.ProcessStatus == entity.StatusPending {
			pending = append(pending, d)
		}
	}
	return pending, nil
}

func (r *fakeDocRepo) UpdateStatus(ctx context.Context, tripID, documentID, status string, startedAt time.Time) error {
	if r.statusErr != nil {
		return r.statusErr
	}
	r.statusUpdates = append(r.statusUpdates, status)
	if doc := r.get(tripID, documentID); doc != nil {
		doc.ProcessStatus = status
		if status == entity.StatusProcessing {
			doc.ProcessStartedAt = startedAt
		}
	}
	return nil
}

func (r *fakeDocRepo) UpdateType(ctx context.Context, tripID, documentID, docType string, classifiedAt time.Time) error {
	r.typeUpdates = append(r.typeUpdates, docType)
	if doc := r.get(tripID, documentID); doc != nil {
		doc.Type = docType
		doc.ClassifiedAt = &classifiedAt
	}
	return nil
}

func (r *fakeDocRepo) MarkProcessed(ctx context.Context, tripID, documentID, status, errorDetail string, extractedData map[string]interface{}) error {
	r.markedStatuses = append(r.markedStatuses, status)
	if doc := r.get(tripID, documentID); doc != nil {
		doc.ProcessStatus = status
		doc.ProcessedAt = time.Now()
		doc.ErrorDetail = errorDetail
		doc.ExtractedData = extractedData
	}
	return nil
}

func (r *fakeDocRepo) ResetStaleProcessing(ctx context.Context) error {
	r.staleResetCalls++
	return nil
}

// fakeRouter routes everything through a fixed handler set without the
// infrastructure router
type fakeRouter struct {
	handlers []DocumentHandler
}

func (r *fakeRouter) Register(handler DocumentHandler) {
	r.handlers = append(r.handlers, handler)
}

func (r *fakeRouter) GetHandler(docType string) DocumentHandler {
	for _, h := range r.handlers {
		if h.CanHandle(docType) {
			return h
		}
	}
	return nil
}
