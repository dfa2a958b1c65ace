// internal/interface/repository/document_repo.go
package repository

import (
	"context"
	"fmt"
	"time"

	"tripdocs-service/internal/domain/entity"
	"tripdocs-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDocumentRepository implements the DocumentRepository interface
type MongoDocumentRepository struct {
	collection *mongo.Collection
}

// NewMongoDocumentRepository creates a new MongoDB travel document repository
func NewMongoDocumentRepository(db *mongo.Database) repository.DocumentRepository {
	collection := db.Collection("documents")

	// Create indexes for better performance
	ctx := context.Background()

	identityIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "trip_id", Value: 1},
			{Key: "document_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}

	// Index on process_status for finding documents by status
	processStatusIndex := mongo.IndexModel{
		Keys: bson.M{"process_status": 1},
	}

	// Compound index for finding pending documents efficiently
	pendingIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "process_status", Value: 1},
			{Key: "created_at", Value: 1},
		},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		identityIndex,
		processStatusIndex,
		pendingIndex,
	})

	return &MongoDocumentRepository{
		collection: collection,
	}
}

func identityFilter(tripID, documentID string) bson.M {
	return bson.M{"trip_id": tripID, "document_id": documentID}
}

// FindByID finds a document by trip and document id
func (r *MongoDocumentRepository) FindByID(ctx context.Context, tripID, documentID string) (*entity.TravelDocument, error) {
	var doc entity.TravelDocument
	err := r.collection.FindOne(ctx, identityFilter(tripID, documentID)).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// FindPending finds documents awaiting processing (PENDING status or unset)
func (r *MongoDocumentRepository) FindPending(ctx context.Context, limit int) ([]*entity.TravelDocument, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"process_status": ""},
			{"process_status": entity.StatusPending},
			{"process_status": bson.M{"$exists": false}},
		},
	}

	limit64 := int64(limit)
	cursor, err := r.collection.Find(ctx, filter, &options.FindOptions{
		Limit: &limit64,
		Sort:  bson.D{{Key: "created_at", Value: 1}}, // Process oldest first
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*entity.TravelDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	return docs, nil
}

// UpdateStatus updates the processing status and started time
func (r *MongoDocumentRepository) UpdateStatus(ctx context.Context, tripID, documentID, status string, startedAt time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"process_status": status,
		},
	}

	// Only set process_started_at when moving to PROCESSING
	if status == entity.StatusProcessing && !startedAt.IsZero() {
		update["$set"].(bson.M)["process_started_at"] = startedAt
	}

	result, err := r.collection.UpdateOne(ctx, identityFilter(tripID, documentID), update)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("no document found for trip %s document %s", tripID, documentID)
	}

	return nil
}

// UpdateType updates the classified document type and timestamp
func (r *MongoDocumentRepository) UpdateType(ctx context.Context, tripID, documentID, docType string, classifiedAt time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"type":          docType,
			"classified_at": classifiedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, identityFilter(tripID, documentID), update)
	if err != nil {
		return fmt.Errorf("failed to update type: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("no document found for trip %s document %s", tripID, documentID)
	}

	return nil
}

// MarkProcessed records the terminal outcome of a processing run
func (r *MongoDocumentRepository) MarkProcessed(ctx context.Context, tripID, documentID, status, errorDetail string, extractedData map[string]interface{}) error {
	update := bson.M{
		"$set": bson.M{
			"processed_at":   time.Now(),
			"process_status": status,
		},
	}

	if len(extractedData) > 0 {
		update["$set"].(bson.M)["extracted_data"] = extractedData
	}

	if errorDetail != "" {
		update["$set"].(bson.M)["error_detail"] = errorDetail
	}

	result, err := r.collection.UpdateOne(ctx, identityFilter(tripID, documentID), update)
	if err != nil {
		return fmt.Errorf("failed to mark as processed: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("no document found for trip %s document %s", tripID, documentID)
	}

	return nil
}

// ResetStaleProcessing resets documents stuck in PROCESSING back to PENDING
// so the poll loop redelivers them
func (r *MongoDocumentRepository) ResetStaleProcessing(ctx context.Context) error {
	staleTime := time.Now().Add(-5 * time.Minute)

	filter := bson.M{
		"process_status": entity.StatusProcessing,
		"$or": []bson.M{
			{"process_started_at": bson.M{"$lt": staleTime}},
			{"process_started_at": bson.M{"$exists": false}},
		},
	}

	update := bson.M{
		"$set": bson.M{
			"process_status": entity.StatusPending,
			"error_detail":   "Reset from stale PROCESSING state",
		},
	}

	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}
