package repository

import (
	"context"
	"time"

	"tripdocs-service/internal/domain/entity"
	"tripdocs-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTripBatchRepository implements TripBatchWriter over a multi-document
// transaction: the parent type update and every child record commit
// together or not at all.
type MongoTripBatchRepository struct {
	client         *mongo.Client
	documents      *mongo.Collection
	flights        *mongo.Collection
	accommodations *mongo.Collection
}

// NewMongoTripBatchRepository creates a new batch writer
func NewMongoTripBatchRepository(client *mongo.Client, db *mongo.Database) repository.TripBatchWriter {
	flights := db.Collection("flight_info")
	accommodations := db.Collection("accommodation_info")

	// Children are looked up by parent document
	ctx := context.Background()
	parentIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "trip_id", Value: 1},
			{Key: "document_id", Value: 1},
		},
	}
	flights.Indexes().CreateOne(ctx, parentIndex)
	accommodations.Indexes().CreateOne(ctx, parentIndex)

	return &MongoTripBatchRepository{
		client:         client,
		documents:      db.Collection("documents"),
		flights:        flights,
		accommodations: accommodations,
	}
}

// CommitBatch writes one processing run's records atomically
func (r *MongoTripBatchRepository) CommitBatch(ctx context.Context, batch *entity.TripBatch) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	now := time.Now()

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		parentUpdate := bson.M{
			"$set": bson.M{
				"type":          batch.DocType,
				"classified_at": batch.ClassifiedAt,
			},
		}
		filter := bson.M{"trip_id": batch.TripID, "document_id": batch.DocumentID}
		if _, err := r.documents.UpdateOne(sc, filter, parentUpdate); err != nil {
			return nil, err
		}

		if len(batch.Flights) > 0 {
			legs := make([]interface{}, 0, len(batch.Flights))
			for _, leg := range batch.Flights {
				if leg.ID == "" {
					leg.ID = primitive.NewObjectID().Hex()
				}
				leg.TripID = batch.TripID
				leg.DocumentID = batch.DocumentID
				leg.IngestRunID = batch.IngestRunID
				leg.CreatedAt = now
				legs = append(legs, leg)
			}
			if _, err := r.flights.InsertMany(sc, legs); err != nil {
				return nil, err
			}
		}

		if len(batch.Accommodations) > 0 {
			stays := make([]interface{}, 0, len(batch.Accommodations))
			for _, stay := range batch.Accommodations {
				if stay.ID == "" {
					stay.ID = primitive.NewObjectID().Hex()
				}
				stay.TripID = batch.TripID
				stay.DocumentID = batch.DocumentID
				stay.IngestRunID = batch.IngestRunID
				stay.CreatedAt = now
				stays = append(stays, stay)
			}
			if _, err := r.accommodations.InsertMany(sc, stays); err != nil {
				return nil, err
			}
		}

		return nil, nil
	})

	return err
}
