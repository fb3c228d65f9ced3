package repository

import (
	"context"

	"tutor-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SummaryRepository struct {
	Col *mongo.Collection
}

func NewSummaryRepository(db *mongo.Database) *SummaryRepository {
	return &SummaryRepository{Col: db.Collection("loop_summaries")}
}

func (r *SummaryRepository) Save(ctx context.Context, summary *models.LoopSummary) error {
	res, err := r.Col.InsertOne(ctx, summary)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		summary.ID = oid.Hex()
	}
	return nil
}

// LoadRecent returns the user's most recent loop summaries, newest first.
func (r *SummaryRepository) LoadRecent(ctx context.Context, userID string, limit int) ([]models.LoopSummary, error) {
	if limit <= 0 {
		limit = 5
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "ended_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.Col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var summaries []models.LoopSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}
