package repository

import (
	"context"

	"tutor-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TurnRepository struct {
	Col *mongo.Collection
}

func NewTurnRepository(db *mongo.Database) *TurnRepository {
	return &TurnRepository{Col: db.Collection("turns")}
}

func (r *TurnRepository) SaveTurn(ctx context.Context, turn *models.Turn) error {
	res, err := r.Col.InsertOne(ctx, turn)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		turn.ID = oid.Hex()
	}
	return nil
}

func (r *TurnRepository) FindByLoop(ctx context.Context, loopID string) ([]models.Turn, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sequence_order", Value: 1}})
	cursor, err := r.Col.Find(ctx, bson.M{"loop_id": loopID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var turns []models.Turn
	if err := cursor.All(ctx, &turns); err != nil {
		return nil, err
	}
	return turns, nil
}
