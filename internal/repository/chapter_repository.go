package repository

import (
	"context"
	"log"

	"tutor-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChapterRepository struct {
	Col *mongo.Collection
}

func NewChapterRepository(db *mongo.Database) *ChapterRepository {
	return &ChapterRepository{Col: db.Collection("chapters")}
}

func (r *ChapterRepository) FindByID(ctx context.Context, id int) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&chapter); err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *ChapterRepository) FindAll(ctx context.Context) ([]models.Chapter, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.Col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var chapters []models.Chapter
	if err := cursor.All(ctx, &chapters); err != nil {
		return nil, err
	}
	return chapters, nil
}

// Seed inserts the default curriculum when the collection is empty.
func (r *ChapterRepository) Seed(ctx context.Context) error {
	count, err := r.Col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	chapters := models.DefaultChapters()
	docs := make([]interface{}, len(chapters))
	for i, c := range chapters {
		docs[i] = c
	}
	if _, err := r.Col.InsertMany(ctx, docs); err != nil {
		return err
	}
	log.Printf("Seeded %d chapters", len(chapters))
	return nil
}
