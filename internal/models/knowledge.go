package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Document is a chunk of learning material with its embedding vector.
type Document struct {
	ID       string    `bson:"_id,omitempty" json:"id"`
	Content  string    `bson:"content" json:"content"`
	Source   string    `bson:"source" json:"source"`
	Metadata bson.M    `bson:"metadata" json:"metadata"`
	Vector   []float64 `bson:"vector" json:"vector"`
	Created  time.Time `bson:"created_at" json:"created_at"`
}

// Passage is a search hit returned to the QnA agent.
type Passage struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}
