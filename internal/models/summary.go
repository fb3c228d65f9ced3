package models

import "time"

// LoopSummary is the compressed record of one completed learning loop.
type LoopSummary struct {
	ID         string    `bson:"_id,omitempty" json:"id,omitempty"`
	LoopID     string    `bson:"loop_id" json:"loop_id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	ChapterID  int       `bson:"chapter_id" json:"chapter_id"`
	StartedAt  time.Time `bson:"started_at" json:"started_at"`
	EndedAt    time.Time `bson:"ended_at" json:"ended_at"`
	TurnCount  int       `bson:"turn_count" json:"turn_count"`
	AgentsUsed []string  `bson:"agents_used" json:"agents_used"`
	MainTopics []string  `bson:"main_topics" json:"main_topics"`
	MeanScore  float64   `bson:"mean_score" json:"mean_score"`
	Decision   string    `bson:"decision,omitempty" json:"decision,omitempty"`
}
