package models

import "time"

const (
	UserTypeBeginner = "beginner"
	UserTypeBusiness = "business"

	UserLevelLow    = "low"
	UserLevelMedium = "medium"
	UserLevelHigh   = "high"
)

type User struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	LoginID        string    `bson:"login_id" json:"login_id"`
	Email          string    `bson:"email" json:"email"`
	PasswordHash   string    `bson:"password_hash" json:"-"`
	UserType       string    `bson:"user_type" json:"user_type"`
	UserLevel      string    `bson:"user_level" json:"user_level"`
	CurrentChapter int       `bson:"current_chapter" json:"current_chapter"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}
