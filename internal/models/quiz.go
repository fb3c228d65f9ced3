package models

const (
	QuizTypeMultipleChoice = "multiple_choice"
	QuizTypeShortAnswer    = "short_answer"
)

// QuizPayload is a structured question awaiting an answer.
type QuizPayload struct {
	QuizID           string   `bson:"quiz_id" json:"quiz_id"`
	Type             string   `bson:"type" json:"type"`
	Prompt           string   `bson:"prompt" json:"prompt"`
	Options          []string `bson:"options,omitempty" json:"options,omitempty"`
	CorrectIndex     int      `bson:"correct_index" json:"correct_index"`
	ExpectedKeywords []string `bson:"expected_keywords,omitempty" json:"expected_keywords,omitempty"`
	Explanation      string   `bson:"explanation,omitempty" json:"explanation,omitempty"`
	Difficulty       string   `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
}

// Evaluation is the scored outcome of a submitted answer.
type Evaluation struct {
	Correct  bool    `bson:"correct" json:"correct"`
	Score    float64 `bson:"score" json:"score"`
	Feedback string  `bson:"feedback" json:"feedback"`
}
