package workflow

import (
	"time"

	"tutor-service/internal/models"

	"github.com/google/uuid"
)

// SessionState is the mutable record threaded through one user's active
// learning loop. It is owned by the caller and never stored in package-level
// globals, so concurrent sessions for different users stay independent.
type SessionState struct {
	UserID      string `json:"user_id"`
	ChapterID   int    `json:"chapter_id"`
	Stage       Stage  `json:"stage"`
	UserLevel   string `json:"user_level"`
	UserType    string `json:"user_type"`
	UserMessage string `json:"user_message"`

	LoopID        string    `json:"loop_id"`
	LoopStartedAt time.Time `json:"loop_started_at"`

	CurrentTurns    []models.Turn        `json:"current_turns"`
	RecentSummaries []models.LoopSummary `json:"recent_summaries"`
	QuizScores      []float64            `json:"quiz_scores"`

	PendingQuiz *models.QuizPayload `json:"pending_quiz,omitempty"`

	// QASource remembers which router handed a question to the QnA agent,
	// for context building only.
	QASource Stage `json:"qa_source,omitempty"`
}

// NewSessionState creates a fresh state at learning-session start.
func NewSessionState(userID string, chapterID int, userType, userLevel string) *SessionState {
	if chapterID < 1 {
		chapterID = 1
	}
	return &SessionState{
		UserID:          userID,
		ChapterID:       chapterID,
		Stage:           StageTheory,
		UserType:        userType,
		UserLevel:       userLevel,
		LoopID:          uuid.NewString(),
		LoopStartedAt:   time.Now(),
		CurrentTurns:    []models.Turn{},
		RecentSummaries: []models.LoopSummary{},
		QuizScores:      []float64{},
	}
}

// PublicView renders the session as the frontend sees it. The internal stage
// never leaves the server; clients render from the UI mode alone. A pending
// quiz is included without its answer key.
func (st *SessionState) PublicView() map[string]interface{} {
	view := map[string]interface{}{
		"ui_mode":         UIModeFor(st.Stage),
		"chapter_id":      st.ChapterID,
		"loop_id":         st.LoopID,
		"turn_count":      len(st.CurrentTurns),
		"awaiting_answer": st.Stage.AwaitsAnswer(),
	}
	if st.PendingQuiz != nil {
		quiz := map[string]interface{}{
			"quiz_id":   st.PendingQuiz.QuizID,
			"quiz_type": st.PendingQuiz.Type,
			"prompt":    st.PendingQuiz.Prompt,
		}
		if st.PendingQuiz.Type == models.QuizTypeMultipleChoice {
			quiz["options"] = st.PendingQuiz.Options
		}
		view["pending_quiz"] = quiz
	}
	return view
}

// AddTurn appends one turn to the current loop, stamping sequence and time.
func (st *SessionState) AddTurn(role, agentName, text string, uiElements map[string]interface{}) {
	st.CurrentTurns = append(st.CurrentTurns, models.Turn{
		LoopID:        st.LoopID,
		UserID:        st.UserID,
		Role:          role,
		AgentName:     agentName,
		Text:          text,
		UIElements:    uiElements,
		Timestamp:     time.Now(),
		SequenceOrder: len(st.CurrentTurns) + 1,
	})
}

// RecordScore keeps a quiz score for the supervisor's advance/repeat decision.
// Scores never outlive the loop they were earned in.
func (st *SessionState) RecordScore(score float64) {
	st.QuizScores = append(st.QuizScores, score)
}

// MeanScore averages the current loop's quiz scores. Returns 0 when no quiz
// has been scored yet.
func (st *SessionState) MeanScore() float64 {
	if len(st.QuizScores) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range st.QuizScores {
		total += s
	}
	return total / float64(len(st.QuizScores))
}

// CompleteLoop summarizes the current loop, pushes the summary into the
// bounded recent-summary window (FIFO, oldest evicted), and resets the state
// for a fresh loop. maxSummaries guards the window size.
func (st *SessionState) CompleteLoop(decision string, maxSummaries int) models.LoopSummary {
	summary := SummarizeLoop(st, decision)

	st.RecentSummaries = append(st.RecentSummaries, summary)
	if maxSummaries > 0 && len(st.RecentSummaries) > maxSummaries {
		st.RecentSummaries = st.RecentSummaries[len(st.RecentSummaries)-maxSummaries:]
	}

	st.LoopID = uuid.NewString()
	st.LoopStartedAt = time.Now()
	st.CurrentTurns = []models.Turn{}
	st.QuizScores = []float64{}
	st.PendingQuiz = nil
	st.QASource = ""

	return summary
}
