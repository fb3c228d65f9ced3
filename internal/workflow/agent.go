package workflow

import (
	"context"

	"tutor-service/internal/models"
)

// Agent is a stateless transform from the current session state to an
// outbound message plus a state delta. Implementations catch their own
// collaborator failures and degrade to a canned response where one exists;
// they return an error only when no meaningful response can be produced, in
// which case the orchestrator leaves the stage untouched.
type Agent interface {
	Execute(ctx context.Context, st *SessionState) (*AgentResult, error)
}

// AgentResult carries what an agent produced. The orchestrator owns applying
// the delta; agents never mutate the session state directly.
type AgentResult struct {
	Message    string
	UIElements map[string]interface{}
	Delta      StateDelta
}

// StateDelta is the set of state changes an agent may request.
type StateDelta struct {
	// PendingQuiz is set by the quiz generator.
	PendingQuiz *models.QuizPayload

	// Evaluation is set by the answer evaluator; its score is recorded into
	// the loop and the pending quiz is cleared.
	Evaluation *models.Evaluation

	// Decision ("advance" or "repeat") and NextChapter are set by the
	// supervisor at loop completion.
	Decision    string
	NextChapter int
}

const (
	DecisionAdvance = "advance"
	DecisionRepeat  = "repeat"
)
