package workflow

// Stage is the state-machine cursor for one learning loop.
type Stage string

const (
	StageTheory            Stage = "theory"
	StagePostTheoryRoute   Stage = "post_theory_route"
	StageQnA               Stage = "qna"
	StageQuiz              Stage = "quiz"
	StageEvaluation        Stage = "evaluation"
	StagePostFeedbackRoute Stage = "post_feedback_route"
	StageSupervisor        Stage = "supervisor"
)

// UIMode tells the frontend how to render a turn.
type UIMode string

const (
	UIModeChat       UIMode = "chat"
	UIModeQuiz       UIMode = "quiz"
	UIModeRestricted UIMode = "restricted"
)

// UIModeFor derives the UI mode from the stage. The frontend never sees the
// stage itself, only this mode.
func UIModeFor(s Stage) UIMode {
	switch s {
	case StageQuiz, StageEvaluation:
		return UIModeQuiz
	case StageSupervisor:
		return UIModeRestricted
	case StageTheory, StagePostTheoryRoute, StageQnA, StagePostFeedbackRoute:
		return UIModeChat
	}
	return UIModeChat
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	switch s {
	case StageTheory, StagePostTheoryRoute, StageQnA, StageQuiz,
		StageEvaluation, StagePostFeedbackRoute, StageSupervisor:
		return true
	}
	return false
}

// AwaitsAnswer reports whether the stage is holding a pending quiz.
func (s Stage) AwaitsAnswer() bool {
	return s == StageQuiz || s == StageEvaluation
}
