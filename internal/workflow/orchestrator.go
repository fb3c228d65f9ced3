package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"tutor-service/internal/models"
	"tutor-service/internal/routing"
)

var (
	// ErrEmptyMessage is returned when a blank user message reaches the
	// orchestrator boundary. The state is not touched.
	ErrEmptyMessage = errors.New("user message is empty")

	// ErrInvariant signals a broken state invariant (a bug, not a runtime
	// condition to recover from).
	ErrInvariant = errors.New("session state invariant violated")
)

const fallbackApology = "죄송합니다. 일시적인 오류가 발생했습니다. 같은 메시지를 다시 보내주시면 이어서 진행하겠습니다."

// Config holds the learning-loop tunables.
type Config struct {
	PassingScore       float64
	MaxRecentSummaries int
	MaxChapter         int
}

// Agents groups the five agents the orchestrator drives.
type Agents struct {
	Theory     Agent
	QnA        Agent
	Quiz       Agent
	Evaluator  Agent
	Supervisor Agent
}

// TurnResult is what one user message produces: the outbound message, the UI
// rendering mode, and optional structured UI payload. LoopCompleted and
// Summary are set when the turn closed a learning loop.
type TurnResult struct {
	Message       string                 `json:"message"`
	UIMode        UIMode                 `json:"ui_mode"`
	UIElements    map[string]interface{} `json:"ui_elements,omitempty"`
	Evaluation    *models.Evaluation     `json:"evaluation,omitempty"`
	LoopCompleted bool                   `json:"-"`
	Summary       *models.LoopSummary    `json:"-"`

	// Turns holds the turns this call appended, for durable persistence by
	// the caller. On loop completion the state's turn list has already been
	// reset, so this is the only place the closing turns survive.
	Turns []models.Turn `json:"-"`
}

// Orchestrator owns the learning-loop state machine. Given the current
// session state and a new user message it produces an updated state and one
// outbound turn. Each stage is dispatched through an exhaustive switch, so an
// unknown stage is a compile-time impossibility rather than a missing map key.
type Orchestrator struct {
	agents       Agents
	postTheory   *routing.Router
	postFeedback *routing.Router
	config       Config
}

func NewOrchestrator(agents Agents, config Config) *Orchestrator {
	if config.PassingScore <= 0 {
		config.PassingScore = 70
	}
	if config.MaxRecentSummaries <= 0 {
		config.MaxRecentSummaries = 5
	}
	if config.MaxChapter <= 0 {
		config.MaxChapter = 5
	}
	return &Orchestrator{
		agents:       agents,
		postTheory:   routing.NewPostTheoryRouter(),
		postFeedback: routing.NewPostFeedbackRouter(),
		config:       config,
	}
}

// HandleMessage runs exactly one synchronous turn of the state machine.
// On collaborator failure the stage does not advance and the state is left
// unchanged, so resending the same message retries the same transition.
func (o *Orchestrator) HandleMessage(ctx context.Context, st *SessionState, message string) (*TurnResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if !st.Stage.Valid() {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrInvariant, st.Stage)
	}

	st.UserMessage = message

	switch st.Stage {
	case StageTheory:
		return o.deliverTheory(ctx, st, message)
	case StagePostTheoryRoute:
		return o.routePostTheory(ctx, st, message)
	case StageQnA:
		// A session persisted mid-answer re-enters here; answering returns
		// the loop to the post-theory route, same as after theory.
		return o.answerQuestion(ctx, st, message, st.QASource)
	case StageQuiz, StageEvaluation:
		return o.evaluateAnswer(ctx, st, message)
	case StagePostFeedbackRoute:
		return o.routePostFeedback(ctx, st, message)
	case StageSupervisor:
		return o.superviseLoop(ctx, st, message)
	}

	return nil, fmt.Errorf("%w: unknown stage %q", ErrInvariant, st.Stage)
}

// deliverTheory runs the theory explainer and moves on to the post-theory
// route. Theory delivery needs no classification: any first message of a loop
// triggers it.
func (o *Orchestrator) deliverTheory(ctx context.Context, st *SessionState, message string) (*TurnResult, error) {
	result, err := o.agents.Theory.Execute(ctx, st)
	if err != nil {
		return o.failSoft(st, "TheoryEducator", err), nil
	}

	st.AddTurn(models.RoleUser, "", message, nil)
	st.AddTurn(models.RoleSystem, "TheoryEducator", result.Message, result.UIElements)
	st.Stage = StagePostTheoryRoute

	return &TurnResult{
		Message:    result.Message,
		UIMode:     UIModeFor(st.Stage),
		UIElements: result.UIElements,
		Turns:      lastTurns(st, 2),
	}, nil
}

func (o *Orchestrator) routePostTheory(ctx context.Context, st *SessionState, message string) (*TurnResult, error) {
	switch o.postTheory.Route(message) {
	case routing.IntentQuiz:
		return o.generateQuiz(ctx, st, message)
	default:
		return o.answerQuestion(ctx, st, message, StagePostTheoryRoute)
	}
}

func (o *Orchestrator) routePostFeedback(ctx context.Context, st *SessionState, message string) (*TurnResult, error) {
	switch o.postFeedback.Route(message) {
	case routing.IntentProceed:
		return o.superviseLoop(ctx, st, message)
	default:
		return o.answerQuestion(ctx, st, message, StagePostFeedbackRoute)
	}
}

// answerQuestion runs the QnA agent. The agent degrades internally when the
// search collaborator is unavailable, so an error here means even the
// degraded path failed. The loop returns to the post-theory route afterwards.
func (o *Orchestrator) answerQuestion(ctx context.Context, st *SessionState, message string, source Stage) (*TurnResult, error) {
	prevStage, prevSource := st.Stage, st.QASource
	st.Stage = StageQnA
	st.QASource = source

	result, err := o.agents.QnA.Execute(ctx, st)
	if err != nil {
		st.Stage, st.QASource = prevStage, prevSource
		return o.failSoft(st, "QnAResolver", err), nil
	}

	st.AddTurn(models.RoleUser, "", message, nil)
	st.AddTurn(models.RoleSystem, "QnAResolver", result.Message, result.UIElements)
	st.Stage = StagePostTheoryRoute

	return &TurnResult{
		Message:    result.Message,
		UIMode:     UIModeFor(st.Stage),
		UIElements: result.UIElements,
		Turns:      lastTurns(st, 2),
	}, nil
}

// generateQuiz runs the quiz generator and parks the session at the quiz
// stage with the pending question attached, awaiting the user's answer.
func (o *Orchestrator) generateQuiz(ctx context.Context, st *SessionState, message string) (*TurnResult, error) {
	result, err := o.agents.Quiz.Execute(ctx, st)
	if err != nil {
		return o.failSoft(st, "QuizGenerator", err), nil
	}
	if result.Delta.PendingQuiz == nil {
		log.Printf("QuizGenerator produced no question for user %s", st.UserID)
		return o.failSoft(st, "QuizGenerator", errors.New("no question generated")), nil
	}

	st.AddTurn(models.RoleUser, "", message, nil)
	st.AddTurn(models.RoleSystem, "QuizGenerator", result.Message, result.UIElements)
	st.PendingQuiz = result.Delta.PendingQuiz
	st.Stage = StageQuiz

	return &TurnResult{
		Message:    result.Message,
		UIMode:     UIModeFor(st.Stage),
		UIElements: result.UIElements,
		Turns:      lastTurns(st, 2),
	}, nil
}

// evaluateAnswer scores the incoming message against the pending quiz and
// moves to the post-feedback route. A nil pending quiz here is a bug.
func (o *Orchestrator) evaluateAnswer(ctx context.Context, st *SessionState, message string) (*TurnResult, error) {
	if st.PendingQuiz == nil {
		log.Printf("invariant violated: stage %s with no pending quiz (user %s)", st.Stage, st.UserID)
		return nil, fmt.Errorf("%w: pending quiz missing in stage %s", ErrInvariant, st.Stage)
	}

	prevStage := st.Stage
	st.Stage = StageEvaluation

	result, err := o.agents.Evaluator.Execute(ctx, st)
	if err != nil {
		st.Stage = prevStage
		return o.failSoft(st, "EvaluationFeedbackAgent", err), nil
	}
	if result.Delta.Evaluation == nil {
		st.Stage = prevStage
		return o.failSoft(st, "EvaluationFeedbackAgent", errors.New("no evaluation produced")), nil
	}

	st.AddTurn(models.RoleUser, "", message, nil)
	st.AddTurn(models.RoleSystem, "EvaluationFeedbackAgent", result.Message, result.UIElements)
	st.RecordScore(result.Delta.Evaluation.Score)
	st.PendingQuiz = nil
	st.Stage = StagePostFeedbackRoute

	return &TurnResult{
		Message:    result.Message,
		UIMode:     UIModeFor(st.Stage),
		UIElements: result.UIElements,
		Evaluation: result.Delta.Evaluation,
		Turns:      lastTurns(st, 2),
	}, nil
}

// superviseLoop closes the current loop: the supervisor decides advance or
// repeat, the loop is summarized into the bounded recent window, and the next
// chapter's theory is delivered immediately so the user is never left without
// content, mirroring automatic node chaining in the learning graph.
func (o *Orchestrator) superviseLoop(ctx context.Context, st *SessionState, message string) (*TurnResult, error) {
	prevStage := st.Stage
	st.Stage = StageSupervisor

	result, err := o.agents.Supervisor.Execute(ctx, st)
	if err != nil {
		st.Stage = prevStage
		return o.failSoft(st, "LearningSupervisor", err), nil
	}

	decision := result.Delta.Decision
	if decision == "" {
		decision = DecisionRepeat
	}

	st.AddTurn(models.RoleUser, "", message, nil)
	st.AddTurn(models.RoleSystem, "LearningSupervisor", result.Message, result.UIElements)
	closingTurns := lastTurns(st, 2)

	summary := st.CompleteLoop(decision, o.config.MaxRecentSummaries)

	if decision == DecisionAdvance {
		next := result.Delta.NextChapter
		if next <= 0 {
			next = st.ChapterID + 1
		}
		if next > o.config.MaxChapter {
			next = o.config.MaxChapter
		}
		st.ChapterID = next
	}
	st.Stage = StageTheory

	message = result.Message

	// Chain straight into the next chapter's theory. If that delivery fails
	// the loop is already closed; the next user message retries theory.
	theory, terr := o.agents.Theory.Execute(ctx, st)
	uiElements := result.UIElements
	if terr != nil {
		log.Printf("theory delivery after supervision failed for user %s: %v", st.UserID, terr)
	} else {
		st.AddTurn(models.RoleSystem, "TheoryEducator", theory.Message, theory.UIElements)
		st.Stage = StagePostTheoryRoute
		message = message + "\n\n" + theory.Message
		if theory.UIElements != nil {
			uiElements = theory.UIElements
		}
		closingTurns = append(closingTurns, lastTurns(st, 1)...)
	}

	return &TurnResult{
		Message:       message,
		UIMode:        UIModeFor(st.Stage),
		UIElements:    uiElements,
		LoopCompleted: true,
		Summary:       &summary,
		Turns:         closingTurns,
	}, nil
}

// lastTurns copies the n most recently appended turns of the current loop.
func lastTurns(st *SessionState, n int) []models.Turn {
	if n > len(st.CurrentTurns) {
		n = len(st.CurrentTurns)
	}
	out := make([]models.Turn, n)
	copy(out, st.CurrentTurns[len(st.CurrentTurns)-n:])
	return out
}

// failSoft produces the apology turn for an agent failure. The stage did not
// advance and no turns were appended, so the user can resend the same message
// and retry the identical transition.
func (o *Orchestrator) failSoft(st *SessionState, agentName string, err error) *TurnResult {
	log.Printf("%s failed for user %s: %v", agentName, st.UserID, err)
	return &TurnResult{
		Message: fallbackApology,
		UIMode:  UIModeChat,
	}
}
