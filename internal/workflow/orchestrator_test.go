package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tutor-service/internal/models"
)

// fakeAgent returns a canned result or error and counts its invocations.
type fakeAgent struct {
	result *AgentResult
	err    error
	calls  int
}

func (f *fakeAgent) Execute(ctx context.Context, st *SessionState) (*AgentResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeAgents struct {
	theory     *fakeAgent
	qna        *fakeAgent
	quiz       *fakeAgent
	evaluator  *fakeAgent
	supervisor *fakeAgent
}

func newTestOrchestrator() (*Orchestrator, *fakeAgents) {
	f := &fakeAgents{
		theory: &fakeAgent{result: &AgentResult{Message: "이론 설명입니다."}},
		qna:    &fakeAgent{result: &AgentResult{Message: "질문에 대한 답변입니다."}},
		quiz: &fakeAgent{result: &AgentResult{
			Message: "퀴즈입니다.",
			Delta: StateDelta{PendingQuiz: &models.QuizPayload{
				QuizID: "q1",
				Type:   models.QuizTypeMultipleChoice,
				Prompt: "AI란?",
			}},
		}},
		evaluator: &fakeAgent{result: &AgentResult{
			Message: "정답입니다!",
			Delta:   StateDelta{Evaluation: &models.Evaluation{Score: 100, Correct: true}},
		}},
		supervisor: &fakeAgent{result: &AgentResult{
			Message: "다음 챕터로 진행합니다.",
			Delta:   StateDelta{Decision: DecisionAdvance},
		}},
	}
	o := NewOrchestrator(Agents{
		Theory:     f.theory,
		QnA:        f.qna,
		Quiz:       f.quiz,
		Evaluator:  f.evaluator,
		Supervisor: f.supervisor,
	}, Config{PassingScore: 70, MaxRecentSummaries: 5, MaxChapter: 5})
	return o, f
}

func TestHandleMessageRejectsEmptyMessage(t *testing.T) {
	o, _ := newTestOrchestrator()
	st := NewSessionState("u1", 1, models.UserTypeBeginner, models.UserLevelMedium)

	if _, err := o.HandleMessage(context.Background(), st, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
	if st.Stage != StageTheory {
		t.Errorf("state must not move on an empty message, got stage %s", st.Stage)
	}
}

func TestHandleMessageRejectsUnknownStage(t *testing.T) {
	o, _ := newTestOrchestrator()
	st := NewSessionState("u1", 1, models.UserTypeBeginner, models.UserLevelMedium)
	st.Stage = Stage("bogus")

	if _, err := o.HandleMessage(context.Background(), st, "hello"); !errors.Is(err, ErrInvariant) {
		t.Errorf("expected ErrInvariant, got %v", err)
	}
}

func TestTheoryDelivery(t *testing.T) {
	o, f := newTestOrchestrator()
	st := NewSessionState("u1", 1, models.UserTypeBeginner, models.UserLevelMedium)

	result, err := o.HandleMessage(context.Background(), st, "1챕터 시작할게요")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.theory.calls != 1 {
		t.Errorf("expected theory agent called once, got %d", f.theory.calls)
	}
	if st.Stage != StagePostTheoryRoute {
		t.Errorf("expected stage %s, got %s", StagePostTheoryRoute, st.Stage)
	}
	if result.UIMode != UIModeChat {
		t.Errorf("expected chat UI mode, got %s", result.UIMode)
	}
	if len(st.CurrentTurns) != 2 {
		t.Errorf("expected user+system turns appended, got %d", len(st.CurrentTurns))
	}
	if len(result.Turns) != 2 {
		t.Errorf("expected 2 turns in result, got %d", len(result.Turns))
	}
}

func TestPostTheoryRoutesToQuiz(t *testing.T) {
	o, f := newTestOrchestrator()
	st := NewSessionState("u1", 1, models.UserTypeBeginner, models.UserLevelMedium)
	st.Stage = StagePostTheoryRoute

	result, err := o.HandleMessage(context.Background(), st, "퀴즈 풀어볼래요")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.quiz.calls != 1 {
		t.Errorf("expected quiz agent called once, got %d", f.quiz.calls)
	}
	if st.Stage != StageQuiz {
		t.Errorf("expected stage %s, got %s", StageQuiz, st.Stage)
	}
	if st.PendingQuiz == nil {
		t.Fatal("expected a pending quiz to be set")
	}
	if result.UIMode != UIModeQuiz {
		t.Errorf("expected quiz UI mode, got %s", result.UIMode)
	}
}

func TestPostTheoryRoutesToQnA(t *testing.T) {
	o, f := newTestOrchestrator()
	st := NewSessionState("u1", 1, models.UserTypeBeginner, models.UserLevelMedium)
	st.Stage = StagePostTheoryRoute

	_, err := o.HandleMessage(context.Background(), st, "LLM이 정확히 뭔가요?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.qna.calls != 1 {
		t.Errorf("expected qna agent called once, got %d", f.qna.calls)
	}
	if st.Stage != StagePostTheoryRoute {
		t.Errorf("qna should return to the post-theory route, got %s", st.Stage)
	}
}

func TestAnswerEvaluationFlow(t *testing.T) {
	o, f := newTestOrchestrator()
	st := NewSessionState("u1", 1, models.UserTypeBeginner, models.UserLevelMedium)
	st.Stage = StageQuiz
	st.PendingQuiz = &models.QuizPayload{QuizID: "q1", Type: models.QuizTypeMultipleChoice}

	result, err := o.HandleMessage(context.Background(), st, "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.evaluator.calls != 1 {
		t.Errorf("expected evaluator called once, got %d", f.evaluator.calls)
	}
	if st.Stage != StagePostFeedbackRoute {
		t.Errorf("expected stage %s, got %s", StagePostFeedbackRoute, st.Stage)
	}
	if st.PendingQuiz != nil {
		t.Error("pending quiz should be cleared after evaluation")
	}
	if len(st.QuizScores) != 1 || st.QuizScores[0] != 100 {
		t.Errorf("expected score 100 recorded, got %v", st.QuizScores)
	}
	if result.Evaluation == nil || !result.Evaluation.Correct {
		t.Error("expected evaluation attached to the result")
	}
}

func TestEvaluationWithoutPendingQuizIsInvariantViolation(t *testing.T) {
	o, _ := newTestOrchestrator()
	st := NewSessionState("u1", 1, models.UserTypeBeginner, models.UserLevelMedium)
	st.Stage = StageQuiz

	if _, err := o.HandleMessage(context.Background(), st, "2"); !errors.Is(err, ErrInvariant) {
		t.Errorf("expected ErrInvariant, got %v", err)
	}
}

func TestSupervisorAdvancesChapterAndChainsTheory(t *testing.T) {
	o, f := newTestOrchestrator()
	st := NewSessionState("u1", 1, models.UserTypeBeginner, models.UserLevelMedium)
	st.Stage = StagePostFeedbackRoute
	st.AddTurn(models.RoleUser, "", "earlier question", nil)
	st.RecordScore(90)
	oldLoopID := st.LoopID

	result, err := o.HandleMessage(context.Background(), st, "다음으로 넘어갈게요")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.supervisor.calls != 1 {
		t.Errorf("expected supervisor called once, got %d", f.supervisor.calls)
	}
	if !result.LoopCompleted || result.Summary == nil {
		t.Fatal("expected a completed loop with summary")
	}
	if result.Summary.LoopID != oldLoopID {
		t.Error("summary should belong to the closed loop")
	}
	if st.ChapterID != 2 {
		t.Errorf("expected chapter advanced to 2, got %d", st.ChapterID)
	}
	if len(st.RecentSummaries) != 1 {
		t.Errorf("expected 1 recent summary, got %d", len(st.RecentSummaries))
	}
	// Theory for the new chapter is chained into the same turn.
	if f.theory.calls != 1 {
		t.Errorf("expected chained theory call, got %d", f.theory.calls)
	}
	if st.Stage != StagePostTheoryRoute {
		t.Errorf("expected stage %s after chained theory, got %s", StagePostTheoryRoute, st.Stage)
	}
	if !strings.Contains(result.Message, "이론 설명입니다.") {
		t.Error("expected next chapter theory concatenated into the message")
	}
}

func TestSupervisorRepeatKeepsChapter(t *testing.T) {
	o, f := newTestOrchestrator()
	f.supervisor.result = &AgentResult{
		Message: "한 번 더 복습해봅시다.",
		Delta:   StateDelta{Decision: DecisionRepeat},
	}
	st := NewSessionState("u1", 3, models.UserTypeBeginner, models.UserLevelMedium)
	st.Stage = StageSupervisor

	if _, err := o.HandleMessage(context.Background(), st, "네"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.ChapterID != 3 {
		t.Errorf("repeat decision must not change chapter, got %d", st.ChapterID)
	}
}

func TestChapterAdvanceIsCapped(t *testing.T) {
	o, _ := newTestOrchestrator()
	st := NewSessionState("u1", 5, models.UserTypeBeginner, models.UserLevelMedium)
	st.Stage = StageSupervisor

	if _, err := o.HandleMessage(context.Background(), st, "다음"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.ChapterID != 5 {
		t.Errorf("expected chapter capped at 5, got %d", st.ChapterID)
	}
}

func TestAgentFailureIsRetrySafe(t *testing.T) {
	o, f := newTestOrchestrator()
	f.quiz.err = errors.New("llm timeout")
	st := NewSessionState("u1", 1, models.UserTypeBeginner, models.UserLevelMedium)
	st.Stage = StagePostTheoryRoute

	result, err := o.HandleMessage(context.Background(), st, "퀴즈 주세요")
	if err != nil {
		t.Fatalf("fail-soft must not surface the error, got %v", err)
	}

	if result.Message != fallbackApology {
		t.Errorf("expected apology message, got %q", result.Message)
	}
	if result.UIMode != UIModeChat {
		t.Errorf("expected chat UI mode on failure, got %s", result.UIMode)
	}
	if st.Stage != StagePostTheoryRoute {
		t.Errorf("stage must not advance on failure, got %s", st.Stage)
	}
	if len(st.CurrentTurns) != 0 {
		t.Errorf("no turns should be appended on failure, got %d", len(st.CurrentTurns))
	}

	// Same message again after the collaborator recovers.
	f.quiz.err = nil
	if _, err := o.HandleMessage(context.Background(), st, "퀴즈 주세요"); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if st.Stage != StageQuiz {
		t.Errorf("expected retry to reach quiz stage, got %s", st.Stage)
	}
}

func TestEvaluatorFailureRestoresStage(t *testing.T) {
	o, f := newTestOrchestrator()
	f.evaluator.err = errors.New("llm down")
	st := NewSessionState("u1", 1, models.UserTypeBeginner, models.UserLevelMedium)
	st.Stage = StageQuiz
	st.PendingQuiz = &models.QuizPayload{QuizID: "q1"}

	if _, err := o.HandleMessage(context.Background(), st, "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Stage != StageQuiz {
		t.Errorf("expected stage restored to quiz, got %s", st.Stage)
	}
	if st.PendingQuiz == nil {
		t.Error("pending quiz must survive the failed evaluation")
	}
}

func TestTheoryFailureAfterSupervisionKeepsLoopClosed(t *testing.T) {
	o, f := newTestOrchestrator()
	f.theory.err = errors.New("llm down")
	st := NewSessionState("u1", 1, models.UserTypeBeginner, models.UserLevelMedium)
	st.Stage = StageSupervisor

	result, err := o.HandleMessage(context.Background(), st, "네 진행할게요")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.LoopCompleted {
		t.Error("loop should complete even when the chained theory fails")
	}
	if st.Stage != StageTheory {
		t.Errorf("expected stage left at theory for retry, got %s", st.Stage)
	}
}
