package workflow

import (
	"fmt"
	"strings"
	"testing"

	"tutor-service/internal/models"
)

func TestNewSessionState(t *testing.T) {
	st := NewSessionState("user-1", 0, models.UserTypeBeginner, models.UserLevelLow)

	if st.ChapterID != 1 {
		t.Errorf("expected chapter clamped to 1, got %d", st.ChapterID)
	}
	if st.Stage != StageTheory {
		t.Errorf("expected fresh session at theory stage, got %s", st.Stage)
	}
	if st.LoopID == "" {
		t.Error("expected a loop ID to be assigned")
	}
	if st.PendingQuiz != nil {
		t.Error("fresh session must not carry a pending quiz")
	}
}

func TestAddTurnSequencing(t *testing.T) {
	st := NewSessionState("user-1", 1, models.UserTypeBeginner, models.UserLevelMedium)

	st.AddTurn(models.RoleUser, "", "first", nil)
	st.AddTurn(models.RoleSystem, "TheoryEducator", "second", nil)
	st.AddTurn(models.RoleUser, "", "third", nil)

	if len(st.CurrentTurns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(st.CurrentTurns))
	}
	for i, turn := range st.CurrentTurns {
		if turn.SequenceOrder != i+1 {
			t.Errorf("turn %d has sequence %d, want %d", i, turn.SequenceOrder, i+1)
		}
		if turn.LoopID != st.LoopID {
			t.Errorf("turn %d has loop ID %s, want %s", i, turn.LoopID, st.LoopID)
		}
	}
}

func TestMeanScore(t *testing.T) {
	st := NewSessionState("user-1", 1, models.UserTypeBeginner, models.UserLevelMedium)

	if st.MeanScore() != 0 {
		t.Errorf("expected 0 mean with no scores, got %f", st.MeanScore())
	}

	st.RecordScore(100)
	st.RecordScore(50)
	if got := st.MeanScore(); got != 75 {
		t.Errorf("expected mean 75, got %f", got)
	}
}

func TestCompleteLoopResetsState(t *testing.T) {
	st := NewSessionState("user-1", 2, models.UserTypeBusiness, models.UserLevelHigh)
	oldLoopID := st.LoopID

	st.AddTurn(models.RoleUser, "", "인공지능이 뭔가요?", nil)
	st.AddTurn(models.RoleSystem, "TheoryEducator", "설명...", nil)
	st.RecordScore(80)
	st.PendingQuiz = &models.QuizPayload{QuizID: "q1"}

	summary := st.CompleteLoop(DecisionAdvance, 5)

	if summary.LoopID != oldLoopID {
		t.Errorf("summary should carry the closed loop's ID")
	}
	if summary.TurnCount != 2 {
		t.Errorf("expected turn count 2, got %d", summary.TurnCount)
	}
	if summary.MeanScore != 80 {
		t.Errorf("expected mean score 80, got %f", summary.MeanScore)
	}
	if summary.Decision != DecisionAdvance {
		t.Errorf("expected decision %s, got %s", DecisionAdvance, summary.Decision)
	}

	if st.LoopID == oldLoopID {
		t.Error("a new loop ID should be assigned after completion")
	}
	if len(st.CurrentTurns) != 0 || len(st.QuizScores) != 0 {
		t.Error("turns and scores should be reset after completion")
	}
	if st.PendingQuiz != nil {
		t.Error("pending quiz should be cleared after completion")
	}
}

func TestCompleteLoopKeepsBoundedSummaryWindow(t *testing.T) {
	st := NewSessionState("user-1", 1, models.UserTypeBeginner, models.UserLevelMedium)

	for i := 0; i < 7; i++ {
		st.AddTurn(models.RoleUser, "", fmt.Sprintf("loop %d question", i), nil)
		st.CompleteLoop(DecisionRepeat, 5)
	}

	if len(st.RecentSummaries) != 5 {
		t.Fatalf("expected window of 5 summaries, got %d", len(st.RecentSummaries))
	}
	// Oldest two were evicted; window starts at loop 2.
	if got := st.RecentSummaries[0].MainTopics[0]; got != "loop 2 question" {
		t.Errorf("expected oldest kept summary from loop 2, got %q", got)
	}
	if got := st.RecentSummaries[4].MainTopics[0]; got != "loop 6 question" {
		t.Errorf("expected newest summary from loop 6, got %q", got)
	}
}

func TestSummarizeLoopTopicsAndAgents(t *testing.T) {
	st := NewSessionState("user-1", 1, models.UserTypeBeginner, models.UserLevelMedium)

	longQuestion := strings.Repeat("가", 150)
	st.AddTurn(models.RoleUser, "", longQuestion, nil)
	st.AddTurn(models.RoleSystem, "TheoryEducator", "답", nil)
	st.AddTurn(models.RoleUser, "", "short", nil)
	st.AddTurn(models.RoleSystem, "QnAResolver", "답", nil)
	st.AddTurn(models.RoleSystem, "QnAResolver", "답", nil)
	st.AddTurn(models.RoleUser, "", "third", nil)
	st.AddTurn(models.RoleUser, "", "fourth", nil)

	summary := SummarizeLoop(st, DecisionRepeat)

	if len(summary.MainTopics) != 3 {
		t.Fatalf("expected 3 main topics at most, got %d", len(summary.MainTopics))
	}
	if got := []rune(summary.MainTopics[0]); len(got) != 100 {
		t.Errorf("expected long topic truncated to 100 runes, got %d", len(got))
	}
	if len(summary.AgentsUsed) != 2 {
		t.Errorf("expected agents deduplicated to 2, got %v", summary.AgentsUsed)
	}
	if summary.AgentsUsed[0] != "TheoryEducator" || summary.AgentsUsed[1] != "QnAResolver" {
		t.Errorf("expected agents in first-use order, got %v", summary.AgentsUsed)
	}
}

func TestPublicViewHidesInternalStage(t *testing.T) {
	st := NewSessionState("user-1", 2, models.UserTypeBeginner, models.UserLevelMedium)
	st.AddTurn(models.RoleUser, "", "시작", nil)

	view := st.PublicView()

	if _, ok := view["stage"]; ok {
		t.Error("public view must not expose the internal stage")
	}
	if view["ui_mode"] != UIModeChat {
		t.Errorf("expected ui_mode chat for a theory-stage session, got %v", view["ui_mode"])
	}
	if view["chapter_id"] != 2 {
		t.Errorf("expected chapter_id 2, got %v", view["chapter_id"])
	}
	if view["turn_count"] != 1 {
		t.Errorf("expected turn_count 1, got %v", view["turn_count"])
	}
	if view["awaiting_answer"] != false {
		t.Error("theory stage must not report awaiting_answer")
	}
	if _, ok := view["pending_quiz"]; ok {
		t.Error("view must not include pending_quiz when none is set")
	}
}

func TestPublicViewIncludesPendingQuizWithoutAnswer(t *testing.T) {
	st := NewSessionState("user-1", 1, models.UserTypeBeginner, models.UserLevelMedium)
	st.Stage = StageQuiz
	st.PendingQuiz = &models.QuizPayload{
		QuizID:       "q-1",
		Type:         models.QuizTypeMultipleChoice,
		Prompt:       "질문?",
		Options:      []string{"a", "b", "c", "d"},
		CorrectIndex: 2,
	}

	view := st.PublicView()

	if view["ui_mode"] != UIModeQuiz {
		t.Errorf("expected ui_mode quiz, got %v", view["ui_mode"])
	}
	if view["awaiting_answer"] != true {
		t.Error("quiz stage must report awaiting_answer")
	}
	quiz, ok := view["pending_quiz"].(map[string]interface{})
	if !ok {
		t.Fatal("expected pending_quiz in the view")
	}
	if quiz["quiz_id"] != "q-1" || quiz["prompt"] != "질문?" {
		t.Errorf("unexpected quiz fields: %v", quiz)
	}
	if _, ok := quiz["correct_index"]; ok {
		t.Error("view must not reveal the correct answer")
	}
	opts, ok := quiz["options"].([]string)
	if !ok || len(opts) != 4 {
		t.Errorf("expected 4 options in the view, got %v", quiz["options"])
	}
}
