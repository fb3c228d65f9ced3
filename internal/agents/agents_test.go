package agents

import (
	"context"
	"errors"

	"tutor-service/internal/models"
	"tutor-service/internal/workflow"
)

// fakeCompleter returns a canned completion or error and records the last
// prompt for assertions.
type fakeCompleter struct {
	response   string
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	f.lastSystem = systemPrompt
	f.lastUser = userMessage
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeSearcher struct {
	passages []models.Passage
	err      error
}

func (f *fakeSearcher) Search(ctx context.Context, query string, topK int) ([]models.Passage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.passages, nil
}

type fakeChapters struct {
	chapter *models.Chapter
	err     error
}

func (f *fakeChapters) FindByID(ctx context.Context, id int) (*models.Chapter, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chapter, nil
}

var errDown = errors.New("service unavailable")

func testChapter() *models.Chapter {
	return &models.Chapter{
		ID:         1,
		Title:      "AI는 내 친구",
		Objectives: []string{"AI의 개념을 설명할 수 있다"},
		Theory:     "인공지능은 인간의 학습과 추론을 흉내 내는 기술입니다.",
		Summary:    "AI는 데이터를 학습해 예측과 생성을 수행합니다.",
		FallbackQuiz: models.QuizPayload{
			Type:         models.QuizTypeMultipleChoice,
			Prompt:       "AI의 학습 재료는 무엇일까요?",
			Options:      []string{"데이터", "전기", "종이", "커피"},
			CorrectIndex: 0,
			Explanation:  "AI는 데이터로 학습합니다.",
		},
	}
}

func testState() *workflow.SessionState {
	return workflow.NewSessionState("u1", 1, models.UserTypeBeginner, models.UserLevelMedium)
}
