package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"tutor-service/internal/models"
	"tutor-service/internal/workflow"

	"github.com/google/uuid"
)

const quizSystemPrompt = `당신은 학습 이해도를 확인하는 문제를 출제하는 튜터입니다.
아래 챕터 자료를 바탕으로 문제를 하나만 출제하고, 다음 JSON 형식으로만 답하세요.
{"type":"multiple_choice","prompt":"...","options":["...","...","...","..."],"correct_index":0,"explanation":"..."}
또는
{"type":"short_answer","prompt":"...","expected_keywords":["...","..."],"explanation":"..."}`

// QuizAgent generates a structured question for the current chapter. An
// unreachable LLM or unparseable output degrades to the chapter's stored
// fallback question, so a quiz is always produced.
type QuizAgent struct {
	LLM      Completer
	Chapters ChapterSource
}

func NewQuizAgent(llm Completer, chapters ChapterSource) *QuizAgent {
	return &QuizAgent{LLM: llm, Chapters: chapters}
}

func (a *QuizAgent) Execute(ctx context.Context, st *workflow.SessionState) (*workflow.AgentResult, error) {
	chapter, err := a.Chapters.FindByID(ctx, st.ChapterID)
	if err != nil {
		return nil, fmt.Errorf("chapter %d not found: %w", st.ChapterID, err)
	}

	difficulty := difficultyFor(st.UserLevel)
	quiz := a.generateQuiz(ctx, st, chapter, difficulty)
	quiz.QuizID = uuid.NewString()
	quiz.Difficulty = difficulty

	return &workflow.AgentResult{
		Message:    renderQuizMessage(quiz),
		UIElements: quizUIElements(quiz),
		Delta:      workflow.StateDelta{PendingQuiz: quiz},
	}, nil
}

func (a *QuizAgent) generateQuiz(ctx context.Context, st *workflow.SessionState, chapter *models.Chapter, difficulty string) *models.QuizPayload {
	prompt := fmt.Sprintf("%s\n\n[챕터 자료]\n%s: %s\n\n[난이도]\n%s\n\n[세션 정보]\n%s",
		quizSystemPrompt, chapter.Title, chapter.Theory, difficulty, buildAgentContext(st))

	raw, err := a.LLM.Complete(ctx, prompt, "문제를 출제해 주세요.")
	if err != nil {
		log.Printf("quiz generation LLM call failed for user %s: %v", st.UserID, err)
		return fallbackQuiz(chapter)
	}

	quiz, err := parseQuizJSON(raw)
	if err != nil {
		log.Printf("quiz generation returned unparseable payload for user %s: %v", st.UserID, err)
		return fallbackQuiz(chapter)
	}
	return quiz
}

func fallbackQuiz(chapter *models.Chapter) *models.QuizPayload {
	quiz := chapter.FallbackQuiz
	return &quiz
}

// parseQuizJSON extracts the first JSON object from the model output and
// validates the structured question.
func parseQuizJSON(raw string) (*models.QuizPayload, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in output")
	}

	var quiz models.QuizPayload
	if err := json.Unmarshal([]byte(raw[start:end+1]), &quiz); err != nil {
		return nil, err
	}

	switch quiz.Type {
	case models.QuizTypeMultipleChoice:
		if quiz.Prompt == "" || len(quiz.Options) < 2 {
			return nil, fmt.Errorf("incomplete multiple choice question")
		}
		if quiz.CorrectIndex < 0 || quiz.CorrectIndex >= len(quiz.Options) {
			return nil, fmt.Errorf("correct_index %d out of range", quiz.CorrectIndex)
		}
	case models.QuizTypeShortAnswer:
		if quiz.Prompt == "" {
			return nil, fmt.Errorf("incomplete short answer question")
		}
	default:
		return nil, fmt.Errorf("unknown quiz type %q", quiz.Type)
	}

	return &quiz, nil
}

func renderQuizMessage(quiz *models.QuizPayload) string {
	var b strings.Builder
	b.WriteString("📝 문제를 풀어보세요!\n\n")
	b.WriteString(quiz.Prompt)
	if quiz.Type == models.QuizTypeMultipleChoice {
		b.WriteString("\n")
		for i, opt := range quiz.Options {
			fmt.Fprintf(&b, "\n%d. %s", i, opt)
		}
		b.WriteString("\n\n번호로 답해 주세요.")
	} else {
		b.WriteString("\n\n자유롭게 답변을 작성해 주세요.")
	}
	return b.String()
}

// quizUIElements is the widget payload handed to the frontend. The correct
// answer stays server-side in the pending quiz.
func quizUIElements(quiz *models.QuizPayload) map[string]interface{} {
	elements := map[string]interface{}{
		"type":      "quiz",
		"quiz_id":   quiz.QuizID,
		"quiz_type": quiz.Type,
		"prompt":    quiz.Prompt,
	}
	if quiz.Type == models.QuizTypeMultipleChoice {
		elements["options"] = quiz.Options
	}
	return elements
}
