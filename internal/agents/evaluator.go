package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"tutor-service/internal/models"
	"tutor-service/internal/workflow"
)

const gradingSystemPrompt = `당신은 학습자의 서술형 답변을 채점하는 튜터입니다.
문제, 기대 키워드, 사용자 답변을 보고 0에서 100 사이의 점수와 짧은 피드백을 매기세요.
다음 JSON 형식으로만 답하세요.
{"score":85,"feedback":"..."}`

// EvaluationAgent scores the user's answer against the pending quiz.
// Multiple choice is graded by exact index match locally; free text is graded
// by the LLM with a keyword-overlap fallback when the LLM is unreachable.
type EvaluationAgent struct {
	LLM          Completer
	PassingScore float64
}

func NewEvaluationAgent(llm Completer, passingScore float64) *EvaluationAgent {
	if passingScore <= 0 {
		passingScore = 70
	}
	return &EvaluationAgent{LLM: llm, PassingScore: passingScore}
}

func (a *EvaluationAgent) Execute(ctx context.Context, st *workflow.SessionState) (*workflow.AgentResult, error) {
	quiz := st.PendingQuiz
	if quiz == nil {
		return nil, fmt.Errorf("no pending quiz to evaluate")
	}

	var eval models.Evaluation
	switch quiz.Type {
	case models.QuizTypeMultipleChoice:
		eval = a.gradeMultipleChoice(quiz, st.UserMessage)
	default:
		eval = a.gradeFreeText(ctx, quiz, st.UserMessage)
	}

	return &workflow.AgentResult{
		Message: eval.Feedback,
		UIElements: map[string]interface{}{
			"type":    "feedback",
			"correct": eval.Correct,
			"score":   eval.Score,
		},
		Delta: workflow.StateDelta{Evaluation: &eval},
	}, nil
}

func (a *EvaluationAgent) gradeMultipleChoice(quiz *models.QuizPayload, answer string) models.Evaluation {
	chosen, ok := parseChoice(answer, quiz.Options)
	if !ok {
		return models.Evaluation{
			Correct:  false,
			Score:    0,
			Feedback: "답을 인식하지 못했습니다. 보기 번호로 다시 답해 주세요.",
		}
	}

	correct := chosen == quiz.CorrectIndex
	eval := models.Evaluation{Correct: correct}
	if correct {
		eval.Score = 100
		eval.Feedback = "🎉 정답입니다! " + quiz.Explanation
	} else {
		eval.Score = 0
		eval.Feedback = fmt.Sprintf("아쉽네요. 정답은 %d번 '%s' 입니다. %s",
			quiz.CorrectIndex, quiz.Options[quiz.CorrectIndex], quiz.Explanation)
	}
	return eval
}

// parseChoice accepts a bare option index or a match on the option text.
func parseChoice(answer string, options []string) (int, bool) {
	answer = strings.TrimSpace(answer)

	if idx, err := strconv.Atoi(answer); err == nil {
		if idx >= 0 && idx < len(options) {
			return idx, true
		}
		return 0, false
	}

	lowered := strings.ToLower(answer)
	for i, opt := range options {
		if strings.Contains(lowered, strings.ToLower(opt)) || strings.Contains(strings.ToLower(opt), lowered) {
			return i, true
		}
	}
	return 0, false
}

func (a *EvaluationAgent) gradeFreeText(ctx context.Context, quiz *models.QuizPayload, answer string) models.Evaluation {
	prompt := fmt.Sprintf("%s\n\n[문제]\n%s\n\n[기대 키워드]\n%s",
		gradingSystemPrompt, quiz.Prompt, strings.Join(quiz.ExpectedKeywords, ", "))

	raw, err := a.LLM.Complete(ctx, prompt, answer)
	if err != nil {
		log.Printf("LLM grading failed, falling back to keyword grading: %v", err)
		return a.gradeByKeywords(quiz, answer)
	}

	eval, err := parseGradingJSON(raw)
	if err != nil {
		log.Printf("LLM grading returned unparseable payload: %v", err)
		return a.gradeByKeywords(quiz, answer)
	}

	eval.Correct = eval.Score >= a.PassingScore
	return eval
}

// gradeByKeywords is the degraded grader: the share of expected keywords
// present in the answer becomes the score.
func (a *EvaluationAgent) gradeByKeywords(quiz *models.QuizPayload, answer string) models.Evaluation {
	if len(quiz.ExpectedKeywords) == 0 {
		return models.Evaluation{
			Correct:  false,
			Score:    0,
			Feedback: "채점 서비스가 일시적으로 불안정하여 답변을 평가하지 못했습니다. 다시 제출해 주세요.",
		}
	}

	lowered := strings.ToLower(answer)
	matched := 0
	for _, kw := range quiz.ExpectedKeywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			matched++
		}
	}

	score := float64(matched) / float64(len(quiz.ExpectedKeywords)) * 100
	eval := models.Evaluation{
		Correct: score >= a.PassingScore,
		Score:   score,
	}
	if eval.Correct {
		eval.Feedback = fmt.Sprintf("핵심 내용을 잘 짚었습니다. (%d/%d 키워드) %s",
			matched, len(quiz.ExpectedKeywords), quiz.Explanation)
	} else {
		eval.Feedback = fmt.Sprintf("핵심 내용이 일부 빠졌습니다. (%d/%d 키워드) %s",
			matched, len(quiz.ExpectedKeywords), quiz.Explanation)
	}
	return eval
}

func parseGradingJSON(raw string) (models.Evaluation, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return models.Evaluation{}, fmt.Errorf("no JSON object in output")
	}

	var parsed struct {
		Score    float64 `json:"score"`
		Feedback string  `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return models.Evaluation{}, err
	}
	if parsed.Score < 0 {
		parsed.Score = 0
	}
	if parsed.Score > 100 {
		parsed.Score = 100
	}

	return models.Evaluation{Score: parsed.Score, Feedback: parsed.Feedback}, nil
}
