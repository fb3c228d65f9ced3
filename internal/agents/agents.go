// Package agents implements the five stateless agents of the learning loop:
// theory explainer, QnA resolver, quiz generator, answer evaluator, and
// learning supervisor. Each agent is a pure transform from the session state
// to an outbound message plus a state delta; collaborator failures are caught
// locally and degraded, never propagated as partial state.
package agents

import (
	"context"
	"fmt"
	"strings"

	"tutor-service/internal/models"
	"tutor-service/internal/workflow"
)

// Completer is the outbound LLM collaborator.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Searcher is the vector-search collaborator. An empty result set is a valid
// answer ("no context found"), not an error.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]models.Passage, error)
}

// ChapterSource provides chapter content to the content agents.
type ChapterSource interface {
	FindByID(ctx context.Context, id int) (*models.Chapter, error)
}

// buildAgentContext renders the session context handed to LLM-backed agents:
// user profile, recent loop summaries, and the tail of the current loop's
// conversation.
func buildAgentContext(st *workflow.SessionState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "사용자 유형: %s\n", st.UserType)
	fmt.Fprintf(&b, "사용자 레벨: %s\n", st.UserLevel)
	fmt.Fprintf(&b, "현재 챕터: %d\n", st.ChapterID)

	if len(st.RecentSummaries) > 0 {
		b.WriteString("\n=== 최근 학습 요약 ===\n")
		summaries := st.RecentSummaries
		if len(summaries) > 3 {
			summaries = summaries[len(summaries)-3:]
		}
		for _, s := range summaries {
			fmt.Fprintf(&b, "챕터 %d (%s): %s\n", s.ChapterID, s.Decision, strings.Join(s.MainTopics, " | "))
		}
	}

	if len(st.CurrentTurns) > 0 {
		b.WriteString("\n=== 현재 루프 대화 ===\n")
		turns := st.CurrentTurns
		if len(turns) > 5 {
			turns = turns[len(turns)-5:]
		}
		for _, t := range turns {
			text := t.Text
			if runes := []rune(text); len(runes) > 200 {
				text = string(runes[:200])
			}
			if t.Role == models.RoleUser {
				fmt.Fprintf(&b, "사용자: %s\n", text)
			} else {
				fmt.Fprintf(&b, "%s: %s\n", t.AgentName, text)
			}
		}
	}

	return b.String()
}

// difficultyFor maps the user level to a quiz difficulty.
func difficultyFor(level string) string {
	switch level {
	case models.UserLevelHigh:
		return "hard"
	case models.UserLevelMedium:
		return "medium"
	default:
		return "easy"
	}
}
