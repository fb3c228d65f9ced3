package workflow

import (
	"time"

	"tutor-service/internal/models"
)

const (
	maxTopicLength = 100
	maxTopicCount  = 3
)

// SummarizeLoop compresses the current loop's turns into a short record kept
// for long-term context. Content-preserving, not byte-exact.
func SummarizeLoop(st *SessionState, decision string) models.LoopSummary {
	agentsSeen := map[string]bool{}
	agentsUsed := []string{}
	mainTopics := []string{}

	for _, turn := range st.CurrentTurns {
		if turn.AgentName != "" && !agentsSeen[turn.AgentName] {
			agentsSeen[turn.AgentName] = true
			agentsUsed = append(agentsUsed, turn.AgentName)
		}
		if turn.Role == models.RoleUser && len(mainTopics) < maxTopicCount {
			topic := turn.Text
			if runes := []rune(topic); len(runes) > maxTopicLength {
				topic = string(runes[:maxTopicLength])
			}
			mainTopics = append(mainTopics, topic)
		}
	}

	return models.LoopSummary{
		LoopID:     st.LoopID,
		UserID:     st.UserID,
		ChapterID:  st.ChapterID,
		StartedAt:  st.LoopStartedAt,
		EndedAt:    time.Now(),
		TurnCount:  len(st.CurrentTurns),
		AgentsUsed: agentsUsed,
		MainTopics: mainTopics,
		MeanScore:  st.MeanScore(),
		Decision:   decision,
	}
}
