package agents

import (
	"context"
	"fmt"

	"tutor-service/internal/workflow"
)

const theorySystemPrompt = `당신은 AI 활용법을 가르치는 친절한 튜터입니다.
아래 챕터 자료를 바탕으로 사용자 수준에 맞춰 개념을 설명하세요.
전문 용어는 처음 등장할 때 풀어서 설명하고, 마지막에 이해를 확인하는 한 문장을 덧붙이세요.`

// TheoryAgent explains the current chapter's concepts through the LLM,
// adapted to the user's level. When the LLM is unreachable it degrades to the
// chapter's stored summary so the loop can still start.
type TheoryAgent struct {
	LLM      Completer
	Chapters ChapterSource
}

func NewTheoryAgent(llm Completer, chapters ChapterSource) *TheoryAgent {
	return &TheoryAgent{LLM: llm, Chapters: chapters}
}

func (a *TheoryAgent) Execute(ctx context.Context, st *workflow.SessionState) (*workflow.AgentResult, error) {
	chapter, err := a.Chapters.FindByID(ctx, st.ChapterID)
	if err != nil {
		return nil, fmt.Errorf("chapter %d not found: %w", st.ChapterID, err)
	}

	prompt := fmt.Sprintf("%s\n\n[챕터 자료]\n%s: %s\n\n[학습 목표]\n%s\n\n[세션 정보]\n%s",
		theorySystemPrompt,
		chapter.Title, chapter.Theory,
		joinLines(chapter.Objectives),
		buildAgentContext(st),
	)

	text, err := a.LLM.Complete(ctx, prompt, fmt.Sprintf("챕터 %d의 개념을 설명해 주세요.", st.ChapterID))
	if err != nil {
		// Degraded delivery: the stored chapter summary still lets the
		// learner move forward.
		text = fmt.Sprintf("[%s]\n\n%s\n\n(상세 설명 서비스가 일시적으로 불안정하여 요약본으로 안내드립니다.)",
			chapter.Title, chapter.Summary)
	}

	return &workflow.AgentResult{Message: text}, nil
}

func joinLines(lines []string) string {
	out := ""
	for i, line := range lines {
		if i > 0 {
			out += "\n"
		}
		out += "- " + line
	}
	return out
}
