package agents

import (
	"context"
	"fmt"

	"tutor-service/internal/workflow"
)

// SupervisorAgent decides whether the learner advances to the next chapter or
// repeats the current one. The decision looks only at the current loop's quiz
// scores; there are no persistent analytics behind it.
type SupervisorAgent struct {
	PassingScore float64
	MaxChapter   int
}

func NewSupervisorAgent(passingScore float64, maxChapter int) *SupervisorAgent {
	if passingScore <= 0 {
		passingScore = 70
	}
	if maxChapter <= 0 {
		maxChapter = 5
	}
	return &SupervisorAgent{PassingScore: passingScore, MaxChapter: maxChapter}
}

func (a *SupervisorAgent) Execute(ctx context.Context, st *workflow.SessionState) (*workflow.AgentResult, error) {
	mean := st.MeanScore()

	if len(st.QuizScores) == 0 {
		return &workflow.AgentResult{
			Message: "이번 루프에서는 푼 문제가 없어 이해도를 확인하지 못했습니다. 같은 챕터를 한 번 더 학습해 볼게요.",
			Delta:   workflow.StateDelta{Decision: workflow.DecisionRepeat, NextChapter: st.ChapterID},
		}, nil
	}

	if mean < a.PassingScore {
		return &workflow.AgentResult{
			Message: fmt.Sprintf("이번 루프 평균 점수는 %.0f점입니다. 조금 더 연습이 필요해 보여서 챕터 %d를 다시 학습할게요.",
				mean, st.ChapterID),
			Delta: workflow.StateDelta{Decision: workflow.DecisionRepeat, NextChapter: st.ChapterID},
		}, nil
	}

	next := st.ChapterID + 1
	if next > a.MaxChapter {
		return &workflow.AgentResult{
			Message: fmt.Sprintf("평균 %.0f점, 훌륭합니다! 마지막 챕터까지 모두 마쳤습니다. 복습을 위해 챕터 %d를 이어서 다룰게요.",
				mean, a.MaxChapter),
			Delta: workflow.StateDelta{Decision: workflow.DecisionAdvance, NextChapter: a.MaxChapter},
		}, nil
	}

	return &workflow.AgentResult{
		Message: fmt.Sprintf("평균 %.0f점, 잘 하셨습니다! 다음 챕터 %d로 넘어갑니다.", mean, next),
		Delta:   workflow.StateDelta{Decision: workflow.DecisionAdvance, NextChapter: next},
	}, nil
}
