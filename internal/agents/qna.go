package agents

import (
	"context"
	"fmt"
	"log"
	"strings"

	"tutor-service/internal/workflow"
)

const qnaSystemPrompt = `당신은 AI 활용법 학습을 돕는 튜터입니다.
아래 참고 자료와 세션 정보를 바탕으로 사용자의 질문에 답하세요.
참고 자료에 없는 내용은 일반적인 지식으로 보완하되 추측임을 밝히세요.`

const qnaSearchDownDisclaimer = "죄송합니다. 지금은 참고 자료 검색이 어려워 정확한 답변을 드리기 힘듭니다. " +
	"잠시 후 다시 질문해 주시거나, 챕터 설명을 다시 요청해 주세요."

const qnaLLMDownDisclaimer = "죄송합니다. 답변 생성 서비스가 일시적으로 불안정합니다. 잠시 후 다시 질문해 주세요."

// QnAAgent answers free-form questions: top-k passages from the vector-search
// collaborator feed an LLM completion. Both collaborators fail soft, so a
// search outage and an LLM outage each degrade to a static disclaimer.
type QnAAgent struct {
	LLM    Completer
	Search Searcher
	TopK   int
}

func NewQnAAgent(llm Completer, search Searcher, topK int) *QnAAgent {
	if topK <= 0 {
		topK = 3
	}
	return &QnAAgent{LLM: llm, Search: search, TopK: topK}
}

func (a *QnAAgent) Execute(ctx context.Context, st *workflow.SessionState) (*workflow.AgentResult, error) {
	passages, err := a.Search.Search(ctx, st.UserMessage, a.TopK)
	if err != nil {
		log.Printf("vector search unavailable for user %s: %v", st.UserID, err)
		return &workflow.AgentResult{Message: qnaSearchDownDisclaimer}, nil
	}

	var refs strings.Builder
	if len(passages) == 0 {
		refs.WriteString("(관련 참고 자료를 찾지 못했습니다.)")
	} else {
		for i, p := range passages {
			fmt.Fprintf(&refs, "[%d] %s (%s)\n", i+1, p.Content, p.Source)
		}
	}

	prompt := fmt.Sprintf("%s\n\n[참고 자료]\n%s\n\n[세션 정보]\n%s",
		qnaSystemPrompt, refs.String(), buildAgentContext(st))

	text, err := a.LLM.Complete(ctx, prompt, st.UserMessage)
	if err != nil {
		log.Printf("LLM completion failed in QnA for user %s: %v", st.UserID, err)
		return &workflow.AgentResult{Message: qnaLLMDownDisclaimer}, nil
	}

	return &workflow.AgentResult{Message: text}, nil
}
