package routing

import "strings"

// Intent is a router's classification of the latest user message.
type Intent string

const (
	IntentQuestion Intent = "question"
	IntentQuiz     Intent = "quiz"
	IntentProceed  Intent = "proceed"
)

// rule pairs a predicate with the intent it selects. Rules are evaluated in
// order; the last rule of every router matches unconditionally, so routing
// never fails and ambiguous input falls back to the question intent.
type rule struct {
	match  func(message string) bool
	intent Intent
}

// Router classifies a user message into one of a fixed set of intents using
// keyword heuristics. No model call, no shared state.
type Router struct {
	name  string
	rules []rule
}

// Name identifies the router in logs and turn records.
func (r *Router) Name() string {
	return r.name
}

// Route returns exactly one intent for the message. It never fails.
func (r *Router) Route(message string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for _, rl := range r.rules {
		if rl.match(normalized) {
			return rl.intent
		}
	}
	// Unreachable as long as the final rule is unconditional, kept as a
	// guard for routers built without one.
	return IntentQuestion
}

func containsAny(message string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}

var questionKeywords = []string{
	"?", "질문", "궁금", "뭐", "무엇", "어떻게", "왜", "언제", "어디서", "누가",
	"모르겠", "헷갈", "설명", "알려", "가르쳐", "예시", "차이", "비교",
	"what", "how", "why", "when", "where", "who", "explain", "question",
}

var quizKeywords = []string{
	"문제", "퀴즈", "테스트", "시험", "풀어", "연습", "실습", "확인", "점검",
	"준비 됐", "준비됐", "이해했", "알겠",
	"quiz", "test", "problem", "practice", "ready",
}

var proceedKeywords = []string{
	"다음", "계속", "진행", "넘어가",
	"next", "continue", "proceed", "go on", "move on", "done",
}

// Bare affirmations only count when they are the whole message. "네" and "예"
// are common sentence endings ("뭐예요?") and must not match as substrings.
var affirmations = []string{
	"네", "예", "응", "좋아", "좋아요", "알겠습니다", "알겠어요",
	"yes", "ok", "okay", "sure",
}

func proceedMatch(message string) bool {
	if containsAny(message, proceedKeywords) {
		return true
	}
	for _, a := range affirmations {
		if message == a {
			return true
		}
	}
	return false
}

// NewPostTheoryRouter builds the router that runs after a theory explanation
// (or after a QnA answer). Targets: quiz generation or QnA. An explicit quiz
// request wins over question phrasing; everything else is treated as a
// question so the conversation never dead-ends.
func NewPostTheoryRouter() *Router {
	return &Router{
		name: "PostTheoryRouter",
		rules: []rule{
			{func(m string) bool { return containsAny(m, quizKeywords) }, IntentQuiz},
			{proceedMatch, IntentQuiz},
			{func(m string) bool { return containsAny(m, questionKeywords) }, IntentQuestion},
			{func(m string) bool { return true }, IntentQuestion},
		},
	}
}

// NewPostFeedbackRouter builds the router that runs after quiz feedback.
// Targets: proceed to the supervisor or ask more questions. Default policy is
// the question intent, same as post-theory.
func NewPostFeedbackRouter() *Router {
	return &Router{
		name: "PostFeedbackRouter",
		rules: []rule{
			{proceedMatch, IntentProceed},
			{func(m string) bool { return containsAny(m, questionKeywords) }, IntentQuestion},
			{func(m string) bool { return true }, IntentQuestion},
		},
	}
}
