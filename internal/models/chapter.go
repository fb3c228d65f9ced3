package models

// Chapter is one content unit of the curriculum.
type Chapter struct {
	ID           int         `bson:"_id" json:"id"`
	Title        string      `bson:"title" json:"title"`
	Objectives   []string    `bson:"objectives" json:"objectives"`
	Theory       string      `bson:"theory" json:"theory"`
	Summary      string      `bson:"summary" json:"summary"`
	FallbackQuiz QuizPayload `bson:"fallback_quiz" json:"fallback_quiz"`
}

// DefaultChapters is the initial curriculum, inserted when the chapters
// collection is empty.
func DefaultChapters() []Chapter {
	return []Chapter{
		{
			ID:    1,
			Title: "AI는 무엇인가? (What is AI?)",
			Objectives: []string{
				"인공지능의 정의 이해",
				"머신러닝과 딥러닝의 관계 파악",
				"일상 속 AI 활용 사례 인식",
			},
			Theory: "인공지능(AI)은 인간의 학습, 추론, 지각 능력을 컴퓨터로 구현하는 기술입니다. " +
				"머신러닝은 데이터에서 패턴을 학습하는 AI의 한 분야이며, 딥러닝은 인공신경망을 " +
				"여러 층으로 쌓아 복잡한 패턴을 학습하는 머신러닝 기법입니다. 추천 시스템, " +
				"음성 비서, 번역기가 대표적인 활용 사례입니다.",
			Summary: "AI는 인간의 지적 능력을 컴퓨터로 구현하는 기술이며, 머신러닝과 딥러닝이 핵심 분야입니다.",
			FallbackQuiz: QuizPayload{
				QuizID: "ch1_fallback",
				Type:   QuizTypeMultipleChoice,
				Prompt: "머신러닝에 대한 설명으로 가장 적절한 것은?",
				Options: []string{
					"데이터에서 패턴을 학습하는 AI의 한 분야이다",
					"사람이 모든 규칙을 직접 프로그래밍하는 방식이다",
					"하드웨어 성능을 높이는 기술이다",
					"데이터베이스를 관리하는 도구이다",
				},
				CorrectIndex: 0,
				Explanation:  "머신러닝은 명시적 규칙 대신 데이터로부터 패턴을 학습합니다.",
				Difficulty:   "easy",
			},
		},
		{
			ID:    2,
			Title: "LLM의 이해 (Understanding LLMs)",
			Objectives: []string{
				"대규모 언어 모델의 동작 원리 이해",
				"토큰과 확률 기반 생성 개념 파악",
			},
			Theory: "대규모 언어 모델(LLM)은 방대한 텍스트로 학습되어 다음 토큰을 확률적으로 " +
				"예측하는 모델입니다. 문장을 토큰 단위로 분해하고, 문맥을 바탕으로 가장 " +
				"그럴듯한 다음 토큰을 생성하는 과정을 반복해 답변을 만듭니다. 학습 데이터에 " +
				"없는 사실을 그럴듯하게 지어내는 환각(hallucination) 현상이 한계로 꼽힙니다.",
			Summary: "LLM은 다음 토큰을 확률적으로 예측하며 텍스트를 생성하는 모델입니다.",
			FallbackQuiz: QuizPayload{
				QuizID: "ch2_fallback",
				Type:   QuizTypeMultipleChoice,
				Prompt: "LLM이 텍스트를 생성하는 기본 원리는?",
				Options: []string{
					"다음 토큰을 확률적으로 예측한다",
					"미리 작성된 답변 목록에서 검색한다",
					"문법 규칙을 직접 적용한다",
					"인터넷을 실시간으로 검색한다",
				},
				CorrectIndex: 0,
				Explanation:  "LLM은 문맥을 바탕으로 다음 토큰의 확률 분포를 계산해 생성합니다.",
				Difficulty:   "easy",
			},
		},
		{
			ID:    3,
			Title: "AI와 머신러닝의 구분 (AI vs ML)",
			Objectives: []string{
				"AI, 머신러닝, 딥러닝의 포함 관계 정리",
				"지도학습과 비지도학습의 차이 이해",
			},
			Theory: "AI는 가장 넓은 개념이고, 머신러닝은 AI를 구현하는 방법 중 하나이며, " +
				"딥러닝은 머신러닝의 한 기법입니다. 지도학습은 정답이 있는 데이터로 학습하고, " +
				"비지도학습은 정답 없이 데이터의 구조를 스스로 찾아냅니다.",
			Summary: "AI ⊃ 머신러닝 ⊃ 딥러닝의 포함 관계이며, 학습 방식에 따라 지도/비지도학습으로 나뉩니다.",
			FallbackQuiz: QuizPayload{
				QuizID: "ch3_fallback",
				Type:   QuizTypeShortAnswer,
				Prompt: "지도학습과 비지도학습의 가장 큰 차이를 한 문장으로 설명해 보세요.",
				ExpectedKeywords: []string{
					"정답", "라벨", "레이블",
				},
				Explanation: "지도학습은 정답(라벨)이 있는 데이터로, 비지도학습은 정답 없이 학습합니다.",
				Difficulty:  "medium",
			},
		},
		{
			ID:    4,
			Title: "프롬프트 작성법 (Prompt Writing)",
			Objectives: []string{
				"좋은 프롬프트의 구성 요소 이해",
				"역할, 맥락, 형식 지정 기법 연습",
			},
			Theory: "좋은 프롬프트는 역할(누구로서 답할지), 맥락(무엇에 대한 요청인지), " +
				"형식(어떤 형태로 답할지)을 명확히 지정합니다. 예시를 함께 제공하면 " +
				"원하는 결과에 더 가까운 답변을 얻을 수 있습니다. 모호한 요청보다 " +
				"구체적인 조건을 나열하는 것이 효과적입니다.",
			Summary: "역할, 맥락, 형식을 명확히 지정하고 예시를 제공하는 것이 좋은 프롬프트의 핵심입니다.",
			FallbackQuiz: QuizPayload{
				QuizID: "ch4_fallback",
				Type:   QuizTypeShortAnswer,
				Prompt: "여행 일정을 추천받기 위한 프롬프트를 직접 작성해 보세요.",
				ExpectedKeywords: []string{
					"역할", "형식", "조건", "여행",
				},
				Explanation: "역할과 조건, 원하는 출력 형식이 드러난 프롬프트가 좋은 답변입니다.",
				Difficulty:  "medium",
			},
		},
		{
			ID:    5,
			Title: "ChatGPT 활용과 한계 (Using ChatGPT)",
			Objectives: []string{
				"ChatGPT의 강점과 한계 이해",
				"환각 현상에 대한 검증 습관 형성",
			},
			Theory: "ChatGPT는 초안 작성, 요약, 번역, 아이디어 발상에 강점이 있지만, " +
				"최신 정보나 사실 확인에는 약점이 있습니다. 중요한 정보는 반드시 " +
				"다른 출처로 교차 검증해야 하며, 민감한 개인정보를 입력하지 않는 것이 안전합니다.",
			Summary: "ChatGPT는 생성 작업에 강하지만 사실 검증은 사용자의 몫입니다.",
			FallbackQuiz: QuizPayload{
				QuizID: "ch5_fallback",
				Type:   QuizTypeMultipleChoice,
				Prompt: "ChatGPT 답변을 다룰 때 가장 적절한 태도는?",
				Options: []string{
					"중요한 사실은 다른 출처로 교차 검증한다",
					"항상 정확하므로 그대로 사용한다",
					"최신 뉴스 확인용으로만 사용한다",
					"개인정보를 입력해 맞춤 답변을 받는다",
				},
				CorrectIndex: 0,
				Explanation:  "환각 현상 때문에 중요한 정보는 교차 검증이 필요합니다.",
				Difficulty:   "easy",
			},
		},
	}
}
