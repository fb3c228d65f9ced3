package search

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tutor-service/internal/models"
)

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"length mismatch", []float64{1, 2}, []float64{1}, 0},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
		{"empty", nil, nil, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := cosineSimilarity(c.a, c.b)
			if math.Abs(got-c.want) > 1e-9 {
				t.Errorf("cosineSimilarity(%v, %v) = %f, want %f", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestSplitIntoChunks(t *testing.T) {
	text := strings.Repeat("word ", 200)
	chunks := splitIntoChunks(text, 100)

	if len(chunks) < 2 {
		t.Fatalf("expected the text split into multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 100 {
			t.Errorf("chunk %d exceeds max size: %d", i, len(chunk))
		}
	}

	// Rejoining loses nothing but whitespace.
	joined := strings.Join(chunks, " ")
	if joined != strings.TrimSpace(text) {
		t.Error("chunking must preserve all words in order")
	}
}

func TestSplitIntoChunksShortText(t *testing.T) {
	chunks := splitIntoChunks("짧은 텍스트", 500)
	if len(chunks) != 1 || chunks[0] != "짧은 텍스트" {
		t.Errorf("short text should stay a single chunk, got %v", chunks)
	}

	if got := splitIntoChunks("", 500); len(got) != 0 {
		t.Errorf("empty text should produce no chunks, got %v", got)
	}
}

// embeddingStub returns a fixed vector per keyword so ranking is predictable.
func embeddingStub(t *testing.T, vectors map[string][]float64, fallback []float64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode embedding request: %v", err)
		}
		vec := fallback
		for kw, v := range vectors {
			if strings.Contains(req.Prompt, kw) {
				vec = v
				break
			}
		}
		json.NewEncoder(w).Encode(embeddingResponse{Embedding: vec})
	}))
}

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	server := embeddingStub(t, map[string][]float64{
		"프롬프트": {1, 0, 0},
	}, []float64{0, 1, 0})
	defer server.Close()

	svc := NewService(server.URL, "test-embed", nil)
	svc.documents = []models.Document{
		{Content: "프롬프트 작성 요령", Source: "chapter_3", Vector: []float64{0.9, 0.1, 0}},
		{Content: "AI의 역사", Source: "chapter_1", Vector: []float64{0, 0.2, 0.9}},
		{Content: "LLM의 구조", Source: "chapter_2", Vector: []float64{0.5, 0.5, 0}},
		{Content: "벡터 없음", Source: "chapter_4"},
	}

	passages, err := svc.Search(context.Background(), "프롬프트 잘 쓰는 법", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(passages) != 2 {
		t.Fatalf("expected top 2 passages, got %d", len(passages))
	}
	if passages[0].Content != "프롬프트 작성 요령" {
		t.Errorf("expected the closest passage first, got %q", passages[0].Content)
	}
	if passages[0].Score <= passages[1].Score {
		t.Error("passages must be ordered by descending score")
	}
}

func TestSearchEmptyKnowledgeBase(t *testing.T) {
	server := embeddingStub(t, nil, []float64{1, 0})
	defer server.Close()

	svc := NewService(server.URL, "test-embed", nil)
	passages, err := svc.Search(context.Background(), "질문", 3)
	if err != nil {
		t.Fatalf("an empty knowledge base is not an error, got %v", err)
	}
	if len(passages) != 0 {
		t.Errorf("expected no passages, got %d", len(passages))
	}
}

func TestSearchFailsWhenEmbeddingDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no model loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := NewService(server.URL, "test-embed", nil)
	if _, err := svc.Search(context.Background(), "질문", 3); err == nil {
		t.Error("expected an error when the embedding endpoint fails")
	}
}

func TestIndexChaptersSkipsFailedEmbeddings(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "cold start", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(embeddingResponse{Embedding: []float64{1, 0}})
	}))
	defer server.Close()

	svc := NewService(server.URL, "test-embed", nil)
	svc.IndexChapters(context.Background(), []models.Chapter{
		{ID: 1, Theory: "첫 번째 챕터 내용"},
		{ID: 2, Theory: "두 번째 챕터 내용"},
	})

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	if len(svc.documents) != 1 {
		t.Errorf("expected the failed chunk skipped, got %d documents", len(svc.documents))
	}
	if svc.documents[0].Source != "chapter_2" {
		t.Errorf("expected the surviving chunk from chapter 2, got %s", svc.documents[0].Source)
	}
}
