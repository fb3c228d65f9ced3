// Package search provides semantic search over the learning-material
// knowledge base: chapter content is chunked, embedded through an
// OpenAI-compatible embeddings endpoint, stored in MongoDB, and ranked by
// cosine similarity at query time.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"tutor-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const chunkSize = 500

type Service struct {
	EmbeddingClient *http.Client
	EmbedURL        string
	EmbedModel      string
	Col             *mongo.Collection

	mu        sync.RWMutex
	documents []models.Document
}

func NewService(embedURL, embedModel string, col *mongo.Collection) *Service {
	return &Service{
		EmbeddingClient: &http.Client{Timeout: 30 * time.Second},
		EmbedURL:        embedURL,
		EmbedModel:      embedModel,
		Col:             col,
	}
}

type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

// IndexChapters chunks and embeds chapter material into the knowledge base.
// Embedding failures skip the chunk instead of aborting the load, so a cold
// embedding service degrades the knowledge base rather than the startup.
func (s *Service) IndexChapters(ctx context.Context, chapters []models.Chapter) {
	indexed := 0
	for _, chapter := range chapters {
		source := fmt.Sprintf("chapter_%d", chapter.ID)
		for i, chunk := range splitIntoChunks(chapter.Theory, chunkSize) {
			doc := models.Document{
				ID:      fmt.Sprintf("%s_chunk_%d", source, i),
				Content: chunk,
				Source:  source,
				Metadata: bson.M{
					"chapter_id":  chapter.ID,
					"chunk_index": i,
					"type":        "chapter_theory",
				},
				Created: time.Now(),
			}

			vector, err := s.generateEmbedding(ctx, chunk)
			if err != nil {
				log.Printf("Warning: could not embed %s chunk %d: %v", source, i, err)
				continue
			}
			doc.Vector = vector

			s.mu.Lock()
			s.documents = append(s.documents, doc)
			s.mu.Unlock()

			if err := s.storeDocument(ctx, doc); err != nil {
				log.Printf("Warning: could not store document %s: %v", doc.ID, err)
			}
			indexed++
		}
	}
	log.Printf("Indexed %d knowledge chunks", indexed)
}

// LoadFromStore pulls previously embedded documents back into memory.
func (s *Service) LoadFromStore(ctx context.Context) error {
	if s.Col == nil {
		return fmt.Errorf("knowledge collection not configured")
	}

	cursor, err := s.Col.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var docs []models.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return err
	}

	s.mu.Lock()
	s.documents = docs
	s.mu.Unlock()

	log.Printf("Loaded %d knowledge chunks from store", len(docs))
	return nil
}

// Search returns the top-k passages ranked by cosine similarity to the query.
// An empty knowledge base yields an empty result, not an error.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]models.Passage, error) {
	if topK <= 0 {
		topK = 3
	}

	queryVector, err := s.generateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query failed: %w", err)
	}

	s.mu.RLock()
	docs := s.documents
	s.mu.RUnlock()

	type scored struct {
		doc   models.Document
		score float64
	}
	ranked := make([]scored, 0, len(docs))
	for _, doc := range docs {
		if len(doc.Vector) == 0 {
			continue
		}
		ranked = append(ranked, scored{doc, cosineSimilarity(queryVector, doc.Vector)})
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	passages := make([]models.Passage, 0, len(ranked))
	for _, r := range ranked {
		passages = append(passages, models.Passage{
			Content: r.doc.Content,
			Source:  r.doc.Source,
			Score:   r.score,
		})
	}
	return passages, nil
}

func (s *Service) generateEmbedding(ctx context.Context, text string) ([]float64, error) {
	reqBody := embeddingRequest{Model: s.EmbedModel, Prompt: text}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.EmbedURL+"/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.EmbeddingClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("embedding API error (status %d): %s", resp.StatusCode, string(body))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, err
	}
	if len(embResp.Embedding) == 0 {
		return nil, fmt.Errorf("embedding API returned empty vector")
	}
	return embResp.Embedding, nil
}

func (s *Service) storeDocument(ctx context.Context, doc models.Document) error {
	if s.Col == nil {
		return nil
	}
	_, err := s.Col.ReplaceOne(
		ctx,
		bson.M{"_id": doc.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func splitIntoChunks(text string, maxChunkSize int) []string {
	words := strings.Fields(text)
	var chunks []string
	var currentChunk []string
	currentSize := 0

	for _, word := range words {
		if currentSize+len(word)+1 > maxChunkSize && len(currentChunk) > 0 {
			chunks = append(chunks, strings.Join(currentChunk, " "))
			currentChunk = []string{word}
			currentSize = len(word)
		} else {
			currentChunk = append(currentChunk, word)
			currentSize += len(word) + 1
		}
	}

	if len(currentChunk) > 0 {
		chunks = append(chunks, strings.Join(currentChunk, " "))
	}

	return chunks
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
