package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"
	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/pageza/epicourier/backend/config"
	"github.com/pageza/epicourier/backend/internal/metrics"
)

// embeddingBatchSize bounds the inputs sent in one API request.
const embeddingBatchSize = 64

// EmbeddingService calls an OpenAI-compatible /embeddings endpoint and
// caches vectors in redis. It implements recommend.Embedder.
type EmbeddingService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
	cache  *EmbeddingCache
	cb     *gobreaker.CircuitBreaker[[][]float32]
}

// NewEmbeddingService creates a remote embedding client. cache may be nil.
func NewEmbeddingService(cfg config.EmbeddingConfig, client *http.Client, cache *EmbeddingCache) *EmbeddingService {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &EmbeddingService{
		apiKey: cfg.APIKey,
		apiURL: cfg.APIURL,
		model:  cfg.Model,
		client: client,
		cache:  cache,
		cb:     newBreaker[[][]float32]("embedding"),
	}
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed returns the vector for one text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch returns one vector per text, in order. Cached vectors are
// reused and only misses are sent to the API.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string

	cached := s.cache.GetMany(ctx, s.model, texts)
	for i, t := range texts {
		if v, ok := cached[i]; ok {
			out[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}
	if len(missTexts) == 0 {
		return out, nil
	}

	for start := 0; start < len(missTexts); start += embeddingBatchSize {
		end := min(start+embeddingBatchSize, len(missTexts))
		chunk := missTexts[start:end]

		vectors, err := execute(s.cb, func() ([][]float32, error) {
			return s.request(ctx, chunk)
		})
		metrics.RecordUpstream("embedding", err)
		if err != nil {
			return nil, err
		}
		for j, v := range vectors {
			out[missIdx[start+j]] = v
		}
		s.cache.SetMany(ctx, s.model, chunk, vectors)
	}
	return out, nil
}

func (s *EmbeddingService) request(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embeddingRequest{Model: s.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("embedding request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var result embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(result.Data))
	}

	out := make([][]float32, len(texts))
	for _, d := range result.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		out[d.Index] = d.Embedding
	}
	for i, v := range out {
		if v == nil {
			return nil, fmt.Errorf("missing embedding for input %d", i)
		}
	}
	return out, nil
}

// EmbeddingCache stores vectors in redis in pgvector text form, keyed by
// model and text hash. A nil cache is valid and caches nothing.
type EmbeddingCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewEmbeddingCache returns nil when rdb is nil.
func NewEmbeddingCache(rdb *redis.Client, ttl time.Duration) *EmbeddingCache {
	if rdb == nil {
		return nil
	}
	return &EmbeddingCache{redis: rdb, ttl: ttl}
}

func cacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return "embedding:" + hex.EncodeToString(sum[:])
}

// GetMany returns cached vectors by input index. Redis errors count as
// misses.
func (c *EmbeddingCache) GetMany(ctx context.Context, model string, texts []string) map[int][]float32 {
	hits := map[int][]float32{}
	if c == nil || len(texts) == 0 {
		return hits
	}
	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = cacheKey(model, t)
	}

	vals, err := c.redis.MGet(ctx, keys...).Result()
	if err != nil {
		metrics.EmbeddingCacheMisses.Add(float64(len(texts)))
		return hits
	}
	for i, raw := range vals {
		s, ok := raw.(string)
		if !ok {
			continue
		}
		var v pgvector.Vector
		if err := v.Scan(s); err != nil {
			continue
		}
		hits[i] = v.Slice()
	}
	metrics.EmbeddingCacheHits.Add(float64(len(hits)))
	metrics.EmbeddingCacheMisses.Add(float64(len(texts) - len(hits)))
	return hits
}

// SetMany writes vectors through to redis. Failures are ignored.
func (c *EmbeddingCache) SetMany(ctx context.Context, model string, texts []string, vectors [][]float32) {
	if c == nil {
		return
	}
	pipe := c.redis.Pipeline()
	for i, t := range texts {
		pipe.Set(ctx, cacheKey(model, t), pgvector.NewVector(vectors[i]).String(), c.ttl)
	}
	_, _ = pipe.Exec(ctx)
}

// HashEmbedder is a local, deterministic embedder used when no embedding
// API is configured. Lower-cased word tokens and their bigrams are hashed
// into a fixed number of signed buckets and the result is L2-normalised,
// so texts sharing vocabulary score a positive cosine similarity.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates a hashing embedder with dim buckets.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = 384
	}
	return &HashEmbedder{dim: dim}
}

// Embed never fails.
func (h *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return h.vector(text), nil
}

// EmbedBatch embeds every text.
func (h *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = h.vector(t)
	}
	return out, nil
}

func (h *HashEmbedder) vector(text string) []float32 {
	acc := make([]float64, h.dim)
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	add := func(tok string, weight float64) {
		f := fnv.New64a()
		_, _ = f.Write([]byte(tok))
		sum := f.Sum64()
		sign := 1.0
		if sum>>63 == 1 {
			sign = -1
		}
		acc[sum%uint64(h.dim)] += sign * weight
	}
	for i, tok := range tokens {
		add(tok, 1)
		if i > 0 {
			add(tokens[i-1]+" "+tok, 0.5)
		}
	}

	var norm float64
	for _, x := range acc {
		norm += x * x
	}
	out := make([]float32, h.dim)
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i, x := range acc {
		out[i] = float32(x / norm)
	}
	return out
}
