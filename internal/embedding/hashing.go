package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

const (
	HashingModel             = "feature-hashing-v1"
	DefaultHashingDimensions = 384
)

var hashToken = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Hashing embeds text by hashing word unigrams and bigrams into a signed
// bag-of-features vector. It is deterministic and needs no model download.
type Hashing struct {
	dims int
}

// NewHashing returns a hashing embedder with dims dimensions.
func NewHashing(dims int) *Hashing {
	if dims <= 0 {
		dims = DefaultHashingDimensions
	}
	return &Hashing{dims: dims}
}

func (h *Hashing) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.embed(text)
	}
	return out, nil
}

func (h *Hashing) embed(text string) []float32 {
	vec := make([]float64, h.dims)
	tokens := hashToken.FindAllString(strings.ToLower(text), -1)
	for i, tok := range tokens {
		h.add(vec, tok, 1)
		if i > 0 {
			h.add(vec, tokens[i-1]+" "+tok, 0.5)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	out := make([]float32, h.dims)
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out
}

func (h *Hashing) add(vec []float64, feature string, weight float64) {
	f := fnv.New64a()
	_, _ = f.Write([]byte(feature))
	sum := f.Sum64()
	idx := int(sum % uint64(h.dims))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// Ping always succeeds; the embedder is local.
func (h *Hashing) Ping(context.Context) error {
	return nil
}

func (h *Hashing) ModelName() string {
	return HashingModel
}

func (h *Hashing) Dimensions() int {
	return h.dims
}

func (h *Hashing) Close() error {
	return nil
}
