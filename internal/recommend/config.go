package recommend

import "time"

// Config tunes the engine. Zero values are replaced by defaults via
// withDefaults, so an empty Config is usable.
type Config struct {
	// Weights is the default blend; a Request may override it.
	Weights Weights `json:"weights" mapstructure:"weights"`

	// CentroidFloor is the centroid similarity below which the semantic
	// scorer falls back to maximum pairwise similarity.
	CentroidFloor float64 `json:"centroid_floor" mapstructure:"centroid_floor"`

	// MissingPenalty is subtracted from confidence per abstained component.
	MissingPenalty float64 `json:"missing_penalty" mapstructure:"missing_penalty"`

	// VariancePenalty scales the confidence penalty for disagreement among
	// the available component scores.
	VariancePenalty float64 `json:"variance_penalty" mapstructure:"variance_penalty"`

	// ComponentTimeout bounds each scorer's work per request.
	ComponentTimeout time.Duration `json:"component_timeout" mapstructure:"component_timeout_ms"`

	// EmbedTimeout bounds a single provider call once a cache miss is in
	// flight. The flight outlives caller cancellation so a completed vector
	// can still warm the cache.
	EmbedTimeout time.Duration `json:"embed_timeout" mapstructure:"embed_timeout_ms"`

	// EmbeddingDim is the expected provider vector length.
	EmbeddingDim int `json:"embedding_dim" mapstructure:"embedding_dim"`
}

const (
	defaultCentroidFloor   = 0.30
	defaultMissingPenalty  = 0.15
	defaultVariancePenalty = 0.5
	defaultComponentTO     = 1500 * time.Millisecond
	defaultEmbedTO         = 10 * time.Second

	// DefaultEmbeddingDim matches text-embedding-3-small.
	DefaultEmbeddingDim = 1536
)

func (c Config) withDefaults() Config {
	if c.Weights == (Weights{}) {
		c.Weights = DefaultWeights()
	}
	if c.CentroidFloor == 0 {
		c.CentroidFloor = defaultCentroidFloor
	}
	if c.MissingPenalty == 0 {
		c.MissingPenalty = defaultMissingPenalty
	}
	if c.VariancePenalty == 0 {
		c.VariancePenalty = defaultVariancePenalty
	}
	if c.ComponentTimeout == 0 {
		c.ComponentTimeout = defaultComponentTO
	}
	if c.EmbedTimeout == 0 {
		c.EmbedTimeout = defaultEmbedTO
	}
	if c.EmbeddingDim == 0 {
		c.EmbeddingDim = DefaultEmbeddingDim
	}
	return c
}
