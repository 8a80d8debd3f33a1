package scoring

import (
	"fmt"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Factor keys reported by the providers.
const (
	FactorSimilarity     = "similarity"
	FactorTagOverlap     = "tag_overlap"
	FactorAuthorMatch    = "author_match"
	FactorDiversityBonus = "diversity_bonus"
	FactorBaseline       = "baseline"
	FactorFresh          = "fresh"
)

// Weights are the static, per-deployment scoring weights.
// They are passed by value so providers can never write them back.
type Weights struct {
	Similarity     float64 `json:"similarity" yaml:"similarity" mapstructure:"similarity"`
	TagSim         float64 `json:"tag_sim" yaml:"tag_sim" mapstructure:"tag_sim"`
	Echo           float64 `json:"echo" yaml:"echo" mapstructure:"echo"`
	DiversityBonus float64 `json:"diversity_bonus" yaml:"diversity_bonus" mapstructure:"diversity_bonus"`
	Fresh          float64 `json:"fresh" yaml:"fresh" mapstructure:"fresh"`
	Baseline       float64 `json:"baseline" yaml:"baseline" mapstructure:"baseline"`
}

// DefaultWeights returns the weights used when a deployment configures none.
func DefaultWeights() Weights {
	return Weights{
		Similarity:     1.0,
		TagSim:         0.5,
		Echo:           0.6,
		DiversityBonus: 0.1,
		Fresh:          0.05,
		Baseline:       0.1,
	}
}

// Params bundles the inputs a provider reads besides the snapshots.
type Params struct {
	Weights         Weights
	AuthorThreshold float64
	TagThreshold    float64
}

// ParamsFor builds the scoring params of a mode.
func ParamsFor(w Weights, mode domain.ModeConfig) Params {
	return Params{
		Weights:         w,
		AuthorThreshold: mode.AuthorThreshold,
		TagThreshold:    mode.TagThreshold,
	}
}

// Scorer scores one snapshot for one provider and returns the raw score plus the
// explainability factors behind it. origin and query may be nil.
type Scorer func(snap, origin *domain.NodeSnapshot, query []float64, p Params) (float64, map[string]float64)

var scorers = map[domain.Provider]Scorer{
	domain.ProviderCompass: Compass,
	domain.ProviderEcho:    Echo,
	domain.ProviderRandom:  Random,
}

// For returns the scorer of a provider.
func For(p domain.Provider) (Scorer, error) {
	s, ok := scorers[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProvider, p)
	}
	return s, nil
}

// Compass scores by embedding similarity to the query vector and tag overlap with the origin.
// Without a query vector only the tag signal contributes.
func Compass(snap, origin *domain.NodeSnapshot, query []float64, p Params) (float64, map[string]float64) {
	var sim float64
	if len(query) > 0 && snap.HasEmbedding() {
		sim = Cosine(query, snap.Embedding)
	}
	tag := tagsOf(origin, snap)

	score := tag * p.Weights.TagSim
	if len(query) > 0 {
		score += sim * p.Weights.Similarity
	}

	return score, map[string]float64{
		FactorSimilarity: sim,
		FactorTagOverlap: tag,
	}
}

// Echo rewards same-author continuity and topical closeness to the origin.
// Each signal only counts once it clears its mode threshold; a different author
// that clears the tag threshold earns the diversity bonus.
func Echo(snap, origin *domain.NodeSnapshot, _ []float64, p Params) (float64, map[string]float64) {
	author := AuthorMatch(origin, snap)
	tag := tagsOf(origin, snap)

	var score, bonus float64
	if author > 0 && author >= p.AuthorThreshold {
		score += author * p.Weights.Echo
	}
	if tag > 0 && tag >= p.TagThreshold {
		score += tag * p.Weights.TagSim
		if author == 0 {
			bonus = p.Weights.DiversityBonus
			score += bonus
		}
	}

	return score, map[string]float64{
		FactorAuthorMatch:    author,
		FactorTagOverlap:     tag,
		FactorDiversityBonus: bonus,
	}
}

// Random assigns the constant exploration score.
func Random(_, _ *domain.NodeSnapshot, _ []float64, p Params) (float64, map[string]float64) {
	return p.Weights.Baseline + p.Weights.Fresh, map[string]float64{
		FactorBaseline: p.Weights.Baseline,
		FactorFresh:    p.Weights.Fresh,
	}
}

func tagsOf(origin, snap *domain.NodeSnapshot) float64 {
	if origin == nil || snap == nil {
		return 0
	}
	return TagOverlap(origin.Tags, snap.Tags)
}
