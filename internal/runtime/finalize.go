package runtime

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/scoring"
)

// dedup keeps one envelope per node id: the highest score wins and ties go to the
// provider listed first in the mode. First-seen order is preserved.
func dedup(envs []envelope, cfg domain.ModeConfig) []envelope {
	index := make(map[int64]int, len(envs))
	out := make([]envelope, 0, len(envs))
	for _, env := range envs {
		i, seen := index[env.snap.ID]
		if !seen {
			index[env.snap.ID] = len(out)
			out = append(out, env)
			continue
		}
		cur := out[i]
		if env.score > cur.score || (env.score == cur.score && cfg.Rank(env.provider) < cfg.Rank(cur.provider)) {
			out[i] = env
		}
	}
	return out
}

// probabilities returns the epsilon-blended, temperature-scaled softmax of the scores.
func probabilities(envs []envelope, temperature, epsilon float64) []float64 {
	n := len(envs)
	if n == 0 {
		return nil
	}
	if temperature <= 0 {
		temperature = 1
	}
	epsilon = math.Max(0, math.Min(1, epsilon))

	maxScore := envs[0].score
	for _, env := range envs[1:] {
		maxScore = math.Max(maxScore, env.score)
	}

	probs := make([]float64, n)
	var sum float64
	for i, env := range envs {
		probs[i] = math.Exp((env.score - maxScore) / temperature)
		sum += probs[i]
	}
	uniform := 1 / float64(n)
	for i := range probs {
		probs[i] = (1-epsilon)*probs[i]/sum + epsilon*uniform
	}
	return probs
}

func badgeFor(env envelope, cfg domain.ModeConfig, tc domain.TransitionContext) domain.Badge {
	if tc.InRouteWindow(env.snap.ID) {
		return domain.BadgeTrail
	}
	if env.provider == domain.ProviderCompass {
		signal := math.Max(env.factors[scoring.FactorSimilarity], env.factors[scoring.FactorTagOverlap])
		if signal > cfg.TagThreshold {
			return domain.BadgeSimilar
		}
	}
	return domain.BadgeExplore
}

// finalize turns the raw envelopes into the ordered, truncated candidate list.
// It returns the candidates and the pool size before truncation.
func finalize(envs []envelope, cfg domain.ModeConfig, providers []domain.Provider, tc domain.TransitionContext) ([]domain.TransitionCandidate, int) {
	pool := dedup(envs, cfg)
	if len(pool) == 0 {
		return nil, 0
	}
	probs := probabilities(pool, cfg.Temperature, cfg.Epsilon)

	candidates := make([]domain.TransitionCandidate, len(pool))
	for i, env := range pool {
		badge := badgeFor(env, cfg, tc)
		candidates[i] = domain.TransitionCandidate{
			NodeID:      env.snap.ID,
			Provider:    env.provider,
			Score:       env.score,
			Probability: probs[i],
			Factors:     env.factors,
			Badge:       badge,
			Explain:     explain(env, badge),
		}
	}

	slices.SortStableFunc(candidates, func(a, b domain.TransitionCandidate) int {
		if c := cmp.Compare(b.Probability, a.Probability); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.NodeID, b.NodeID)
	})

	limit := cfg.KBase * len(providers)
	if tc.RequestedUISlots > 0 && tc.RequestedUISlots < limit {
		limit = tc.RequestedUISlots
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	var sum float64
	for _, c := range candidates {
		sum += c.Probability
	}
	if sum > 0 {
		for i := range candidates {
			candidates[i].Probability /= sum
		}
	}
	return candidates, len(pool)
}

// explain renders a short sentence describing why a candidate surfaced.
func explain(env envelope, badge domain.Badge) string {
	var msg string
	switch env.provider {
	case domain.ProviderCompass:
		sim := env.factors[scoring.FactorSimilarity]
		tag := env.factors[scoring.FactorTagOverlap]
		if sim > 0 {
			msg = fmt.Sprintf("Close in content to your recent path (similarity %.2f, shared tags %.2f).", sim, tag)
		} else {
			msg = fmt.Sprintf("Shares topics with where you are (shared tags %.2f).", tag)
		}
	case domain.ProviderEcho:
		switch {
		case env.factors[scoring.FactorAuthorMatch] > 0:
			msg = "More from the same author."
		case env.factors[scoring.FactorDiversityBonus] > 0:
			msg = fmt.Sprintf("Same topic from a different author (shared tags %.2f).", env.factors[scoring.FactorTagOverlap])
		default:
			msg = "Loosely related to where you are."
		}
	default:
		msg = "A random pick to explore something new."
	}
	if badge == domain.BadgeTrail {
		msg += " You visited this recently."
	}
	return msg
}
