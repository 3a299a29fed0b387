package usecase

import (
	"sort"
	"strings"
	"unicode"

	"growwithme/internal/domain/entity"
)

const (
	skillWeight = 0.6
	textWeight  = 0.4
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "from": {}, "in": {}, "into": {}, "is": {}, "it": {}, "its": {},
	"of": {}, "on": {}, "or": {}, "that": {}, "the": {}, "this": {}, "to": {},
	"we": {}, "with": {}, "our": {}, "your": {}, "you": {}, "will": {}, "can": {},
}

type ScoredIdea struct {
	Idea  *entity.Idea `json:"idea"`
	Score float64      `json:"score"`
}

func skillSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if len(w) < 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// jaccard is |a∩b| / |a∪b|, and 0 when both sets are empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// SimilarityScore weighs skill overlap against overlap of the title and
// description vocabulary. The result is in [0, 1] and symmetric.
func SimilarityScore(a, b *entity.Idea) float64 {
	skills := jaccard(skillSet(a.Skills), skillSet(b.Skills))
	text := jaccard(tokenSet(a.Title+" "+a.Description), tokenSet(b.Title+" "+b.Description))
	return skillWeight*skills + textWeight*text
}

// rankSimilar scores candidates against target and returns the best limit
// with a positive score, highest first and ties by id.
func rankSimilar(target *entity.Idea, candidates []*entity.Idea, limit int) []ScoredIdea {
	var scored []ScoredIdea
	for _, c := range candidates {
		if c.ID == target.ID {
			continue
		}
		if s := SimilarityScore(target, c); s > 0 {
			scored = append(scored, ScoredIdea{Idea: c, Score: s})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Idea.ID < scored[j].Idea.ID
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
