package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"growwithme/internal/domain/entity"
)

func TestSimilarityScore(t *testing.T) {
	a := &entity.Idea{ID: "a", Title: "Solar kiosks", Skills: []string{"Go", "IoT"}}

	t.Run("identical ideas score one", func(t *testing.T) {
		b := &entity.Idea{ID: "b", Title: "solar KIOSKS", Skills: []string{"iot", "go"}}
		assert.InDelta(t, 1.0, SimilarityScore(a, b), 1e-9)
	})

	t.Run("symmetric", func(t *testing.T) {
		b := &entity.Idea{ID: "b", Title: "Wind kiosks", Skills: []string{"Go"}}
		assert.InDelta(t, SimilarityScore(a, b), SimilarityScore(b, a), 1e-9)
	})

	t.Run("stop words do not count", func(t *testing.T) {
		b := &entity.Idea{ID: "b", Title: "the and of for"}
		c := &entity.Idea{ID: "c", Title: "the and of for"}
		assert.Zero(t, SimilarityScore(b, c))
	})

	t.Run("disjoint ideas score zero", func(t *testing.T) {
		b := &entity.Idea{ID: "b", Title: "Recipe app", Skills: []string{"Swift"}}
		assert.Zero(t, SimilarityScore(a, b))
	})
}

func TestRankSimilar_TiesBrokenByID(t *testing.T) {
	target := &entity.Idea{ID: "t", Skills: []string{"go"}}
	candidates := []*entity.Idea{
		{ID: "z", Skills: []string{"go"}},
		{ID: "m", Skills: []string{"go"}},
		{ID: "t", Skills: []string{"go"}},
		{ID: "x", Skills: []string{"rust"}},
	}

	got := rankSimilar(target, candidates, 1)
	assert.Len(t, got, 1)
	assert.Equal(t, "m", got[0].Idea.ID)

	got = rankSimilar(target, candidates, 0)
	assert.Len(t, got, 2, "self and zero scores are excluded")
}
