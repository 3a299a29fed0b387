package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growwithme/internal/domain/entity"
	"growwithme/internal/infrastructure/ratelimit"
	"growwithme/pkg/errors"
)

func TestIdeaUseCase_Post(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "f1", entity.RoleFounder)

	t.Run("seeds team and defaults", func(t *testing.T) {
		idea, err := f.ideas.Post(ctx, "f1", CreateIdeaInput{
			Title:       "  Solar <b>kiosks</b> ",
			Description: "Off-grid charging",
			Skills:      []string{"Go", "go", " ", "IoT"},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"f1"}, idea.Team)
		assert.Equal(t, entity.IdeaStatusRecruiting, idea.Status)
		assert.Equal(t, entity.VisibilityPublic, idea.Visibility)
		assert.Equal(t, "Solar kiosks", idea.Title)
		assert.Equal(t, []string{"Go", "IoT"}, idea.Skills)
		assert.Equal(t, "User f1", idea.FounderName)
	})

	t.Run("rejects abusive text", func(t *testing.T) {
		_, err := f.ideas.Post(ctx, "f1", CreateIdeaInput{Title: "this is shit", Description: "x"})
		assert.True(t, errors.Is(err, errors.CodeValidation))
	})

	t.Run("rejects unknown visibility", func(t *testing.T) {
		_, err := f.ideas.Post(ctx, "f1", CreateIdeaInput{Title: "t", Description: "d", Visibility: "secret"})
		assert.True(t, errors.Is(err, errors.CodeBadRequest))
	})

	t.Run("requires title and description", func(t *testing.T) {
		_, err := f.ideas.Post(ctx, "f1", CreateIdeaInput{Title: "<p></p>", Description: "d"})
		assert.True(t, errors.Is(err, errors.CodeBadRequest))
	})
}

func ids(items []*entity.Idea) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.ID)
	}
	return out
}

func TestIdeaUseCase_PrivateIdeaVisibleAfterConnecting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "f1", entity.RoleFounder)
	f.addUser(t, "v1", entity.RoleInvestor)

	private := f.postIdea(t, "f1", "Stealth", entity.VisibilityPrivate)
	public := f.postIdea(t, "f1", "Open", entity.VisibilityPublic)

	page, err := f.ideas.Paginate(ctx, "", 10, "v1")
	require.NoError(t, err)
	assert.NotContains(t, ids(page.Items), private.ID)
	assert.Contains(t, ids(page.Items), public.ID)

	f.connect(t, "f1", "v1")

	page, err = f.ideas.Paginate(ctx, "", 10, "v1")
	require.NoError(t, err)
	assert.Contains(t, ids(page.Items), private.ID)
}

func TestIdeaUseCase_PaginateVisibilityRule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "f1", entity.RoleFounder)
	f.addUser(t, "friend", entity.RoleDeveloper)
	f.addUser(t, "stranger", entity.RoleDeveloper)
	f.connect(t, "friend", "f1")

	private := f.postIdea(t, "f1", "Private", entity.VisibilityPrivate)
	f.postIdea(t, "f1", "Public", entity.VisibilityPublic)

	cases := []struct {
		viewer      string
		seesPrivate bool
	}{
		{viewer: "", seesPrivate: false},
		{viewer: "stranger", seesPrivate: false},
		{viewer: "friend", seesPrivate: true},
		{viewer: "f1", seesPrivate: true},
	}
	for _, tc := range cases {
		t.Run("viewer="+tc.viewer, func(t *testing.T) {
			page, err := f.ideas.Paginate(ctx, "", 10, tc.viewer)
			require.NoError(t, err)
			assert.Equal(t, tc.seesPrivate, contains(ids(page.Items), private.ID))
			assert.False(t, page.HasMore)

			_, err = f.ideas.Get(ctx, private.ID, tc.viewer)
			if tc.seesPrivate {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.IsNotFound(err))
			}
		})
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestIdeaUseCase_PaginateFillsPagesAcrossHiddenIdeas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "f1", entity.RoleFounder)
	f.addUser(t, "f2", entity.RoleFounder)

	// Direct inserts give deterministic ids: p0..p9 public, h0..h9 private.
	for i := 0; i < 10; i++ {
		require.NoError(t, f.store.Ideas().Create(ctx, &entity.Idea{
			ID: fmt.Sprintf("h%d", i), FounderID: "f2", Status: "recruiting", Visibility: entity.VisibilityPrivate,
		}))
		require.NoError(t, f.store.Ideas().Create(ctx, &entity.Idea{
			ID: fmt.Sprintf("p%d", i), FounderID: "f1", Status: "recruiting", Visibility: entity.VisibilityPublic,
		}))
	}

	var seen []string
	cursor := ""
	for pages := 0; pages < 10; pages++ {
		page, err := f.ideas.Paginate(ctx, cursor, 3, "")
		require.NoError(t, err)
		seen = append(seen, ids(page.Items)...)
		if !page.HasMore {
			break
		}
		assert.Len(t, page.Items, 3, "pages before the last are full")
		require.NotEmpty(t, page.NextCursor)
		cursor = page.NextCursor
	}

	assert.Equal(t, []string{"p0", "p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9"}, seen)
}

func TestIdeaUseCase_PaginateHasMoreOnExactBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "f1", entity.RoleFounder)
	for i := 0; i < 4; i++ {
		require.NoError(t, f.store.Ideas().Create(ctx, &entity.Idea{
			ID: fmt.Sprintf("i%d", i), FounderID: "f1", Status: "recruiting", Visibility: entity.VisibilityPublic,
		}))
	}

	page, err := f.ideas.Paginate(ctx, "", 2, "")
	require.NoError(t, err)
	assert.True(t, page.HasMore)
	assert.Equal(t, "i1", page.NextCursor)

	page, err = f.ideas.Paginate(ctx, page.NextCursor, 2, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"i2", "i3"}, ids(page.Items))
	assert.False(t, page.HasMore)
}

func TestIdeaUseCase_PaginateOrdersByStatusThenID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "f1", entity.RoleFounder)
	for _, idea := range []*entity.Idea{
		{ID: "a", Status: "recruiting"},
		{ID: "b", Status: "funded"},
		{ID: "c", Status: "building"},
	} {
		idea.FounderID = "f1"
		idea.Visibility = entity.VisibilityPublic
		require.NoError(t, f.store.Ideas().Create(ctx, idea))
	}

	page, err := f.ideas.Paginate(ctx, "", 10, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(page.Items))
}

func TestIdeaUseCase_ToggleLikeIsAnInvolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "f1", entity.RoleFounder)
	f.addUser(t, "u1", entity.RoleDeveloper)
	idea := f.postIdea(t, "f1", "Likeable", entity.VisibilityPublic)

	liked, err := f.ideas.ToggleLike(ctx, idea.ID, "u1")
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := f.ideas.Get(ctx, idea.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, got.Likes)

	liked, err = f.ideas.ToggleLike(ctx, idea.ID, "u1")
	require.NoError(t, err)
	assert.False(t, liked)

	got, err = f.ideas.Get(ctx, idea.ID, "u1")
	require.NoError(t, err)
	assert.Empty(t, got.Likes)
}

func TestIdeaUseCase_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "f1", entity.RoleFounder)
	f.addUser(t, "u1", entity.RoleDeveloper)
	idea := f.postIdea(t, "f1", "Original", entity.VisibilityPublic, "Go")

	t.Run("founder only", func(t *testing.T) {
		_, err := f.ideas.Update(ctx, idea.ID, "u1", UpdateIdeaInput{Title: ptr("Hijacked")})
		assert.True(t, errors.Is(err, errors.CodeForbidden))
	})

	t.Run("partial merge", func(t *testing.T) {
		updated, err := f.ideas.Update(ctx, idea.ID, "f1", UpdateIdeaInput{Visibility: ptr(entity.VisibilityPrivate)})
		require.NoError(t, err)
		assert.Equal(t, entity.VisibilityPrivate, updated.Visibility)
		assert.Equal(t, "Original", updated.Title)
		assert.Equal(t, []string{"Go"}, updated.Skills)
		assert.Equal(t, []string{"f1"}, updated.Team)
	})

	t.Run("revalidates text", func(t *testing.T) {
		_, err := f.ideas.Update(ctx, idea.ID, "f1", UpdateIdeaInput{Description: ptr("what a bitch")})
		assert.True(t, errors.Is(err, errors.CodeValidation))
	})
}

func TestIdeaUseCase_Comments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "f1", entity.RoleFounder)
	f.addUser(t, "u1", entity.RoleDeveloper)
	idea := f.postIdea(t, "f1", "Discussed", entity.VisibilityPublic)

	comment, err := f.ideas.AddComment(ctx, idea.ID, "u1", "<i>this is fuck</i>")
	require.NoError(t, err)
	assert.Equal(t, "this is ***", comment.Text)

	stored, err := f.store.Ideas().GetByID(ctx, idea.ID)
	require.NoError(t, err)
	require.Len(t, stored.Comments, 1)
	assert.Equal(t, comment.ID, stored.Comments[0].ID)

	sub, err := f.ideas.ListComments(ctx, idea.ID, "")
	require.NoError(t, err)
	require.Len(t, sub, 1)
	assert.Equal(t, comment.ID, sub[0].ID)

	err = f.ideas.DeleteComment(ctx, idea.ID, comment.ID, "u1")
	assert.True(t, errors.Is(err, errors.CodeForbidden), "only the founder deletes comments")

	require.NoError(t, f.ideas.DeleteComment(ctx, idea.ID, comment.ID, "f1"))
	stored, err = f.store.Ideas().GetByID(ctx, idea.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Comments)
	sub, err = f.ideas.ListComments(ctx, idea.ID, "")
	require.NoError(t, err)
	assert.Empty(t, sub)

	err = f.ideas.DeleteComment(ctx, idea.ID, comment.ID, "f1")
	assert.True(t, errors.IsNotFound(err))
}

func TestIdeaUseCase_CommentOnHiddenIdea(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "f1", entity.RoleFounder)
	f.addUser(t, "u1", entity.RoleDeveloper)
	idea := f.postIdea(t, "f1", "Hidden", entity.VisibilityPrivate)

	_, err := f.ideas.AddComment(context.Background(), idea.ID, "u1", "hello")
	assert.True(t, errors.IsNotFound(err))
}

func TestIdeaUseCase_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "f1", entity.RoleFounder)
	f.addUser(t, "u1", entity.RoleDeveloper)
	idea := f.postIdea(t, "f1", "Doomed", entity.VisibilityPublic)

	assert.True(t, errors.Is(f.ideas.Delete(ctx, idea.ID, "u1"), errors.CodeForbidden))
	require.NoError(t, f.ideas.Delete(ctx, idea.ID, "f1"))

	_, err := f.ideas.Get(ctx, idea.ID, "f1")
	assert.True(t, errors.IsNotFound(err))
}

func TestIdeaUseCase_Similar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "f1", entity.RoleFounder)
	f.addUser(t, "f2", entity.RoleFounder)

	post := func(founder, title, description, visibility string, skills ...string) *entity.Idea {
		idea, err := f.ideas.Post(ctx, founder, CreateIdeaInput{
			Title: title, Description: description, Visibility: visibility, Skills: skills,
		})
		require.NoError(t, err)
		return idea
	}

	target := post("f1", "Solar charging kiosks", "alpha", entity.VisibilityPublic, "iot", "hardware")
	near := post("f2", "Solar kiosks for villages", "solar", entity.VisibilityPublic, "iot", "hardware")
	partial := post("f2", "Battery hardware", "battery", entity.VisibilityPublic, "hardware")
	post("f2", "Recipe sharing", "cooking", entity.VisibilityPublic, "mobile")
	hidden := post("f2", "Solar kiosks stealth", "solar", entity.VisibilityPrivate, "iot", "hardware")

	got, err := f.ideas.Similar(ctx, target.ID, "f1", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	var order []string
	for _, s := range got {
		order = append(order, s.Idea.ID)
	}
	assert.Equal(t, []string{near.ID, partial.ID}, order)
	assert.NotContains(t, order, hidden.ID)
	assert.InDelta(t, 0.6+0.4*2.0/5.0, got[0].Score, 1e-9)
	assert.InDelta(t, 0.3, got[1].Score, 1e-9)
}

func TestIdeaUseCase_CommentRateLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "f1", entity.RoleFounder)
	f.addUser(t, "u1", entity.RoleDeveloper)
	f.addUser(t, "u2", entity.RoleDeveloper)
	idea := f.postIdea(t, "f1", "Busy thread", entity.VisibilityPublic)

	ideas := NewIdeaUseCase(f.store.Ideas(), f.store.Users(),
		ratelimit.NewRateLimiterWithPolicies(map[string]ratelimit.Policy{
			ratelimit.ActionComment: {MaxTokens: 1, RefillRate: 1, RefillTime: time.Hour},
		}))

	_, err := ideas.AddComment(ctx, idea.ID, "u1", "first")
	require.NoError(t, err)
	_, err = ideas.AddComment(ctx, idea.ID, "u1", "second")
	assert.True(t, errors.Is(err, errors.CodeTooManyRequests))

	_, err = ideas.AddComment(ctx, idea.ID, "u2", "someone else")
	require.NoError(t, err)

	stored, err := f.store.Ideas().GetByID(ctx, idea.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Comments, 2)
}
