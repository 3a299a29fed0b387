package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/pkg/errors"
)

type ideaRepository struct {
	s *Store
}

func (s *Store) Ideas() repository.IdeaRepository {
	return &ideaRepository{s: s}
}

func (r *ideaRepository) Create(ctx context.Context, idea *entity.Idea) error {
	r.s.mu.Lock()
	r.s.ideas[idea.ID] = cloneIdea(idea)
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *ideaRepository) GetByID(ctx context.Context, id string) (*entity.Idea, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	idea, ok := r.s.ideas[id]
	if !ok {
		return nil, errors.NotFound("Idea", nil)
	}
	return cloneIdea(idea), nil
}

func (r *ideaRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	r.s.mu.Lock()
	idea, ok := r.s.ideas[id]
	if !ok {
		r.s.mu.Unlock()
		return errors.NotFound("Idea", nil)
	}
	next := cloneIdea(idea)
	if err := applyIdeaFields(next, fields); err != nil {
		r.s.mu.Unlock()
		return err
	}
	r.s.ideas[id] = next
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *ideaRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	if _, ok := r.s.ideas[id]; !ok {
		r.s.mu.Unlock()
		return errors.NotFound("Idea", nil)
	}
	delete(r.s.ideas, id)
	delete(r.s.comments, id)
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

// ideaLess mirrors the Firestore ordering of status then document id.
func ideaLess(a, b *entity.Idea) bool {
	if a.Status != b.Status {
		return a.Status < b.Status
	}
	return a.ID < b.ID
}

func (r *ideaRepository) ListPage(ctx context.Context, afterID string, limit int) ([]*entity.Idea, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]*entity.Idea, 0, len(r.s.ideas))
	for _, idea := range r.s.ideas {
		all = append(all, idea)
	}
	sort.Slice(all, func(i, j int) bool { return ideaLess(all[i], all[j]) })

	start := 0
	if afterID != "" {
		cursor, ok := r.s.ideas[afterID]
		if !ok {
			return nil, errors.BadRequest("Invalid cursor", nil)
		}
		start = sort.Search(len(all), func(i int) bool { return ideaLess(cursor, all[i]) })
	}

	var out []*entity.Idea
	for i := start; i < len(all); i++ {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, cloneIdea(all[i]))
	}
	return out, nil
}

func (r *ideaRepository) ListAll(ctx context.Context) ([]*entity.Idea, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Idea, 0, len(r.s.ideas))
	for _, idea := range r.s.ideas {
		out = append(out, cloneIdea(idea))
	}
	return sortByID(out, func(i *entity.Idea) string { return i.ID }), nil
}

func (r *ideaRepository) CountByFounder(ctx context.Context, founderID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, idea := range r.s.ideas {
		if idea.FounderID == founderID {
			n++
		}
	}
	return n, nil
}

func (r *ideaRepository) ToggleLike(ctx context.Context, ideaID, userID string) (bool, error) {
	r.s.mu.Lock()
	idea, ok := r.s.ideas[ideaID]
	if !ok {
		r.s.mu.Unlock()
		return false, errors.NotFound("Idea", nil)
	}
	next := cloneIdea(idea)
	liked := !next.LikedBy(userID)
	if liked {
		next.Likes = append(next.Likes, userID)
	} else {
		next.Likes = removeString(next.Likes, userID)
	}
	r.s.ideas[ideaID] = next
	r.s.mu.Unlock()

	r.s.changed()
	return liked, nil
}

func (r *ideaRepository) AddComment(ctx context.Context, comment *entity.Comment) error {
	r.s.mu.Lock()
	idea, ok := r.s.ideas[comment.IdeaID]
	if !ok {
		r.s.mu.Unlock()
		return errors.NotFound("Idea", nil)
	}
	next := cloneIdea(idea)
	next.Comments = append(next.Comments, *comment)
	r.s.ideas[comment.IdeaID] = next

	if r.s.comments[comment.IdeaID] == nil {
		r.s.comments[comment.IdeaID] = make(map[string]*entity.Comment)
	}
	c := *comment
	r.s.comments[comment.IdeaID][comment.ID] = &c
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *ideaRepository) DeleteComment(ctx context.Context, ideaID, commentID string) error {
	r.s.mu.Lock()
	idea, ok := r.s.ideas[ideaID]
	if !ok {
		r.s.mu.Unlock()
		return errors.NotFound("Idea", nil)
	}

	next := cloneIdea(idea)
	kept := make([]entity.Comment, 0, len(next.Comments))
	found := false
	for _, c := range next.Comments {
		if c.ID == commentID {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	_, inSub := r.s.comments[ideaID][commentID]
	if !found && !inSub {
		r.s.mu.Unlock()
		return errors.NotFound("Comment", nil)
	}

	next.Comments = kept
	next.UpdatedAt = time.Now()
	r.s.ideas[ideaID] = next
	delete(r.s.comments[ideaID], commentID)
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *ideaRepository) ListComments(ctx context.Context, ideaID string) ([]*entity.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Comment, 0, len(r.s.comments[ideaID]))
	for _, c := range r.s.comments[ideaID] {
		cc := *c
		out = append(out, &cc)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func applyIdeaFields(idea *entity.Idea, fields map[string]interface{}) error {
	for key, value := range fields {
		var ok bool
		switch key {
		case "title":
			idea.Title, ok = value.(string)
		case "description":
			idea.Description, ok = value.(string)
		case "skills":
			idea.Skills, ok = value.([]string)
		case "status":
			idea.Status, ok = value.(string)
		case "visibility":
			idea.Visibility, ok = value.(string)
		case "investment":
			idea.Investment, ok = value.(entity.InvestmentDetails)
		case "updatedAt":
			idea.UpdatedAt, ok = value.(time.Time)
		default:
			return errors.Internal("Failed to update idea", fmt.Errorf("unsupported field %q", key))
		}
		if !ok {
			return errors.Internal("Failed to update idea", fmt.Errorf("field %q has type %T", key, value))
		}
	}
	return nil
}
