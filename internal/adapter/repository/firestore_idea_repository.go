package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/pkg/errors"
	"growwithme/pkg/logger"
)

type firestoreIdeaRepository struct {
	client *firestore.Client
}

func NewFirestoreIdeaRepository(client *firestore.Client) repository.IdeaRepository {
	return &firestoreIdeaRepository{
		client: client,
	}
}

func (r *firestoreIdeaRepository) ideas() *firestore.CollectionRef {
	return r.client.Collection(ideasCollection)
}

func (r *firestoreIdeaRepository) Create(ctx context.Context, idea *entity.Idea) error {
	if _, err := r.ideas().Doc(idea.ID).Set(ctx, idea); err != nil {
		return errors.Internal("Failed to create idea", err)
	}
	return nil
}

func (r *firestoreIdeaRepository) GetByID(ctx context.Context, id string) (*entity.Idea, error) {
	doc, err := r.ideas().Doc(id).Get(ctx)
	if err != nil {
		return nil, getError(err, "Idea")
	}

	var idea entity.Idea
	if err := doc.DataTo(&idea); err != nil {
		return nil, errors.Internal("Failed to parse idea data", err)
	}
	return &idea, nil
}

func (r *firestoreIdeaRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if _, err := r.ideas().Doc(id).Update(ctx, toUpdates(fields)); err != nil {
		return writeError(err, "Idea", "update")
	}
	return nil
}

func (r *firestoreIdeaRepository) Delete(ctx context.Context, id string) error {
	ideaRef := r.ideas().Doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ideaRef); err != nil {
			return err
		}
		comments, err := tx.Documents(ideaRef.Collection(commentsCollection)).GetAll()
		if err != nil {
			return err
		}
		for _, c := range comments {
			if err := tx.Delete(c.Ref); err != nil {
				return err
			}
		}
		return tx.Delete(ideaRef)
	})
	if err != nil {
		return writeError(err, "Idea", "delete")
	}
	return nil
}

func (r *firestoreIdeaRepository) ListPage(ctx context.Context, afterID string, limit int) ([]*entity.Idea, error) {
	q := r.ideas().OrderBy("status", firestore.Asc).OrderBy(firestore.DocumentID, firestore.Asc)

	if afterID != "" {
		cursor, err := r.ideas().Doc(afterID).Get(ctx)
		if err != nil {
			if isNotFound(err) {
				return nil, errors.BadRequest("Invalid cursor", err)
			}
			return nil, errors.Internal("Failed to resolve cursor", err)
		}
		q = q.StartAfter(cursor)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	return queryAll[entity.Idea](ctx, q, "ideas")
}

func (r *firestoreIdeaRepository) ListAll(ctx context.Context) ([]*entity.Idea, error) {
	return queryAll[entity.Idea](ctx, r.ideas().Query, "ideas")
}

func (r *firestoreIdeaRepository) CountByFounder(ctx context.Context, founderID string) (int, error) {
	iter := r.ideas().Where("founderId", "==", founderID).Select().Documents(ctx)
	docs, err := iter.GetAll()
	if err != nil {
		logger.Error("Error counting ideas for founder %s: %v", founderID, err)
		return 0, errors.Internal("Failed to count ideas", err)
	}
	return len(docs), nil
}

func (r *firestoreIdeaRepository) ToggleLike(ctx context.Context, ideaID, userID string) (bool, error) {
	ref := r.ideas().Doc(ideaID)
	var liked bool

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var idea entity.Idea
		if err := doc.DataTo(&idea); err != nil {
			return err
		}

		var op interface{}
		if idea.LikedBy(userID) {
			liked = false
			op = firestore.ArrayRemove(userID)
		} else {
			liked = true
			op = firestore.ArrayUnion(userID)
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "likes", Value: op},
		})
	})
	if err != nil {
		return false, writeError(err, "Idea", "toggle like on")
	}
	return liked, nil
}

func (r *firestoreIdeaRepository) AddComment(ctx context.Context, comment *entity.Comment) error {
	ideaRef := r.ideas().Doc(comment.IdeaID)
	commentRef := ideaRef.Collection(commentsCollection).Doc(comment.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ideaRef); err != nil {
			return err
		}
		if err := tx.Create(commentRef, comment); err != nil {
			return err
		}
		return tx.Update(ideaRef, []firestore.Update{
			{Path: "comments", Value: firestore.ArrayUnion(*comment)},
		})
	})
	if err != nil {
		return writeError(err, "Idea", "add comment to")
	}
	return nil
}

func (r *firestoreIdeaRepository) DeleteComment(ctx context.Context, ideaID, commentID string) error {
	ideaRef := r.ideas().Doc(ideaID)
	commentRef := ideaRef.Collection(commentsCollection).Doc(commentID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ideaRef)
		if err != nil {
			return err
		}
		var idea entity.Idea
		if err := doc.DataTo(&idea); err != nil {
			return err
		}

		kept := make([]entity.Comment, 0, len(idea.Comments))
		found := false
		for _, c := range idea.Comments {
			if c.ID == commentID {
				found = true
				continue
			}
			kept = append(kept, c)
		}

		sub, err := tx.Get(commentRef)
		if err != nil && !isNotFound(err) {
			return err
		}
		if !found && (sub == nil || !sub.Exists()) {
			return errors.NotFound("Comment", nil)
		}

		if err := tx.Update(ideaRef, []firestore.Update{
			{Path: "comments", Value: kept},
			{Path: "updatedAt", Value: time.Now()},
		}); err != nil {
			return err
		}
		return tx.Delete(commentRef)
	})
	if err != nil {
		return writeError(err, "Idea", "delete comment from")
	}
	return nil
}

func (r *firestoreIdeaRepository) ListComments(ctx context.Context, ideaID string) ([]*entity.Comment, error) {
	q := r.ideas().Doc(ideaID).Collection(commentsCollection).OrderBy("createdAt", firestore.Asc)
	return queryAll[entity.Comment](ctx, q, "comments")
}
