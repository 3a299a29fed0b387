package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"growwithme/internal/domain/entity"
	"growwithme/pkg/errors"
	"growwithme/pkg/logger"
)

const (
	usersCollection              = "users"
	ideasCollection              = "ideas"
	commentsCollection           = "comments"
	joinRequestsCollection       = "joinRequests"
	connectionRequestsCollection = "connectionRequests"
	negotiationsCollection       = "negotiations"
	notificationsCollection      = "notifications"
	matchAlertsCollection        = "match_alerts"
	chatsCollection              = "chats"
	messagesCollection           = "messages"
)

// Firestore caps a single transaction at 500 writes.
const maxWritesPerTransaction = 500

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}

// getError maps a document read failure to an AppError.
func getError(err error, resource string) error {
	if isNotFound(err) {
		return errors.NotFound(resource, err)
	}
	return errors.Internal("Failed to get "+resource, err)
}

// writeError maps a write failure, keeping AppErrors raised inside
// transactions intact.
func writeError(err error, resource, op string) error {
	if _, ok := err.(*errors.AppError); ok {
		return err
	}
	if isNotFound(err) {
		return errors.NotFound(resource, err)
	}
	return errors.Internal("Failed to "+op+" "+resource, err)
}

// requirePending reads a request document inside tx and fails with CONFLICT
// unless it is still pending.
func requirePending(tx *firestore.Transaction, ref *firestore.DocumentRef, resource string) error {
	doc, err := tx.Get(ref)
	if err != nil {
		return err
	}
	state, err := doc.DataAt("status")
	if err != nil {
		return err
	}
	if state != entity.RequestPending {
		return errors.Conflict(resource + " is no longer pending")
	}
	return nil
}

func decodeAll[T any](iter *firestore.DocumentIterator) ([]*T, error) {
	defer iter.Stop()

	var out []*T
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, nil
}

func decodeSnapshots[T any](docs []*firestore.DocumentSnapshot) ([]*T, error) {
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, nil
}

func queryAll[T any](ctx context.Context, q firestore.Query, resource string) ([]*T, error) {
	items, err := decodeAll[T](q.Documents(ctx))
	if err != nil {
		logger.Error("Firestore error while listing %s: %v", resource, err)
		return nil, errors.Internal("Failed to list "+resource, err)
	}
	return items, nil
}

// watchQuery feeds every snapshot of q to fn until ctx ends. It returns nil
// on cancellation and an AppError when the listener itself fails.
func watchQuery[T any](ctx context.Context, q firestore.Query, resource string, fn func([]*T)) error {
	it := q.Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return nil
			}
			logger.Error("Snapshot listener on %s failed: %v", resource, err)
			return errors.Internal("Listener on "+resource+" failed", err)
		}

		docs, err := snap.Documents.GetAll()
		if err != nil {
			return errors.Internal("Failed to read "+resource+" snapshot", err)
		}
		items, err := decodeSnapshots[T](docs)
		if err != nil {
			return errors.Internal("Failed to parse "+resource+" snapshot", err)
		}
		fn(items)
	}
}

func toUpdates(fields map[string]interface{}) []firestore.Update {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, firestore.Update{Path: k, Value: fields[k]})
	}
	return updates
}
