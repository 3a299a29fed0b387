package memory

import (
	"context"
	"time"

	"growwithme/internal/domain/entity"
	"growwithme/internal/domain/repository"
	"growwithme/pkg/errors"
)

type connectionRepository struct {
	s *Store
}

func (s *Store) Connections() repository.ConnectionRepository {
	return &connectionRepository{s: s}
}

func (r *connectionRepository) CreateRequest(ctx context.Context, req *entity.ConnectionRequest) error {
	r.s.mu.Lock()
	if existing, ok := r.s.connections[req.ID]; ok && existing.Status == entity.RequestPending {
		r.s.mu.Unlock()
		return errors.Conflict("connection request already pending")
	}
	sender, ok := r.s.users[req.SenderID]
	if !ok {
		r.s.mu.Unlock()
		return errors.NotFound("User", nil)
	}
	if sender.IsConnectedTo(req.ReceiverID) {
		r.s.mu.Unlock()
		return errors.Conflict("users are already connected")
	}

	c := *req
	r.s.connections[req.ID] = &c
	nextSender := cloneUser(sender)
	nextSender.PendingConnections = addString(nextSender.PendingConnections, req.ReceiverID)
	r.s.users[req.SenderID] = nextSender
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *connectionRepository) GetRequest(ctx context.Context, id string) (*entity.ConnectionRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.connections[id]
	if !ok {
		return nil, errors.NotFound("Connection request", nil)
	}
	c := *req
	return &c, nil
}

func (r *connectionRepository) pending(match func(*entity.ConnectionRequest) bool) []*entity.ConnectionRequest {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.ConnectionRequest
	for _, req := range r.s.connections {
		if req.Status == entity.RequestPending && match(req) {
			c := *req
			out = append(out, &c)
		}
	}
	return sortByID(out, func(c *entity.ConnectionRequest) string { return c.ID })
}

func (r *connectionRepository) ListIncoming(ctx context.Context, userID string) ([]*entity.ConnectionRequest, error) {
	return r.pending(func(c *entity.ConnectionRequest) bool { return c.ReceiverID == userID }), nil
}

func (r *connectionRepository) ListOutgoing(ctx context.Context, userID string) ([]*entity.ConnectionRequest, error) {
	return r.pending(func(c *entity.ConnectionRequest) bool { return c.SenderID == userID }), nil
}

// pendingRequest must be called with the lock held.
func (r *connectionRepository) pendingRequest(id string) (*entity.ConnectionRequest, error) {
	stored, ok := r.s.connections[id]
	if !ok {
		return nil, errors.NotFound("Connection request", nil)
	}
	if stored.Status != entity.RequestPending {
		return nil, errors.Conflict("connection request is no longer pending")
	}
	return stored, nil
}

// users loads both endpoints or fails without touching anything.
func (r *connectionRepository) users(a, b string) (*entity.User, *entity.User, error) {
	ua, ok := r.s.users[a]
	if !ok {
		return nil, nil, errors.NotFound("User", nil)
	}
	ub, ok := r.s.users[b]
	if !ok {
		return nil, nil, errors.NotFound("User", nil)
	}
	return cloneUser(ua), cloneUser(ub), nil
}

func (r *connectionRepository) Approve(ctx context.Context, req *entity.ConnectionRequest) error {
	r.s.mu.Lock()
	stored, err := r.pendingRequest(req.ID)
	if err != nil {
		r.s.mu.Unlock()
		return err
	}
	sender, receiver, err := r.users(req.SenderID, req.ReceiverID)
	if err != nil {
		r.s.mu.Unlock()
		return err
	}

	now := time.Now()
	next := *stored
	next.Status = entity.RequestApproved
	next.UpdatedAt = now
	sender.Connections = addString(sender.Connections, receiver.ID)
	sender.PendingConnections = removeString(sender.PendingConnections, receiver.ID)
	sender.UpdatedAt = now
	receiver.Connections = addString(receiver.Connections, sender.ID)
	receiver.UpdatedAt = now

	r.s.connections[req.ID] = &next
	r.s.users[sender.ID] = sender
	r.s.users[receiver.ID] = receiver
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *connectionRepository) Reject(ctx context.Context, req *entity.ConnectionRequest) error {
	r.s.mu.Lock()
	stored, err := r.pendingRequest(req.ID)
	if err != nil {
		r.s.mu.Unlock()
		return err
	}
	sender, ok := r.s.users[req.SenderID]
	if !ok {
		r.s.mu.Unlock()
		return errors.NotFound("User", nil)
	}

	next := *stored
	next.Status = entity.RequestRejected
	next.UpdatedAt = time.Now()
	nextSender := cloneUser(sender)
	nextSender.PendingConnections = removeString(nextSender.PendingConnections, req.ReceiverID)

	r.s.connections[req.ID] = &next
	r.s.users[sender.ID] = nextSender
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *connectionRepository) Withdraw(ctx context.Context, req *entity.ConnectionRequest) error {
	r.s.mu.Lock()
	if _, err := r.pendingRequest(req.ID); err != nil {
		r.s.mu.Unlock()
		return err
	}
	sender, ok := r.s.users[req.SenderID]
	if !ok {
		r.s.mu.Unlock()
		return errors.NotFound("User", nil)
	}

	nextSender := cloneUser(sender)
	nextSender.PendingConnections = removeString(nextSender.PendingConnections, req.ReceiverID)

	delete(r.s.connections, req.ID)
	r.s.users[sender.ID] = nextSender
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}

func (r *connectionRepository) Disconnect(ctx context.Context, userA, userB string) error {
	r.s.mu.Lock()
	a, b, err := r.users(userA, userB)
	if err != nil {
		r.s.mu.Unlock()
		return err
	}

	now := time.Now()
	a.Connections = removeString(a.Connections, userB)
	a.UpdatedAt = now
	b.Connections = removeString(b.Connections, userA)
	b.UpdatedAt = now

	r.s.users[userA] = a
	r.s.users[userB] = b
	r.s.mu.Unlock()

	r.s.changed()
	return nil
}
