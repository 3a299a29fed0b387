// Package memory is a process-local implementation of the repository
// interfaces. It backs STORE_DRIVER=memory and the use-case tests, and keeps
// the same atomicity and error contracts as the Firestore adapters.
package memory

import (
	"context"
	"sort"
	"sync"

	"growwithme/internal/domain/entity"
)

type Store struct {
	mu sync.RWMutex

	users         map[string]*entity.User
	ideas         map[string]*entity.Idea
	comments      map[string]map[string]*entity.Comment // ideaID -> commentID
	joinRequests  map[string]*entity.JoinRequest
	connections   map[string]*entity.ConnectionRequest
	negotiations  map[string]*entity.Negotiation
	notifications map[string]*entity.Notification
	alerts        map[string]*entity.MatchAlert
	chats         map[string]*entity.Chat
	messages      map[string][]*entity.Message // chatID -> ascending

	watchMu  sync.Mutex
	watchers map[chan struct{}]struct{}
	watchErr error
}

func New() *Store {
	return &Store{
		users:         make(map[string]*entity.User),
		ideas:         make(map[string]*entity.Idea),
		comments:      make(map[string]map[string]*entity.Comment),
		joinRequests:  make(map[string]*entity.JoinRequest),
		connections:   make(map[string]*entity.ConnectionRequest),
		negotiations:  make(map[string]*entity.Negotiation),
		notifications: make(map[string]*entity.Notification),
		alerts:        make(map[string]*entity.MatchAlert),
		chats:         make(map[string]*entity.Chat),
		messages:      make(map[string][]*entity.Message),
		watchers:      make(map[chan struct{}]struct{}),
	}
}

// FailWatches makes every active and future watch return err on its next
// wake-up. Used to exercise listener failure paths.
func (s *Store) FailWatches(err error) {
	s.watchMu.Lock()
	s.watchErr = err
	s.watchMu.Unlock()
	s.changed()
}

// changed wakes every watcher. Must be called without s.mu held.
func (s *Store) changed() {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// watch delivers snapshot() once immediately and again after every change
// until ctx ends.
func watch[T any](ctx context.Context, s *Store, snapshot func() []*T, fn func([]*T)) error {
	ch := make(chan struct{}, 1)
	s.watchMu.Lock()
	s.watchers[ch] = struct{}{}
	s.watchMu.Unlock()
	defer func() {
		s.watchMu.Lock()
		delete(s.watchers, ch)
		s.watchMu.Unlock()
	}()

	ch <- struct{}{}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ch:
			s.watchMu.Lock()
			err := s.watchErr
			s.watchMu.Unlock()
			if err != nil {
				return err
			}
			fn(snapshot())
		}
	}
}

func sortByID[T any](items []*T, id func(*T) string) []*T {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
	return items
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func removeString(in []string, item string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != item {
			out = append(out, s)
		}
	}
	return out
}

func addString(in []string, item string) []string {
	for _, s := range in {
		if s == item {
			return in
		}
	}
	return append(in, item)
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.Skills = cloneStrings(u.Skills)
	c.Interests = cloneStrings(u.Interests)
	c.InvestorDomains = cloneStrings(u.InvestorDomains)
	c.Connections = cloneStrings(u.Connections)
	c.PendingConnections = cloneStrings(u.PendingConnections)
	return &c
}

func cloneIdea(i *entity.Idea) *entity.Idea {
	c := *i
	c.Skills = cloneStrings(i.Skills)
	c.Team = cloneStrings(i.Team)
	c.Likes = cloneStrings(i.Likes)
	if i.Comments != nil {
		c.Comments = make([]entity.Comment, len(i.Comments))
		copy(c.Comments, i.Comments)
	}
	return &c
}

func cloneNegotiation(n *entity.Negotiation) *entity.Negotiation {
	c := *n
	if n.Offers != nil {
		c.Offers = make([]entity.Offer, len(n.Offers))
		copy(c.Offers, n.Offers)
	}
	if n.FinalInvestment != nil {
		v := *n.FinalInvestment
		c.FinalInvestment = &v
	}
	if n.FinalEquity != nil {
		v := *n.FinalEquity
		c.FinalEquity = &v
	}
	return &c
}

func cloneNotification(n *entity.Notification) *entity.Notification {
	c := *n
	if n.Data != nil {
		c.Data = make(map[string]interface{}, len(n.Data))
		for k, v := range n.Data {
			c.Data[k] = v
		}
	}
	return &c
}

func cloneAlert(a *entity.MatchAlert) *entity.MatchAlert {
	c := *a
	c.Criteria.Roles = cloneStrings(a.Criteria.Roles)
	c.Criteria.Locations = cloneStrings(a.Criteria.Locations)
	c.Criteria.Interests = cloneStrings(a.Criteria.Interests)
	c.Criteria.Skills = cloneStrings(a.Criteria.Skills)
	c.Criteria.InvestorDomains = cloneStrings(a.Criteria.InvestorDomains)
	return &c
}

func cloneChat(ch *entity.Chat) *entity.Chat {
	c := *ch
	c.Participants = cloneStrings(ch.Participants)
	c.UnreadCount = make(map[string]int, len(ch.UnreadCount))
	for k, v := range ch.UnreadCount {
		c.UnreadCount[k] = v
	}
	return &c
}
