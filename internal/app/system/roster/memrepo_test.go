package roster_test

import (
	"context"
	"sync"

	"github.com/dalemusser/courtside/internal/app/system/roster"
	"github.com/dalemusser/courtside/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memRepo is an in-memory roster.Repository with the same conditional
// write semantics as the Mongo store.
type memRepo struct {
	mu      sync.Mutex
	docs    map[primitive.ObjectID]models.Meetup
	writes  int
	onWrite func(next models.Meetup) // runs before the version check, lock not held
}

func newMemRepo() *memRepo {
	return &memRepo{docs: map[primitive.ObjectID]models.Meetup{}}
}

func (r *memRepo) Fetch(ctx context.Context, id primitive.ObjectID) (models.Meetup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.docs[id]
	if !ok {
		return models.Meetup{}, roster.ErrNotFound
	}
	return copyMeetup(m), nil
}

func (r *memRepo) Write(ctx context.Context, next models.Meetup, expectedVersion int64) error {
	if hook := r.takeHook(); hook != nil {
		hook(next)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.docs[next.ID]
	if !ok {
		return roster.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return roster.ErrVersionConflict
	}
	r.docs[next.ID] = copyMeetup(next)
	r.writes++
	return nil
}

func (r *memRepo) Insert(ctx context.Context, m models.Meetup) (models.Meetup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[m.ID] = copyMeetup(m)
	return m, nil
}

func (r *memRepo) takeHook() func(models.Meetup) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.onWrite
	r.onWrite = nil
	return h
}

func (r *memRepo) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func copyMeetup(m models.Meetup) models.Meetup {
	m.ApprovedPlayers = append([]string(nil), m.ApprovedPlayers...)
	m.Waitlist = append([]string{}, m.Waitlist...)
	return m
}

// recorder collects roster events for assertions.
type recorder struct {
	mu     sync.Mutex
	events []roster.Event
}

func (r *recorder) Record(ctx context.Context, ev roster.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}
