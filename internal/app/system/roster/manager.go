// Package roster owns the lifecycle of a meetup's player roster: the
// waitlist, approvals against the capacity ceiling, removals, and
// cancellation.
//
// Transitions (Open, RequestJoin, Approve, Remove, Cancel) are pure
// functions over models.Meetup. The Manager runs each one as a single
// read-then-write against a Repository. Writes are conditioned on the
// version that was read; when another writer got there first the Manager
// re-reads and re-applies the transition, so every committed state was
// computed from the state it replaced.
package roster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/dalemusser/courtside/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Operation names used in logs, metrics and roster events.
const (
	OpCreate  = "create"
	OpJoin    = "join"
	OpApprove = "approve"
	OpRemove  = "remove"
	OpCancel  = "cancel"
)

// Roster event types recorded after a committed write.
const (
	EventMeetupCreated   = "meetup_created"
	EventJoinRequested   = "join_requested"
	EventPlayerApproved  = "player_approved"
	EventPlayerRemoved   = "player_removed"
	EventMeetupCancelled = "meetup_cancelled"
)

// Defaults applied by NewManager when Options leaves a field zero.
const (
	DefaultMaxAttempts    = 5
	DefaultInitialBackoff = 10 * time.Millisecond
	DefaultMaxBackoff     = 250 * time.Millisecond
)

// Repository is the persistence capability the Manager depends on.
//
// Fetch returns ErrNotFound (possibly wrapped) when the meetup is absent.
// Write replaces the stored meetup with next only if its stored version
// still equals expectedVersion; otherwise it returns ErrVersionConflict,
// or ErrNotFound if the document is gone.
type Repository interface {
	Fetch(ctx context.Context, id primitive.ObjectID) (models.Meetup, error)
	Write(ctx context.Context, next models.Meetup, expectedVersion int64) error
	Insert(ctx context.Context, m models.Meetup) (models.Meetup, error)
}

// Event describes one committed roster change.
type Event struct {
	OpID     string
	Type     string
	MeetupID primitive.ObjectID
	ActorID  string
	UserID   string
	Version  int64
	At       time.Time
	Details  map[string]string
}

// Recorder receives an Event after each committed write. Recording is
// best effort; a Recorder must not fail the operation.
type Recorder interface {
	Record(ctx context.Context, ev Event)
}

// Options tunes a Manager. Zero values fall back to the defaults above.
type Options struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Recorder       Recorder
	Metrics        *Metrics
	Now            func() time.Time
}

// Manager applies roster transitions to persisted meetups.
type Manager struct {
	repo        Repository
	log         *zap.Logger
	rec         Recorder
	metrics     *Metrics
	now         func() time.Time
	maxAttempts int
	initial     time.Duration
	maxBackoff  time.Duration
}

// NewManager wires a Manager to its repository.
func NewManager(repo Repository, logger *zap.Logger, opts Options) *Manager {
	m := &Manager{
		repo:        repo,
		log:         logger,
		rec:         opts.Recorder,
		metrics:     opts.Metrics,
		now:         opts.Now,
		maxAttempts: opts.MaxAttempts,
		initial:     opts.InitialBackoff,
		maxBackoff:  opts.MaxBackoff,
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.now == nil {
		m.now = func() time.Time { return time.Now().UTC() }
	}
	if m.maxAttempts <= 0 {
		m.maxAttempts = DefaultMaxAttempts
	}
	if m.initial <= 0 {
		m.initial = DefaultInitialBackoff
	}
	if m.maxBackoff <= 0 {
		m.maxBackoff = DefaultMaxBackoff
	}
	return m
}

type actorKey struct{}

// WithActor returns a context carrying the uid of the user performing the
// operation. It is only used to attribute roster events.
func WithActor(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, actorKey{}, uid)
}

// ActorFrom returns the uid stored by WithActor, or "".
func ActorFrom(ctx context.Context) string {
	uid, _ := ctx.Value(actorKey{}).(string)
	return uid
}

// Create opens a new meetup for m.HostID and persists it.
func (mgr *Manager) Create(ctx context.Context, m models.Meetup) (models.Meetup, error) {
	start := time.Now()
	opened, err := Open(m, mgr.now())
	if err != nil {
		mgr.metrics.observe(OpCreate, err, false, time.Since(start))
		return models.Meetup{}, err
	}
	opened.ID = primitive.NewObjectID()
	created, err := mgr.repo.Insert(ctx, opened)
	mgr.metrics.observe(OpCreate, err, false, time.Since(start))
	if err != nil {
		return models.Meetup{}, fmt.Errorf("insert meetup: %w", err)
	}

	opID := uuid.NewString()
	mgr.log.Info("meetup created",
		zap.String("op_id", opID),
		zap.String("meetup_id", created.ID.Hex()),
		zap.String("host_id", created.HostID),
		zap.Int("max_players", created.MaxPlayers))
	mgr.record(ctx, Event{
		OpID:     opID,
		Type:     EventMeetupCreated,
		MeetupID: created.ID,
		ActorID:  created.HostID,
		UserID:   created.HostID,
		Version:  created.Version,
		At:       created.CreatedAt,
		Details:  map[string]string{"max_players": fmt.Sprint(created.MaxPlayers)},
	})
	return created, nil
}

// Get returns the current state of a meetup.
func (mgr *Manager) Get(ctx context.Context, id primitive.ObjectID) (models.Meetup, error) {
	return mgr.repo.Fetch(ctx, id)
}

// RequestJoin adds uid to the meetup's waitlist.
func (mgr *Manager) RequestJoin(ctx context.Context, id primitive.ObjectID, uid string) (models.Meetup, error) {
	return mgr.apply(ctx, OpJoin, EventJoinRequested, id, uid, nil,
		func(m models.Meetup, now time.Time) (models.Meetup, bool, error) {
			return RequestJoin(m, uid, now)
		})
}

// ApprovePlayer moves uid from the waitlist to the approved roster.
func (mgr *Manager) ApprovePlayer(ctx context.Context, id primitive.ObjectID, uid string) (models.Meetup, error) {
	return mgr.apply(ctx, OpApprove, EventPlayerApproved, id, uid, nil,
		func(m models.Meetup, now time.Time) (models.Meetup, bool, error) {
			return Approve(m, uid, now)
		})
}

// RemovePlayer drops uid from the waitlist and the approved roster.
func (mgr *Manager) RemovePlayer(ctx context.Context, id primitive.ObjectID, uid string) (models.Meetup, error) {
	return mgr.apply(ctx, OpRemove, EventPlayerRemoved, id, uid, nil,
		func(m models.Meetup, now time.Time) (models.Meetup, bool, error) {
			return Remove(m, uid, now)
		})
}

// CancelMeetup cancels the meetup, keeping its roster as a snapshot.
func (mgr *Manager) CancelMeetup(ctx context.Context, id primitive.ObjectID, reason string) (models.Meetup, error) {
	var details map[string]string
	if reason != "" {
		details = map[string]string{"reason": reason}
	}
	return mgr.apply(ctx, OpCancel, EventMeetupCancelled, id, "", details,
		func(m models.Meetup, now time.Time) (models.Meetup, bool, error) {
			return Cancel(m, reason, now)
		})
}

type transition func(m models.Meetup, now time.Time) (models.Meetup, bool, error)

// apply runs one read-transition-write cycle, retrying on version conflicts.
func (mgr *Manager) apply(ctx context.Context, op, eventType string, id primitive.ObjectID, uid string, details map[string]string, fn transition) (models.Meetup, error) {
	start := time.Now()
	opID := uuid.NewString()
	log := mgr.log.With(
		zap.String("op", op),
		zap.String("op_id", opID),
		zap.String("meetup_id", id.Hex()))
	if uid != "" {
		log = log.With(zap.String("user_id", uid))
	}

	var (
		attempts  int
		committed bool
	)
	operation := func() (models.Meetup, error) {
		attempts++
		committed = false

		cur, err := mgr.repo.Fetch(ctx, id)
		if err != nil {
			return models.Meetup{}, backoff.Permanent(err)
		}
		next, changed, err := fn(cur, mgr.now())
		if err != nil {
			return cur, backoff.Permanent(err)
		}
		if !changed {
			return cur, nil
		}
		next.Version = cur.Version + 1
		if err := CheckInvariants(next); err != nil {
			return cur, backoff.Permanent(fmt.Errorf("%s would break roster invariants: %w", op, err))
		}
		if err := mgr.repo.Write(ctx, next, cur.Version); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				mgr.metrics.conflict(op)
				return models.Meetup{}, err
			}
			return models.Meetup{}, backoff.Permanent(err)
		}
		committed = true
		return next, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = mgr.initial
	b.MaxInterval = mgr.maxBackoff

	result, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(mgr.maxAttempts)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			log.Warn("roster write conflict, retrying",
				zap.Int("attempt", attempts),
				zap.Duration("wait", wait),
				zap.Error(err))
		}))
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Err
	}
	mgr.metrics.observe(op, err, err == nil && !committed, time.Since(start))

	if err != nil {
		switch {
		case errors.Is(err, ErrVersionConflict):
			log.Warn("roster operation gave up after conflicts", zap.Int("attempts", attempts))
		case Code(err) == "internal":
			log.Error("roster operation failed", zap.Error(err))
		default:
			log.Info("roster operation rejected", zap.String("reason", Code(err)))
		}
		return models.Meetup{}, err
	}
	if !committed {
		log.Debug("roster operation was a no-op")
		return result, nil
	}

	log.Info("roster operation committed",
		zap.Int64("version", result.Version),
		zap.Int("current_players", result.CurrentPlayers),
		zap.Int("waitlist", len(result.Waitlist)),
		zap.Int("attempts", attempts))
	mgr.record(ctx, Event{
		OpID:     opID,
		Type:     eventType,
		MeetupID: id,
		ActorID:  ActorFrom(ctx),
		UserID:   uid,
		Version:  result.Version,
		At:       result.UpdatedAt,
		Details:  details,
	})
	return result, nil
}

func (mgr *Manager) record(ctx context.Context, ev Event) {
	if mgr.rec == nil {
		return
	}
	if ev.ActorID == "" {
		ev.ActorID = ActorFrom(ctx)
	}
	mgr.rec.Record(ctx, ev)
}
