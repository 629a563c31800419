package roster_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/courtside/internal/app/system/roster"
	"github.com/dalemusser/courtside/internal/app/system/status"
	"github.com/dalemusser/courtside/internal/domain/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newManager(t *testing.T, repo roster.Repository, rec roster.Recorder) *roster.Manager {
	t.Helper()
	return roster.NewManager(repo, zap.NewNop(), roster.Options{
		MaxAttempts:    5,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		Recorder:       rec,
		Now:            func() time.Time { return t0 },
	})
}

func createMeetup(t *testing.T, mgr *roster.Manager, host string, max int) models.Meetup {
	t.Helper()
	m, err := mgr.Create(context.Background(), models.Meetup{
		Title:      "Sunday Grass Doubles",
		CourtType:  models.CourtGrass,
		HostID:     host,
		MaxPlayers: max,
	})
	require.NoError(t, err)
	return m
}

func TestManager_Create(t *testing.T) {
	repo := newMemRepo()
	rec := &recorder{}
	mgr := newManager(t, repo, rec)

	m := createMeetup(t, mgr, "H", 6)
	assert.False(t, m.ID.IsZero())
	assert.Equal(t, int64(1), m.Version)

	got, err := mgr.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"H"}, got.ApprovedPlayers)
	assert.Equal(t, []string{roster.EventMeetupCreated}, rec.types())
}

func TestManager_CreateInvalid(t *testing.T) {
	mgr := newManager(t, newMemRepo(), nil)
	_, err := mgr.Create(context.Background(), models.Meetup{HostID: "H"})
	assert.ErrorIs(t, err, roster.ErrInvalidCapacity)
}

func TestManager_NotFound(t *testing.T) {
	mgr := newManager(t, newMemRepo(), nil)
	ctx := context.Background()
	id := primitive.NewObjectID()

	_, err := mgr.Get(ctx, id)
	assert.ErrorIs(t, err, roster.ErrNotFound)
	_, err = mgr.RequestJoin(ctx, id, "A")
	assert.ErrorIs(t, err, roster.ErrNotFound)
	_, err = mgr.ApprovePlayer(ctx, id, "A")
	assert.ErrorIs(t, err, roster.ErrNotFound)
	_, err = mgr.RemovePlayer(ctx, id, "A")
	assert.ErrorIs(t, err, roster.ErrNotFound)
	_, err = mgr.CancelMeetup(ctx, id, "")
	assert.ErrorIs(t, err, roster.ErrNotFound)
}

func TestManager_Scenario(t *testing.T) {
	repo := newMemRepo()
	rec := &recorder{}
	mgr := newManager(t, repo, rec)
	ctx := roster.WithActor(context.Background(), "H")

	m := createMeetup(t, mgr, "H", 2)

	m, err := mgr.RequestJoin(ctx, m.ID, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, m.Waitlist)
	assert.Equal(t, int64(2), m.Version)

	m, err = mgr.ApprovePlayer(ctx, m.ID, "A")
	require.NoError(t, err)
	assert.Equal(t, 2, m.CurrentPlayers)

	_, err = mgr.RequestJoin(ctx, m.ID, "B")
	require.NoError(t, err)

	writes := repo.writeCount()
	_, err = mgr.ApprovePlayer(ctx, m.ID, "B")
	assert.ErrorIs(t, err, roster.ErrMeetupFull)
	assert.Equal(t, writes, repo.writeCount(), "rejected approval must not write")

	m, err = mgr.CancelMeetup(ctx, m.ID, "full")
	require.NoError(t, err)
	assert.Equal(t, status.Cancelled, m.Status)
	assert.Equal(t, []string{"B"}, m.Waitlist)
	assert.Equal(t, 2, m.CurrentPlayers)

	_, err = mgr.RequestJoin(ctx, m.ID, "C")
	assert.ErrorIs(t, err, roster.ErrInactive)

	assert.Equal(t, []string{
		roster.EventMeetupCreated,
		roster.EventJoinRequested,
		roster.EventPlayerApproved,
		roster.EventJoinRequested,
		roster.EventMeetupCancelled,
	}, rec.types())
	for _, ev := range rec.events[1:] {
		assert.Equal(t, "H", ev.ActorID)
		assert.NotEmpty(t, ev.OpID)
	}
}

func TestManager_NoopsDoNotWrite(t *testing.T) {
	repo := newMemRepo()
	rec := &recorder{}
	mgr := newManager(t, repo, rec)
	ctx := context.Background()
	m := createMeetup(t, mgr, "H", 4)

	_, err := mgr.RequestJoin(ctx, m.ID, "A")
	require.NoError(t, err)
	writes := repo.writeCount()

	again, err := mgr.RequestJoin(ctx, m.ID, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, again.Waitlist)

	_, err = mgr.RemovePlayer(ctx, m.ID, "stranger")
	require.NoError(t, err)

	_, err = mgr.CancelMeetup(ctx, m.ID, "first")
	require.NoError(t, err)
	cancelled, err := mgr.CancelMeetup(ctx, m.ID, "second")
	require.NoError(t, err)
	assert.Equal(t, "first", cancelled.CancellationReason)

	assert.Equal(t, writes+1, repo.writeCount())
	assert.Len(t, rec.types(), 3)
}

func TestManager_RemoveHost(t *testing.T) {
	repo := newMemRepo()
	mgr := newManager(t, repo, nil)
	m := createMeetup(t, mgr, "H", 4)

	_, err := mgr.RemovePlayer(context.Background(), m.ID, "H")
	assert.ErrorIs(t, err, roster.ErrCannotRemoveHost)

	got, err := mgr.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.Version, got.Version)
	assert.Equal(t, []string{"H"}, got.ApprovedPlayers)
}

// A concurrent approval sneaks in between our read and our write. The
// Manager must re-read and re-check capacity instead of overwriting.
func TestManager_ConflictRechecksCapacity(t *testing.T) {
	repo := newMemRepo()
	mgr := newManager(t, repo, nil)
	ctx := context.Background()
	m := createMeetup(t, mgr, "H", 2)
	_, err := mgr.RequestJoin(ctx, m.ID, "A")
	require.NoError(t, err)
	_, err = mgr.RequestJoin(ctx, m.ID, "B")
	require.NoError(t, err)

	repo.onWrite = func(models.Meetup) {
		cur, err := repo.Fetch(ctx, m.ID)
		require.NoError(t, err)
		next, _, err := roster.Approve(cur, "B", t0)
		require.NoError(t, err)
		next.Version = cur.Version + 1
		require.NoError(t, repo.Write(ctx, next, cur.Version))
	}

	_, err = mgr.ApprovePlayer(ctx, m.ID, "A")
	assert.ErrorIs(t, err, roster.ErrMeetupFull)

	got, err := mgr.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"H", "B"}, got.ApprovedPlayers)
	assert.Equal(t, []string{"A"}, got.Waitlist)
	require.NoError(t, roster.CheckInvariants(got))
}

func TestManager_ConflictRetriesAndCommits(t *testing.T) {
	repo := newMemRepo()
	mgr := newManager(t, repo, nil)
	ctx := context.Background()
	m := createMeetup(t, mgr, "H", 8)

	repo.onWrite = func(models.Meetup) {
		cur, err := repo.Fetch(ctx, m.ID)
		require.NoError(t, err)
		next, _, err := roster.RequestJoin(cur, "B", t0)
		require.NoError(t, err)
		next.Version = cur.Version + 1
		require.NoError(t, repo.Write(ctx, next, cur.Version))
	}

	got, err := mgr.RequestJoin(ctx, m.ID, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, got.Waitlist)
	assert.Equal(t, int64(3), got.Version)
}

// conflictRepo always reports a lost race on write.
type conflictRepo struct {
	*memRepo
	attempts int
}

func (r *conflictRepo) Write(ctx context.Context, next models.Meetup, expectedVersion int64) error {
	r.attempts++
	return roster.ErrVersionConflict
}

func TestManager_ConflictGivesUp(t *testing.T) {
	repo := &conflictRepo{memRepo: newMemRepo()}
	reg := prometheus.NewRegistry()
	mgr := roster.NewManager(repo, zap.NewNop(), roster.Options{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
		Metrics:        roster.NewMetrics(reg),
	})
	m := createMeetup(t, mgr, "H", 8)

	_, err := mgr.RequestJoin(context.Background(), m.ID, "A")
	assert.ErrorIs(t, err, roster.ErrVersionConflict)
	assert.Equal(t, 3, repo.attempts)
	assert.Equal(t, "version_conflict", roster.Code(err))

	count, err := testutil.GatherAndCount(reg, "courtside_roster_version_conflicts_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// failingRepo fails writes with a non-retryable error.
type failingRepo struct {
	*memRepo
	attempts int
}

var errDisk = errors.New("disk on fire")

func (r *failingRepo) Write(ctx context.Context, next models.Meetup, expectedVersion int64) error {
	r.attempts++
	return errDisk
}

func TestManager_StoreErrorNotRetried(t *testing.T) {
	repo := &failingRepo{memRepo: newMemRepo()}
	mgr := newManager(t, repo, nil)
	m := createMeetup(t, mgr, "H", 8)

	_, err := mgr.RequestJoin(context.Background(), m.ID, "A")
	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, 1, repo.attempts)
	assert.Equal(t, "internal", roster.Code(err))
}

// Many players race for the last slots; the ceiling holds and every
// loser sees MeetupFull.
func TestManager_ConcurrentApprovals(t *testing.T) {
	repo := newMemRepo()
	mgr := roster.NewManager(repo, zap.NewNop(), roster.Options{
		MaxAttempts:    50,
		InitialBackoff: time.Microsecond,
		MaxBackoff:     time.Millisecond,
	})
	ctx := context.Background()
	m := createMeetup(t, mgr, "H", 4)

	players := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}
	for _, p := range players {
		_, err := mgr.RequestJoin(ctx, m.ID, p)
		require.NoError(t, err)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		full    int
		unknown []error
	)
	for _, p := range players {
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			_, err := mgr.ApprovePlayer(ctx, m.ID, uid)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, roster.ErrMeetupFull):
				full++
			default:
				unknown = append(unknown, err)
			}
		}(p)
	}
	wg.Wait()

	assert.Empty(t, unknown)
	assert.Equal(t, 3, ok)
	assert.Equal(t, 5, full)

	got, err := mgr.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.CurrentPlayers)
	assert.Len(t, got.Waitlist, 5)
	require.NoError(t, roster.CheckInvariants(got))
}

func TestActorContext(t *testing.T) {
	assert.Equal(t, "", roster.ActorFrom(context.Background()))
	assert.Equal(t, "u1", roster.ActorFrom(roster.WithActor(context.Background(), "u1")))
}
