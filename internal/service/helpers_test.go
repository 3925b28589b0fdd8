package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/settleroom/settleroom/internal/ledger"
	"github.com/settleroom/settleroom/internal/models"
	"github.com/settleroom/settleroom/internal/notify"
	"github.com/settleroom/settleroom/internal/storage"
	"github.com/settleroom/settleroom/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("sqlite.New() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUsers(t *testing.T, store storage.Store, ids ...string) {
	t.Helper()
	ctx := context.Background()
	for _, id := range ids {
		user := models.NewUser(id+"@example.com", "User "+id, "hash")
		user.ID = id
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser(%s) error = %v", id, err)
		}
	}
}

// recordingNotifier captures resolutions for assertions. Resolutions
// arrive on a goroutine, so reads synchronize through done.
type recordingNotifier struct {
	mu          sync.Mutex
	resolutions []notify.Resolution
	done        chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, 16)}
}

func (n *recordingNotifier) SettlementResolved(_ context.Context, res notify.Resolution) error {
	n.mu.Lock()
	n.resolutions = append(n.resolutions, res)
	n.mu.Unlock()
	n.done <- struct{}{}
	return nil
}

func (n *recordingNotifier) wait(t *testing.T) notify.Resolution {
	t.Helper()
	select {
	case <-n.done:
	case <-time.After(2 * time.Second):
		t.Fatal("no resolution notification received")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.resolutions[len(n.resolutions)-1]
}

func newTestServices(t *testing.T) (*RoomService, *SettlementService, *EventService, *recordingNotifier) {
	t.Helper()
	store := newTestStore(t)
	seedUsers(t, store, "alice", "bob", "carol", "dave")
	notifier := newRecordingNotifier()
	return NewRoomService(store, ledger.DefaultTolerance),
		NewSettlementService(store, notifier, ledger.DefaultTolerance),
		NewEventService(store, nil, ledger.DefaultTolerance),
		notifier
}
