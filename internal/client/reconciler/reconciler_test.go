package reconciler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bookvault/internal/client/tempid"
	"github.com/iudanet/bookvault/internal/models"
)

const booksQuery = models.QueryBooks

var errNetwork = errors.New("network unreachable")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// loadedReconciler создает реконсилятор, уже загрузивший initial
func loadedReconciler(t *testing.T, source *DataSourceMock, initial []models.Entity, opts ...Option) *Reconciler {
	t.Helper()

	if source.FetchAllFunc == nil {
		source.FetchAllFunc = func(ctx context.Context, q string) ([]models.Entity, error) {
			return initial, nil
		}
	}
	opts = append([]Option{WithTempIDs(tempid.NewWithNodeID("test"))}, opts...)
	r := New(source, testLogger(), opts...)
	require.NoError(t, r.Fetch(context.Background(), booksQuery))
	return r
}

func ids(r *Reconciler) []string {
	return Collection(r.Snapshot(booksQuery).Entities).IDs()
}

func dune() models.Entity {
	return book("", "Dune", "Frank Herbert")
}

func TestReconciler_InsertConfirmed(t *testing.T) {
	journal := &JournalMock{RecordFunc: func(ctx context.Context, e *models.JournalEntry) error { return nil }}
	store := &SnapshotStoreMock{SaveSnapshotFunc: func(ctx context.Context, q string, e []models.Entity) error { return nil }}
	source := &DataSourceMock{
		MutateFunc: func(ctx context.Context, m Mutation) (*models.Entity, error) {
			assert.Equal(t, OpInsert, m.Kind)
			assert.Empty(t, m.Entity.ID)
			e := m.Entity.WithID("99")
			return &e, nil
		},
	}
	r := loadedReconciler(t, source, []models.Entity{cleanCode()}, WithJournal(journal), WithSnapshotStore(store))

	got, err := r.Insert(context.Background(), booksQuery, dune())
	require.NoError(t, err)
	assert.Equal(t, "99", got.ID)

	snap := r.Snapshot(booksQuery)
	assert.Equal(t, []string{"1", "99"}, Collection(snap.Entities).IDs())
	assert.True(t, snap.Entities[1].Equal(book("99", "Dune", "Frank Herbert")))
	assert.Zero(t, snap.Pending)
	assert.Empty(t, r.Pending(booksQuery))

	require.Len(t, journal.RecordCalls(), 1)
	entry := journal.RecordCalls()[0].Entry
	assert.Equal(t, models.JournalConfirmed, entry.Status)
	assert.Equal(t, "99", entry.ServerID)
	assert.Equal(t, "insert", entry.Kind)

	saves := store.SaveSnapshotCalls()
	require.NotEmpty(t, saves)
	assert.Equal(t, []string{"1", "99"}, Collection(saves[len(saves)-1].Entities).IDs())
}

func TestReconciler_InsertFailureRollsBack(t *testing.T) {
	journal := &JournalMock{RecordFunc: func(ctx context.Context, e *models.JournalEntry) error { return nil }}
	source := &DataSourceMock{
		MutateFunc: func(ctx context.Context, m Mutation) (*models.Entity, error) {
			return nil, errNetwork
		},
	}
	r := loadedReconciler(t, source, []models.Entity{cleanCode()}, WithJournal(journal))

	_, err := r.Insert(context.Background(), booksQuery, dune())
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, errNetwork)

	assert.Equal(t, []string{"1"}, ids(r))
	require.Len(t, journal.RecordCalls(), 1)
	assert.Equal(t, models.JournalRolledBack, journal.RecordCalls()[0].Entry.Status)
	assert.Equal(t, errNetwork.Error(), journal.RecordCalls()[0].Entry.Error)
}

func TestReconciler_InsertEmptyResultRollsBack(t *testing.T) {
	source := &DataSourceMock{
		MutateFunc: func(ctx context.Context, m Mutation) (*models.Entity, error) {
			return nil, nil
		},
	}
	r := loadedReconciler(t, source, []models.Entity{cleanCode()})

	_, err := r.Insert(context.Background(), booksQuery, dune())
	require.ErrorIs(t, err, ErrEmptyResult)
	assert.Equal(t, []string{"1"}, ids(r))
}

func TestReconciler_DeleteFailureRestores(t *testing.T) {
	source := &DataSourceMock{
		MutateFunc: func(ctx context.Context, m Mutation) (*models.Entity, error) {
			return nil, errNetwork
		},
	}
	r := loadedReconciler(t, source, []models.Entity{cleanCode()})

	err := r.Delete(context.Background(), booksQuery, "1")
	require.Error(t, err)
	assert.True(t, IsTransport(err))

	snap := r.Snapshot(booksQuery)
	require.Len(t, snap.Entities, 1)
	assert.True(t, snap.Entities[0].Equal(cleanCode()))
}

func TestReconciler_DeleteConfirmed(t *testing.T) {
	source := &DataSourceMock{
		MutateFunc: func(ctx context.Context, m Mutation) (*models.Entity, error) {
			assert.Equal(t, OpDelete, m.Kind)
			assert.Equal(t, "1", m.ID)
			return nil, nil
		},
	}
	r := loadedReconciler(t, source, []models.Entity{cleanCode(), book("2", "Refactoring", "Martin Fowler")})

	require.NoError(t, r.Delete(context.Background(), booksQuery, "1"))
	assert.Equal(t, []string{"2"}, ids(r))
}

func TestReconciler_SpeculativeStateVisibleBeforeResolve(t *testing.T) {
	r := loadedReconciler(t, &DataSourceMock{}, []models.Entity{cleanCode()})
	ctx := context.Background()

	ins, err := r.BeginInsert(ctx, booksQuery, dune())
	require.NoError(t, err)
	assert.True(t, tempid.IsTemporary(ins.ID))
	assert.Equal(t, []string{"1", ins.ID}, ids(r))

	del, err := r.BeginDelete(ctx, booksQuery, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{ins.ID}, ids(r))

	pending := r.Pending(booksQuery)
	require.Len(t, pending, 2)
	assert.Equal(t, ins.Token, pending[0].Token)
	assert.Equal(t, del.Token, pending[1].Token)
	assert.Equal(t, 2, r.Snapshot(booksQuery).Pending)
}

func TestReconciler_BeginErrors(t *testing.T) {
	ctx := context.Background()
	reject := func(models.Entity) error { return errors.New("title is required") }

	t.Run("not loaded", func(t *testing.T) {
		r := New(&DataSourceMock{}, testLogger())
		_, err := r.BeginInsert(ctx, booksQuery, dune())
		assert.ErrorIs(t, err, ErrNotLoaded)
		_, err = r.BeginDelete(ctx, booksQuery, "1")
		assert.ErrorIs(t, err, ErrNotLoaded)
	})

	t.Run("insert with id", func(t *testing.T) {
		r := loadedReconciler(t, &DataSourceMock{}, []models.Entity{cleanCode()})
		_, err := r.BeginInsert(ctx, booksQuery, book("5", "Dune", "Frank Herbert"))
		assert.True(t, IsValidation(err))
		assert.Equal(t, []string{"1"}, ids(r))
	})

	t.Run("validator rejects", func(t *testing.T) {
		r := loadedReconciler(t, &DataSourceMock{}, []models.Entity{cleanCode()}, WithValidator(booksQuery, reject))
		before := r.Snapshot(booksQuery).Version

		_, err := r.Insert(ctx, booksQuery, dune())
		require.True(t, IsValidation(err))
		assert.Contains(t, err.Error(), "title is required")

		snap := r.Snapshot(booksQuery)
		assert.Equal(t, before, snap.Version)
		assert.Equal(t, []string{"1"}, Collection(snap.Entities).IDs())
	})

	t.Run("delete empty id", func(t *testing.T) {
		r := loadedReconciler(t, &DataSourceMock{}, []models.Entity{cleanCode()})
		_, err := r.BeginDelete(ctx, booksQuery, "")
		assert.ErrorIs(t, err, ErrMissingID)
	})

	t.Run("delete unknown id", func(t *testing.T) {
		r := loadedReconciler(t, &DataSourceMock{}, []models.Entity{cleanCode()})
		err := r.Delete(ctx, booksQuery, "42")
		assert.ErrorIs(t, err, ErrEntityNotFound)
	})
}

func TestReconciler_ResolveIsIdempotent(t *testing.T) {
	r := loadedReconciler(t, &DataSourceMock{}, []models.Entity{cleanCode()})
	ctx := context.Background()

	op, err := r.BeginInsert(ctx, booksQuery, dune())
	require.NoError(t, err)

	server := book("99", "Dune", "Frank Herbert")
	assert.True(t, r.Resolve(ctx, op.Token, &server, nil))
	version := r.Snapshot(booksQuery).Version

	assert.False(t, r.Resolve(ctx, op.Token, nil, errNetwork), "second resolution must be ignored")
	assert.False(t, r.Resolve(ctx, "unknown-token", nil, nil))

	snap := r.Snapshot(booksQuery)
	assert.Equal(t, version, snap.Version)
	assert.Equal(t, []string{"1", "99"}, Collection(snap.Entities).IDs())
}

func TestReconciler_OutOfOrderResolutionIsBuffered(t *testing.T) {
	r := loadedReconciler(t, &DataSourceMock{}, []models.Entity{cleanCode()})
	ctx := context.Background()

	first, err := r.BeginDelete(ctx, booksQuery, "1")
	require.NoError(t, err)
	second, err := r.BeginDelete(ctx, booksQuery, "1")
	require.NoError(t, err)
	assert.False(t, second.Found)

	// Второй результат пришел раньше первого: ждет своей очереди
	require.True(t, r.Resolve(ctx, second.Token, nil, errNetwork))
	assert.Len(t, r.Pending(booksQuery), 2)
	assert.Empty(t, ids(r))

	// Первое удаление не удалось, но второе еще держит запись
	require.True(t, r.Resolve(ctx, first.Token, nil, errNetwork))
	assert.Empty(t, r.Pending(booksQuery))
	assert.Equal(t, []string{"1"}, ids(r))
}

func TestReconciler_FailedDeleteHandsEntityToLaterDelete(t *testing.T) {
	r := loadedReconciler(t, &DataSourceMock{}, []models.Entity{cleanCode()})
	ctx := context.Background()

	first, err := r.BeginDelete(ctx, booksQuery, "1")
	require.NoError(t, err)
	second, err := r.BeginDelete(ctx, booksQuery, "1")
	require.NoError(t, err)

	require.True(t, r.Resolve(ctx, first.Token, nil, errNetwork))
	assert.Empty(t, ids(r), "entity must stay hidden while a later delete is in flight")

	require.True(t, r.Resolve(ctx, second.Token, nil, nil))
	assert.Empty(t, ids(r))
}

func TestReconciler_DeleteOfTemporaryEntityWins(t *testing.T) {
	journal := &JournalMock{RecordFunc: func(ctx context.Context, e *models.JournalEntry) error { return nil }}
	r := loadedReconciler(t, &DataSourceMock{}, []models.Entity{cleanCode()}, WithJournal(journal))
	ctx := context.Background()

	ins, err := r.BeginInsert(ctx, booksQuery, dune())
	require.NoError(t, err)
	del, err := r.BeginDelete(ctx, booksQuery, ins.ID)
	require.NoError(t, err)
	assert.Empty(t, del.Target, "server id is not known yet")
	assert.Equal(t, []string{"1"}, ids(r))

	server := book("99", "Dune", "Frank Herbert")
	require.True(t, r.Resolve(ctx, ins.Token, &server, nil))
	assert.Equal(t, []string{"1"}, ids(r), "late confirmation must not resurrect the deleted entity")

	pending := r.Pending(booksQuery)
	require.Len(t, pending, 1)
	assert.Equal(t, "99", pending[0].Target)

	require.True(t, r.Resolve(ctx, del.Token, nil, nil))
	assert.Equal(t, []string{"1"}, ids(r))

	calls := journal.RecordCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, models.JournalSuperseded, calls[0].Entry.Status)
	assert.Equal(t, models.JournalConfirmed, calls[1].Entry.Status)
	assert.Equal(t, "99", calls[1].Entry.ServerID)
}

func TestReconciler_DeleteOfServerIDBeforeInsertConfirmed(t *testing.T) {
	source := &DataSourceMock{}
	fetched := []models.Entity{cleanCode()}
	source.FetchAllFunc = func(ctx context.Context, q string) ([]models.Entity, error) {
		return fetched, nil
	}
	r := loadedReconciler(t, source, nil)
	ctx := context.Background()

	ins, err := r.BeginInsert(ctx, booksQuery, dune())
	require.NoError(t, err)

	// Повторная загрузка уже видит созданную сервером запись
	fetched = []models.Entity{cleanCode(), book("99", "Dune", "Frank Herbert")}
	require.NoError(t, r.Fetch(ctx, booksQuery))
	assert.Equal(t, []string{"1", "99", ins.ID}, ids(r))

	_, err = r.BeginDelete(ctx, booksQuery, "99")
	require.NoError(t, err)

	server := book("99", "Dune", "Frank Herbert")
	require.True(t, r.Resolve(ctx, ins.Token, &server, nil))
	assert.Equal(t, []string{"1"}, ids(r))
}

func TestReconciler_DeleteConfirmationKeepsEntityBroughtBackLater(t *testing.T) {
	r := loadedReconciler(t, &DataSourceMock{}, []models.Entity{cleanCode(), book("99", "Dune", "Frank Herbert")})
	ctx := context.Background()

	del, err := r.BeginDelete(ctx, booksQuery, "99")
	require.NoError(t, err)
	ins, err := r.BeginInsert(ctx, booksQuery, dune())
	require.NoError(t, err)

	server := book("99", "Dune", "Frank Herbert")
	require.True(t, r.Resolve(ctx, ins.Token, &server, nil))
	assert.Equal(t, []string{"1", "99"}, ids(r))

	require.True(t, r.Resolve(ctx, del.Token, nil, nil))
	assert.Equal(t, []string{"1", "99"}, ids(r))
}

func TestReconciler_DeleteWaitsForInsertConfirmation(t *testing.T) {
	release := make(chan struct{})
	source := &DataSourceMock{
		MutateFunc: func(ctx context.Context, m Mutation) (*models.Entity, error) {
			if m.Kind == OpInsert {
				<-release
				e := m.Entity.WithID("99")
				return &e, nil
			}
			return nil, nil
		},
	}
	r := loadedReconciler(t, source, []models.Entity{cleanCode()})
	ctx := context.Background()

	insertErr := make(chan error, 1)
	go func() {
		_, err := r.Insert(ctx, booksQuery, dune())
		insertErr <- err
	}()
	require.Eventually(t, func() bool { return len(r.Pending(booksQuery)) == 1 }, time.Second, time.Millisecond)
	tempID := r.Pending(booksQuery)[0].ID

	deleteErr := make(chan error, 1)
	go func() {
		deleteErr <- r.Delete(ctx, booksQuery, tempID)
	}()
	require.Eventually(t, func() bool { return len(r.Pending(booksQuery)) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"1"}, ids(r))

	close(release)
	require.NoError(t, <-insertErr)
	require.NoError(t, <-deleteErr)

	assert.Equal(t, []string{"1"}, ids(r))
	assert.Empty(t, r.Pending(booksQuery))

	var deletes []string
	for _, c := range source.MutateCalls() {
		if c.M.Kind == OpDelete {
			deletes = append(deletes, c.M.ID)
		}
	}
	assert.Equal(t, []string{"99"}, deletes)
}

func TestReconciler_DeleteOfFailedInsertSkipsServer(t *testing.T) {
	release := make(chan struct{})
	source := &DataSourceMock{
		MutateFunc: func(ctx context.Context, m Mutation) (*models.Entity, error) {
			<-release
			return nil, errNetwork
		},
	}
	r := loadedReconciler(t, source, []models.Entity{cleanCode()})
	ctx := context.Background()

	insertErr := make(chan error, 1)
	go func() {
		_, err := r.Insert(ctx, booksQuery, dune())
		insertErr <- err
	}()
	require.Eventually(t, func() bool { return len(r.Pending(booksQuery)) == 1 }, time.Second, time.Millisecond)
	tempID := r.Pending(booksQuery)[0].ID

	deleteErr := make(chan error, 1)
	go func() {
		deleteErr <- r.Delete(ctx, booksQuery, tempID)
	}()
	require.Eventually(t, func() bool { return len(r.Pending(booksQuery)) == 2 }, time.Second, time.Millisecond)

	close(release)
	assert.True(t, IsTransport(<-insertErr))
	require.NoError(t, <-deleteErr)

	assert.Equal(t, []string{"1"}, ids(r))
	assert.Len(t, source.MutateCalls(), 1, "delete must not reach the server")
}

func TestReconciler_FetchKeepsPendingChanges(t *testing.T) {
	source := &DataSourceMock{}
	fetched := []models.Entity{cleanCode()}
	source.FetchAllFunc = func(ctx context.Context, q string) ([]models.Entity, error) {
		return fetched, nil
	}
	r := loadedReconciler(t, source, nil)
	ctx := context.Background()

	ins, err := r.BeginInsert(ctx, booksQuery, dune())
	require.NoError(t, err)
	_, err = r.BeginDelete(ctx, booksQuery, "1")
	require.NoError(t, err)

	fetched = []models.Entity{cleanCode(), book("2", "Refactoring", "Martin Fowler"), book("2", "Refactoring", "Martin Fowler")}
	require.NoError(t, r.Fetch(ctx, booksQuery))
	assert.Equal(t, []string{"2", ins.ID}, ids(r))
}

func TestReconciler_FetchError(t *testing.T) {
	source := &DataSourceMock{
		FetchAllFunc: func(ctx context.Context, q string) ([]models.Entity, error) {
			return nil, errNetwork
		},
	}
	r := New(source, testLogger())

	err := r.Fetch(context.Background(), booksQuery)
	require.ErrorIs(t, err, errNetwork)
	assert.True(t, IsTransport(err))
	assert.False(t, r.Snapshot(booksQuery).Loaded)
}

func TestReconciler_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("no store", func(t *testing.T) {
		r := New(&DataSourceMock{}, testLogger())
		assert.ErrorIs(t, r.Restore(ctx, booksQuery), ErrNoSnapshotStore)
	})

	t.Run("loads snapshot", func(t *testing.T) {
		store := &SnapshotStoreMock{
			LoadSnapshotFunc: func(ctx context.Context, q string) ([]models.Entity, error) {
				return []models.Entity{cleanCode(), cleanCode()}, nil
			},
		}
		r := New(&DataSourceMock{}, testLogger(), WithSnapshotStore(store))

		require.NoError(t, r.Restore(ctx, booksQuery))
		snap := r.Snapshot(booksQuery)
		assert.True(t, snap.Loaded)
		assert.Equal(t, []string{"1"}, Collection(snap.Entities).IDs())
	})

	t.Run("already loaded", func(t *testing.T) {
		store := &SnapshotStoreMock{
			LoadSnapshotFunc: func(ctx context.Context, q string) ([]models.Entity, error) {
				return nil, nil
			},
			SaveSnapshotFunc: func(ctx context.Context, q string, e []models.Entity) error { return nil },
		}
		r := loadedReconciler(t, &DataSourceMock{}, []models.Entity{cleanCode()}, WithSnapshotStore(store))

		require.NoError(t, r.Restore(ctx, booksQuery))
		assert.Equal(t, []string{"1"}, ids(r))
	})

	t.Run("load error", func(t *testing.T) {
		store := &SnapshotStoreMock{
			LoadSnapshotFunc: func(ctx context.Context, q string) ([]models.Entity, error) {
				return nil, errors.New("disk failure")
			},
		}
		r := New(&DataSourceMock{}, testLogger(), WithSnapshotStore(store))
		assert.Error(t, r.Restore(ctx, booksQuery))
		assert.False(t, r.Snapshot(booksQuery).Loaded)
	})
}

func TestReconciler_SubscribeSeesIncreasingVersions(t *testing.T) {
	source := &DataSourceMock{
		MutateFunc: func(ctx context.Context, m Mutation) (*models.Entity, error) {
			e := m.Entity.WithID("99")
			return &e, nil
		},
	}
	r := loadedReconciler(t, source, []models.Entity{cleanCode()})

	var (
		mu       sync.Mutex
		versions []uint64
	)
	unsubscribe := r.Subscribe(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		versions = append(versions, s.Version)
	})

	_, err := r.Insert(context.Background(), booksQuery, dune())
	require.NoError(t, err)

	mu.Lock()
	require.Len(t, versions, 2)
	assert.Less(t, versions[0], versions[1])
	mu.Unlock()

	unsubscribe()
	require.NoError(t, r.Delete(context.Background(), booksQuery, "99"))

	mu.Lock()
	assert.Len(t, versions, 2)
	mu.Unlock()
}

func TestReconciler_PersistsOnlyConfirmedState(t *testing.T) {
	store := &SnapshotStoreMock{
		SaveSnapshotFunc: func(ctx context.Context, q string, e []models.Entity) error { return nil },
	}
	r := loadedReconciler(t, &DataSourceMock{}, []models.Entity{cleanCode()}, WithSnapshotStore(store))
	ctx := context.Background()
	require.Len(t, store.SaveSnapshotCalls(), 1)

	op, err := r.BeginInsert(ctx, booksQuery, dune())
	require.NoError(t, err)
	assert.Len(t, store.SaveSnapshotCalls(), 1, "speculative state is not persisted")

	// Подтверждение другой операции не должно сохранить временную запись
	del, err := r.BeginDelete(ctx, booksQuery, "1")
	require.NoError(t, err)
	require.True(t, r.Resolve(ctx, del.Token, nil, nil))

	saves := store.SaveSnapshotCalls()
	require.Len(t, saves, 2)
	assert.Empty(t, saves[1].Entities)

	server := book("99", "Dune", "Frank Herbert")
	require.True(t, r.Resolve(ctx, op.Token, &server, nil))
	saves = store.SaveSnapshotCalls()
	require.Len(t, saves, 3)
	assert.Equal(t, []string{"99"}, Collection(saves[2].Entities).IDs())
}

func TestReconciler_ConcurrentMutationsKeepIDsUnique(t *testing.T) {
	var counter int
	var mu sync.Mutex
	source := &DataSourceMock{
		MutateFunc: func(ctx context.Context, m Mutation) (*models.Entity, error) {
			if m.Kind == OpDelete {
				return nil, nil
			}
			mu.Lock()
			counter++
			n := counter
			mu.Unlock()
			if n%3 == 0 {
				return nil, errNetwork
			}
			e := m.Entity.WithID(string(rune('A' + n%26)))
			return &e, nil
		},
	}
	r := loadedReconciler(t, source, []models.Entity{cleanCode()})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := r.Insert(ctx, booksQuery, dune())
			if err == nil {
				_ = r.Delete(ctx, booksQuery, e.ID)
			}
		}()
	}
	wg.Wait()

	snap := r.Snapshot(booksQuery)
	seen := make(map[string]bool)
	for _, e := range snap.Entities {
		require.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
	assert.Zero(t, snap.Pending)
}

// heldFetch отдает initial при первой загрузке, а следующую задерживает
// до закрытия release и возвращает stale
func heldFetch(initial, stale []models.Entity, started, release chan struct{}) func(context.Context, string) ([]models.Entity, error) {
	var calls int
	return func(ctx context.Context, q string) ([]models.Entity, error) {
		calls++
		if calls == 1 {
			return initial, nil
		}
		close(started)
		<-release
		return stale, nil
	}
}

func TestReconciler_FetchDoesNotUndoResolutionsMadeDuringIt(t *testing.T) {
	tests := []struct {
		name    string
		initial []models.Entity
		mutate  func(t *testing.T, r *Reconciler)
		want    []string
	}{
		{
			name:    "delete confirmed during fetch",
			initial: []models.Entity{cleanCode(), book("2", "Refactoring", "Martin Fowler")},
			mutate: func(t *testing.T, r *Reconciler) {
				del, err := r.BeginDelete(context.Background(), booksQuery, "1")
				require.NoError(t, err)
				require.True(t, r.Resolve(context.Background(), del.Token, nil, nil))
			},
			want: []string{"2"},
		},
		{
			name:    "insert confirmed during fetch",
			initial: []models.Entity{cleanCode()},
			mutate: func(t *testing.T, r *Reconciler) {
				ins, err := r.BeginInsert(context.Background(), booksQuery, dune())
				require.NoError(t, err)
				server := book("99", "Dune", "Frank Herbert")
				require.True(t, r.Resolve(context.Background(), ins.Token, &server, nil))
			},
			want: []string{"1", "99"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			started := make(chan struct{})
			release := make(chan struct{})
			store := &SnapshotStoreMock{
				SaveSnapshotFunc: func(ctx context.Context, q string, e []models.Entity) error { return nil },
			}
			source := &DataSourceMock{FetchAllFunc: heldFetch(tt.initial, tt.initial, started, release)}
			r := loadedReconciler(t, source, nil, WithSnapshotStore(store))

			fetchErr := make(chan error, 1)
			go func() {
				fetchErr <- r.Fetch(context.Background(), booksQuery)
			}()
			<-started

			tt.mutate(t, r)
			assert.Equal(t, tt.want, ids(r))

			close(release)
			require.NoError(t, <-fetchErr)

			assert.Equal(t, tt.want, ids(r), "stale response must not undo confirmed changes")
			saves := store.SaveSnapshotCalls()
			require.NotEmpty(t, saves)
			assert.Equal(t, tt.want, Collection(saves[len(saves)-1].Entities).IDs())
		})
	}
}

func TestReconciler_FetchAfterResolutionKeepsServerState(t *testing.T) {
	source := &DataSourceMock{}
	fetched := []models.Entity{cleanCode()}
	source.FetchAllFunc = func(ctx context.Context, q string) ([]models.Entity, error) {
		return fetched, nil
	}
	r := loadedReconciler(t, source, nil)
	ctx := context.Background()

	ins, err := r.BeginInsert(ctx, booksQuery, dune())
	require.NoError(t, err)
	server := book("99", "Dune", "Frank Herbert")
	require.True(t, r.Resolve(ctx, ins.Token, &server, nil))

	// Запись удалили на сервере уже после подтверждения
	require.NoError(t, r.Fetch(ctx, booksQuery))
	assert.Equal(t, []string{"1"}, ids(r))
}

func TestReconciler_SupersededInsertHidesFetchedServerCopy(t *testing.T) {
	source := &DataSourceMock{}
	fetched := []models.Entity{cleanCode()}
	source.FetchAllFunc = func(ctx context.Context, q string) ([]models.Entity, error) {
		return fetched, nil
	}
	r := loadedReconciler(t, source, nil)
	ctx := context.Background()

	ins, err := r.BeginInsert(ctx, booksQuery, dune())
	require.NoError(t, err)
	del, err := r.BeginDelete(ctx, booksQuery, ins.ID)
	require.NoError(t, err)

	// Сервер уже создал запись, но ее ID еще неизвестен удалению
	fetched = []models.Entity{cleanCode(), book("99", "Dune", "Frank Herbert")}
	require.NoError(t, r.Fetch(ctx, booksQuery))

	server := book("99", "Dune", "Frank Herbert")
	require.True(t, r.Resolve(ctx, ins.Token, &server, nil))
	assert.Equal(t, []string{"1"}, ids(r))

	require.True(t, r.Resolve(ctx, del.Token, nil, nil))
	assert.Equal(t, []string{"1"}, ids(r))
	assert.Empty(t, r.Pending(booksQuery))
}

func TestReconciler_DeleteResolvedBeforeInsertWithSameServerID(t *testing.T) {
	journal := &JournalMock{RecordFunc: func(ctx context.Context, e *models.JournalEntry) error { return nil }}
	r := loadedReconciler(t, &DataSourceMock{}, []models.Entity{cleanCode()}, WithJournal(journal))
	ctx := context.Background()

	ins, err := r.BeginInsert(ctx, booksQuery, dune())
	require.NoError(t, err)
	del, err := r.BeginDelete(ctx, booksQuery, "1")
	require.NoError(t, err)

	require.True(t, r.Resolve(ctx, del.Token, nil, nil))
	assert.Equal(t, []string{ins.ID}, ids(r))

	// Сервер вернул для вставки тот же ID, что уже удален
	server := book("1", "Dune", "Frank Herbert")
	require.True(t, r.Resolve(ctx, ins.Token, &server, nil))
	assert.Empty(t, ids(r), "delete issued later wins over the insert confirmation")

	calls := journal.RecordCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, models.JournalConfirmed, calls[0].Entry.Status)
	assert.Equal(t, models.JournalSuperseded, calls[1].Entry.Status)
	assert.Equal(t, "1", calls[1].Entry.ServerID)
}

func TestReconciler_DeleteCancelledWhileWaitingForInsert(t *testing.T) {
	server := book("99", "Dune", "Frank Herbert")
	tests := []struct {
		name      string
		result    *models.Entity
		resultErr error
		want      []string
	}{
		{name: "insert confirmed later", result: &server, want: []string{"1", "99"}},
		{name: "insert failed later", resultErr: errNetwork, want: []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			journal := &JournalMock{RecordFunc: func(ctx context.Context, e *models.JournalEntry) error { return nil }}
			source := &DataSourceMock{
				MutateFunc: func(ctx context.Context, m Mutation) (*models.Entity, error) { return nil, nil },
			}
			r := loadedReconciler(t, source, []models.Entity{cleanCode()}, WithJournal(journal))

			ins, err := r.BeginInsert(context.Background(), booksQuery, dune())
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(context.Background())
			deleteErr := make(chan error, 1)
			go func() {
				deleteErr <- r.Delete(ctx, booksQuery, ins.ID)
			}()
			require.Eventually(t, func() bool { return len(r.Pending(booksQuery)) == 2 }, time.Second, time.Millisecond)

			cancel()
			err = <-deleteErr
			require.ErrorIs(t, err, context.Canceled)
			assert.True(t, IsTransport(err))

			require.True(t, r.Resolve(context.Background(), ins.Token, tt.result, tt.resultErr))
			assert.Equal(t, tt.want, ids(r))
			assert.Empty(t, r.Pending(booksQuery))
			assert.Empty(t, source.MutateCalls(), "abandoned delete must not reach the server")

			calls := journal.RecordCalls()
			require.Len(t, calls, 2)
			assert.Equal(t, models.JournalRolledBack, calls[1].Entry.Status)
		})
	}
}
