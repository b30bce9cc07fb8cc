package profile

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/GuildStatsBot_Go/internal/concurrency"
	"github.com/osse101/GuildStatsBot_Go/internal/domain"
	"github.com/osse101/GuildStatsBot_Go/internal/storage"
)

var fixedNow = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func newTestService(t *testing.T) (Service, *storage.Store) {
	t.Helper()
	dir := t.TempDir()
	store := storage.New(storage.ResolvePaths(storage.PathOptions{
		FileName: "user_stats.json",
		MountDir: filepath.Join(dir, "absent"),
		WorkDir:  dir,
		TempDir:  filepath.Join(dir, "tmp"),
	}))
	svc := NewService(store, concurrency.NewLockManager(), store.Paths().Primary, WithClock(func() time.Time { return fixedNow }))
	return svc, store
}

// MockRepository is a testify mock of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Load(ctx context.Context) domain.StatsDatabase {
	args := m.Called(ctx)
	return args.Get(0).(domain.StatsDatabase)
}

func (m *MockRepository) Save(ctx context.Context, db domain.StatsDatabase) bool {
	args := m.Called(ctx, db)
	return args.Bool(0)
}

func (m *MockRepository) EmergencyBackup(ctx context.Context, db domain.StatsDatabase) []storage.BackupResult {
	args := m.Called(ctx, db)
	return args.Get(0).([]storage.BackupResult)
}

func (m *MockRepository) Snapshot(ctx context.Context) (storage.BackupResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(storage.BackupResult), args.Error(1)
}

func (m *MockRepository) Info() storage.Info {
	args := m.Called()
	return args.Get(0).(storage.Info)
}

func TestService_SetUpdateDeleteFlow(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	rec, err := svc.SetStats(ctx, "111", SetStatsInput{Attack: 400, Defense: 350, Accuracy: 500, Class: "berserker", Username: "Zoë"})
	require.NoError(t, err)
	assert.Equal(t, 1250, rec.TotalScore)
	assert.Equal(t, "Berserker", rec.ClassName())
	assert.Equal(t, "Zo", rec.Username)
	assert.Equal(t, fixedNow, rec.UpdatedAt)

	updated, err := svc.UpdateStats(ctx, "111", UpdateStatsInput{Attack: intPtr(420)})
	require.NoError(t, err)
	assert.Equal(t, 1270, updated.TotalScore)
	assert.Equal(t, 350, updated.Defense)

	onDisk := store.Load(ctx)["111"]
	assert.Equal(t, 1270, onDisk.TotalScore)
	assert.Equal(t, domain.ClassBerserker, *onDisk.CharacterClass)

	require.NoError(t, svc.DeleteStats(ctx, "111"))

	_, err = svc.GetStats(ctx, "111")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	assert.ErrorIs(t, svc.DeleteStats(ctx, "111"), domain.ErrRecordNotFound)
}

func TestService_SetStatsValidation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetStats(ctx, "1", SetStatsInput{Attack: -1, Defense: 2, Accuracy: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidNumericInput)
	assert.Contains(t, err.Error(), "attack")

	_, err = svc.SetStats(ctx, "1", SetStatsInput{Attack: 1, Defense: 2, Accuracy: 3, Class: "wizard"})
	assert.ErrorIs(t, err, domain.ErrInvalidClassName)

	assert.Empty(t, store.Load(ctx), "rejected input writes nothing")
}

func TestService_UpdateStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	t.Run("no fields", func(t *testing.T) {
		_, err := svc.UpdateStats(ctx, "1", UpdateStatsInput{})
		assert.ErrorIs(t, err, domain.ErrNoChanges)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := svc.UpdateStats(ctx, "1", UpdateStatsInput{Defense: intPtr(5)})
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("negative value", func(t *testing.T) {
		_, err := svc.UpdateStats(ctx, "1", UpdateStatsInput{Accuracy: intPtr(-5)})
		assert.ErrorIs(t, err, domain.ErrInvalidNumericInput)
	})
}

func TestService_SetClassAndFlag(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetClass(ctx, "1", "warlord")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	_, err = svc.SetStats(ctx, "1", SetStatsInput{Attack: 1, Defense: 1, Accuracy: 1})
	require.NoError(t, err)

	class, err := svc.SetClass(ctx, "1", "night-ranger")
	require.NoError(t, err)
	assert.Equal(t, domain.ClassNightRanger, class)

	_, err = svc.SetClass(ctx, "1", "bard")
	assert.ErrorIs(t, err, domain.ErrInvalidClassName)

	require.NoError(t, svc.SetFlag(ctx, "1", domain.FlagLegendarySkin, true))
	require.NoError(t, svc.SetFlag(ctx, "1", domain.FlagLegendaryFamiliar, true))
	require.NoError(t, svc.SetFlag(ctx, "1", domain.FlagLegendaryFamiliar, false))
	assert.ErrorIs(t, svc.SetFlag(ctx, "1", domain.Flag("mount"), true), domain.ErrInvalidFlag)

	view, err := svc.GetStats(ctx, "1")
	require.NoError(t, err)
	assert.True(t, view.Record.LegendarySkin)
	assert.False(t, view.Record.LegendaryFamiliar)
	assert.Equal(t, domain.ClassNightRanger, *view.Record.CharacterClass)
}

func TestService_GetStatsRank(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for id, atk := range map[string]int{"a": 10, "b": 30, "c": 20} {
		_, err := svc.SetStats(ctx, id, SetStatsInput{Attack: atk})
		require.NoError(t, err)
	}

	view, err := svc.GetStats(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Rank)
	assert.Equal(t, 3, view.Of)
}

func TestService_ListRankedAndAggregate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	isMember := func(id string) bool { return id != "gone" }

	_, err := svc.ListRanked(ctx, isMember, 1)
	assert.ErrorIs(t, err, domain.ErrNoActiveMembers)
	_, err = svc.AggregatePower(ctx, isMember)
	assert.ErrorIs(t, err, domain.ErrNoActiveMembers)

	for i := 0; i < 20; i++ {
		_, err := svc.SetStats(ctx, fmt.Sprintf("u%02d", i), SetStatsInput{Attack: i * 10})
		require.NoError(t, err)
	}
	_, err = svc.SetStats(ctx, "gone", SetStatsInput{Attack: 9999})
	require.NoError(t, err)
	require.NoError(t, svc.SetFlag(ctx, "gone", domain.FlagLegendarySkin, true))
	require.NoError(t, svc.SetFlag(ctx, "u01", domain.FlagLegendarySkin, true))

	page, err := svc.ListRanked(ctx, isMember, 1)
	require.NoError(t, err)
	assert.Equal(t, 20, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, "u19", page.Entries[0].UserID, "departed member is excluded")

	page, err = svc.ListRanked(ctx, isMember, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Number)
	assert.Len(t, page.Entries, 5)

	agg, err := svc.AggregatePower(ctx, isMember)
	require.NoError(t, err)
	assert.Equal(t, 20, agg.Members)
	assert.Equal(t, 1900, agg.TotalPower)
	assert.Equal(t, 2, agg.Skins, "cosmetic counts include departed members")

	all := svc.Overview(ctx)
	assert.Equal(t, 21, all.Members)
	assert.Equal(t, 2, all.Skins)

	everyone, err := svc.ListRanked(ctx, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, "gone", everyone.Entries[0].UserID)
}

func TestService_ConcurrentUpdatesAreNotLost(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.SetStats(ctx, fmt.Sprintf("user-%d", i), SetStatsInput{Attack: i, Defense: 1, Accuracy: 1})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Load(ctx), writers)
}

func TestService_MembershipLookupsDoNotBlockWriters(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		_, err := svc.SetStats(ctx, id, SetStatsInput{Attack: 10})
		require.NoError(t, err)
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	slowMember := func(string) bool {
		once.Do(func() { close(entered) })
		<-release
		return true
	}

	listed := make(chan error, 1)
	go func() {
		_, err := svc.ListRanked(ctx, slowMember, 1)
		listed <- err
	}()
	<-entered

	written := make(chan error, 1)
	go func() {
		_, err := svc.SetStats(ctx, "d", SetStatsInput{Attack: 1})
		written <- err
	}()

	select {
	case err := <-written:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		close(release)
		t.Fatal("SetStats waited behind a membership lookup")
	}

	close(release)
	require.NoError(t, <-listed)
	assert.Len(t, store.Load(ctx), 4)
}

func TestService_SaveFailureWritesEmergencyBackup(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, nil, "db")
	ctx := context.Background()

	repo.On("Load", ctx).Return(domain.StatsDatabase{})
	repo.On("Save", ctx, mock.Anything).Return(false)
	repo.On("EmergencyBackup", ctx, mock.MatchedBy(func(db domain.StatsDatabase) bool {
		return db["1"].TotalScore == 6
	})).Return([]storage.BackupResult{{Path: "/tmp/x.emergency"}})

	_, err := svc.SetStats(ctx, "1", SetStatsInput{Attack: 1, Defense: 2, Accuracy: 3})

	assert.ErrorIs(t, err, domain.ErrStatsNotSaved)
	assert.ErrorIs(t, err, domain.ErrStorageWriteFailed)
	repo.AssertExpectations(t)
}

func TestService_ManualBackup(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshot succeeds", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Snapshot", ctx).Return(storage.BackupResult{Path: "snap.json.gz"}, nil)

		report, err := NewService(repo, nil, "db").ManualBackup(ctx)

		require.NoError(t, err)
		assert.Equal(t, "snap.json.gz", report.Snapshot.Path)
		assert.Empty(t, report.Emergency)
		repo.AssertNotCalled(t, "EmergencyBackup", mock.Anything, mock.Anything)
	})

	t.Run("falls back to emergency copy", func(t *testing.T) {
		repo := new(MockRepository)
		snapErr := errors.New("disk full")
		db := domain.StatsDatabase{"1": {Attack: 1, TotalScore: 1}}
		repo.On("Snapshot", ctx).Return(storage.BackupResult{Err: snapErr}, snapErr)
		repo.On("Load", ctx).Return(db)
		repo.On("EmergencyBackup", ctx, db).Return([]storage.BackupResult{{Path: "a", Err: snapErr}, {Path: "b"}})

		report, err := NewService(repo, nil, "db").ManualBackup(ctx)

		require.NoError(t, err)
		assert.Len(t, report.Emergency, 2)
	})

	t.Run("everything fails", func(t *testing.T) {
		repo := new(MockRepository)
		snapErr := errors.New("read-only filesystem")
		repo.On("Snapshot", ctx).Return(storage.BackupResult{Err: snapErr}, snapErr)
		repo.On("Load", ctx).Return(domain.StatsDatabase{})
		repo.On("EmergencyBackup", ctx, mock.Anything).Return([]storage.BackupResult{{Path: "a", Err: snapErr}})

		_, err := NewService(repo, nil, "db").ManualBackup(ctx)

		assert.ErrorIs(t, err, snapErr)
	})
}

func TestService_ManualBackupWithRealStore(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetStats(ctx, "1", SetStatsInput{Attack: 1})
	require.NoError(t, err)

	report, err := svc.ManualBackup(ctx)
	require.NoError(t, err)
	assert.True(t, report.Snapshot.OK())

	info := svc.StorageInfo(ctx)
	assert.Equal(t, store.Paths().Primary, info.Primary)
	assert.Equal(t, 1, info.Snapshots)
	assert.Equal(t, 1, info.Records)
}

func TestParseYesNo(t *testing.T) {
	for _, v := range []string{"yes", "YES", " tak "} {
		got, err := ParseYesNo(v)
		require.NoError(t, err, v)
		assert.True(t, got)
	}
	for _, v := range []string{"no", "Nie"} {
		got, err := ParseYesNo(v)
		require.NoError(t, err, v)
		assert.False(t, got)
	}
	_, err := ParseYesNo("maybe")
	assert.ErrorIs(t, err, domain.ErrInvalidFlagValue)
}

func TestParseFlag(t *testing.T) {
	f, err := ParseFlag("Skin")
	require.NoError(t, err)
	assert.Equal(t, domain.FlagLegendarySkin, f)

	f, err = ParseFlag("legendary_familiar")
	require.NoError(t, err)
	assert.Equal(t, domain.FlagLegendaryFamiliar, f)

	_, err = ParseFlag("mount")
	assert.ErrorIs(t, err, domain.ErrInvalidFlag)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Zo Dragon", CleanText("Zoë Dragon"))
	assert.Equal(t, "abc", CleanText("aébc"))
	assert.Equal(t, "", CleanText("🐉"))
}
