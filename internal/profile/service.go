package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/GuildStatsBot_Go/internal/concurrency"
	"github.com/osse101/GuildStatsBot_Go/internal/domain"
	"github.com/osse101/GuildStatsBot_Go/internal/logger"
	"github.com/osse101/GuildStatsBot_Go/internal/stats"
	"github.com/osse101/GuildStatsBot_Go/internal/storage"
)

// Repository is the persistence surface the service needs; *storage.Store implements it.
type Repository interface {
	Load(ctx context.Context) domain.StatsDatabase
	Save(ctx context.Context, db domain.StatsDatabase) bool
	EmergencyBackup(ctx context.Context, db domain.StatsDatabase) []storage.BackupResult
	Snapshot(ctx context.Context) (storage.BackupResult, error)
	Info() storage.Info
}

// MembershipFunc reports whether a user is still part of the guild
type MembershipFunc func(userID string) bool

// StatsView is a user's record together with their position in the full ranking
type StatsView struct {
	Record domain.StatRecord
	Rank   int
	Of     int
}

// BackupReport is the outcome of a manual backup
type BackupReport struct {
	Snapshot  storage.BackupResult
	Emergency []storage.BackupResult
}

// Service defines the stat operations behind each bot command
type Service interface {
	SetStats(ctx context.Context, userID string, in SetStatsInput) (domain.StatRecord, error)
	UpdateStats(ctx context.Context, userID string, in UpdateStatsInput) (domain.StatRecord, error)
	SetClass(ctx context.Context, userID, class string) (domain.CharacterClass, error)
	SetFlag(ctx context.Context, userID string, flag domain.Flag, value bool) error
	GetStats(ctx context.Context, userID string) (*StatsView, error)
	DeleteStats(ctx context.Context, userID string) error
	ListRanked(ctx context.Context, isMember MembershipFunc, page int) (stats.Page, error)
	AggregatePower(ctx context.Context, isMember MembershipFunc) (stats.Aggregate, error)
	Overview(ctx context.Context) stats.Aggregate
	StorageInfo(ctx context.Context) storage.Info
	ManualBackup(ctx context.Context) (*BackupReport, error)
}

type service struct {
	repo    Repository
	locks   *concurrency.LockManager
	lockKey string
	now     func() time.Time
}

// Option configures the service
type Option func(*service)

// WithClock overrides the time source used for UpdatedAt
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// NewService creates a stats service. Every operation on the same database key runs
// under one lock from locks, so concurrent commands cannot lose each other's updates.
func NewService(repo Repository, locks *concurrency.LockManager, dbKey string, opts ...Option) Service {
	if locks == nil {
		locks = concurrency.NewLockManager()
	}
	s := &service{
		repo:    repo,
		locks:   locks,
		lockKey: LockKeyPrefix + dbKey,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) SetStats(ctx context.Context, userID string, in SetStatsInput) (domain.StatRecord, error) {
	log := logger.FromContext(ctx)

	if err := validateInput(in); err != nil {
		log.Debug(LogMsgValidationFailure, "user_id", userID, "error", err)
		return domain.StatRecord{}, err
	}

	var class *domain.CharacterClass
	if in.Class != "" {
		c, ok := stats.NormalizeClassName(in.Class)
		if !ok {
			return domain.StatRecord{}, fmt.Errorf("%w: %q", domain.ErrInvalidClassName, in.Class)
		}
		class = &c
	}

	rec := domain.StatRecord{
		Attack:         in.Attack,
		Defense:        in.Defense,
		Accuracy:       in.Accuracy,
		CharacterClass: class,
		UpdatedAt:      s.now().UTC(),
		Username:       CleanText(in.Username),
		DisplayName:    CleanText(in.DisplayName),
	}
	rec.Recompute()

	err := s.mutate(ctx, func(db domain.StatsDatabase) error {
		db[userID] = rec
		return nil
	})
	if err != nil {
		return domain.StatRecord{}, err
	}

	log.Info(LogMsgStatsSet, "user_id", userID, "total", rec.TotalScore, "class", rec.ClassName())
	return rec, nil
}

func (s *service) UpdateStats(ctx context.Context, userID string, in UpdateStatsInput) (domain.StatRecord, error) {
	log := logger.FromContext(ctx)

	if in.Empty() {
		return domain.StatRecord{}, domain.ErrNoChanges
	}
	if err := validateInput(in); err != nil {
		log.Debug(LogMsgValidationFailure, "user_id", userID, "error", err)
		return domain.StatRecord{}, err
	}

	var updated domain.StatRecord
	err := s.mutate(ctx, func(db domain.StatsDatabase) error {
		rec, ok := db[userID]
		if !ok {
			return domain.ErrRecordNotFound
		}
		if in.Attack != nil {
			rec.Attack = *in.Attack
		}
		if in.Defense != nil {
			rec.Defense = *in.Defense
		}
		if in.Accuracy != nil {
			rec.Accuracy = *in.Accuracy
		}
		rec.Recompute()
		rec.UpdatedAt = s.now().UTC()
		db[userID] = rec
		updated = rec
		return nil
	})
	if err != nil {
		return domain.StatRecord{}, err
	}

	log.Info(LogMsgStatsUpdated, "user_id", userID, "total", updated.TotalScore)
	return updated, nil
}

func (s *service) SetClass(ctx context.Context, userID, class string) (domain.CharacterClass, error) {
	c, ok := stats.NormalizeClassName(class)
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidClassName, class)
	}

	err := s.mutate(ctx, func(db domain.StatsDatabase) error {
		rec, ok := db[userID]
		if !ok {
			return domain.ErrRecordNotFound
		}
		rec.CharacterClass = &c
		rec.Recompute()
		rec.UpdatedAt = s.now().UTC()
		db[userID] = rec
		return nil
	})
	if err != nil {
		return "", err
	}

	logger.FromContext(ctx).Info(LogMsgClassSet, "user_id", userID, "class", c)
	return c, nil
}

func (s *service) SetFlag(ctx context.Context, userID string, flag domain.Flag, value bool) error {
	if flag != domain.FlagLegendarySkin && flag != domain.FlagLegendaryFamiliar {
		return fmt.Errorf("%w: %q", domain.ErrInvalidFlag, flag)
	}

	err := s.mutate(ctx, func(db domain.StatsDatabase) error {
		rec, ok := db[userID]
		if !ok {
			return domain.ErrRecordNotFound
		}
		switch flag {
		case domain.FlagLegendarySkin:
			rec.LegendarySkin = value
		case domain.FlagLegendaryFamiliar:
			rec.LegendaryFamiliar = value
		}
		rec.Recompute()
		rec.UpdatedAt = s.now().UTC()
		db[userID] = rec
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info(LogMsgFlagSet, "user_id", userID, "flag", flag, "value", value)
	return nil
}

func (s *service) GetStats(ctx context.Context, userID string) (*StatsView, error) {
	var view *StatsView
	err := s.read(ctx, func(db domain.StatsDatabase) error {
		rec, ok := db[userID]
		if !ok {
			return domain.ErrRecordNotFound
		}
		ranked := stats.Rank(db)
		pos, _ := stats.RankOf(ranked, userID)
		view = &StatsView{Record: rec, Rank: pos, Of: len(ranked)}
		return nil
	})
	return view, err
}

func (s *service) DeleteStats(ctx context.Context, userID string) error {
	err := s.mutate(ctx, func(db domain.StatsDatabase) error {
		if _, ok := db[userID]; !ok {
			return domain.ErrRecordNotFound
		}
		delete(db, userID)
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info(LogMsgStatsDeleted, "user_id", userID)
	return nil
}

func (s *service) ListRanked(ctx context.Context, isMember MembershipFunc, page int) (stats.Page, error) {
	var result stats.Page
	err := s.read(ctx, func(db domain.StatsDatabase) error {
		active := filterMembers(db, isMember)
		if len(active) == 0 {
			return domain.ErrNoActiveMembers
		}
		result = stats.Paginate(stats.Rank(active), stats.DefaultPageSize, page)
		return nil
	})
	return result, err
}

func (s *service) AggregatePower(ctx context.Context, isMember MembershipFunc) (stats.Aggregate, error) {
	var agg stats.Aggregate
	err := s.read(ctx, func(db domain.StatsDatabase) error {
		active := filterMembers(db, isMember)
		if len(active) == 0 {
			return domain.ErrNoActiveMembers
		}
		agg = stats.Summarize(active)
		// Cosmetic counts cover every record, not only current members
		all := stats.Summarize(db)
		agg.Skins, agg.Familiars = all.Skins, all.Familiars
		return nil
	})
	return agg, err
}

func (s *service) Overview(ctx context.Context) stats.Aggregate {
	var agg stats.Aggregate
	_ = s.read(ctx, func(db domain.StatsDatabase) error {
		agg = stats.Summarize(db)
		return nil
	})
	return agg
}

func (s *service) StorageInfo(ctx context.Context) storage.Info {
	return s.repo.Info()
}

// ManualBackup writes a timestamped snapshot. When that fails the current database is
// copied to the emergency locations instead, so an operator always gets some copy.
func (s *service) ManualBackup(ctx context.Context) (*BackupReport, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgManualBackup)

	report := &BackupReport{}
	err := s.locks.WithLock(s.lockKey, func() error {
		snap, err := s.repo.Snapshot(ctx)
		report.Snapshot = snap
		if err == nil {
			return nil
		}

		log.Warn(LogMsgSnapshotFailed, "error", err)
		report.Emergency = s.repo.EmergencyBackup(ctx, s.repo.Load(ctx))
		for _, r := range report.Emergency {
			if r.OK() {
				return nil
			}
		}
		return err
	})
	if err != nil {
		return report, err
	}
	return report, nil
}

// mutate runs load-mutate-save under the database lock. When the save fails the
// mutated state goes to the emergency locations and ErrStatsNotSaved is returned.
func (s *service) mutate(ctx context.Context, fn func(db domain.StatsDatabase) error) error {
	return s.locks.WithLock(s.lockKey, func() error {
		db := s.repo.Load(ctx)
		if err := fn(db); err != nil {
			return err
		}

		if !s.repo.Save(ctx, db) {
			results := s.repo.EmergencyBackup(ctx, db)
			written := 0
			for _, r := range results {
				if r.OK() {
					written++
				}
			}
			logger.FromContext(ctx).Error(LogMsgSaveFailed, "emergency_written", written, "emergency_attempted", len(results))
			return fmt.Errorf("%w: %w", domain.ErrStatsNotSaved, domain.ErrStorageWriteFailed)
		}
		return nil
	})
}

// read loads a copy of the database under the lock, since loading may write when a backup
// is adopted, then runs fn after the lock is released. Membership lookups inside fn can
// hit the Discord API and must not stall writers.
func (s *service) read(ctx context.Context, fn func(db domain.StatsDatabase) error) error {
	var db domain.StatsDatabase
	_ = s.locks.WithLock(s.lockKey, func() error {
		db = s.repo.Load(ctx).Clone()
		return nil
	})
	return fn(db)
}

func filterMembers(db domain.StatsDatabase, isMember MembershipFunc) domain.StatsDatabase {
	if isMember == nil {
		return db
	}
	return stats.FilterActiveMembers(db, isMember)
}
