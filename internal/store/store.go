package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"
	"go.uber.org/zap"

	"github.com/Spok95/school-portal/internal/config"
	"github.com/Spok95/school-portal/internal/ctxutil"
	"github.com/Spok95/school-portal/internal/logging"
	"github.com/Spok95/school-portal/internal/metrics"
	"github.com/Spok95/school-portal/internal/models"
)

// Snapshot — неизменяемое состояние портала. Слайсы общие для всех читателей:
// менять их нельзя, любые изменения идут через методы Store.
type Snapshot struct {
	Version uint64

	Users               []models.User
	Students            []models.Student
	Fees                []models.Fee
	Exams               []models.Exam
	ClassSetups         []models.ClassSetup
	AcademicYears       []models.AcademicYear
	Leaves              []models.Leave
	Announcements       []models.Announcement // новые первыми
	DisciplinaryReports []models.DisciplinaryReport
	Assignments         []models.Assignment
	Timetables          []models.Timetable
	Books               []models.Book
	BookIssues          []models.BookIssue
	Messages            []models.Message
}

// Listener вызывается после каждого успешного изменения, вне блокировки.
type Listener func(ctx context.Context, op string, prev, next *Snapshot)

type Options struct {
	RegNoPrefix     string
	DefaultPassword string
	FallbackTuition int64
	FeeDueDays      int
	Now             func() time.Time
	NewID           func() string
	Log             *zap.Logger
}

func OptionsFrom(cfg *config.Config, log *zap.Logger) Options {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return Options{
		RegNoPrefix:     cfg.RegNoPrefix,
		DefaultPassword: cfg.DefaultPassword,
		FallbackTuition: cfg.FallbackTuition,
		FeeDueDays:      cfg.FeeDueDays,
		Now:             func() time.Time { return time.Now().In(loc) },
		Log:             log,
	}
}

type Store struct {
	mu        sync.RWMutex
	snap      *Snapshot
	opts      Options
	log       *zap.Logger
	listeners []Listener
}

// errNoop — изменение не требуется, версия не растёт.
var errNoop = errors.New("noop")

func New(opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Log == nil {
		opts.Log = logging.Nop().Base
	}
	if opts.RegNoPrefix == "" {
		opts.RegNoPrefix = "SCHL"
	}
	if opts.DefaultPassword == "" {
		opts.DefaultPassword = "welcome"
	}
	if opts.FeeDueDays <= 0 {
		opts.FeeDueDays = 30
	}
	return &Store{snap: &Snapshot{}, opts: opts, log: opts.Log}
}

// Snapshot — текущее состояние только для чтения.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Store) OnCommit(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// apply копирует снимок, применяет fn к копии, сверяет записи об оплате и
// публикует результат. Ошибка fn оставляет хранилище нетронутым.
func (s *Store) apply(ctx context.Context, op string, fn func(next *Snapshot) error) (*Snapshot, error) {
	ctx = ctxutil.WithOp(ctx, op)
	log := logging.For(ctx, s.log)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	cur := s.snap
	if v, ok := ctxutil.ExpectedVersion(ctx); ok && v != cur.Version {
		s.mu.Unlock()
		err := precondition("snapshot changed: have version %d, current is %d", v, cur.Version)
		metrics.MutationErrors.WithLabelValues(op, errKind(err)).Inc()
		return nil, err
	}

	next := new(Snapshot)
	if err := deepcopy.Copy(next, cur); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: copy snapshot: %w", op, err)
	}
	if err := fn(next); err != nil {
		s.mu.Unlock()
		if errors.Is(err, errNoop) {
			return cur, nil
		}
		metrics.MutationErrors.WithLabelValues(op, errKind(err)).Inc()
		log.Debug("mutation rejected", zap.Error(err))
		return nil, err
	}
	s.reconcile(next)
	next.Version = cur.Version + 1
	s.snap = next
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	metrics.Mutations.WithLabelValues(op).Inc()
	metrics.SnapshotVersion.Set(float64(next.Version))
	log.Debug("mutation committed", zap.Uint64("version", next.Version))

	for _, l := range listeners {
		l(ctx, op, cur, next)
	}
	return next, nil
}

func (s *Store) now() time.Time { return s.opts.Now() }
