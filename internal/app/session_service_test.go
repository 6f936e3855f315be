package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"practicelog/internal/model"
	sqliteClient "practicelog/internal/platform/sqlite"
	"practicelog/internal/repository"
)

type testEnv struct {
	db         *gorm.DB
	sessions   *repository.SessionRepository
	sessionSvc *SessionService
	tags       *repository.TagRepository
}

// newTestEnv opens a throwaway database file with the schema migrated and
// default instruments seeded.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqliteClient.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(&model.Instrument{}, &model.Tag{}, &model.Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	sessionRepo := repository.NewSessionRepository(db)
	tagRepo := repository.NewTagRepository(db)
	instrumentRepo := repository.NewInstrumentRepository(db)
	if err := instrumentRepo.Seed(model.SeedInstruments); err != nil {
		t.Fatalf("seed instruments: %v", err)
	}

	return &testEnv{
		db:         db,
		sessions:   sessionRepo,
		sessionSvc: NewSessionService(sessionRepo, tagRepo, instrumentRepo, nil),
		tags:       tagRepo,
	}
}

func TestCreateThenGet(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.sessionSvc.Create(SessionForm{
		Date:        "2026-08-20",
		Topic:       "Bach Invention 8",
		DurationMin: 40,
		Notes:       "slow practice, hands separate",
		Tags:        []string{"bach", "repertoire"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created session has no id")
	}

	got, err := env.sessionSvc.Get(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Date != created.Date || got.Topic != created.Topic ||
		got.DurationMin != created.DurationMin || got.Notes != created.Notes {
		t.Errorf("got %+v, want fields of %+v", got, created)
	}
	if len(got.Tags) != 2 {
		t.Fatalf("got %d tags, want 2", len(got.Tags))
	}
}

func TestCreateInvalidDurationWritesNothing(t *testing.T) {
	env := newTestEnv(t)

	for _, duration := range []int{0, -10} {
		_, err := env.sessionSvc.Create(SessionForm{
			Date:        "2026-08-20",
			Topic:       "Scales",
			DurationMin: duration,
			Tags:        []string{"warmup"},
		})
		var fields FieldErrors
		if !errors.As(err, &fields) {
			t.Fatalf("duration %d: expected FieldErrors, got %v", duration, err)
		}
		if _, ok := fields["duration_min"]; !ok {
			t.Errorf("duration %d: missing duration_min error: %v", duration, fields)
		}
	}

	count, err := env.sessions.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("session count = %d after rejected creates, want 0", count)
	}

	tags, err := env.tags.ListAll()
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("tags created despite validation failure: %v", tags)
	}
}

func TestCreateSharesTagsCaseInsensitively(t *testing.T) {
	env := newTestEnv(t)

	first, err := env.sessionSvc.Create(SessionForm{
		Date: "2026-08-20", Topic: "Scales", DurationMin: 20, Tags: []string{"Jazz"},
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := env.sessionSvc.Create(SessionForm{
		Date: "2026-08-21", Topic: "Voicings", DurationMin: 25, Tags: []string{"jazz"},
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if first.Tags[0].ID != second.Tags[0].ID {
		t.Errorf("same tag created twice: %d vs %d", first.Tags[0].ID, second.Tags[0].ID)
	}
	if second.Tags[0].Name != "Jazz" {
		t.Errorf("tag name = %q, want first casing kept", second.Tags[0].Name)
	}
}

func TestCreateWithInstrument(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.sessionSvc.Create(SessionForm{
		Date: "2026-08-20", Topic: "Scales", DurationMin: 20, Instrument: "Piano",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if session.InstrumentID == nil {
		t.Fatal("instrument not attached")
	}

	_, err = env.sessionSvc.Create(SessionForm{
		Date: "2026-08-20", Topic: "Scales", DurationMin: 20, InstrumentID: 9999,
	})
	if !errors.Is(err, ErrInstrumentNotFound) {
		t.Fatalf("unknown instrument id: got %v, want ErrInstrumentNotFound", err)
	}
}

func TestAppendNote(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.sessionSvc.Create(SessionForm{
		Date: "2026-08-20", Topic: "Etude", DurationMin: 30, Notes: "first pass",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := env.sessionSvc.AppendNote(session.ID, "Etude", "bars 12-16 clean")
	if err != nil {
		t.Fatalf("append note: %v", err)
	}
	want := "first pass\n[Etude] bars 12-16 clean"
	if updated.Notes != want {
		t.Errorf("notes = %q, want %q", updated.Notes, want)
	}

	updated, err = env.sessionSvc.AppendNote(session.ID, "", "tempo up to 96")
	if err != nil {
		t.Fatalf("append second note: %v", err)
	}
	if want += "\ntempo up to 96"; updated.Notes != want {
		t.Errorf("notes = %q, want %q", updated.Notes, want)
	}

	// Persisted, not just returned.
	got, err := env.sessionSvc.Get(session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Notes != want {
		t.Errorf("stored notes = %q, want %q", got.Notes, want)
	}

	if _, err := env.sessionSvc.AppendNote(session.ID, "", "   "); !errors.Is(err, ErrNoteEmpty) {
		t.Errorf("blank note: got %v, want ErrNoteEmpty", err)
	}
	if _, err := env.sessionSvc.AppendNote(4242, "", "hi"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("unknown id: got %v, want ErrSessionNotFound", err)
	}
}

func TestDeleteSession(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.sessionSvc.Create(SessionForm{
		Date: "2026-08-20", Topic: "Scales", DurationMin: 20, Tags: []string{"warmup"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := env.sessionSvc.Delete(session.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.sessionSvc.Get(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("get after delete: got %v, want ErrSessionNotFound", err)
	}
	if err := env.sessionSvc.Delete(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second delete: got %v, want ErrSessionNotFound", err)
	}
}

func TestSummaryWeeklyMinutes(t *testing.T) {
	env := newTestEnv(t)
	today := time.Now()

	durations := []int{20, 30, 15}
	for i, minutes := range durations {
		_, err := env.sessionSvc.Create(SessionForm{
			Date:        today.AddDate(0, 0, -i).Format(model.DateLayout),
			Topic:       "Scales",
			DurationMin: minutes,
		})
		if err != nil {
			t.Fatalf("create session %d: %v", i, err)
		}
	}
	// Outside the trailing week; must not count.
	if _, err := env.sessionSvc.Create(SessionForm{
		Date:        today.AddDate(0, 0, -10).Format(model.DateLayout),
		Topic:       "Scales",
		DurationMin: 99,
	}); err != nil {
		t.Fatalf("create old session: %v", err)
	}

	analytics := NewAnalyticsService(env.sessions, nil, 5)
	summary, err := analytics.Summary(context.Background(), 30)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.WeeklyMinutes != 65 {
		t.Errorf("weekly minutes = %d, want 65", summary.WeeklyMinutes)
	}
	if summary.Streak != 3 {
		t.Errorf("streak = %d, want 3", summary.Streak)
	}
	if summary.TotalSessions != 4 {
		t.Errorf("total sessions = %d, want 4", summary.TotalSessions)
	}
	if summary.TotalMinutes != 65+99 {
		t.Errorf("total minutes = %d, want %d", summary.TotalMinutes, 65+99)
	}
}
