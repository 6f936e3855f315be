package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"practicelog/internal/model"
	"practicelog/internal/repository"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInstrumentNotFound = errors.New("instrument not found")
	ErrNoteEmpty          = errors.New("note text is empty")
)

// SummaryCache invalidation hooks live here so every write path can mark
// derived analytics stale. A nil cache is a no-op.
type SummaryCache interface {
	GetSummary(ctx context.Context, days int) ([]byte, bool, error)
	SetSummary(ctx context.Context, days int, payload []byte) error
	DeleteSummaries(ctx context.Context) error
	MarkDirty(ctx context.Context) error
	IsDirty(ctx context.Context) (bool, error)
}

type SessionService struct {
	sessionRepo    *repository.SessionRepository
	tagRepo        *repository.TagRepository
	instrumentRepo *repository.InstrumentRepository
	summaryCache   SummaryCache
}

func NewSessionService(
	sessionRepo *repository.SessionRepository,
	tagRepo *repository.TagRepository,
	instrumentRepo *repository.InstrumentRepository,
	summaryCache SummaryCache,
) *SessionService {
	return &SessionService{
		sessionRepo:    sessionRepo,
		tagRepo:        tagRepo,
		instrumentRepo: instrumentRepo,
		summaryCache:   summaryCache,
	}
}

// Create validates the form and persists the session with its tag and
// instrument associations. A FieldErrors failure leaves nothing written.
func (s *SessionService) Create(form SessionForm) (*model.Session, error) {
	normalized, err := ValidateSessionForm(form)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		Date:        normalized.Date,
		Topic:       normalized.Topic,
		DurationMin: normalized.DurationMin,
		Notes:       normalized.Notes,
	}

	if normalized.InstrumentID != 0 {
		instrument, err := s.instrumentRepo.GetByID(normalized.InstrumentID)
		if err != nil {
			return nil, err
		}
		if instrument == nil {
			return nil, ErrInstrumentNotFound
		}
		session.InstrumentID = &instrument.ID
	} else if normalized.Instrument != "" {
		instrument, err := s.instrumentRepo.GetOrCreate(normalized.Instrument)
		if err != nil {
			return nil, err
		}
		session.InstrumentID = &instrument.ID
	}

	tags, err := s.tagRepo.GetOrCreateEach(normalized.Tags)
	if err != nil {
		return nil, err
	}
	session.Tags = tags

	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	s.invalidateSummaries()
	return session, nil
}

func (s *SessionService) Get(id uint) (*model.Session, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	session, err := s.sessionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionService) List(filter repository.SessionFilter) ([]model.Session, error) {
	return s.sessionRepo.List(filter)
}

// AppendNote is the only session mutation: it appends a note line to the
// stored notes, prefixed with the topic when one is given.
func (s *SessionService) AppendNote(id uint, topic, text string) (*model.Session, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrNoteEmpty
	}

	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	entry := text
	if topic = strings.TrimSpace(topic); topic != "" {
		entry = fmt.Sprintf("[%s] %s", topic, text)
	}

	notes := session.Notes
	if notes != "" {
		notes += "\n"
	}
	notes += entry

	if err := s.sessionRepo.UpdateNotes(id, notes); err != nil {
		return nil, err
	}
	session.Notes = notes
	s.invalidateSummaries()
	return session, nil
}

func (s *SessionService) Delete(id uint) error {
	session, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.sessionRepo.Delete(session.ID); err != nil {
		return err
	}
	s.invalidateSummaries()
	return nil
}

func (s *SessionService) ListTags() ([]model.Tag, error) {
	return s.tagRepo.ListAll()
}

func (s *SessionService) ListInstruments() ([]model.Instrument, error) {
	return s.instrumentRepo.ListAll()
}

func (s *SessionService) invalidateSummaries() {
	if s.summaryCache == nil {
		return
	}
	ctx := context.Background()
	_ = s.summaryCache.MarkDirty(ctx)
	_ = s.summaryCache.DeleteSummaries(ctx)
}
