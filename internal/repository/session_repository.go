package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"practicelog/internal/model"
)

// SessionFilter narrows List results. Zero values mean "no constraint".
// DateFrom/DateTo are inclusive "YYYY-MM-DD" bounds.
type SessionFilter struct {
	Search       string
	Topic        string
	Tag          string
	InstrumentID uint
	DateFrom     string
	DateTo       string
}

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create persists the session and its tag associations in one transaction.
// Tags must already exist; only the join rows are written here.
func (r *SessionRepository) Create(session *model.Session) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Tags.*").Create(session).Error
	})
	if err != nil {
		return fmt.Errorf("create session failed: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(id uint) (*model.Session, error) {
	var session model.Session
	if err := r.db.Preload("Tags").First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session failed: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) List(filter SessionFilter) ([]model.Session, error) {
	query := r.db.Model(&model.Session{}).Preload("Tags")

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("topic LIKE ? OR notes LIKE ?", like, like)
	}
	if filter.Topic != "" {
		query = query.Where("topic = ?", filter.Topic)
	}
	if filter.Tag != "" {
		query = query.Where(
			"id IN (?)",
			r.db.Table("session_tags").
				Select("session_tags.session_id").
				Joins("JOIN tags ON tags.id = session_tags.tag_id").
				Where("LOWER(tags.name) = LOWER(?)", filter.Tag),
		)
	}
	if filter.InstrumentID != 0 {
		query = query.Where("instrument_id = ?", filter.InstrumentID)
	}
	if filter.DateFrom != "" {
		query = query.Where("date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("date <= ?", filter.DateTo)
	}

	var sessions []model.Session
	if err := query.Order("date DESC, id DESC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list sessions failed: %w", err)
	}
	return sessions, nil
}

// ListInRange returns sessions with from <= date <= to, tags preloaded,
// newest first. Empty bounds are open.
func (r *SessionRepository) ListInRange(from, to string) ([]model.Session, error) {
	return r.List(SessionFilter{DateFrom: from, DateTo: to})
}

// DistinctDates returns the distinct session days up to and including
// `until`, newest first.
func (r *SessionRepository) DistinctDates(until string) ([]string, error) {
	var dates []string
	query := r.db.Model(&model.Session{}).Distinct("date")
	if until != "" {
		query = query.Where("date <= ?", until)
	}
	if err := query.Order("date DESC").Pluck("date", &dates).Error; err != nil {
		return nil, fmt.Errorf("list distinct dates failed: %w", err)
	}
	return dates, nil
}

func (r *SessionRepository) UpdateNotes(id uint, notes string) error {
	result := r.db.Model(&model.Session{}).Where("id = ?", id).Update("notes", notes)
	if result.Error != nil {
		return fmt.Errorf("update session notes failed: %w", result.Error)
	}
	return nil
}

// Delete removes the session together with its session_tags rows.
func (r *SessionRepository) Delete(id uint) error {
	err := r.db.Select(clause.Associations).Delete(&model.Session{ID: id}).Error
	if err != nil {
		return fmt.Errorf("delete session failed: %w", err)
	}
	return nil
}

func (r *SessionRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Session{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count sessions failed: %w", err)
	}
	return count, nil
}
