package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"practicelog/internal/model"
)

type InstrumentRepository struct {
	db *gorm.DB
}

func NewInstrumentRepository(db *gorm.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

func (r *InstrumentRepository) GetByID(id uint) (*model.Instrument, error) {
	var instrument model.Instrument
	if err := r.db.First(&instrument, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get instrument failed: %w", err)
	}
	return &instrument, nil
}

func (r *InstrumentRepository) GetOrCreate(name string) (*model.Instrument, error) {
	var instrument model.Instrument
	err := r.db.Where("name = ?", name).First(&instrument).Error
	if err == nil {
		return &instrument, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("query instrument failed: %w", err)
	}

	instrument = model.Instrument{Name: name}
	if err := r.db.Create(&instrument).Error; err != nil {
		return nil, fmt.Errorf("create instrument failed: %w", err)
	}
	return &instrument, nil
}

func (r *InstrumentRepository) ListAll() ([]model.Instrument, error) {
	var instruments []model.Instrument
	if err := r.db.Order("name ASC").Find(&instruments).Error; err != nil {
		return nil, fmt.Errorf("list instruments failed: %w", err)
	}
	return instruments, nil
}

// Seed inserts the default instruments missing from the table.
func (r *InstrumentRepository) Seed(names []string) error {
	for _, name := range names {
		if _, err := r.GetOrCreate(name); err != nil {
			return fmt.Errorf("seed instrument %q failed: %w", name, err)
		}
	}
	return nil
}
