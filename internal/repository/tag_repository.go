package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"practicelog/internal/model"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// GetOrCreate resolves a tag by name, case-insensitively, creating it with
// the given casing when absent.
func (r *TagRepository) GetOrCreate(name string) (*model.Tag, error) {
	var tag model.Tag
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("query tag failed: %w", err)
	}

	tag = model.Tag{Name: name}
	if err := r.db.Create(&tag).Error; err != nil {
		return nil, fmt.Errorf("create tag failed: %w", err)
	}
	return &tag, nil
}

func (r *TagRepository) GetOrCreateEach(names []string) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(names))
	for _, name := range names {
		tag, err := r.GetOrCreate(name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

func (r *TagRepository) ListAll() ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags failed: %w", err)
	}
	return tags, nil
}
