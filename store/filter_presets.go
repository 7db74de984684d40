package store

import (
	"context"

	"github.com/kabar-app/kabar/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func (s *Store) SaveFilterPreset(ctx context.Context, preset *model.FilterPreset) error {
	return s.db.WithContext(ctx).Create(preset).Error
}

func (s *Store) FilterPresetsForUser(ctx context.Context, userID int64) ([]*model.FilterPreset, error) {
	var presets []*model.FilterPreset
	result := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&presets)
	return presets, result.Error
}

// GetFilterPreset loads a preset owned by the user, ErrNotFound otherwise.
func (s *Store) GetFilterPreset(ctx context.Context, presetID, userID int64) (*model.FilterPreset, error) {
	var preset model.FilterPreset
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", presetID, userID).
		First(&preset)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &preset, nil
}

func (s *Store) DeleteFilterPreset(ctx context.Context, presetID, userID int64) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", presetID, userID).
		Delete(&model.FilterPreset{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
