package store

import (
	"context"

	"github.com/kabar-app/kabar/model"
)

func (s *Store) SaveNotification(ctx context.Context, record *model.Notification) error {
	return s.db.WithContext(ctx).Create(record).Error
}

// NotificationsForUser lists a user's notifications newest first.
func (s *Store) NotificationsForUser(ctx context.Context, recipientID int64, limit, offset int) ([]*model.Notification, error) {
	var records []*model.Notification
	result := s.db.WithContext(ctx).
		Preload("Triggerer").
		Where("recipient_id = ?", recipientID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&records)
	return records, result.Error
}
