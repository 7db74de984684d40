package store

import (
	"context"

	"github.com/kabar-app/kabar/model"
)

// AppendLogHistory inserts one audit entry. The table is append-only, there
// is deliberately no update or delete counterpart.
func (s *Store) AppendLogHistory(ctx context.Context, entry *model.LogHistory) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// LogHistoryForEntity lists an entity's change records newest first.
func (s *Store) LogHistoryForEntity(ctx context.Context, ref model.EntityRef) ([]*model.LogHistory, error) {
	var entries []*model.LogHistory
	result := s.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", string(ref.Kind()), ref.EntityID()).
		Order("created_at desc").
		Find(&entries)
	return entries, result.Error
}
