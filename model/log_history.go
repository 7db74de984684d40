package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditAction is the kind of mutation an audit entry records.
type AuditAction string

const (
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

/*

LogHistory is the append-only audit trail. One row per recorded mutation.

EntityType/EntityID: polymorphic reference to the mutated entity.
ChangerID: the user who performed the mutation. Nullable for system writes.
Changes: JSON blob {old: {...}, new: {...}, action, details}. For UPDATE only
         the fields that actually changed appear, for DELETE "old" holds the
         full pre-deletion snapshot and "new" is empty.

Rows are never updated or deleted once written.

*/

type LogHistory struct {
	Id         int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt  time.Time
	EntityType string `gorm:"index:idx_log_entity"`
	EntityID   int64  `gorm:"index:idx_log_entity"`
	ChangerID  *int64
	Changes    datatypes.JSON
}

// Entity returns the typed reference stored in the EntityType/EntityID pair.
func (l *LogHistory) Entity() (EntityRef, error) {
	return ParseEntityRef(l.EntityType, l.EntityID)
}
