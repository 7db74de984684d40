package model

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationTypeComment NotificationType = "COMMENT"
	NotificationTypeMention NotificationType = "MENTION"
)

/*

Notification is a persisted fact that something a user cares about happened.

RecipientID: who receives the notification. Never equals TriggererID, the
             deriver suppresses self-notifications before anything is created.
TriggererID: who performed the action. Nullable so the row survives the
             triggering user's deletion.
EntityType/EntityID: polymorphic reference to the object the notification is
             about, see EntityRef.
Metadata: free-form JSON bag, e.g. a bounded content preview and post title
             for comment notifications.

*/

type Notification struct {
	Id          int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt   time.Time
	Type        NotificationType
	EntityType  string
	EntityID    int64
	RecipientID int64 `gorm:"index"`
	Recipient   *User `gorm:"constraint:OnDelete:CASCADE;"`
	TriggererID *int64
	Triggerer   *User `gorm:"constraint:OnDelete:SET NULL;"`
	Metadata    datatypes.JSON
	Read        bool `gorm:"default:false"`
}

// Entity returns the typed reference stored in the EntityType/EntityID pair.
func (n *Notification) Entity() (EntityRef, error) {
	return ParseEntityRef(n.EntityType, n.EntityID)
}

// SetEntity stores a typed reference into the persisted columns.
func (n *Notification) SetEntity(ref EntityRef) {
	n.EntityType = string(ref.Kind())
	n.EntityID = ref.EntityID()
}
