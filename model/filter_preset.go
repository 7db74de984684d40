package model

import (
	"time"

	"gorm.io/datatypes"
)

// FilterPreset is a user-saved feed filter. Expression holds the serialized
// FilterExpressionWrap tree that the feed read path applies on demand.
type FilterPreset struct {
	Id         int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt  time.Time
	Name       string
	UserID     int64 `gorm:"index"`
	User       *User `gorm:"constraint:OnDelete:CASCADE;"`
	Expression datatypes.JSON
}
