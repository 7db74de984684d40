package model

import (
	"time"
)

// CommentStatus tracks moderation state. New comments start out APPROVED
// unless the keyword filter flags the content, in which case they are held
// as PENDING for manual review. SPAM is only ever set by a moderator.
type CommentStatus string

const (
	CommentStatusApproved CommentStatus = "APPROVED"
	CommentStatusPending  CommentStatus = "PENDING"
	CommentStatusSpam     CommentStatus = "SPAM"
)

type Comment struct {
	Id        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Content   string
	Status    CommentStatus `gorm:"default:APPROVED"`
	AuthorID  int64         `gorm:"index"`
	Author    *User         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PostID    int64         `gorm:"index"`
	Post      *Post         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ParentID  *int64
	Parent    *Comment `gorm:"constraint:OnDelete:CASCADE;"`
	Replies   []*Comment `gorm:"foreignKey:ParentID"`
}
