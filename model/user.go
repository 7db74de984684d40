package model

import (
	"strings"
	"time"
)

type User struct {
	Id        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	FirstName string
	LastName  string
	Email     string  `gorm:"uniqueIndex"`
	Posts     []*Post `gorm:"foreignKey:AuthorID"`
}

// UserSummary is the author shape embedded in feed entries and relay payloads.
// It intentionally carries only the fields a client needs to render a byline.
type UserSummary struct {
	Id        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		Id:        u.Id,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
