package model

import (
	"time"

	"gorm.io/gorm"
)

/*

Post is a single piece of user generated content.

Id: primary key
CreatedAt: time when entity is created
DeletedAt: soft deletion marker, set when the author removes the post

Title: post's title in plain text
Content: post's content in plain text
AuthorID:
Author: the user who wrote this post, "belongs-to" relation

ParentID:
Parent: if the post is written in response to another post, points to the
        original. Supports multi-level chains.

Tags: free-form labels attached to the post, "many-to-many" relation

*/

type Post struct {
	Id        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
	Title     string
	Content   string
	AuthorID  int64 `gorm:"index"`
	Author    *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ParentID  *int64
	Parent    *Post
	Tags      []*Tag `gorm:"many2many:post_tags;"`
}

const postExcerptRuneLimit = 140

// PostSummary is the cached feed entry shape. It is a projection of Post that
// is cheap to serialize and contains everything a feed card needs to render.
type PostSummary struct {
	Id        int64       `json:"id"`
	Title     string      `json:"title"`
	Excerpt   string      `json:"excerpt"`
	Author    UserSummary `json:"author"`
	Tags      []string    `json:"tags"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Summary projects the post into its feed representation. The post must have
// its Author and Tags associations preloaded.
func (p *Post) Summary() PostSummary {
	s := PostSummary{
		Id:        p.Id,
		Title:     p.Title,
		Excerpt:   truncateRunes(p.Content, postExcerptRuneLimit),
		Tags:      p.TagNames(),
		CreatedAt: p.CreatedAt,
	}
	if p.Author != nil {
		s.Author = p.Author.Summary()
	}
	return s
}

func (p *Post) TagNames() []string {
	names := []string{}
	for _, tag := range p.Tags {
		names = append(names, tag.Name)
	}
	return names
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
