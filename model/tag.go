package model

type Tag struct {
	Id    int64   `gorm:"primaryKey;autoIncrement"`
	Name  string  `gorm:"uniqueIndex"`
	Posts []*Post `gorm:"many2many:post_tags;"`
}
