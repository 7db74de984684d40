package model

import "time"

/*

Follower is the directed "follower follows following" edge between two users.

FollowerID: the user who follows
FollowingID: the user being followed

The pair is unique, and edges are cascade-deleted when either endpoint user
is removed. The feed fanout reads this table to enumerate whose cache to
invalidate when an author writes.

*/

type Follower struct {
	Id          int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt   time.Time
	FollowerID  int64 `gorm:"uniqueIndex:idx_follower_following"`
	FollowingID int64 `gorm:"uniqueIndex:idx_follower_following"`
	Follower    *User `gorm:"constraint:OnDelete:CASCADE;"`
	Following   *User `gorm:"constraint:OnDelete:CASCADE;"`
}
