package model

import "fmt"

// EntityKind enumerates the entity types a notification or audit entry can
// point at.
type EntityKind string

const (
	EntityKindPost    EntityKind = "Post"
	EntityKindComment EntityKind = "Comment"
	EntityKindUser    EntityKind = "User"
)

// EntityRef is a typed reference to one of the known entity kinds. It replaces
// the loose (string, int) pair with a sealed set of variants so that code
// handling each kind can switch exhaustively.
type EntityRef interface {
	Kind() EntityKind
	EntityID() int64
	isEntityRef()
}

type PostRef struct {
	ID int64
}

type CommentRef struct {
	ID int64
}

type UserRef struct {
	ID int64
}

func (PostRef) isEntityRef()    {}
func (CommentRef) isEntityRef() {}
func (UserRef) isEntityRef()    {}

func (r PostRef) Kind() EntityKind    { return EntityKindPost }
func (r CommentRef) Kind() EntityKind { return EntityKindComment }
func (r UserRef) Kind() EntityKind    { return EntityKindUser }

func (r PostRef) EntityID() int64    { return r.ID }
func (r CommentRef) EntityID() int64 { return r.ID }
func (r UserRef) EntityID() int64    { return r.ID }

// ParseEntityRef reconstructs a typed reference from its persisted
// (entityType, entityId) columns.
func ParseEntityRef(kind string, id int64) (EntityRef, error) {
	switch EntityKind(kind) {
	case EntityKindPost:
		return PostRef{ID: id}, nil
	case EntityKindComment:
		return CommentRef{ID: id}, nil
	case EntityKindUser:
		return UserRef{ID: id}, nil
	default:
		return nil, fmt.Errorf("unknown entity kind: %s", kind)
	}
}
