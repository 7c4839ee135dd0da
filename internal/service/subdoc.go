package service

import (
	"github.com/msomdec/dev-connect/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// entry is an embedded subdocument with a stable id.
type entry[T any] interface {
	*T
	EntryID() bson.ObjectID
	SetEntryID(bson.ObjectID)
}

// InsertFront assigns e a fresh id and returns a new collection with e at
// position 0 followed by coll in its original order.
func InsertFront[T any, P entry[T]](coll []T, e T) ([]T, bson.ObjectID) {
	id := bson.NewObjectID()
	P(&e).SetEntryID(id)

	out := make([]T, 0, len(coll)+1)
	out = append(out, e)
	out = append(out, coll...)
	return out, id
}

// RemoveByID returns a new collection without the entry whose id equals id.
// When no entry matches, the returned collection equals coll and removed is false.
func RemoveByID[T any, P entry[T]](coll []T, id bson.ObjectID) (out []T, removed bool) {
	out = make([]T, 0, len(coll))
	for i := range coll {
		if !removed && P(&coll[i]).EntryID() == id {
			removed = true
			continue
		}
		out = append(out, coll[i])
	}
	return out, removed
}

// FindByID returns the entry whose id equals id.
func FindByID[T any, P entry[T]](coll []T, id bson.ObjectID) (T, bool) {
	for i := range coll {
		if P(&coll[i]).EntryID() == id {
			return coll[i], true
		}
	}
	var zero T
	return zero, false
}

// ToggleLike removes every like held by userID, or adds one at the front
// when there was none. The result holds at most one like per user.
func ToggleLike(likes []domain.Like, userID bson.ObjectID) (out []domain.Like, liked bool) {
	out = make([]domain.Like, 0, len(likes)+1)
	for _, l := range likes {
		if l.UserID != userID {
			out = append(out, l)
		}
	}
	if len(out) < len(likes) {
		return out, false
	}

	out, _ = InsertFront(likes, domain.Like{UserID: userID})
	return out, true
}
