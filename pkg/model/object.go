package model

import "math"

// ObjectID identifies an object for the lifetime of a session. IDs are
// assigned in increasing order and never reused.
type ObjectID uint64

// Next returns the ID following id, saturating at the maximum value.
func (id ObjectID) Next() ObjectID {
	if id == math.MaxUint64 {
		return id
	}
	return id + 1
}

// Object is a placed primitive.
type Object struct {
	ID        ObjectID  `json:"id"`
	Shape     Shape     `json:"shape"`
	Transform Transform `json:"transform"`
}
