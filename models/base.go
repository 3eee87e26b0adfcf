package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base carries the identity and timestamps shared by every stored record.
type Base struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	CreatedOn time.Time          `json:"createdOn" bson:"createdOn"`
	UpdatedOn time.Time          `json:"updatedOn" bson:"updatedOn"`
}

// Stamp assigns an id and creation time on first call and refreshes the
// update time on every call.
func (b *Base) Stamp(now time.Time) {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if b.CreatedOn.IsZero() {
		b.CreatedOn = now
	}
	b.UpdatedOn = now
}

func (b *Base) GetID() primitive.ObjectID {
	return b.ID
}
