package database

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// DuplicateKeyError names the unique field a write collided on.
type DuplicateKeyError struct {
	Collection string
	Field      string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key on %s.%s", e.Collection, e.Field)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicate
}

// SortField orders a Find. Ties are broken by insertion order.
type SortField struct {
	Field string
	Desc  bool
}

type FindOptions struct {
	Skip  int64
	Limit int64 // zero means no limit
	Sort  []SortField
}

// Update combines $set and $inc. Empty maps are left out.
type Update struct {
	Set bson.M
	Inc bson.M
}

func (u Update) BSON() bson.M {
	doc := bson.M{}
	if len(u.Set) > 0 {
		doc["$set"] = u.Set
	}
	if len(u.Inc) > 0 {
		doc["$inc"] = u.Inc
	}
	return doc
}

type UpdateResult struct {
	Matched  int64
	Modified int64
}

type InsertManyResult struct {
	Inserted   int
	Duplicates int
}

// Collection is a typed document collection. Implementations translate
// storage specific failures into ErrNotFound and *DuplicateKeyError.
type Collection[T any] interface {
	Name() string

	InsertOne(ctx context.Context, doc *T) error
	// InsertMany is unordered: documents colliding on a unique key are
	// skipped and counted, the rest are stored.
	InsertMany(ctx context.Context, docs []T) (InsertManyResult, error)

	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	FindOne(ctx context.Context, filter Filter) (*T, error)
	Find(ctx context.Context, filter Filter, opts FindOptions) ([]T, error)
	Count(ctx context.Context, filter Filter) (int64, error)

	// UpdateByID applies set and returns the updated document.
	UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*T, error)
	UpdateOne(ctx context.Context, filter Filter, update Update) (UpdateResult, error)
	UpdateMany(ctx context.Context, filter Filter, update Update) (UpdateResult, error)
	// Upsert finds the document whose key equals value, applies set, and
	// creates it from onInsert, key and set when it does not exist.
	Upsert(ctx context.Context, key string, value interface{}, set, onInsert bson.M) (*T, error)

	DeleteByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	DeleteMany(ctx context.Context, filter Filter) (int64, error)

	Distinct(ctx context.Context, field string, filter Filter) ([]interface{}, error)
	// CountBy groups matching documents by field and counts each group.
	CountBy(ctx context.Context, field string, filter Filter) (map[string]int64, error)
	Sum(ctx context.Context, field string, filter Filter) (float64, error)
}

func groupKey(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
