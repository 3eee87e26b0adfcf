package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"growup-backend/database"
	"growup-backend/models"
	"growup-backend/pagination"
)

// Record is the pointer side of a stored model.
type Record[T any] interface {
	*T
	Stamp(now time.Time)
}

// Resource is the CRUD service every collection shares. Reads and writes on
// a missing id return (nil, nil): an absent record is not a failure.
type Resource[T any, PT Record[T]] struct {
	name   string
	coll   database.Collection[T]
	logger *zap.Logger
	now    func() time.Time

	// defaults fills server side defaults before insert.
	defaults func(*T)
}

func NewResource[T any, PT Record[T]](name string, coll database.Collection[T], logger *zap.Logger) *Resource[T, PT] {
	return &Resource[T, PT]{
		name:   name,
		coll:   coll,
		logger: logger.With(zap.String("collection", coll.Name())),
		now:    time.Now,
	}
}

func (r *Resource[T, PT]) WithDefaults(fn func(*T)) *Resource[T, PT] {
	r.defaults = fn
	return r
}

func (r *Resource[T, PT]) Create(ctx context.Context, doc *T) (*T, error) {
	PT(doc).Stamp(r.now())
	if r.defaults != nil {
		r.defaults(doc)
	}
	if err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, r.fail("create", err)
	}
	r.logger.Info(r.name + " created")
	return doc, nil
}

func (r *Resource[T, PT]) CreateMany(ctx context.Context, docs []T) (database.InsertManyResult, error) {
	if len(docs) == 0 {
		return database.InsertManyResult{}, models.NewValidationError("body",
			"Request body must be a non-empty array of "+r.name+" objects.")
	}
	now := r.now()
	for i := range docs {
		PT(&docs[i]).Stamp(now)
		if r.defaults != nil {
			r.defaults(&docs[i])
		}
	}
	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return res, r.fail("bulk create", err)
	}
	r.logger.Info(r.name+" bulk insert",
		zap.Int("inserted", res.Inserted),
		zap.Int("duplicates", res.Duplicates))
	return res, nil
}

func (r *Resource[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	oid, ok := parseID(id)
	if !ok {
		r.logger.Warn(r.name+" id is not valid", zap.String("id", id))
		return nil, nil
	}
	doc, err := r.coll.FindByID(ctx, oid)
	if errors.Is(err, database.ErrNotFound) {
		r.logger.Warn(r.name+" not found", zap.String("id", id))
		return nil, nil
	}
	if err != nil {
		return nil, r.fail("fetch", err)
	}
	return doc, nil
}

// Update applies set to the record and refreshes updatedOn.
func (r *Resource[T, PT]) Update(ctx context.Context, id string, set bson.M) (*T, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	if set == nil {
		set = bson.M{}
	}
	delete(set, "_id")
	delete(set, "createdOn")
	set["updatedOn"] = r.now()

	doc, err := r.coll.UpdateByID(ctx, oid, set)
	if errors.Is(err, database.ErrNotFound) {
		r.logger.Warn(r.name+" not found for update", zap.String("id", id))
		return nil, nil
	}
	if err != nil {
		return nil, r.fail("update", err)
	}
	r.logger.Info(r.name+" updated", zap.String("id", id))
	return doc, nil
}

func (r *Resource[T, PT]) Delete(ctx context.Context, id string) (*T, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	doc, err := r.coll.DeleteByID(ctx, oid)
	if errors.Is(err, database.ErrNotFound) {
		r.logger.Warn(r.name+" not found for deletion", zap.String("id", id))
		return nil, nil
	}
	if err != nil {
		return nil, r.fail("delete", err)
	}
	r.logger.Info(r.name+" deleted", zap.String("id", id))
	return doc, nil
}

// DeleteMany removes the records with the given ids. Every id must be valid.
func (r *Resource[T, PT]) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, models.NewValidationError("ids", "A non-empty array of ids is required.")
	}
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, ok := parseID(id)
		if !ok {
			return 0, models.NewValidationError("ids", fmt.Sprintf("Invalid id: %s", id))
		}
		oids = append(oids, oid)
	}
	n, err := r.coll.DeleteMany(ctx, database.In("_id", oids))
	if err != nil {
		return 0, r.fail("bulk delete", err)
	}
	r.logger.Info(r.name+" bulk delete", zap.Int64("deleted", n))
	return n, nil
}

func (r *Resource[T, PT]) DeleteAll(ctx context.Context) (int64, error) {
	n, err := r.coll.DeleteMany(ctx, database.All())
	if err != nil {
		return 0, r.fail("delete all", err)
	}
	r.logger.Info("all "+r.name+" records deleted", zap.Int64("deleted", n))
	return n, nil
}

func (r *Resource[T, PT]) Count(ctx context.Context, filter database.Filter) (int64, error) {
	if filter == nil {
		filter = database.All()
	}
	n, err := r.coll.Count(ctx, filter)
	if err != nil {
		return 0, r.fail("count", err)
	}
	return n, nil
}

// CountCreatedBetween counts records created from the start of the from day
// to the end of the to day, both in UTC.
func (r *Resource[T, PT]) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
	if end.Before(start) {
		return 0, models.NewValidationError("endDate", "endDate must not be before startDate.")
	}
	return r.Count(ctx, database.Between("createdOn", start, end))
}

func (r *Resource[T, PT]) List(ctx context.Context, filter database.Filter, req pagination.Request, sort ...database.SortField) (pagination.Page[T], error) {
	page, err := pagination.List[T](ctx, r.coll, filter, req, sort...)
	if err != nil {
		r.logger.Error("failed to list "+r.name+" records", zap.Error(err))
	}
	return page, err
}

// fail logs err and converts it to the AppError handlers render.
func (r *Resource[T, PT]) fail(op string, err error) error {
	var dup *database.DuplicateKeyError
	if errors.As(err, &dup) {
		r.logger.Warn(r.name+" "+op+" rejected: duplicate key", zap.String("field", dup.Field))
		return models.NewConflictError(dup.Field, fmt.Sprintf("A %s with this %s already exists.", r.name, dup.Field))
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	r.logger.Error("failed to "+op+" "+r.name, zap.Error(err))
	return models.NewInternalError(fmt.Sprintf("Error trying to %s %s", op, r.name), err)
}

func parseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

// newestFirst orders by creation time, newest first, with the id as a
// tiebreak so that pages never overlap.
var newestFirst = []database.SortField{
	{Field: "createdOn", Desc: true},
	{Field: "_id", Desc: true},
}
