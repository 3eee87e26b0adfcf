package database

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const duplicateKeyCode = 11000

// MongoClient owns the driver connection and the application database.
type MongoClient struct {
	client   *mongo.Client
	database *mongo.Database
}

// ConnectMongo connects, pings and selects the database.
func ConnectMongo(uri, database string, timeout time.Duration) (*MongoClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to MongoDB")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "failed to ping MongoDB")
	}

	return &MongoClient{client: client, database: client.Database(database)}, nil
}

// EnsureUnique creates a sparse unique index on each field of collection.
// Sparse keeps documents without the field out of the index.
func (c *MongoClient) EnsureUnique(ctx context.Context, collection string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	models := make([]mongo.IndexModel, 0, len(fields))
	for _, field := range fields {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		})
	}
	if _, err := c.database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
		return errors.Wrapf(err, "failed to create indexes on %s", collection)
	}
	return nil
}

func (c *MongoClient) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

func (c *MongoClient) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// MongoCollection implements Collection on a MongoDB collection.
type MongoCollection[T any] struct {
	coll *mongo.Collection
}

func NewMongoCollection[T any](c *MongoClient, name string) *MongoCollection[T] {
	return &MongoCollection[T]{coll: c.database.Collection(name)}
}

func (c *MongoCollection[T]) Name() string {
	return c.coll.Name()
}

func (c *MongoCollection[T]) InsertOne(ctx context.Context, doc *T) error {
	_, err := c.coll.InsertOne(ctx, doc)
	return c.wrap(err, "insert into")
}

func (c *MongoCollection[T]) InsertMany(ctx context.Context, docs []T) (InsertManyResult, error) {
	if len(docs) == 0 {
		return InsertManyResult{}, nil
	}
	items := make([]interface{}, len(docs))
	for i := range docs {
		items[i] = docs[i]
	}

	_, err := c.coll.InsertMany(ctx, items, options.InsertMany().SetOrdered(false))
	if err == nil {
		return InsertManyResult{Inserted: len(docs)}, nil
	}

	var bulkErr mongo.BulkWriteException
	if !errors.As(err, &bulkErr) || bulkErr.WriteConcernError != nil {
		return InsertManyResult{}, c.wrap(err, "bulk insert into")
	}
	duplicates := 0
	for _, we := range bulkErr.WriteErrors {
		if we.Code != duplicateKeyCode {
			return InsertManyResult{}, c.wrap(err, "bulk insert into")
		}
		duplicates++
	}
	return InsertManyResult{Inserted: len(docs) - duplicates, Duplicates: duplicates}, nil
}

func (c *MongoCollection[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return c.FindOne(ctx, Eq("_id", id))
}

func (c *MongoCollection[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	var out T
	if err := c.coll.FindOne(ctx, filter.BSON()).Decode(&out); err != nil {
		return nil, c.wrap(err, "find in")
	}
	return &out, nil
}

func (c *MongoCollection[T]) Find(ctx context.Context, filter Filter, opts FindOptions) ([]T, error) {
	findOpts := options.Find()
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if len(opts.Sort) > 0 {
		sort := bson.D{}
		for _, f := range opts.Sort {
			dir := 1
			if f.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: f.Field, Value: dir})
		}
		findOpts.SetSort(sort)
	}

	cursor, err := c.coll.Find(ctx, filter.BSON(), findOpts)
	if err != nil {
		return nil, c.wrap(err, "find in")
	}
	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, c.wrap(err, "decode from")
	}
	return out, nil
}

func (c *MongoCollection[T]) Count(ctx context.Context, filter Filter) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, filter.BSON())
	if err != nil {
		return 0, c.wrap(err, "count")
	}
	return n, nil
}

func (c *MongoCollection[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out T
	err := c.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&out)
	if err != nil {
		return nil, c.wrap(err, "update in")
	}
	return &out, nil
}

func (c *MongoCollection[T]) UpdateOne(ctx context.Context, filter Filter, update Update) (UpdateResult, error) {
	res, err := c.coll.UpdateOne(ctx, filter.BSON(), update.BSON())
	if err != nil {
		return UpdateResult{}, c.wrap(err, "update in")
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (c *MongoCollection[T]) UpdateMany(ctx context.Context, filter Filter, update Update) (UpdateResult, error) {
	res, err := c.coll.UpdateMany(ctx, filter.BSON(), update.BSON())
	if err != nil {
		return UpdateResult{}, c.wrap(err, "bulk update in")
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (c *MongoCollection[T]) Upsert(ctx context.Context, key string, value interface{}, set, onInsert bson.M) (*T, error) {
	update := bson.M{"$set": set}
	if len(onInsert) > 0 {
		update["$setOnInsert"] = onInsert
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out T
	if err := c.coll.FindOneAndUpdate(ctx, bson.M{key: value}, update, opts).Decode(&out); err != nil {
		return nil, c.wrap(err, "upsert into")
	}
	return &out, nil
}

func (c *MongoCollection[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var out T
	if err := c.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&out); err != nil {
		return nil, c.wrap(err, "delete from")
	}
	return &out, nil
}

func (c *MongoCollection[T]) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	res, err := c.coll.DeleteMany(ctx, filter.BSON())
	if err != nil {
		return 0, c.wrap(err, "bulk delete from")
	}
	return res.DeletedCount, nil
}

func (c *MongoCollection[T]) Distinct(ctx context.Context, field string, filter Filter) ([]interface{}, error) {
	values, err := c.coll.Distinct(ctx, field, filter.BSON())
	if err != nil {
		return nil, c.wrap(err, "distinct on")
	}
	return values, nil
}

func (c *MongoCollection[T]) CountBy(ctx context.Context, field string, filter Filter) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter.BSON()}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, c.wrap(err, "aggregate")
	}
	var rows []struct {
		Key   interface{} `bson:"_id"`
		Count int64       `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, c.wrap(err, "decode aggregate from")
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[groupKey(row.Key)] += row.Count
	}
	return counts, nil
}

func (c *MongoCollection[T]) Sum(ctx context.Context, field string, filter Filter) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter.BSON()}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$" + field}}},
		}}},
	}
	cursor, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, c.wrap(err, "aggregate")
	}
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, c.wrap(err, "decode aggregate from")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

var dupKeyPattern = regexp.MustCompile(`dup key: \{ ?"?([A-Za-z0-9_]+)"?\s*:`)

func (c *MongoCollection[T]) wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		field := "key"
		if m := dupKeyPattern.FindStringSubmatch(err.Error()); len(m) == 2 {
			field = m[1]
		}
		return &DuplicateKeyError{Collection: c.coll.Name(), Field: field}
	}
	return errors.Wrapf(err, "%s %s", op, c.coll.Name())
}
