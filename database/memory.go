package database

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryCollection keeps documents in insertion order as decoded BSON and
// evaluates filters with Filter.Match. Unique fields are enforced the way a
// sparse unique index would enforce them.
type MemoryCollection[T any] struct {
	name   string
	unique []string

	mu   sync.RWMutex
	docs []bson.M
}

func NewMemoryCollection[T any](name string, unique ...string) *MemoryCollection[T] {
	return &MemoryCollection[T]{name: name, unique: append([]string{"_id"}, unique...)}
}

func (m *MemoryCollection[T]) Name() string {
	return m.name
}

func (m *MemoryCollection[T]) InsertOne(ctx context.Context, doc *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	encoded, err := encode(doc)
	if err != nil {
		return errors.Wrapf(err, "encode %s document", m.name)
	}
	if _, ok := encoded["_id"]; !ok {
		encoded["_id"] = primitive.NewObjectID()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if field := m.conflict(encoded, -1); field != "" {
		return &DuplicateKeyError{Collection: m.name, Field: field}
	}
	m.docs = append(m.docs, encoded)
	return nil
}

func (m *MemoryCollection[T]) InsertMany(ctx context.Context, docs []T) (InsertManyResult, error) {
	var res InsertManyResult
	for i := range docs {
		err := m.InsertOne(ctx, &docs[i])
		switch {
		case err == nil:
			res.Inserted++
		case errors.Is(err, ErrDuplicate):
			res.Duplicates++
		default:
			return res, err
		}
	}
	return res, nil
}

func (m *MemoryCollection[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return m.FindOne(ctx, Eq("_id", id))
}

func (m *MemoryCollection[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, doc := range m.docs {
		if filter.Match(doc) {
			return decode[T](doc)
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryCollection[T]) Find(ctx context.Context, filter Filter, opts FindOptions) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []bson.M
	for _, doc := range m.docs {
		if filter.Match(doc) {
			matched = append(matched, doc)
		}
	}
	if len(opts.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			return less(matched[i], matched[j], opts.Sort)
		})
	}

	start := opts.Skip
	if start > int64(len(matched)) {
		start = int64(len(matched))
	}
	end := int64(len(matched))
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}

	out := make([]T, 0, end-start)
	for _, doc := range matched[start:end] {
		v, err := decode[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (m *MemoryCollection[T]) Count(ctx context.Context, filter Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, doc := range m.docs {
		if filter.Match(doc) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryCollection[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, doc := range m.docs {
		if !Eq("_id", id).Match(doc) {
			continue
		}
		updated, _, err := m.apply(i, Update{Set: set})
		if err != nil {
			return nil, err
		}
		return decode[T](updated)
	}
	return nil, ErrNotFound
}

func (m *MemoryCollection[T]) UpdateOne(ctx context.Context, filter Filter, update Update) (UpdateResult, error) {
	return m.update(ctx, filter, update, false)
}

func (m *MemoryCollection[T]) UpdateMany(ctx context.Context, filter Filter, update Update) (UpdateResult, error) {
	return m.update(ctx, filter, update, true)
}

func (m *MemoryCollection[T]) update(ctx context.Context, filter Filter, update Update, many bool) (UpdateResult, error) {
	var res UpdateResult
	if err := ctx.Err(); err != nil {
		return res, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, doc := range m.docs {
		if !filter.Match(doc) {
			continue
		}
		res.Matched++
		_, changed, err := m.apply(i, update)
		if err != nil {
			return res, err
		}
		if changed {
			res.Modified++
		}
		if !many {
			break
		}
	}
	return res, nil
}

func (m *MemoryCollection[T]) Upsert(ctx context.Context, key string, value interface{}, set, onInsert bson.M) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	match := Eq(key, value)
	for i, doc := range m.docs {
		if match.Match(doc) {
			updated, _, err := m.apply(i, Update{Set: set})
			if err != nil {
				return nil, err
			}
			return decode[T](updated)
		}
	}

	doc, err := encode(onInsert)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s insert", m.name)
	}
	keyed, err := encode(bson.M{key: value})
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s key", m.name)
	}
	fields, err := encode(set)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s set", m.name)
	}
	for k, v := range keyed {
		doc[k] = v
	}
	for k, v := range fields {
		doc[k] = v
	}
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = primitive.NewObjectID()
	}
	if field := m.conflict(doc, -1); field != "" {
		return nil, &DuplicateKeyError{Collection: m.name, Field: field}
	}
	m.docs = append(m.docs, doc)
	return decode[T](doc)
}

func (m *MemoryCollection[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	match := Eq("_id", id)
	for i, doc := range m.docs {
		if match.Match(doc) {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			return decode[T](doc)
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryCollection[T]) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.docs[:0]
	var deleted int64
	for _, doc := range m.docs {
		if filter.Match(doc) {
			deleted++
			continue
		}
		kept = append(kept, doc)
	}
	m.docs = kept
	return deleted, nil
}

func (m *MemoryCollection[T]) Distinct(ctx context.Context, field string, filter Filter) ([]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	values := []interface{}{}
	add := func(v interface{}) {
		for _, seen := range values {
			if equal(seen, v) {
				return
			}
		}
		values = append(values, v)
	}
	for _, doc := range m.docs {
		v, ok := doc[field]
		if !ok || !filter.Match(doc) {
			continue
		}
		if arr, isArr := v.(primitive.A); isArr {
			for _, elem := range arr {
				add(elem)
			}
			continue
		}
		add(v)
	}
	return values, nil
}

func (m *MemoryCollection[T]) CountBy(ctx context.Context, field string, filter Filter) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := map[string]int64{}
	for _, doc := range m.docs {
		if filter.Match(doc) {
			counts[groupKey(doc[field])]++
		}
	}
	return counts, nil
}

func (m *MemoryCollection[T]) Sum(ctx context.Context, field string, filter Filter) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total float64
	for _, doc := range m.docs {
		if !filter.Match(doc) {
			continue
		}
		if n, ok := normalize(doc[field]).(float64); ok {
			total += n
		}
	}
	return total, nil
}

// apply writes update to the document at index i. The caller holds the write
// lock. Nothing is written if the result would break a unique field.
func (m *MemoryCollection[T]) apply(i int, update Update) (bson.M, bool, error) {
	current := m.docs[i]
	next := make(bson.M, len(current))
	for k, v := range current {
		next[k] = v
	}

	set, err := encode(update.Set)
	if err != nil {
		return nil, false, errors.Wrapf(err, "encode %s update", m.name)
	}
	for k, v := range set {
		if k == "_id" {
			continue
		}
		next[k] = v
	}
	for k, v := range update.Inc {
		delta, ok := normalize(v).(float64)
		if !ok {
			return nil, false, errors.Errorf("cannot increment %s.%s by %T", m.name, k, v)
		}
		base, _ := normalize(next[k]).(float64)
		next[k] = base + delta
	}

	if field := m.conflict(next, i); field != "" {
		return nil, false, &DuplicateKeyError{Collection: m.name, Field: field}
	}
	changed := !reflect.DeepEqual(current, next)
	m.docs[i] = next
	return next, changed, nil
}

// conflict returns the first unique field doc shares with a stored document
// other than the one at index skip.
func (m *MemoryCollection[T]) conflict(doc bson.M, skip int) string {
	for _, field := range m.unique {
		v, ok := doc[field]
		if !ok || v == nil {
			continue
		}
		for i, other := range m.docs {
			if i == skip {
				continue
			}
			if ov, ok := other[field]; ok && equal(ov, v) {
				return field
			}
		}
	}
	return ""
}

func less(a, b bson.M, fields []SortField) bool {
	for _, f := range fields {
		av, aok := a[f.Field]
		bv, bok := b[f.Field]
		var c int
		switch {
		case !aok && !bok:
			c = 0
		case !aok:
			c = -1
		case !bok:
			c = 1
		default:
			c, _ = compare(av, bv)
		}
		if c == 0 {
			continue
		}
		if f.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

func encode(v interface{}) (bson.M, error) {
	if isNil(v) {
		return bson.M{}, nil
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Ptr:
		return rv.IsNil()
	}
	return false
}

func decode[T any](doc bson.M) (*T, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "marshal stored document")
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(err, "decode stored document")
	}
	return &out, nil
}
