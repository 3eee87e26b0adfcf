package database

import (
	"bytes"
	"reflect"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter is a storage neutral predicate. BSON renders it as a Mongo query and
// Match evaluates it against a decoded document, so the memory store and the
// Mongo store answer the same question for the same value.
type Filter interface {
	BSON() bson.M
	Match(doc bson.M) bool
}

type allFilter struct{}

func (allFilter) BSON() bson.M      { return bson.M{} }
func (allFilter) Match(bson.M) bool { return true }

// All matches every document.
func All() Filter { return allFilter{} }

type eqFilter struct {
	field string
	value interface{}
}

// Eq matches documents whose field equals value. Against an array field it
// matches when any element equals value.
func Eq(field string, value interface{}) Filter {
	return eqFilter{field: field, value: value}
}

func (f eqFilter) BSON() bson.M {
	return bson.M{f.field: f.value}
}

func (f eqFilter) Match(doc bson.M) bool {
	v, ok := doc[f.field]
	if !ok {
		return f.value == nil
	}
	return anyElement(v, func(elem interface{}) bool { return equal(elem, f.value) })
}

type neFilter struct {
	eq eqFilter
}

// Ne matches documents where Eq would not, including those missing field.
func Ne(field string, value interface{}) Filter {
	return neFilter{eq: eqFilter{field: field, value: value}}
}

func (f neFilter) BSON() bson.M {
	return bson.M{f.eq.field: bson.M{"$ne": f.eq.value}}
}

func (f neFilter) Match(doc bson.M) bool {
	return !f.eq.Match(doc)
}

type inFilter struct {
	field  string
	values []interface{}
}

// In matches documents whose field equals any of values.
func In[T any](field string, values []T) Filter {
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return inFilter{field: field, values: vals}
}

func (f inFilter) BSON() bson.M {
	return bson.M{f.field: bson.M{"$in": f.values}}
}

func (f inFilter) Match(doc bson.M) bool {
	v, ok := doc[f.field]
	if !ok {
		return false
	}
	return anyElement(v, func(elem interface{}) bool {
		for _, want := range f.values {
			if equal(elem, want) {
				return true
			}
		}
		return false
	})
}

type regexFilter struct {
	field   string
	pattern string
	match   func(string) bool
}

// Contains matches documents whose string field contains substr, ignoring
// case. substr is matched literally.
func Contains(field, substr string) Filter {
	lower := strings.ToLower(substr)
	return regexFilter{
		field:   field,
		pattern: regexp.QuoteMeta(substr),
		match: func(s string) bool {
			return strings.Contains(strings.ToLower(s), lower)
		},
	}
}

// EqualFold matches documents whose string field equals value ignoring case.
func EqualFold(field, value string) Filter {
	return regexFilter{
		field:   field,
		pattern: "^" + regexp.QuoteMeta(value) + "$",
		match: func(s string) bool {
			return strings.EqualFold(s, value)
		},
	}
}

func (f regexFilter) BSON() bson.M {
	return bson.M{f.field: primitive.Regex{Pattern: f.pattern, Options: "i"}}
}

func (f regexFilter) Match(doc bson.M) bool {
	v, ok := doc[f.field]
	if !ok {
		return false
	}
	return anyElement(v, func(elem interface{}) bool {
		s, ok := elem.(string)
		return ok && f.match(s)
	})
}

type cmpFilter struct {
	field string
	op    string
	value interface{}
}

// Gte matches documents whose field is greater than or equal to value.
func Gte(field string, value interface{}) Filter {
	return cmpFilter{field: field, op: "$gte", value: value}
}

// Lte matches documents whose field is less than or equal to value.
func Lte(field string, value interface{}) Filter {
	return cmpFilter{field: field, op: "$lte", value: value}
}

// Between matches documents whose field lies in [from, to].
func Between(field string, from, to interface{}) Filter {
	return And(Gte(field, from), Lte(field, to))
}

func (f cmpFilter) BSON() bson.M {
	return bson.M{f.field: bson.M{f.op: f.value}}
}

func (f cmpFilter) Match(doc bson.M) bool {
	v, ok := doc[f.field]
	if !ok {
		return false
	}
	c, ok := compare(v, f.value)
	if !ok {
		return false
	}
	if f.op == "$gte" {
		return c >= 0
	}
	return c <= 0
}

type andFilter struct {
	filters []Filter
}

// And matches documents that satisfy every filter. Nil filters are ignored.
func And(filters ...Filter) Filter {
	kept := compact(filters)
	switch len(kept) {
	case 0:
		return All()
	case 1:
		return kept[0]
	}
	return andFilter{filters: kept}
}

func (f andFilter) BSON() bson.M {
	parts := make(bson.A, len(f.filters))
	for i, sub := range f.filters {
		parts[i] = sub.BSON()
	}
	return bson.M{"$and": parts}
}

func (f andFilter) Match(doc bson.M) bool {
	for _, sub := range f.filters {
		if !sub.Match(doc) {
			return false
		}
	}
	return true
}

type orFilter struct {
	filters []Filter
}

// Or matches documents that satisfy at least one filter. With no filters it
// matches everything.
func Or(filters ...Filter) Filter {
	kept := compact(filters)
	switch len(kept) {
	case 0:
		return All()
	case 1:
		return kept[0]
	}
	return orFilter{filters: kept}
}

func (f orFilter) BSON() bson.M {
	parts := make(bson.A, len(f.filters))
	for i, sub := range f.filters {
		parts[i] = sub.BSON()
	}
	return bson.M{"$or": parts}
}

func (f orFilter) Match(doc bson.M) bool {
	for _, sub := range f.filters {
		if sub.Match(doc) {
			return true
		}
	}
	return false
}

func compact(filters []Filter) []Filter {
	kept := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			kept = append(kept, f)
		}
	}
	return kept
}

func anyElement(v interface{}, pred func(interface{}) bool) bool {
	if arr, ok := v.(primitive.A); ok {
		for _, elem := range arr {
			if pred(elem) {
				return true
			}
		}
		return false
	}
	return pred(v)
}

// normalize maps Go and BSON values onto one representation per kind so that
// values decoded from a document compare with values supplied by callers.
func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case time.Time:
		return primitive.NewDateTimeFromTime(x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return primitive.NewDateTimeFromTime(*x)
	}
	return v
}

func equal(a, b interface{}) bool {
	a, b = normalize(a), normalize(b)
	if c, ok := compare(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

// compare orders two values of the same kind. ok is false when the kinds
// differ or are not ordered.
func compare(a, b interface{}) (int, bool) {
	a, b = normalize(a), normalize(b)
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case primitive.DateTime:
		y, ok := b.(primitive.DateTime)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	case primitive.ObjectID:
		y, ok := b.(primitive.ObjectID)
		if !ok {
			return 0, false
		}
		return bytes.Compare(x[:], y[:]), true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}
