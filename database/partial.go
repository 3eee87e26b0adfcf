package database

import (
	"encoding/json"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

// PartialSet builds a $set document from a JSON body, keeping only the keys
// the body actually supplied. Values are typed through T so that a string id
// or a date arrives in the store with the same BSON type a full insert would
// give it. The identity key is never included.
func PartialSet[T any](body []byte) (bson.M, error) {
	var supplied map[string]json.RawMessage
	if err := json.Unmarshal(body, &supplied); err != nil {
		return nil, errors.Wrap(err, "decode update body")
	}
	var typed T
	if err := json.Unmarshal(body, &typed); err != nil {
		return nil, errors.Wrap(err, "decode update body")
	}
	full, err := encode(&typed)
	if err != nil {
		return nil, errors.Wrap(err, "encode update")
	}

	set := bson.M{}
	for key := range supplied {
		if key == "_id" {
			continue
		}
		if v, ok := full[key]; ok {
			set[key] = v
		}
	}
	return set, nil
}
