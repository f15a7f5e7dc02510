package models

import "go.mongodb.org/mongo-driver/bson"

// MergeInto applies a $set-style field map onto a typed document by round-
// tripping it through bson. The in-memory repositories use it to mirror the
// merge-update semantics of an UpdateOne with $set.
func MergeInto(doc interface{}, fields bson.M) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return err
	}
	for k, v := range fields {
		m[k] = v
	}
	merged, err := bson.Marshal(m)
	if err != nil {
		return err
	}
	return bson.Unmarshal(merged, doc)
}
