package datastore

import (
	"encoding/json"
	"slices"

	"github.com/futurework-1/NestEgg-Journal/internal/errors"
)

// LoadJSON decodes the value stored under key into v. It reports false with
// a nil error when the key is absent. Undecodable values return an error in
// the blob-decode category and leave v untouched.
func LoadJSON(store Interface, key string, v any) (bool, error) {
	data, ok, err := store.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, errors.New(err).
			Component("datastore").
			Category(errors.CategoryBlobDecode).
			Context("key", key).
			Context("size", len(data)).
			Build()
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key
func SaveJSON(store Interface, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryGeneric).
			Context("key", key).
			Context("operation", "encode").
			Build()
	}
	return store.Set(key, data)
}

// LoadStrings reads a string list. A missing key yields an empty list.
func LoadStrings(store Interface, key string) ([]string, error) {
	var list []string
	if _, err := LoadJSON(store, key, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SaveStrings writes a string list in ascending order
func SaveStrings(store Interface, key string, list []string) error {
	sorted := slices.Clone(list)
	if sorted == nil {
		sorted = []string{}
	}
	slices.Sort(sorted)
	return SaveJSON(store, key, sorted)
}

// LoadInt reads an integer scalar
func LoadInt(store Interface, key string) (int, bool, error) {
	var n int
	ok, err := LoadJSON(store, key, &n)
	return n, ok, err
}

// LoadString reads a string scalar
func LoadString(store Interface, key string) (string, bool, error) {
	var s string
	ok, err := LoadJSON(store, key, &s)
	return s, ok, err
}
