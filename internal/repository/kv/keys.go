package kv

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	prefixFolder   = "folder:"
	prefixDocument = "doc:"
	prefixChild    = "child:"
	prefixDocOrder = "docorder:"
	keyRoot        = "root"
)

// child index values
const (
	kindFolder   byte = 'F'
	kindDocument byte = 'D'
)

func folderKey(id string) []byte   { return []byte(prefixFolder + id) }
func documentKey(id string) []byte { return []byte(prefixDocument + id) }

// orderStamp renders t so that byte order equals time order
func orderStamp(t time.Time) string {
	n := t.UnixNano()
	if n < 0 {
		n = 0
	}
	return fmt.Sprintf("%020d", n)
}

func childPrefix(parentID string) []byte {
	return []byte(prefixChild + parentID + ":")
}

func childKey(parentID string, created time.Time, id string) []byte {
	return []byte(prefixChild + parentID + ":" + orderStamp(created) + ":" + id)
}

func docOrderKey(created time.Time, id string) []byte {
	return []byte(prefixDocOrder + orderStamp(created) + ":" + id)
}

// idFromIndexKey returns the trailing id segment of an index key
func idFromIndexKey(key []byte) string {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == ':' {
			return string(key[i+1:])
		}
	}
	return string(key)
}

// getJSON loads key into v; found is false when the key does not exist
func getJSON(txn *badger.Txn, key []byte, v interface{}) (found bool, err error) {
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	err = item.Value(func(val []byte) error {
		return decodeJSON(val, v)
	})
	if err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func decodeJSON(val []byte, v interface{}) error {
	return json.Unmarshal(val, v)
}

func setJSON(txn *badger.Txn, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return txn.Set(key, data)
}

func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// indexEntry is one key of an ordering index
type indexEntry struct {
	key  []byte
	id   string
	kind byte
}

// scanIndex returns the entries under prefix in key order, skipping offset
// entries and stopping after limit (limit <= 0 means no limit)
func scanIndex(txn *badger.Txn, prefix []byte, limit, offset int) ([]indexEntry, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	entries := []indexEntry{}
	skipped := 0
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if skipped < offset {
			skipped++
			continue
		}
		if limit > 0 && len(entries) >= limit {
			break
		}
		item := it.Item()
		key := item.KeyCopy(nil)
		var kind byte
		err := item.Value(func(val []byte) error {
			if len(val) > 0 {
				kind = val[0]
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		entries = append(entries, indexEntry{key: key, id: idFromIndexKey(key), kind: kind})
	}
	return entries, nil
}

// countPrefix counts keys under prefix without reading values
func countPrefix(txn *badger.Txn, prefix []byte) int {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	n := 0
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		n++
	}
	return n
}
