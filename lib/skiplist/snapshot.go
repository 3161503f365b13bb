package skiplist

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ValentinKolb/sKV/lib/logging"
)

// --------------------------------------------------------------------------
// Per-type JSON adapters
// --------------------------------------------------------------------------

// Adapter maps values of one type to and from their JSON representation.
// The snapshot codec is parameterized with one adapter per side so lists
// with any key/value types can be persisted.
type Adapter[T any] interface {
	Marshal(v T) ([]byte, error)
	Unmarshal(data []byte) (T, error)
}

// JSONAdapter is the stock adapter backed by encoding/json. Type
// mismatches in the input (a string where a number is expected, a
// fractional number for an integer key) surface as unmarshal errors.
type JSONAdapter[T any] struct{}

func (JSONAdapter[T]) Marshal(v T) ([]byte, error) { return json.Marshal(v) }

func (JSONAdapter[T]) Unmarshal(data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

// --------------------------------------------------------------------------
// Snapshot codec
// --------------------------------------------------------------------------

const snapshotTimeLayout = "2006-01-02_15-04-05"

// snapshotElement is the wire form of one element. Unknown extra fields in
// the input are ignored.
type snapshotElement struct {
	Key   json.RawMessage `json:"key"`
	Value json.RawMessage `json:"value"`
}

// LoadOutcome reports how a snapshot load went: how many elements were
// inserted and how many were skipped because they were malformed.
type LoadOutcome struct {
	Loaded  uint64
	Skipped uint64
}

// Codec serializes a list's bottom chain to a JSON array of {key, value}
// objects in ascending key order, and restores such files element by
// element.
type Codec[K cmp.Ordered, V comparable] struct {
	Dir   string // snapshot directory, created on demand
	Key   Adapter[K]
	Value Adapter[V]
}

// NewCodec returns a codec writing to dir with the stock JSON adapters.
func NewCodec[K cmp.Ordered, V comparable](dir string) *Codec[K, V] {
	if dir == "" {
		dir = "store"
	}
	return &Codec[K, V]{
		Dir:   dir,
		Key:   JSONAdapter[K]{},
		Value: JSONAdapter[V]{},
	}
}

// Save writes the list's bottom chain to
// <dir>/<basename>_<YYYY-MM-DD_HH-MM-SS>.json (local time) and returns the
// path. The file is fully rewritten.
//
// Thread-safety: This method is thread-safe; the list is read under its
// own mutex.
func (c *Codec[K, V]) Save(list *SkipList[K, V], basename string) (string, error) {
	path := filepath.Join(c.Dir, fmt.Sprintf("%s_%s.json", basename, time.Now().Format(snapshotTimeLayout)))
	logging.Info().Str("saving snapshot to ").Str(path).End()

	elements := make([]snapshotElement, 0, list.Size())
	var encodeErr error
	list.Range(func(key K, value V) bool {
		k, err := c.Key.Marshal(key)
		if err != nil {
			encodeErr = err
			return false
		}
		v, err := c.Value.Marshal(value)
		if err != nil {
			encodeErr = err
			return false
		}
		elements = append(elements, snapshotElement{Key: k, Value: v})
		return true
	})
	if encodeErr != nil {
		return "", NewError(RetCParseError, fmt.Sprintf("encode snapshot element: %v", encodeErr))
	}

	data, err := json.MarshalIndent(elements, "", "  ")
	if err != nil {
		return "", NewError(RetCParseError, fmt.Sprintf("encode snapshot: %v", err))
	}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		logging.Error().Str("cannot create snapshot dir ").Str(c.Dir).End()
		return "", NewError(RetCIoError, fmt.Sprintf("create snapshot dir: %v", err))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logging.Error().Str("cannot write snapshot ").Str(path).End()
		return "", NewError(RetCIoError, fmt.Sprintf("write snapshot: %v", err))
	}

	logging.Info().Str("snapshot saved: ").Uint(uint64(len(elements))).Str(" elements").End()
	return path, nil
}

// Load parses the snapshot at path and inserts every well-formed element
// into the list. Elements that are not objects, lack key/value, or carry
// mismatched types are skipped with a log message; they never abort the
// load.
//
// Thread-safety: This method is thread-safe; inserts take the list mutex
// per element.
func (c *Codec[K, V]) Load(list *SkipList[K, V], path string) (LoadOutcome, error) {
	logging.Info().Str("loading snapshot from ").Str(path).End()

	data, err := os.ReadFile(path)
	if err != nil {
		logging.Error().Str("cannot open snapshot ").Str(path).End()
		return LoadOutcome{}, NewError(RetCIoError, fmt.Sprintf("read snapshot: %v", err))
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		logging.Error().Str("snapshot is not a JSON array: ").Str(path).End()
		return LoadOutcome{}, NewError(RetCParseError, fmt.Sprintf("snapshot must be a JSON array: %v", err))
	}

	var outcome LoadOutcome
	for i, raw := range elements {
		var elem snapshotElement
		if err := json.Unmarshal(raw, &elem); err != nil || elem.Key == nil || elem.Value == nil {
			logging.Warn().Str("skipping malformed snapshot element ").Int(int64(i)).End()
			outcome.Skipped++
			continue
		}

		key, err := c.Key.Unmarshal(elem.Key)
		if err != nil {
			logging.Warn().Str("key type mismatch in snapshot element ").Int(int64(i)).End()
			outcome.Skipped++
			continue
		}
		value, err := c.Value.Unmarshal(elem.Value)
		if err != nil {
			logging.Warn().Str("value type mismatch in snapshot element ").Int(int64(i)).End()
			outcome.Skipped++
			continue
		}

		list.Insert(key, value)
		outcome.Loaded++
	}

	logging.Info().
		Str("snapshot loaded: ").Uint(outcome.Loaded).
		Str(" elements, ").Uint(outcome.Skipped).Str(" skipped").
		End()
	return outcome, nil
}
