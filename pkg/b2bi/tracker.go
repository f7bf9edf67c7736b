package b2bi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/go-cmp/cmp"
)

// Entity is a data-transfer object loaded from, and written back to, a
// service. Rebuild is the factory capability the change tracker needs: it
// returns a fresh instance of the concrete type decoded from original.
type Entity interface {
	Key() string
	OriginalJSON() []byte
	SetOriginalJSON(original []byte)
	Rebuild(original []byte) (Entity, error)
}

// Tracked records the JSON an entity was loaded from. Embed it in entity
// types; it is excluded from serialization.
type Tracked struct {
	original json.RawMessage
}

// OriginalJSON returns the JSON the entity was constructed from, or nil.
func (t *Tracked) OriginalJSON() []byte {
	return t.original
}

// SetOriginalJSON records the JSON the entity was constructed from.
func (t *Tracked) SetOriginalJSON(original []byte) {
	if original == nil {
		t.original = nil

		return
	}

	t.original = append(json.RawMessage(nil), original...)
}

// Decode unmarshals data into entity and records data as its original JSON.
func Decode(data []byte, entity Entity) error {
	err := json.Unmarshal(data, entity)
	if err != nil {
		return fmt.Errorf("decoding %T: %w", entity, err)
	}

	entity.SetOriginalJSON(data)

	return nil
}

// IsModified reports whether entity has diverged from the JSON it was
// loaded from. An entity that was never loaded counts as modified.
//
// The check rebuilds a fresh copy from the original JSON, serializes both and
// compares the results ignoring key order. It is a heuristic for deciding
// whether a refresh is warranted, not a transactional guarantee, and it is
// not safe against concurrent mutation of entity.
func IsModified(entity Entity) (bool, error) {
	if entity == nil {
		return false, ErrNilEntity
	}

	original := entity.OriginalJSON()
	if len(original) == 0 {
		return true, nil
	}

	fresh, err := entity.Rebuild(original)
	if err != nil {
		return false, fmt.Errorf("rebuilding %T from original JSON: %w", entity, err)
	}

	baseline, err := json.Marshal(fresh)
	if err != nil {
		return false, fmt.Errorf("serializing baseline: %w", err)
	}

	current, err := json.Marshal(entity)
	if err != nil {
		return false, fmt.Errorf("serializing current state: %w", err)
	}

	equal, err := SemanticEqual(baseline, current)
	if err != nil {
		return false, err
	}

	return !equal, nil
}

// SemanticEqual compares two JSON documents for key/value equality,
// insensitive to key order and formatting.
func SemanticEqual(a, b []byte) (bool, error) {
	if bytes.Equal(a, b) {
		return true, nil
	}

	var left, right interface{}

	err := json.Unmarshal(a, &left)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}

	err = json.Unmarshal(b, &right)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}

	return cmp.Equal(left, right), nil
}
