package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Named is a keyword-style argument: a (name, value) pair that keys in the
// order it was supplied, like the positional arguments around it.
type Named struct {
	Name  string
	Value any
}

// Arg constructs a Named argument.
func Arg(name string, value any) Named {
	return Named{Name: name, Value: value}
}

// Keyer derives deterministic state keys from call arguments.
//
// Contract:
// - Determinism: the same argument tuple must produce the same key,
//   regardless of map iteration order.
// - Order sensitivity: argument position matters, including for Named
//   arguments.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a state key from the argument tuple.
	Key(args []any) (string, error)
}

// DefaultKeyer generates SHA-256 based state keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a deterministic state key.
// Format: state:<hash>
// where hash is the first 16 characters of SHA-256(canonical JSON(args))
func (k *DefaultKeyer) Key(args []any) (string, error) {
	canonical, err := canonicalizeSlice(args)
	if err != nil {
		return "", fmt.Errorf("dedupe: failed to canonicalize arguments: %w", err)
	}

	hash := sha256.Sum256(canonical)
	return "state:" + hex.EncodeToString(hash[:8]), nil
}

// canonicalize produces a deterministic JSON representation of a value.
// Maps are sorted by key; slices and Named pairs keep their order.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case Named:
		return canonicalizeNamed(val)
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalizeNamed(n Named) ([]byte, error) {
	name, err := json.Marshal(n.Name)
	if err != nil {
		return nil, err
	}

	value, err := canonicalize(n.Value)
	if err != nil {
		return nil, err
	}

	result := append([]byte("["), name...)
	result = append(result, ',')
	result = append(result, value...)
	return append(result, ']'), nil
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	return append(result, '}'), nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	return append(result, ']'), nil
}

var _ Keyer = (*DefaultKeyer)(nil)
