package store

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/i474232898/weather-dashboard/internal/apperrors"
)

// KV is the raw string key-value backend behind persisted client state.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Accessor reads and writes one persisted value.
type Accessor[T any] interface {
	// Load returns the stored value, or the default when nothing usable is stored.
	Load() T
	Save(value T) error
}

// JSONValue is an Accessor that stores T as JSON text under a single key.
type JSONValue[T any] struct {
	kv     KV
	key    string
	def    func() T
	logger *slog.Logger
}

var _ Accessor[[]string] = (*JSONValue[[]string])(nil)

// NewJSONValue binds key in kv. def builds the value Load returns when the key is
// missing or corrupt.
func NewJSONValue[T any](kv KV, key string, def func() T, logger *slog.Logger) *JSONValue[T] {
	return &JSONValue[T]{
		kv:     kv,
		key:    key,
		def:    def,
		logger: logger.With("component", "store", "key", key),
	}
}

func (v *JSONValue[T]) Load() T {
	raw, ok, err := v.kv.Get(v.key)
	if err != nil {
		v.logger.Warn("read persisted state failed", "error", err)
		return v.def()
	}
	if !ok {
		return v.def()
	}

	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		corrupt := &apperrors.LocalStorageError{Key: v.key, Err: err}
		v.logger.Warn("discarding persisted state", "error", corrupt)
		if delErr := v.kv.Delete(v.key); delErr != nil {
			v.logger.Warn("reset persisted state failed", "error", delErr)
		}
		return v.def()
	}
	return out
}

func (v *JSONValue[T]) Save(value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", v.key, err)
	}
	return v.kv.Set(v.key, string(raw))
}

// TextValue is an Accessor that stores a string-like T verbatim, without JSON
// quoting. The theme preference is kept this way.
type TextValue[T ~string] struct {
	kv     KV
	key    string
	def    T
	logger *slog.Logger
}

var _ Accessor[string] = (*TextValue[string])(nil)

func NewTextValue[T ~string](kv KV, key string, def T, logger *slog.Logger) *TextValue[T] {
	return &TextValue[T]{
		kv:     kv,
		key:    key,
		def:    def,
		logger: logger.With("component", "store", "key", key),
	}
}

func (v *TextValue[T]) Load() T {
	raw, ok, err := v.kv.Get(v.key)
	if err != nil {
		v.logger.Warn("read persisted state failed", "error", err)
		return v.def
	}
	if !ok || raw == "" {
		return v.def
	}
	return T(raw)
}

func (v *TextValue[T]) Save(value T) error {
	return v.kv.Set(v.key, string(value))
}
