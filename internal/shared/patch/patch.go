// Package patch applies RFC 6902 JSON patch documents to restricted
// projections of domain entities.
package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

var (
	// ErrEmptyDocument is returned for an absent or null patch body
	ErrEmptyDocument = errors.New("patch document is required")
	// ErrInvalidDocument is returned when the body is not a list of operations
	ErrInvalidDocument = errors.New("patch document is malformed")
	// ErrApply is returned when an operation cannot be applied to the projection
	ErrApply = errors.New("patch could not be applied")
)

// Apply applies the operations in raw to target, a pointer to the
// projection struct pre-filled with the current values. The result is
// decoded into a fresh value, so removed fields come back zeroed.
// Operations touching fields outside the projection fail with ErrApply.
// An empty operation list leaves target untouched.
func Apply[T any](raw []byte, target *T) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ErrEmptyDocument
	}

	doc, err := jsonpatch.DecodePatch(trimmed)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if len(doc) == 0 {
		return nil
	}

	current, err := json.Marshal(target)
	if err != nil {
		return fmt.Errorf("marshal projection: %w", err)
	}

	patched, err := doc.Apply(current)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrApply, err)
	}

	var out T
	dec := json.NewDecoder(bytes.NewReader(patched))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return fmt.Errorf("%w: %v", ErrApply, err)
	}
	*target = out
	return nil
}

// IsClientError reports whether err should be answered with a 400
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptyDocument) || errors.Is(err, ErrInvalidDocument) || errors.Is(err, ErrApply)
}
