// Package link encodes a flag's colors into a URL fragment and back.
//
// The fragment is standard base64 (with padding) of a JSON array of
// 6-digit uppercase hex strings, e.g. WyJGRjAwMTgiLCJGRkE1MkMiXQ== is
// ["FF0018","FFA52C"].
package link

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/amterp/flagmaker/internal/model"
)

// ErrDecode is the sentinel every DecodeError unwraps to.
var ErrDecode = errors.New("invalid shared flag")

// DecodeReason says which stage of decoding rejected a fragment.
type DecodeReason string

const (
	ReasonBase64 DecodeReason = "base64"
	ReasonJSON   DecodeReason = "json"
	ReasonShape  DecodeReason = "shape"
	ReasonColor  DecodeReason = "color"
)

// DecodeError is returned for any fragment that doesn't decode to a valid color list.
type DecodeError struct {
	Reason DecodeReason
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrDecode, e.Reason, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// Encode serializes colors into a fragment (without the leading '#').
func Encode(colors model.ColorList) string {
	strs := colors.Strings()
	// Marshalling a []string cannot fail.
	data, _ := json.Marshal(strs)
	return base64.StdEncoding.EncodeToString(data)
}

// Decode parses a fragment produced by Encode. A leading '#' is tolerated.
func Decode(fragment string) (model.ColorList, error) {
	fragment = strings.TrimPrefix(fragment, "#")

	data, err := base64.StdEncoding.DecodeString(fragment)
	if err != nil {
		return nil, &DecodeError{Reason: ReasonBase64, Err: err}
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Reason: ReasonJSON, Err: err}
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, &DecodeError{Reason: ReasonShape, Err: fmt.Errorf("expected array, got %T", raw)}
	}

	colors := make(model.ColorList, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &DecodeError{Reason: ReasonShape, Err: fmt.Errorf("element %d is %T, not a string", i, item)}
		}
		c := model.Color(s)
		if !c.Valid() {
			return nil, &DecodeError{Reason: ReasonColor, Err: fmt.Errorf("element %d: %q is not a 6-digit uppercase hex color", i, s)}
		}
		colors = append(colors, c)
	}
	return colors, nil
}

// ShareURL appends the encoded colors to base as a fragment, replacing any existing one.
func ShareURL(base string, colors model.ColorList) string {
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	return base + "#" + Encode(colors)
}
