package model

import "fmt"

// ColorList is the ordered stripe sequence of a flag, top to bottom.
// Duplicates are allowed. Operations never modify the receiver's backing
// array, so a list handed out earlier stays valid after later edits.
type ColorList []Color

// Append returns a new list with c added at the end.
func (l ColorList) Append(c Color) ColorList {
	out := make(ColorList, len(l), len(l)+1)
	copy(out, l)
	return append(out, c)
}

// RemoveAt returns a new list without the element at index.
// Panics if index is out of range.
func (l ColorList) RemoveAt(index int) ColorList {
	l.mustOwn(index)
	out := make(ColorList, 0, len(l)-1)
	out = append(out, l[:index]...)
	return append(out, l[index+1:]...)
}

// ReplaceAt returns a new list with only the element at index changed.
// Panics if index is out of range.
func (l ColorList) ReplaceAt(index int, c Color) ColorList {
	l.mustOwn(index)
	out := make(ColorList, len(l))
	copy(out, l)
	out[index] = c
	return out
}

// Clone returns a copy with its own backing array.
func (l ColorList) Clone() ColorList {
	if l == nil {
		return nil
	}
	out := make(ColorList, len(l))
	copy(out, l)
	return out
}

// Distinct returns the colors in first-occurrence order with duplicates removed.
func (l ColorList) Distinct() ColorList {
	seen := make(map[Color]bool, len(l))
	out := make(ColorList, 0, len(l))
	for _, c := range l {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Equal reports whether both lists hold the same colors in the same order.
func (l ColorList) Equal(other ColorList) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// Strings returns the colors as plain strings.
func (l ColorList) Strings() []string {
	out := make([]string, len(l))
	for i, c := range l {
		out[i] = string(c)
	}
	return out
}

// ParseColorList parses and normalizes every entry of raw.
func ParseColorList(raw []string) (ColorList, error) {
	out := make(ColorList, 0, len(raw))
	for _, r := range raw {
		c, err := ParseColor(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (l ColorList) mustOwn(index int) {
	if index < 0 || index >= len(l) {
		panic(fmt.Sprintf("color index %d out of range [0,%d)", index, len(l)))
	}
}
