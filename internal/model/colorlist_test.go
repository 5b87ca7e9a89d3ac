package model

import (
	"reflect"
	"testing"
)

func rainbow() ColorList {
	return ColorList{"FF0018", "FFA52C", "FFFF41", "008018", "0000F9", "86007D"}
}

func TestColorList_Append(t *testing.T) {
	original := ColorList{"FF0000", "00FF00"}
	got := original.Append("0000FF")

	want := ColorList{"FF0000", "00FF00", "0000FF"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Append = %v, want %v", got, want)
	}
	if len(original) != 2 {
		t.Errorf("original length changed to %d", len(original))
	}
}

func TestColorList_AppendDoesNotShareBackingArray(t *testing.T) {
	base := make(ColorList, 2, 10)
	base[0], base[1] = "FF0000", "00FF00"

	a := base.Append("111111")
	b := base.Append("222222")

	if a[2] != "111111" {
		t.Errorf("first append clobbered: got %q", a[2])
	}
	if b[2] != "222222" {
		t.Errorf("second append wrong: got %q", b[2])
	}
}

func TestColorList_RemoveAt(t *testing.T) {
	original := rainbow()

	for i := range original {
		got := original.RemoveAt(i)
		if len(got) != len(original)-1 {
			t.Fatalf("RemoveAt(%d) length = %d, want %d", i, len(got), len(original)-1)
		}

		var want ColorList
		for j, c := range original {
			if j != i {
				want = append(want, c)
			}
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("RemoveAt(%d) = %v, want %v", i, got, want)
		}
	}

	if !reflect.DeepEqual(original, rainbow()) {
		t.Errorf("RemoveAt mutated the receiver: %v", original)
	}
}

func TestColorList_ReplaceAt(t *testing.T) {
	original := rainbow()
	got := original.ReplaceAt(2, "123456")

	if got[2] != "123456" {
		t.Errorf("ReplaceAt did not set value: %v", got)
	}
	for i := range original {
		if i != 2 && got[i] != original[i] {
			t.Errorf("ReplaceAt changed index %d: %q -> %q", i, original[i], got[i])
		}
	}
	if original[2] != "FFFF41" {
		t.Errorf("ReplaceAt mutated the receiver: %v", original)
	}
}

func TestColorList_OutOfRangePanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"remove negative", func() { rainbow().RemoveAt(-1) }},
		{"remove past end", func() { rainbow().RemoveAt(6) }},
		{"replace past end", func() { rainbow().ReplaceAt(6, "000000") }},
		{"remove from empty", func() { ColorList{}.RemoveAt(0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestColorList_Distinct(t *testing.T) {
	l := ColorList{"D60270", "D60270", "9B4F96", "0038A8", "0038A8", "D60270"}
	want := ColorList{"D60270", "9B4F96", "0038A8"}

	if got := l.Distinct(); !reflect.DeepEqual(got, want) {
		t.Errorf("Distinct = %v, want %v", got, want)
	}
}

func TestColorList_Equal(t *testing.T) {
	if !rainbow().Equal(rainbow()) {
		t.Error("expected equal lists")
	}
	if rainbow().Equal(rainbow()[:5]) {
		t.Error("lists of different length should differ")
	}
	if rainbow().Equal(rainbow().ReplaceAt(0, "000000")) {
		t.Error("lists with different colors should differ")
	}
}

func TestParseColorList(t *testing.T) {
	got, err := ParseColorList([]string{"#ff0018", "ffa52c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, ColorList{"FF0018", "FFA52C"}) {
		t.Errorf("ParseColorList = %v", got)
	}

	if _, err := ParseColorList([]string{"FF0018", "bad"}); err == nil {
		t.Error("expected error for invalid entry")
	}
}
