package db

import (
	"reflect"
	"testing"
)

func TestDateRangeFilterValid(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     bool
	}{
		{"both bounds", "2024-07-01", "2024-07-31", true},
		{"from only", "2024-07-01", "", true},
		{"to only", "", "2024-07-31", true},
		{"no bounds", "", "", false},
		{"inverted", "2024-07-31", "2024-07-01", false},
		{"garbage from", "juli", "2024-07-31", false},
		{"garbage to", "2024-07-01", "31-07-2024", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &DateRangeFilter{From: tt.from, To: tt.to}
			if got := f.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterBuilderBuild(t *testing.T) {
	where, args := NewFilterBuilder().Build()
	if where != "" || args != nil {
		t.Errorf("empty Build() = (%q, %v)", where, args)
	}

	where, args = NewFilterBuilder().
		DateRange("2024-07-01", "2024-07-31").
		Owner(3).
		Build()
	if where != "tanggal >= ? AND tanggal <= ? AND user_id = ?" {
		t.Errorf("Build() where = %q", where)
	}
	if want := []interface{}{"2024-07-01", "2024-07-31", int64(3)}; !reflect.DeepEqual(args, want) {
		t.Errorf("Build() args = %v, want %v", args, want)
	}
}

func TestFilterBuilderIgnoresInvalid(t *testing.T) {
	fb := NewFilterBuilder().
		DateRange("", "").
		DateRange("bad", "worse").
		Owner(0)
	if fb.HasFilters() {
		t.Error("invalid filters were accepted")
	}

	// One open bound is fine.
	where, args := NewFilterBuilder().DateRange("2024-07-05", "").Build()
	if where != "tanggal >= ?" || len(args) != 1 {
		t.Errorf("open-ended Build() = (%q, %v)", where, args)
	}
}
