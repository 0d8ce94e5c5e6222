package tree

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in   string
		want Address
	}{
		{"", Address{}},
		{"$", Address{}},
		{"namelists.output", Addr("namelists", "output")},
		{"$.namelists.output.jules_output.output_dir", Addr("namelists", "output", "jules_output", "output_dir")},
		{"$['inputs']['tile_fractions']", Addr("inputs", "tile_fractions")},
		{"profiles[1].name", Addr("profiles", "1", "name")},
		{"[0]", Addr("0")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAddress(tt.in)
			if err != nil {
				t.Fatalf("ParseAddress(%q) error: %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseAddress(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParseAddressRejects(t *testing.T) {
	for _, in := range []string{"a.*", "$..b", "a[?(@.x == 1)]"} {
		if _, err := ParseAddress(in); !errors.Is(err, ErrBadAddress) {
			t.Errorf("ParseAddress(%q) error = %v, want ErrBadAddress", in, err)
		}
	}
}

func TestAddressString(t *testing.T) {
	tests := []struct {
		addr Address
		want string
	}{
		{nil, "$"},
		{Addr("a", "b_2"), "$.a.b_2"},
		{Addr("list", "3"), "$.list[3]"},
		{Addr("g", "x(1)"), "$.g['x(1)']"},
		{Addr("it's"), `$['it\'s']`},
	}
	for _, tt := range tests {
		if got := tt.addr.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestAddressStringParses(t *testing.T) {
	for _, a := range []Address{Addr("a", "b"), Addr("g", "x(1)"), Addr("l", "0", "k")} {
		got, err := ParseAddress(a.String())
		if err != nil {
			t.Fatalf("ParseAddress(%s): %v", a, err)
		}
		if !got.Equal(a) {
			t.Errorf("ParseAddress(%s) = %#v", a, got)
		}
	}
}

func TestAppendDoesNotAlias(t *testing.T) {
	base := make(Address, 1, 4)
	base[0] = "root"
	a := base.Append("a")
	b := base.Append("b")
	if a[1] != "a" || b[1] != "b" {
		t.Errorf("Append aliased: %v %v", a, b)
	}
	if !a.HasPrefix(base) || a.HasPrefix(b) {
		t.Errorf("HasPrefix wrong")
	}
}
