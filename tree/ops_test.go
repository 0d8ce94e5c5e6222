package tree

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sample() *Map {
	return Of("namelists", Of(
		"output", Of(
			"jules_output", Of("output_dir", "./output", "run_id", "loobos"),
			"jules_output_profile", []any{
				Of("profile_name", "daily", "output_period", int64(1800)),
				Of("profile_name", "monthly", "output_period", int64(-2)),
			},
		),
	))
}

func TestGetMatchesNestedAccess(t *testing.T) {
	m := sample()
	got, err := Get(m, Addr("namelists", "output", "jules_output", "output_dir"))
	if err != nil {
		t.Fatal(err)
	}
	nested, _ := m.Map("namelists").Map("output").Map("jules_output").Get("output_dir")
	if got != nested {
		t.Errorf("Get() = %v, nested = %v", got, nested)
	}

	got, err = Get(m, Addr("namelists", "output", "jules_output_profile", "1", "profile_name"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "monthly" {
		t.Errorf("Get() via list index = %v, want monthly", got)
	}
}

func TestGetMissing(t *testing.T) {
	tests := []struct {
		name string
		addr Address
		miss string
	}{
		{"top", Addr("inputs"), "$.inputs"},
		{"middle", Addr("namelists", "drive", "jules_drive"), "$.namelists.drive"},
		{"through leaf", Addr("namelists", "output", "jules_output", "run_id", "x"), "$.namelists.output.jules_output.run_id.x"},
		{"index range", Addr("namelists", "output", "jules_output_profile", "2"), "$.namelists.output.jules_output_profile[2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Get(sample(), tt.addr)
			if !errors.Is(err, ErrKeyNotFound) {
				t.Fatalf("Get() error = %v, want ErrKeyNotFound", err)
			}
			if !strings.Contains(err.Error(), tt.miss) {
				t.Errorf("error %q does not name %s", err, tt.miss)
			}
		})
	}
}

func TestSet(t *testing.T) {
	m := sample()
	a := Addr("namelists", "output", "jules_output_profile", "0", "output_period")
	if err := Set(m, a, int64(3600)); err != nil {
		t.Fatal(err)
	}
	got, err := Get(m, a)
	if err != nil {
		t.Fatal(err)
	}
	if got != int64(3600) {
		t.Errorf("Get() after Set = %v", got)
	}

	b := Addr("namelists", "drive", "jules_drive", "file")
	if err := Set(m, b, "Loobos_1997.dat"); err != nil {
		t.Fatal(err)
	}
	if v, _ := m.Map("namelists").Map("drive").Map("jules_drive").Get("file"); v != "Loobos_1997.dat" {
		t.Errorf("created path holds %v", v)
	}
	if diff := cmp.Diff([]string{"output", "drive"}, m.Map("namelists").Keys()); diff != "" {
		t.Errorf("new key not appended (-want +got):\n%s", diff)
	}

	err = Set(m, Addr("namelists", "output", "jules_output", "run_id", "deeper"), 1)
	if !errors.Is(err, ErrNotMap) {
		t.Errorf("Set through a leaf error = %v, want ErrNotMap", err)
	}
	if err := Set(m, nil, 1); !errors.Is(err, ErrBadAddress) {
		t.Errorf("Set(empty) error = %v", err)
	}
}

func TestUpdate(t *testing.T) {
	m := sample()
	patch := Of("namelists", Of(
		"output", Of("jules_output", Of("run_id", "hyytiala")),
		"drive", Of("jules_drive", Of("file", "drive.dat")),
	))
	Update(m, patch)

	want := Of("namelists", Of(
		"output", Of(
			"jules_output", Of("output_dir", "./output", "run_id", "hyytiala"),
			"jules_output_profile", []any{
				Of("profile_name", "daily", "output_period", int64(1800)),
				Of("profile_name", "monthly", "output_period", int64(-2)),
			},
		),
		"drive", Of("jules_drive", Of("file", "drive.dat")),
	))
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("Update mismatch (-want +got):\n%s", diff)
	}

	patch.Map("namelists").Map("drive").Map("jules_drive").Set("file", "changed")
	if v, _ := Get(m, Addr("namelists", "drive", "jules_drive", "file")); v != "drive.dat" {
		t.Errorf("Update aliased patch values: %v", v)
	}
}

func TestMergePatch(t *testing.T) {
	m := Of("a", Of("x", 1, "y", 2), "b", "keep")
	MergePatch(m, Of("a", Of("x", nil, "z", 3), "c", Of("d", nil)))
	want := Of("a", Of("y", 2, "z", 3), "b", "keep", "c", NewMap())
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("MergePatch mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	m := sample()
	leaves := Flatten(m)
	if len(leaves) != 3 {
		t.Fatalf("Flatten() gave %d leaves, want 3", len(leaves))
	}
	if !leaves[0].Address.Equal(Addr("namelists", "output", "jules_output", "output_dir")) {
		t.Errorf("first leaf at %s", leaves[0].Address)
	}
	back, err := Unflatten(leaves)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(m, back); diff != "" {
		t.Errorf("Unflatten mismatch (-want +got):\n%s", diff)
	}

	a := Addr("x", "y")
	v, err := Get(Nest(a, "leaf"), a)
	if err != nil || v != "leaf" {
		t.Errorf("Get(Nest()) = %v, %v", v, err)
	}
}
