package strconvx

import "testing"

func TestItoa(t *testing.T) {
	for _, v := range []int{0, 1, -1, 42, -99999} {
		got := Itoa(v)
		want := FormatInt(int64(v), 10)
		if got != want {
			t.Fatalf("Itoa(%d) = %q, want %q", v, got, want)
		}
	}
}

func TestFormatBases(t *testing.T) {
	type C struct {
		u    uint64
		base int
		want string
	}
	for _, c := range []C{
		{0, 2, "0"},
		{5, 2, "101"},
		{255, 16, "ff"},
		{255, 10, "255"},
		{35, 36, "z"},
	} {
		if got := FormatUint(c.u, c.base); got != c.want {
			t.Fatalf("FormatUint(%d,%d) = %q, want %q", c.u, c.base, got, c.want)
		}
	}
	if got := FormatInt(-15, 10); got != "-15" {
		t.Fatalf("FormatInt(-15,10) = %q, want -15", got)
	}
}
