package target

import (
	"reflect"
	"testing"
)

func TestParseAttributePath(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"foo.bar", []string{"foo", "bar"}},
		{`foo."bar.baz"`, []string{"foo", "bar.baz"}},
		{`"foo.bar".baz`, []string{"foo.bar", "baz"}},
		{"foo", []string{"foo"}},
		{`"foo"`, []string{"foo"}},
		{"", nil},
		{"a_b", []string{"a_b"}},
		{"a-b", []string{"a-b"}},
		{"a'b", []string{"a'b"}},
		{"_a", []string{"_a"}},
	}
	for _, c := range cases {
		got, err := ParseAttributePath(c.in)
		if err != nil {
			t.Fatalf("ParseAttributePath(%q) error: %v", c.in, err)
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("ParseAttributePath(%q) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

func TestParseAttributePathInvalid(t *testing.T) {
	for _, in := range []string{".foo", "foo.", "foo..bar", "1foo", `"foo`, `foo"`} {
		if _, err := ParseAttributePath(in); err == nil {
			t.Fatalf("ParseAttributePath(%q): expected error, got none", in)
		}
	}
}

func TestParseAttributePathEscapes(t *testing.T) {
	got, err := ParseAttributePath(`"foo\"bar"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{`foo"bar`}) {
		t.Fatalf("got %#v", got)
	}

	got, err = ParseAttributePath(`"foo\\bar"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{`foo\bar`}) {
		t.Fatalf("got %#v", got)
	}
}

func TestJoinAttributePath(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{[]string{"foo", "bar"}, "foo.bar"},
		{[]string{"foo", "bar.baz"}, `foo."bar.baz"`},
		{nil, ""},
		{[]string{""}, `""`},
		{[]string{`bar"baz`}, `"bar\"baz"`},
		{[]string{`bar\baz`}, `"bar\\baz"`},
	}
	for _, c := range cases {
		got := JoinAttributePath(c.in)
		if got != c.want {
			t.Fatalf("JoinAttributePath(%#v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAttributePathRoundTrip(t *testing.T) {
	inputs := []string{"foo.bar", "foo", `"foo"`, "", `"bar\"baz"`, `"bar\\baz"`}
	for _, in := range inputs {
		segs, err := ParseAttributePath(in)
		if err != nil {
			t.Fatalf("parse(%q): %v", in, err)
		}
		rejoined := JoinAttributePath(segs)
		resegs, err := ParseAttributePath(rejoined)
		if err != nil {
			t.Fatalf("reparse(%q): %v", rejoined, err)
		}
		if !reflect.DeepEqual(segs, resegs) {
			t.Fatalf("round trip mismatch for %q: %#v != %#v", in, segs, resegs)
		}
	}
}

// TestAttributePathRoundTripHandBuiltSegments covers segments that never
// came from ParseAttributePath in the first place (e.g. a Target.Attribute
// built directly by a strategy), which is the case JoinAttributePath must
// still serialize unambiguously.
func TestAttributePathRoundTripHandBuiltSegments(t *testing.T) {
	cases := [][]string{
		{`bar"baz`},
		{`bar\baz`},
		{`has"both\kinds`},
		{"plain", `quote"mark`},
	}
	for _, segs := range cases {
		rejoined := JoinAttributePath(segs)
		resegs, err := ParseAttributePath(rejoined)
		if err != nil {
			t.Fatalf("reparse(%q): %v", rejoined, err)
		}
		if !reflect.DeepEqual(segs, resegs) {
			t.Fatalf("round trip mismatch for %#v: serialized %q, reparsed %#v", segs, rejoined, resegs)
		}
	}
}
