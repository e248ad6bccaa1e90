package editdist

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "")
}

func TestDistance(t *testing.T) {
	tests := []struct {
		source, target string
		want           int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"kitten", "sitting", 3},
		{"abc", "bac", 2},
		{"abcd", "bcda", 2},
	}

	for _, tt := range tests {
		got := Distance(split(tt.source), split(tt.target))
		if got != tt.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tt.source, tt.target, got, tt.want)
		}
	}
}

func TestPlanTransformsSource(t *testing.T) {
	pairs := [][2]string{
		{"", "abc"},
		{"abc", ""},
		{"abc", "abc"},
		{"abc", "abcd"},
		{"abc", "xabc"},
		{"abc", "bac"},
		{"abc", "cab"},
		{"abcdef", "fedcba"},
		{"kitten", "sitting"},
		{"aaaa", "aa"},
		{"abcde", "ace"},
	}

	for _, p := range pairs {
		source, target := split(p[0]), split(p[1])
		ops := Plan(source, target)

		if len(ops) != Distance(source, target) {
			t.Errorf("Plan(%q, %q) has %d ops, want %d", p[0], p[1], len(ops), Distance(source, target))
		}
		got := strings.Join(Apply(source, ops), "")
		if got != p[1] {
			t.Errorf("Apply(Plan(%q, %q)) = %q, ops %v", p[0], p[1], got, ops)
		}
	}
}

func TestPlanSingleAppend(t *testing.T) {
	ops := Plan([]string{"a", "b"}, []string{"a", "b", "c"})
	want := []Op[string]{{Kind: OpInsert, Pos: 2, New: "c"}}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("Plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanSwap(t *testing.T) {
	ops := Plan([]string{"a", "b", "c"}, []string{"b", "a", "c"})
	want := []Op[string]{
		{Kind: OpDelete, Pos: 1, Old: "b"},
		{Kind: OpInsert, Pos: 0, New: "b"},
	}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("Plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanDescendingPositions(t *testing.T) {
	ops := Plan(split("abcdef"), split("xbcyfz"))
	for i := 1; i < len(ops); i++ {
		if ops[i].Pos > ops[i-1].Pos {
			t.Fatalf("ops not descending at %d: %v", i, ops)
		}
	}
}

func TestPlanEmptySource(t *testing.T) {
	ops := Plan(nil, []int{1, 2})
	want := []Op[int]{
		{Kind: OpInsert, Pos: 0, New: 1},
		{Kind: OpInsert, Pos: 1, New: 2},
	}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("Plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanEmptyTarget(t *testing.T) {
	ops := Plan([]int{1, 2}, nil)
	want := []Op[int]{
		{Kind: OpDelete, Pos: 1, Old: 2},
		{Kind: OpDelete, Pos: 0, Old: 1},
	}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("Plan mismatch (-want +got):\n%s", diff)
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op[string]
		want string
	}{
		{Op[string]{Kind: OpDelete, Pos: 1, Old: "a"}, "Delete(1, a)"},
		{Op[string]{Kind: OpInsert, Pos: 0, New: "b"}, "Insert(0, b)"},
		{Op[string]{Kind: OpReplace, Pos: 2, Old: "a", New: "b"}, "Replace(2, a -> b)"},
		{Op[string]{}, "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
