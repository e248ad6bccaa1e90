package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "structure error",
			code:    "L001",
			wantMsg: "Duplicate child",
			wantCat: CategoryStructure,
		},
		{
			name:    "state error",
			code:    "L004",
			wantMsg: "Element not created",
			wantCat: CategoryState,
		},
		{
			name:    "scenario error",
			code:    "L021",
			wantMsg: "Unknown element",
			wantCat: CategoryScenario,
		},
		{
			name:    "unknown error code",
			code:    "L999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "demo.yaml")
	if err.Message != `file "demo.yaml" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "demo.yaml" not found`)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestError_Error(t *testing.T) {
	err := New("L002")
	if got, want := err.Error(), "L002: Not a child"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = New("L002").WithDetailf("element %d", 7)
	if got, want := err.Error(), "L002: Not a child: element 7"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &Error{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestError_Is(t *testing.T) {
	sentinel := New("L001")
	err := fmt.Errorf("adding: %w", New("L001").WithDetail("child 3"))

	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should match by code through wrapping")
	}
	if stderrors.Is(err, New("L002")) {
		t.Error("errors.Is should not match a different code")
	}
	if stderrors.Is(&Error{Message: "a"}, &Error{Message: "a"}) {
		t.Error("uncoded errors should not match by code")
	}
}

func TestError_WithLocation(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "demo.yaml")
	content := `elements:
  root: {wrap: body}
steps:
  - add: [root, ghost]
  - flush: true
`
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("L021").WithLocation(tmpFile, 4, 5)

	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.Line != 4 || err.Location.Column != 5 {
		t.Errorf("Location = %v, want line 4 column 5", err.Location)
	}
	if len(err.Context) == 0 {
		t.Error("Context should not be empty")
	}
}

func TestError_Wrap(t *testing.T) {
	inner := stderrors.New("disk full")
	err := New("L060").Wrap(inner)

	if err.Unwrap() != inner {
		t.Error("Unwrap() should return the wrapped error")
	}
	if !stderrors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Error() = %q should mention the cause", err.Error())
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "L060") != nil {
		t.Error("FromError(nil) should be nil")
	}

	le := New("L040")
	if FromError(le, "L060") != le {
		t.Error("FromError should pass *Error through")
	}

	wrapped := FromError(stderrors.New("boom"), "L060")
	if wrapped.Code != "L060" {
		t.Errorf("Code = %q, want L060", wrapped.Code)
	}
}

func TestCode(t *testing.T) {
	err := fmt.Errorf("ctx: %w", New("L003"))
	if got := Code(err); got != "L003" {
		t.Errorf("Code() = %q, want L003", got)
	}
	if got := Code(stderrors.New("x")); got != "" {
		t.Errorf("Code() = %q, want empty", got)
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		loc  *Location
		want string
	}{
		{nil, ""},
		{&Location{File: "a.yaml", Line: 3}, "a.yaml:3"},
		{&Location{File: "a.yaml", Line: 3, Column: 7}, "a.yaml:3:7"},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("L003").WithSuggestion("Check the index before moving")
	out := err.Format()

	for _, want := range []string{"ERROR L003: Move to same index", "degenerate moves", "Hint: Check the index"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("L020")
	err.Location = &Location{File: "s.yaml", Line: 2, Column: 1}
	if got, want := err.FormatCompact(), "s.yaml:2:1: L020: Invalid scenario"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, stderrors.New("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("Fprint() = %q", buf.String())
	}
}

func TestRegistry(t *testing.T) {
	for _, code := range GetAllCodes() {
		tmpl, ok := GetTemplate(code)
		if !ok {
			t.Fatalf("GetTemplate(%q) not found", code)
		}
		if tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("%s has an incomplete template", code)
		}
	}

	Register("L900", ErrorTemplate{Category: CategoryCLI, Message: "custom"})
	defer delete(registry, "L900")
	if New("L900").Message != "custom" {
		t.Error("registered template not used")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 9)
	for _, l := range lines {
		if len(l) > 9 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}
