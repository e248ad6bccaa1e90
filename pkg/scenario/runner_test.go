package scenario

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/lazydom/internal/errors"
	"github.com/vango-dev/lazydom/pkg/dom"
	"github.com/vango-dev/lazydom/pkg/vdom"
)

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func mustParse(t *testing.T, src string) *Scenario {
	t.Helper()
	s, err := Parse([]byte(src), "")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return s
}

func TestRunReorder(t *testing.T) {
	s := mustParse(t, reorderYAML)

	var seen []string
	run := NewRunner(s, quiet(), WithFrameHandler(func(_ context.Context, f Frame) error {
		seen = append(seen, f.HTML)
		return nil
	}))
	res, err := run.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := []string{
		"<ul><li>A</li><li>B</li><li>C</li></ul>",
		"<ul><li>C</li><li>B</li><li>A</li></ul>",
	}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("frames (-want +got):\n%s", diff)
	}
	if len(res.Frames) != 2 {
		t.Fatalf("len(Frames) = %d, want 2", len(res.Frames))
	}
	if res.Frames[0].Stats.Created != 4 {
		t.Errorf("first frame created %d nodes, want 4", res.Frames[0].Stats.Created)
	}
	if res.Last().Step != 5 || res.Last().Line != 14 {
		t.Errorf("last frame step %d line %d, want 5 and 14", res.Last().Step, res.Last().Line)
	}
	for _, m := range res.Last().Mutations {
		if m.Kind == dom.MutCreate {
			t.Errorf("second frame should create nothing, got %v", m)
		}
	}
}

func TestRunImplicitFinalFlush(t *testing.T) {
	s := mustParse(t, `elements:
  p: {kind: p}
steps:
  - {do: add, parent: root, child: p}
  - {do: attr, target: p, key: title, value: hi}
  - {do: style, target: p, key: color, value: red}
`)
	res, err := NewRunner(s, quiet()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(res.Frames) != 1 {
		t.Fatalf("len(Frames) = %d, want 1", len(res.Frames))
	}
	if got, want := res.Last().HTML, `<p title="hi" style="color: red"></p>`; got != want {
		t.Errorf("HTML = %s, want %s", got, want)
	}
	if res.Last().Step != len(s.Steps) {
		t.Errorf("Step = %d, want %d", res.Last().Step, len(s.Steps))
	}
}

func TestRunContentSteps(t *testing.T) {
	s := mustParse(t, `elements:
  box: {kind: div, html: '<i>x</i>'}
  a: {kind: span}
steps:
  - {do: add, parent: root, child: box}
  - do: flush
    expect: '<div><i>x</i></div>'
  - {do: text, target: box, value: plain}
  - do: flush
    expect: '<div>plain</div>'
  - {do: insert, parent: box, child: a, index: 0}
  - do: flush
    expect: '<div><span></span></div>'
  - {do: remove, parent: box, child: a}
  - {do: html, target: box, value: '<b>y</b>'}
  - do: flush
    expect: '<div><b>y</b></div>'
`)
	if _, err := NewRunner(s, quiet()).Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestRunExpectMismatch(t *testing.T) {
	s := mustParse(t, `elements:
  p: {kind: p}
steps:
  - {do: add, parent: root, child: p}
  - do: flush
    expect: '<div></div>'
`)
	res, err := NewRunner(s, quiet()).Run(context.Background())
	if errors.Code(err) != "L023" {
		t.Fatalf("Run() error = %v, want L023", err)
	}
	if len(res.Frames) != 1 {
		t.Errorf("the failing frame should still be reported")
	}
}

func TestRunAPIError(t *testing.T) {
	s := mustParse(t, `elements:
  p: {kind: p}
steps:
  - {do: add, parent: root, child: p}
  - {do: add, parent: root, child: p}
`)
	run := NewRunner(s, quiet())
	_, err := run.Run(context.Background())
	if errors.Code(err) != "L023" {
		t.Fatalf("Run() error = %v, want L023", err)
	}
	if !stderrors.Is(err, vdom.ErrDuplicateChild) {
		t.Errorf("error should wrap ErrDuplicateChild: %v", err)
	}
	if le := err.(*errors.Error); le.Location == nil || le.Location.Line != 5 {
		t.Errorf("location = %v, want line 5", le.Location)
	}

	root, _ := run.Element(RootName)
	if root.ChildCount() != 1 {
		t.Errorf("root has %d children, want 1", root.ChildCount())
	}
}

func TestRunFrameHandlerStops(t *testing.T) {
	s := mustParse(t, reorderYAML)
	stop := stderrors.New("stop")

	calls := 0
	_, err := NewRunner(s, quiet(), WithFrameHandler(func(context.Context, Frame) error {
		calls++
		return stop
	})).Run(context.Background())

	if !stderrors.Is(err, stop) {
		t.Errorf("Run() error = %v, want stop", err)
	}
	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
}

func TestRunCanceled(t *testing.T) {
	s := mustParse(t, reorderYAML)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewRunner(s, quiet()).Run(ctx)
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if len(res.Frames) != 0 {
		t.Errorf("len(Frames) = %d, want 0", len(res.Frames))
	}
}

func TestRunnerObserver(t *testing.T) {
	s := mustParse(t, reorderYAML)

	var flushes int
	obs := vdom.ObserverFunc(func(vdom.FlushStats) { flushes++ })
	if _, err := NewRunner(s, quiet(), WithReconcilerOptions(vdom.WithObserver(obs))).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if flushes != 2 {
		t.Errorf("observer saw %d flushes, want 2", flushes)
	}
}

func TestRunExampleScenario(t *testing.T) {
	s, err := Load("../../examples/reorder.yaml")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	res, err := NewRunner(s, quiet()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(res.Frames) != 3 {
		t.Fatalf("len(Frames) = %d, want 3", len(res.Frames))
	}

	want := `<ul id="todo"><li>Ship</li><li style="color: gray">Write tests</li></ul><p><em>2 items</em></p>`
	if got := res.Last().HTML; got != want {
		t.Errorf("last frame:\n got %s\nwant %s", got, want)
	}
}
