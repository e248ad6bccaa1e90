package scenario

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/vango-dev/lazydom/internal/errors"
	"github.com/vango-dev/lazydom/pkg/dom"
	"github.com/vango-dev/lazydom/pkg/vdom"
)

// Frame is the rendered state after one flush.
type Frame struct {
	// Step is the index of the flush step, or len(Steps) for the implicit
	// final flush.
	Step int
	Line int

	// HTML is the inner markup of the root node.
	HTML string

	Stats     vdom.FlushStats
	Mutations []dom.Mutation
}

// Result collects every frame of a run.
type Result struct {
	Frames []Frame
}

// Last returns the final frame. It panics on an empty result.
func (r *Result) Last() Frame {
	return r.Frames[len(r.Frames)-1]
}

// FrameHandler receives each frame as it is produced. Returning an error
// stops the run.
type FrameHandler func(ctx context.Context, f Frame) error

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithReconcilerOptions passes options to the underlying reconciler.
func WithReconcilerOptions(opts ...vdom.Option) Option {
	return func(r *Runner) {
		r.vopts = append(r.vopts, opts...)
	}
}

// WithFrameHandler registers a frame handler.
func WithFrameHandler(h FrameHandler) Option {
	return func(r *Runner) {
		r.onFrame = h
	}
}

// Runner plays a scenario against a fresh in-memory document. A Runner is
// single use and not safe for concurrent use.
type Runner struct {
	scenario *Scenario
	logger   *slog.Logger
	vopts    []vdom.Option
	onFrame  FrameHandler

	doc      *dom.Document
	rec      *dom.Recorder
	r        *vdom.Reconciler
	root     *dom.HTMLNode
	elements map[string]*vdom.Element
}

// NewRunner builds the document, the reconciler and every declared
// element. Nothing is rendered until the first flush.
func NewRunner(s *Scenario, opts ...Option) *Runner {
	run := &Runner{
		scenario: s,
		logger:   slog.Default().With("component", "scenario"),
		elements: make(map[string]*vdom.Element, len(s.Elements)+1),
	}
	for _, opt := range opts {
		opt(run)
	}

	run.doc = dom.NewDocument()
	run.doc.SetLogger(run.logger)
	run.rec = dom.NewRecorder(run.doc)
	run.root = run.doc.CreateNode(s.Root).(*dom.HTMLNode)

	vopts := append([]vdom.Option{vdom.WithLogger(run.logger)}, run.vopts...)
	run.r = vdom.New(run.rec, vopts...)
	run.elements[RootName] = run.r.Wrap(run.root)

	// Sorted so element IDs are stable across runs.
	for _, name := range slices.Sorted(maps.Keys(s.Elements)) {
		spec := s.Elements[name]
		e := run.r.NewElement(spec.Kind)
		for k, v := range spec.Attrs {
			e.SetAttribute(k, v)
		}
		for k, v := range spec.Style {
			e.SetStyle(k, v)
		}
		switch {
		case spec.Text != "":
			e.SetText(spec.Text)
		case spec.HTML != "":
			e.SetHTML(spec.HTML)
		}
		run.elements[name] = e
	}
	return run
}

// Reconciler returns the reconciler the runner drives.
func (run *Runner) Reconciler() *vdom.Reconciler { return run.r }

// Root returns the rendered root node.
func (run *Runner) Root() *dom.HTMLNode { return run.root }

// Element returns a declared element by name.
func (run *Runner) Element(name string) (*vdom.Element, bool) {
	e, ok := run.elements[name]
	return e, ok
}

// Run executes every step. Work left pending after the last step is
// flushed as a final frame.
func (run *Runner) Run(ctx context.Context) (*Result, error) {
	res := &Result{}
	s := run.scenario

	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if st.Do == ActionFlush {
			f, err := run.flush(ctx, i, st.Line)
			if err != nil {
				return res, err
			}
			res.Frames = append(res.Frames, f)
			if st.Expect != nil && f.HTML != *st.Expect {
				return res, errors.New("L023").
					WithDetailf("rendered %q, want %q", f.HTML, *st.Expect).
					WithLocation(s.file, st.Line, st.Column)
			}
			continue
		}
		if err := run.apply(st); err != nil {
			return res, errors.New("L023").
				WithDetailf("%s failed", st.Do).
				WithLocation(s.file, st.Line, st.Column).
				Wrap(err)
		}
	}

	if run.r.Pending() > 0 {
		f, err := run.flush(ctx, len(s.Steps), 0)
		if err != nil {
			return res, err
		}
		res.Frames = append(res.Frames, f)
	}
	return res, nil
}

func (run *Runner) flush(ctx context.Context, step, line int) (Frame, error) {
	run.rec.Reset()
	stats := run.r.FlushContext(ctx)
	f := Frame{
		Step:      step,
		Line:      line,
		HTML:      dom.InnerHTML(run.root),
		Stats:     stats,
		Mutations: run.rec.Mutations(),
	}
	run.logger.Debug("frame",
		"step", step,
		"created", stats.Created,
		"operations", stats.Operations(),
		"mutations", len(f.Mutations),
	)
	if run.onFrame != nil {
		if err := run.onFrame(ctx, f); err != nil {
			return f, err
		}
	}
	return f, nil
}

func (run *Runner) apply(st *Step) error {
	switch st.Do {
	case ActionAdd:
		return run.el(st.Parent).Add(run.list(st.targets())...)
	case ActionRemove:
		return run.el(st.Parent).Remove(run.list(st.targets())...)
	case ActionInsert:
		p, c := run.el(st.Parent), run.el(st.Child)
		switch {
		case st.Index != nil:
			return p.InsertAt(c, *st.Index)
		case st.Before != "":
			return p.InsertBefore(c, run.el(st.Before))
		default:
			return p.InsertAfter(c, run.el(st.After))
		}
	case ActionMove:
		p, c := run.el(st.Parent), run.el(st.Child)
		switch {
		case st.Index != nil:
			return p.MoveTo(c, *st.Index)
		case st.Before != "":
			return p.MoveBefore(c, run.el(st.Before))
		default:
			return p.MoveAfter(c, run.el(st.After))
		}
	case ActionText:
		run.el(st.Target).SetText(st.Value)
	case ActionHTML:
		run.el(st.Target).SetHTML(st.Value)
	case ActionAttr:
		run.el(st.Target).SetAttribute(st.Key, st.Value)
	case ActionStyle:
		run.el(st.Target).SetStyle(st.Key, st.Value)
	}
	return nil
}

func (run *Runner) el(name string) *vdom.Element {
	return run.elements[name]
}

func (run *Runner) list(names []string) []*vdom.Element {
	out := make([]*vdom.Element, len(names))
	for i, n := range names {
		out[i] = run.el(n)
	}
	return out
}
