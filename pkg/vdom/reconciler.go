package vdom

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/vango-dev/lazydom/pkg/dom"
	"github.com/vango-dev/lazydom/pkg/editdist"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ID identifies an element within its Reconciler. The zero ID is never
// assigned.
type ID uint32

// Reconciler owns a set of elements, their pending-work queue and the flush
// guard. Create one per rendered tree.
type Reconciler struct {
	tree    dom.Tree
	planner Planner

	elements map[ID]*Element
	lastID   ID

	queue    []*Element
	flushing bool

	// deferred holds elements whose child list was blocked during the
	// current flush.
	deferred []*Element

	// operations is a running total of structural operations, for
	// diagnostics only.
	operations int

	logger    *slog.Logger
	tracer    trace.Tracer
	observers []FlushObserver
	applyHook func(*Element, Phase)
}

// New creates a Reconciler that renders into tree.
func New(tree dom.Tree, opts ...Option) *Reconciler {
	r := &Reconciler{
		tree:     tree,
		planner:  editdist.Plan[dom.Node],
		elements: make(map[ID]*Element),
		logger:   slog.Default().With("component", "vdom"),
		tracer:   defaultTracer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewElement creates an element whose rendered node will be of the given
// kind. An empty kind means "div".
func (r *Reconciler) NewElement(kind string) *Element {
	if kind == "" {
		kind = DefaultKind
	}
	return r.register(kind)
}

// Wrap adopts an existing rendered node. The element starts created and
// inserted; its kind is the node name.
//
// Once the element is flushed its child list is authoritative: rendered
// children it does not know about are removed.
func (r *Reconciler) Wrap(node dom.Node) *Element {
	e := r.register(node.NodeName())
	e.node = node
	e.created = true
	e.inserted = true
	return e
}

func (r *Reconciler) register(kind string) *Element {
	r.lastID++
	e := &Element{
		id:   r.lastID,
		r:    r,
		kind: kind,
	}
	r.elements[e.id] = e
	return e
}

// Lookup returns the element with the given ID.
func (r *Reconciler) Lookup(id ID) (*Element, bool) {
	e, ok := r.elements[id]
	return e, ok
}

// Len returns the number of live elements.
func (r *Reconciler) Len() int {
	return len(r.elements)
}

// Dispose removes e from the arena. It is detached from its parent, its
// children become roots and it leaves the queue. The rendered node is left
// to the tree operation that removes it.
func (r *Reconciler) Dispose(e *Element) error {
	if err := r.owns(e); err != nil {
		return err
	}
	if p := e.Parent(); p != nil {
		if err := p.Remove(e); err != nil {
			return err
		}
	}
	for _, cid := range e.children {
		r.elements[cid].parent = 0
	}
	e.children = nil
	r.Dequeue(e)
	delete(r.elements, e.id)
	e.r = nil
	return nil
}

// owns reports ErrForeignElement unless e belongs to r.
func (r *Reconciler) owns(e *Element) error {
	if e == nil || e.r != r {
		return ErrForeignElement
	}
	return nil
}

// Enqueue schedules e for the next flush. Enqueuing a queued element is a
// no-op.
func (r *Reconciler) Enqueue(e *Element) {
	if e.queued {
		return
	}
	r.logger.Debug("enqueue", "element", e.id, "kind", e.kind)
	r.queue = append(r.queue, e)
	e.queued = true
}

// Dequeue removes e from the pending queue. During a flush the element is
// only marked, so passes in progress skip it.
func (r *Reconciler) Dequeue(e *Element) {
	if !e.queued {
		return
	}
	e.queued = false
	if r.flushing {
		return
	}
	if i := slices.Index(r.queue, e); i >= 0 {
		r.queue = slices.Delete(r.queue, i, i+1)
	}
}

// Pending returns the number of queued elements.
func (r *Reconciler) Pending() int {
	return len(r.queue)
}

// Flushing reports whether a flush is running.
func (r *Reconciler) Flushing() bool {
	return r.flushing
}

// Operations returns the total number of structural operations applied by
// every flush so far.
func (r *Reconciler) Operations() int {
	return r.operations
}

// Flush reconciles every pending element against the rendered tree.
func (r *Reconciler) Flush() FlushStats {
	return r.FlushContext(context.Background())
}

// FlushContext is Flush with a parent context for tracing. A call made
// while a flush is already running returns immediately with Skipped set.
func (r *Reconciler) FlushContext(ctx context.Context) FlushStats {
	if r.flushing {
		r.logger.Debug("flush skipped, already flushing")
		stats := FlushStats{Skipped: true, Pending: len(r.queue)}
		r.notify(stats)
		return stats
	}
	r.flushing = true
	defer func() { r.flushing = false }()

	start := time.Now()
	_, span := r.tracer.Start(ctx, "lazydom.flush")
	defer span.End()

	var stats FlushStats

	// Materialize. The queue grows while we walk it.
	for i := 0; i < len(r.queue); i++ {
		e := r.queue[i]
		if !e.created {
			r.create(e, &stats)
		}
		for _, cid := range e.children {
			r.Enqueue(r.elements[cid])
		}
	}

	n := len(r.queue)
	stats.Elements = n
	span.AddEvent("materialized", trace.WithAttributes(
		attribute.Int("lazydom.elements", n),
		attribute.Int("lazydom.created", stats.Created),
	))

	// Off-tree elements first.
	for i := 0; i < n; i++ {
		e := r.queue[i]
		if e.queued && !e.inserted {
			r.apply(e, PhaseOffTree, &stats)
			e.queued = false
			stats.OffTree++
		}
	}

	for i := 0; i < n; i++ {
		e := r.queue[i]
		if e.queued {
			r.apply(e, PhaseLive, &stats)
			e.queued = false
			stats.Live++
		}
	}

	r.retryDeferred(&stats)

	// Elements enqueued by apply hooks wait for the next flush. A hook that
	// dequeues and re-enqueues an element leaves it in several slots.
	var rest []*Element
	for _, e := range r.queue[n:] {
		if e.queued && !slices.Contains(rest, e) {
			rest = append(rest, e)
		}
	}
	clear(r.queue)
	r.queue = append(r.queue[:0], rest...)
	stats.Pending = len(r.queue)

	stats.Duration = time.Since(start)
	r.operations += stats.Operations()

	span.SetAttributes(
		attribute.Int("lazydom.elements", stats.Elements),
		attribute.Int("lazydom.created", stats.Created),
		attribute.Int("lazydom.operations", stats.Operations()),
		attribute.Int("lazydom.skips", stats.Skips),
	)
	r.logger.Debug("flush complete",
		"elements", stats.Elements,
		"created", stats.Created,
		"operations", stats.Operations(),
		"duration", stats.Duration,
	)

	r.notify(stats)
	return stats
}

func (r *Reconciler) notify(stats FlushStats) {
	for _, o := range r.observers {
		o.ObserveFlush(stats)
	}
}

// create allocates e's rendered node, replays its attribute and style
// caches, and creates every child that does not have a node yet.
func (r *Reconciler) create(e *Element, stats *FlushStats) {
	if e.created {
		return
	}
	r.logger.Debug("create", "element", e.id, "kind", e.kind)

	node := r.tree.CreateNode(e.kind)
	e.node = node
	e.created = true
	stats.Created++

	for _, k := range slices.Sorted(maps.Keys(e.attrs)) {
		r.tree.SetAttribute(node, k, e.attrs[k])
	}
	for _, k := range slices.Sorted(maps.Keys(e.style)) {
		r.tree.SetStyle(node, k, e.style[k])
	}

	for _, cid := range e.children {
		if c := r.elements[cid]; !c.created {
			r.create(c, stats)
		}
	}
}

// apply resolves e's content onto its rendered node and runs the apply
// hook.
func (r *Reconciler) apply(e *Element, phase Phase, stats *FlushStats) {
	if r.resolve(e, stats) > 0 {
		r.deferred = append(r.deferred, e)
		stats.Deferred++
	}
	if r.applyHook != nil {
		r.applyHook(e, phase)
	}
}

// retryDeferred reconciles blocked child lists again until they all settle
// or a round makes no progress. Whatever is still blocked is enqueued for
// the next flush.
func (r *Reconciler) retryDeferred(stats *FlushStats) {
	pending := r.deferred
	r.deferred = nil
	for len(pending) > 0 {
		var next []*Element
		for _, e := range pending {
			if r.resolve(e, stats) > 0 {
				next = append(next, e)
			}
		}
		if len(next) == len(pending) {
			r.logger.Warn("child lists still contain their parent", "elements", len(next))
			for _, e := range next {
				r.Enqueue(e)
			}
			return
		}
		pending = next
	}
}

// resolve writes e's content to the rendered tree. It returns the number
// of children that could not be placed yet.
func (r *Reconciler) resolve(e *Element, stats *FlushStats) int {
	switch e.content.Mode {
	case ContentText:
		r.tree.SetText(e.node, e.content.Value)
	case ContentMarkup:
		r.tree.SetMarkup(e.node, e.content.Value)
	default:
		target := make([]dom.Node, 0, len(e.children))
		for _, cid := range e.children {
			c := r.elements[cid]
			if !c.created {
				r.create(c, stats)
			}
			target = append(target, c.node)
		}
		cs := r.reconcileChildren(e.node, target)
		stats.add(cs)

		if e.inserted {
			for _, cid := range e.children {
				r.setInserted(r.elements[cid], true)
			}
		}
		return cs.blocked
	}
	return 0
}

// setInserted updates the inserted flag on e and its created descendants.
func (r *Reconciler) setInserted(e *Element, inserted bool) {
	if e.inserted == inserted || !e.created {
		return
	}
	e.inserted = inserted
	for _, cid := range e.children {
		r.setInserted(r.elements[cid], inserted)
	}
}
