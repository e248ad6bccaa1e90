package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/vango-dev/lazydom/pkg/dom"
	"github.com/vango-dev/lazydom/pkg/vdom"
)

func TestObserveFlush(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg))

	c.ObserveFlush(vdom.FlushStats{
		Elements: 3,
		Created:  2,
		Inserts:  2,
		Deletes:  1,
		Skips:    1,
		Pending:  4,
		Duration: 5 * time.Millisecond,
	})
	c.ObserveFlush(vdom.FlushStats{Skipped: true})

	if got := testutil.ToFloat64(c.flushesTotal.WithLabelValues("applied")); got != 1 {
		t.Errorf("flushes_total{applied} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.flushesTotal.WithLabelValues("skipped")); got != 1 {
		t.Errorf("flushes_total{skipped} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.elementsFlushed); got != 3 {
		t.Errorf("elements_flushed_total = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.nodesCreated); got != 2 {
		t.Errorf("nodes_created_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.domOperations.WithLabelValues(OpInsert)); got != 2 {
		t.Errorf("dom_operations_total{insert} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.domOperations.WithLabelValues(OpSkip)); got != 1 {
		t.Errorf("dom_operations_total{skip} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.queueLength); got != 4 {
		t.Errorf("queue_length = %v, want 4", got)
	}

	count, err := testutil.GatherAndCount(reg, "lazydom_flush_duration_seconds")
	if err != nil {
		t.Fatalf("GatherAndCount() error: %v", err)
	}
	if count != 1 {
		t.Errorf("flush_duration_seconds series = %d, want 1", count)
	}
}

func TestNamespaceOption(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg), WithNamespace("app"), WithSubsystem("ui"))
	c.SetQueueLength(2)

	want := `
# HELP app_ui_queue_length Number of elements waiting for the next flush
# TYPE app_ui_queue_length gauge
app_ui_queue_length 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "app_ui_queue_length"); err != nil {
		t.Error(err)
	}
}

func TestCollectorAsObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg))

	doc := dom.NewDocument()
	r := vdom.New(doc, vdom.WithObserver(c))
	body := r.Wrap(doc.CreateNode("body"))
	if err := body.Add(r.NewElement("p"), r.NewElement("p")); err != nil {
		t.Fatal(err)
	}
	r.Flush()

	if got := testutil.ToFloat64(c.nodesCreated); got != 2 {
		t.Errorf("nodes_created_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.domOperations.WithLabelValues(OpInsert)); got != 2 {
		t.Errorf("dom_operations_total{insert} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.flushesTotal.WithLabelValues("applied")); got != 1 {
		t.Errorf("flushes_total{applied} = %v, want 1", got)
	}
}
