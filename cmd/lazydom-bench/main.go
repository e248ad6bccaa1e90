package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/exec"
	"runtime"
	"runtime/debug"
	"runtime/metrics"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/lazydom/pkg/dom"
	"github.com/vango-dev/lazydom/pkg/vdom"
)

const (
	gib = int64(1024 * 1024 * 1024)
)

type profile struct {
	Name          string
	Rounds        int
	ListSize      int
	Churn         float64
	MaxProcs      int
	MemLimitBytes int64
}

var profiles = map[string]profile{
	"fast": {
		Name:     "fast",
		Rounds:   500,
		ListSize: 20,
		Churn:    0.1,
	},
	"standard": {
		Name:     "standard",
		Rounds:   2000,
		ListSize: 100,
		Churn:    0.1,
	},
	"stress": {
		Name:          "stress",
		Rounds:        5000,
		ListSize:      1000,
		Churn:         0.25,
		MaxProcs:      4,
		MemLimitBytes: 2 * gib,
	},
}

type benchConfig struct {
	Profile       string
	Rounds        int
	ListSize      int
	Churn         float64
	Seed          int64
	MaxProcs      int
	MemLimitBytes int64
	JSONOutput    string
}

// totals accumulates flush statistics across the run.
type totals struct {
	flushes    int
	elements   int
	created    int
	inserts    int
	deletes    int
	replaces   int
	skips      int
	downgrades int
	repairs    int
}

func (t *totals) observe(s vdom.FlushStats) {
	if s.Skipped {
		return
	}
	t.flushes++
	t.elements += s.Elements
	t.created += s.Created
	t.inserts += s.Inserts
	t.deletes += s.Deletes
	t.replaces += s.Replaces
	t.skips += s.Skips
	t.downgrades += s.Downgrades
	t.repairs += s.Repairs
}

func main() {
	log.SetFlags(0)

	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.MaxProcs > 0 {
		runtime.GOMAXPROCS(cfg.MaxProcs)
	}
	if cfg.MemLimitBytes > 0 {
		debug.SetMemoryLimit(cfg.MemLimitBytes)
	}

	debug.SetGCPercent(100)

	var sum totals
	doc := dom.NewDocument()
	root := doc.CreateNode("ul").(*dom.HTMLNode)
	r := vdom.New(doc,
		vdom.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		vdom.WithObserver(vdom.ObserverFunc(sum.observe)),
	)
	list := r.Wrap(root)

	pool := make([]*vdom.Element, cfg.ListSize)
	for i := range pool {
		pool[i] = r.NewElement("li")
		pool[i].SetAttribute("id", "item-"+strconv.Itoa(i))
		pool[i].SetText(strconv.Itoa(i))
	}

	var before runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	beforeMetrics := readRuntimeMetrics()

	rng := rand.New(rand.NewSource(cfg.Seed))
	latencies := make([]time.Duration, 0, cfg.Rounds)
	mismatches := 0

	start := time.Now()
	for round := 0; round < cfg.Rounds; round++ {
		if err := shuffle(rng, list, pool, cfg.Churn); err != nil {
			log.Fatalf("round %d: %v", round, err)
		}
		stats := r.Flush()
		latencies = append(latencies, stats.Duration)
		if !converged(list, root) {
			mismatches++
		}
	}
	elapsed := time.Since(start)

	var after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&after)
	afterMetrics := readRuntimeMetrics()

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	report := buildReport(cfg, elapsed, latencies, &sum, mismatches, before, after, beforeMetrics, afterMetrics)

	writeSummary(os.Stderr, report)
	if err := writeJSON(cfg.JSONOutput, report); err != nil {
		log.Fatalf("write json: %v", err)
	}
	if mismatches > 0 {
		os.Exit(1)
	}
}

// shuffle replaces the list's children with a random subset of pool in
// random order and rewrites the text of a churn fraction of the pool.
func shuffle(rng *rand.Rand, list *vdom.Element, pool []*vdom.Element, churn float64) error {
	if err := list.Remove(list.Children()...); err != nil {
		return err
	}
	perm := rng.Perm(len(pool))
	keep := perm[:len(pool)-rng.Intn(len(pool)/4+1)]
	next := make([]*vdom.Element, len(keep))
	for i, p := range keep {
		next[i] = pool[p]
	}
	for _, e := range pool {
		if rng.Float64() < churn {
			e.SetText(strconv.Itoa(rng.Int()))
		}
	}
	return list.Add(next...)
}

// converged reports whether the rendered children follow the logical order.
func converged(list *vdom.Element, root *dom.HTMLNode) bool {
	children := list.Children()
	rendered := root.Children()
	if len(children) != len(rendered) {
		return false
	}
	for i, c := range children {
		n, err := c.Node()
		if err != nil || n != dom.Node(rendered[i]) {
			return false
		}
	}
	return true
}

func parseConfig() (benchConfig, error) {
	profileFlag := flag.String("profile", "standard", "profile: fast|standard|stress")
	roundsFlag := flag.Int("rounds", -1, "number of reorder flushes")
	listFlag := flag.Int("list", -1, "number of pooled list items")
	churnFlag := flag.Float64("churn", -1, "fraction of items whose text changes per round")
	seedFlag := flag.Int64("seed", 1, "random seed")
	maxProcsFlag := flag.Int("max-procs", -1, "GOMAXPROCS cap (0 to leave unchanged)")
	memLimitFlag := flag.String("mem-limit", "", "GOMEMLIMIT (e.g. 2GiB)")
	jsonFlag := flag.String("json", "-", "JSON output path ('-' for stdout)")
	flag.Parse()

	name := strings.ToLower(strings.TrimSpace(*profileFlag))
	if name == "" {
		name = "standard"
	}

	base, ok := profiles[name]
	if !ok {
		return benchConfig{}, fmt.Errorf("unknown profile %q", name)
	}

	cfg := benchConfig{
		Profile:       base.Name,
		Rounds:        base.Rounds,
		ListSize:      base.ListSize,
		Churn:         base.Churn,
		Seed:          *seedFlag,
		MaxProcs:      base.MaxProcs,
		MemLimitBytes: base.MemLimitBytes,
		JSONOutput:    strings.TrimSpace(*jsonFlag),
	}

	if *roundsFlag != -1 {
		cfg.Rounds = *roundsFlag
	}
	if *listFlag != -1 {
		cfg.ListSize = *listFlag
	}
	if *churnFlag != -1 {
		cfg.Churn = *churnFlag
	}
	if *maxProcsFlag != -1 {
		cfg.MaxProcs = *maxProcsFlag
	}
	if *memLimitFlag != "" {
		limit, err := parseBytes(*memLimitFlag)
		if err != nil {
			return benchConfig{}, fmt.Errorf("invalid -mem-limit: %w", err)
		}
		cfg.MemLimitBytes = limit
	}
	if cfg.JSONOutput == "" {
		cfg.JSONOutput = "-"
	}

	if cfg.Rounds <= 0 {
		return benchConfig{}, errors.New("-rounds must be > 0")
	}
	if cfg.ListSize <= 0 {
		return benchConfig{}, errors.New("-list must be > 0")
	}
	if cfg.Churn < 0 || cfg.Churn > 1 {
		return benchConfig{}, errors.New("-churn must be within [0, 1]")
	}
	if cfg.MaxProcs < 0 {
		return benchConfig{}, errors.New("-max-procs must be >= 0")
	}
	if cfg.MemLimitBytes < 0 {
		return benchConfig{}, errors.New("-mem-limit must be >= 0")
	}

	return cfg, nil
}

func parseBytes(input string) (int64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, errors.New("empty size")
	}

	var i int
	for i < len(s) {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' {
			i++
			continue
		}
		break
	}
	if i == 0 {
		return 0, fmt.Errorf("invalid size %q", input)
	}

	value, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, err
	}

	var multiplier float64
	switch strings.ToLower(strings.TrimSpace(s[i:])) {
	case "", "b":
		multiplier = 1
	case "kb":
		multiplier = 1e3
	case "mb":
		multiplier = 1e6
	case "gb":
		multiplier = 1e9
	case "kib":
		multiplier = 1024
	case "mib":
		multiplier = 1024 * 1024
	case "gib":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown size suffix in %q", input)
	}

	return int64(value*multiplier + 0.5), nil
}

type runtimeMetricsSnapshot struct {
	cpuTotalSeconds float64
	cpuGCSeconds    float64

	heapAllocsObjects uint64
}

func readRuntimeMetrics() runtimeMetricsSnapshot {
	samples := []metrics.Sample{
		{Name: "/cpu/classes/total:cpu-seconds"},
		{Name: "/cpu/classes/gc/total:cpu-seconds"},
		{Name: "/gc/heap/allocs:objects"},
	}
	metrics.Read(samples)

	var out runtimeMetricsSnapshot
	for _, s := range samples {
		switch s.Name {
		case "/cpu/classes/total:cpu-seconds":
			out.cpuTotalSeconds = s.Value.Float64()
		case "/cpu/classes/gc/total:cpu-seconds":
			out.cpuGCSeconds = s.Value.Float64()
		case "/gc/heap/allocs:objects":
			out.heapAllocsObjects = s.Value.Uint64()
		}
	}
	return out
}

func cpuFraction(after, before runtimeMetricsSnapshot) float64 {
	total := after.cpuTotalSeconds - before.cpuTotalSeconds
	if total <= 0 {
		return 0
	}
	gc := after.cpuGCSeconds - before.cpuGCSeconds
	if gc < 0 {
		return 0
	}
	return gc / total
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

type benchReport struct {
	Version    string         `json:"version"`
	Run        runInfo        `json:"run"`
	Workload   workloadInfo   `json:"workload"`
	LatencyMS  latencyInfo    `json:"flush_latency_ms"`
	Throughput throughputInfo `json:"throughput"`
	Operations operationInfo  `json:"operations"`
	GC         gcInfo         `json:"gc"`
	Mismatches int            `json:"mismatches"`
}

type runInfo struct {
	Timestamp string `json:"timestamp"`
	Go        string `json:"go"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPUCount  int    `json:"cpu_count"`
	GitCommit string `json:"git_commit,omitempty"`
}

type workloadInfo struct {
	Profile       string  `json:"profile"`
	Rounds        int     `json:"rounds"`
	ListSize      int     `json:"list_size"`
	Churn         float64 `json:"churn"`
	Seed          int64   `json:"seed"`
	MaxProcs      int     `json:"max_procs"`
	MemLimitBytes int64   `json:"mem_limit_bytes"`
}

type latencyInfo struct {
	Min float64 `json:"min"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
	Max float64 `json:"max"`
}

type throughputInfo struct {
	Flushes      int     `json:"flushes"`
	FlushesPerS  float64 `json:"flushes_per_sec"`
	ElementsPerS float64 `json:"elements_per_sec"`
}

type operationInfo struct {
	Created         int     `json:"created"`
	Inserts         int     `json:"inserts"`
	Deletes         int     `json:"deletes"`
	Replaces        int     `json:"replaces"`
	Skips           int     `json:"skips"`
	Downgrades      int     `json:"downgrades"`
	Repairs         int     `json:"repairs"`
	OpsPerFlush     float64 `json:"ops_per_flush"`
	RepairsPerFlush float64 `json:"repairs_per_flush"`
}

type gcInfo struct {
	AllocMB       float64 `json:"alloc_mb"`
	HeapLiveMB    float64 `json:"heap_live_mb"`
	NumGC         uint32  `json:"num_gc"`
	PauseTotalMS  float64 `json:"pause_total_ms"`
	GCCPUFraction float64 `json:"gc_cpu_fraction"`
	AllocsObjects uint64  `json:"allocs_objects"`
}

func buildReport(
	cfg benchConfig,
	elapsed time.Duration,
	latencies []time.Duration,
	sum *totals,
	mismatches int,
	before runtime.MemStats,
	after runtime.MemStats,
	beforeMetrics runtimeMetricsSnapshot,
	afterMetrics runtimeMetricsSnapshot,
) benchReport {
	elapsedSeconds := math.Max(0.001, elapsed.Seconds())

	latency := latencyInfo{}
	if len(latencies) > 0 {
		latency = latencyInfo{
			Min: ms(latencies[0]),
			P50: ms(percentile(latencies, 0.50)),
			P95: ms(percentile(latencies, 0.95)),
			P99: ms(percentile(latencies, 0.99)),
			Max: ms(latencies[len(latencies)-1]),
		}
	}

	ops := operationInfo{
		Created:    sum.created,
		Inserts:    sum.inserts,
		Deletes:    sum.deletes,
		Replaces:   sum.replaces,
		Skips:      sum.skips,
		Downgrades: sum.downgrades,
		Repairs:    sum.repairs,
	}
	if sum.flushes > 0 {
		n := float64(sum.flushes)
		ops.OpsPerFlush = float64(sum.inserts+sum.deletes+sum.replaces+sum.repairs) / n
		ops.RepairsPerFlush = float64(sum.repairs) / n
	}

	return benchReport{
		Version: "1",
		Run: runInfo{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Go:        runtime.Version(),
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			CPUCount:  runtime.NumCPU(),
			GitCommit: gitCommit(),
		},
		Workload: workloadInfo{
			Profile:       cfg.Profile,
			Rounds:        cfg.Rounds,
			ListSize:      cfg.ListSize,
			Churn:         cfg.Churn,
			Seed:          cfg.Seed,
			MaxProcs:      cfg.MaxProcs,
			MemLimitBytes: cfg.MemLimitBytes,
		},
		LatencyMS: latency,
		Throughput: throughputInfo{
			Flushes:      sum.flushes,
			FlushesPerS:  float64(sum.flushes) / elapsedSeconds,
			ElementsPerS: float64(sum.elements) / elapsedSeconds,
		},
		Operations: ops,
		GC: gcInfo{
			AllocMB:       float64(after.TotalAlloc-before.TotalAlloc) / (1024 * 1024),
			HeapLiveMB:    float64(after.HeapAlloc) / (1024 * 1024),
			NumGC:         after.NumGC - before.NumGC,
			PauseTotalMS:  ms(time.Duration(after.PauseTotalNs - before.PauseTotalNs)),
			GCCPUFraction: cpuFraction(afterMetrics, beforeMetrics),
			AllocsObjects: afterMetrics.heapAllocsObjects - beforeMetrics.heapAllocsObjects,
		},
		Mismatches: mismatches,
	}
}

func writeSummary(w io.Writer, report benchReport) {
	fmt.Fprintln(w, "=== lazydom flush benchmark ===")
	fmt.Fprintf(w, "Profile: %s\n", report.Workload.Profile)
	fmt.Fprintf(w, "Rounds: %d\n", report.Workload.Rounds)
	fmt.Fprintf(w, "List size: %d\n", report.Workload.ListSize)
	fmt.Fprintf(w, "Churn: %.2f\n", report.Workload.Churn)
	if report.Workload.MaxProcs > 0 {
		fmt.Fprintf(w, "GOMAXPROCS cap: %d\n", report.Workload.MaxProcs)
	}
	if report.Workload.MemLimitBytes > 0 {
		fmt.Fprintf(w, "GOMEMLIMIT cap: %.2f GiB\n", float64(report.Workload.MemLimitBytes)/float64(gib))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Flushes: %d (%.1f/s)\n", report.Throughput.Flushes, report.Throughput.FlushesPerS)
	fmt.Fprintf(w, "Mismatched rounds: %d\n", report.Mismatches)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Flush latency:")
	fmt.Fprintf(w, "  min: %.3f ms\n", report.LatencyMS.Min)
	fmt.Fprintf(w, "  p50: %.3f ms\n", report.LatencyMS.P50)
	fmt.Fprintf(w, "  p95: %.3f ms\n", report.LatencyMS.P95)
	fmt.Fprintf(w, "  p99: %.3f ms\n", report.LatencyMS.P99)
	fmt.Fprintf(w, "  max: %.3f ms\n", report.LatencyMS.Max)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Operations:")
	fmt.Fprintf(w, "  inserts:  %d\n", report.Operations.Inserts)
	fmt.Fprintf(w, "  deletes:  %d\n", report.Operations.Deletes)
	fmt.Fprintf(w, "  replaces: %d\n", report.Operations.Replaces)
	fmt.Fprintf(w, "  repairs:  %d\n", report.Operations.Repairs)
	fmt.Fprintf(w, "  per flush: %.2f\n", report.Operations.OpsPerFlush)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Go runtime / GC (process-wide):")
	fmt.Fprintf(w, "  alloc:     %.2f MB\n", report.GC.AllocMB)
	fmt.Fprintf(w, "  heap_live: %.2f MB\n", report.GC.HeapLiveMB)
	fmt.Fprintf(w, "  num_gc:    %d\n", report.GC.NumGC)
	fmt.Fprintf(w, "  gc_pause:  %.2f ms (total)\n", report.GC.PauseTotalMS)
	fmt.Fprintf(w, "  gc_cpu:    %.2f%%\n", report.GC.GCCPUFraction*100)
}

func writeJSON(path string, report benchReport) error {
	var out io.Writer
	if path == "-" {
		out = os.Stdout
	} else {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func gitCommit() string {
	if val := strings.TrimSpace(os.Getenv("LAZYDOM_GIT_COMMIT")); val != "" {
		return val
	}
	if val := strings.TrimSpace(os.Getenv("GIT_COMMIT")); val != "" {
		return val
	}
	out, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
