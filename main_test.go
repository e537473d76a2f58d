package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jerrinot/jfrview/internal/jfr"
	"github.com/jerrinot/jfrview/internal/jfr/jfrtest"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

var (
	mainThread = jfrtest.Thread(1, "main")
	poolThread = jfrtest.Thread(2, "pool-1")
)

func repeat(n int, ev jfr.Event) []jfr.Event {
	out := make([]jfr.Event, n)
	for i := range out {
		out[i] = ev
	}
	return out
}

// capture holds nine complete JVM samples, one native sample and one
// truncated sample:
//
//	main:   App.main;App.run;Worker.work x4
//	main:   App.main;App.run x2
//	pool-1: Thread.run;Task.call x3
//	main:   App.main;Thread.sleep (native) x1
//	main:   App.main (truncated) x1
func capture() jfr.Slice {
	work := jfrtest.Sample(1, mainThread, jfrtest.Path("com/example/App.main", "com/example/App.run", "com/example/Worker.work")...)
	run := jfrtest.Sample(2, mainThread, jfrtest.Path("com/example/App.main", "com/example/App.run")...)
	task := jfrtest.Sample(3, poolThread, jfrtest.Path("java/lang/Thread.run", "com/example/Task.call")...)
	sleep := jfrtest.NativeSample(4, mainThread, jfrtest.Path("com/example/App.main", "java/lang/Thread.sleep")...)
	cut := jfrtest.TruncatedSample(5, mainThread, jfrtest.Path("com/example/App.main")...)

	var evs jfr.Slice
	evs = append(evs, repeat(4, work)...)
	evs = append(evs, repeat(2, run)...)
	evs = append(evs, repeat(3, task)...)
	evs = append(evs, sleep, cut)
	return evs
}

func withFlags(t *testing.T, thread, where string) {
	t.Helper()
	oldThread, oldWhere := flagThread, flagWhere
	flagThread, flagWhere = thread, where
	t.Cleanup(func() { flagThread, flagWhere = oldThread, oldWhere })
}

// ---------------------------------------------------------------------------
// Names
// ---------------------------------------------------------------------------

func TestShortName(t *testing.T) {
	tests := []struct {
		class, method string
		want          string
	}{
		{"com/example/App", "process", "App.process"},
		{"App", "process", "App.process"},
		{"", "process", "process"},
		{"a/b/c/D", "run", "D.run"},
	}
	for _, tt := range tests {
		m := jfr.Method{Name: tt.method, Class: jfr.Class{Name: tt.class}}
		if got := shortName(m); got != tt.want {
			t.Errorf("shortName(%v) = %q, want %q", m, got, tt.want)
		}
	}
}

func TestMatchesMethod(t *testing.T) {
	m := jfr.Method{Name: "process", Class: jfr.Class{Name: "com/example/App"}}
	tests := []struct {
		pattern string
		want    bool
	}{
		{"App.process", true},
		{"process", true},
		{"com.example", true},
		{"com.example.App.process", true},
		{"Foo.bar", false},
	}
	for _, tt := range tests {
		if got := matchesMethod(m, tt.pattern); got != tt.want {
			t.Errorf("matchesMethod(%q) = %v, want %v", tt.pattern, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// hot
// ---------------------------------------------------------------------------

func TestComputeHot(t *testing.T) {
	g, err := loadGraph(capture())
	if err != nil {
		t.Fatal(err)
	}
	ranked := computeHot(g, false, false)

	want := []hotEntry{
		{"Worker.work", 4, 4},
		{"Task.call", 3, 3},
		{"App.run", 2, 6},
		{"App.main", 0, 6},
		{"Thread.run", 0, 3},
	}
	if len(ranked) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(ranked), len(want), ranked)
	}
	for i, w := range want {
		if ranked[i] != w {
			t.Errorf("ranked[%d] = %+v, want %+v", i, ranked[i], w)
		}
	}
}

func TestComputeHotNative(t *testing.T) {
	g, err := loadGraph(capture())
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Ticks(true); got != 10 {
		t.Fatalf("ticks with native = %d, want 10", got)
	}
	for _, e := range computeHot(g, false, true) {
		if e.name == "Thread.sleep" && (e.selfCount != 1 || e.totalCount != 1) {
			t.Errorf("Thread.sleep = %+v, want self=1 total=1", e)
		}
		if e.name == "App.main" && e.totalCount != 7 {
			t.Errorf("App.main total=%d, want 7", e.totalCount)
		}
	}
}

func TestComputeHotRecursion(t *testing.T) {
	src := jfr.Slice{jfrtest.Sample(1, nil, jfrtest.Path("A.a", "B.b", "A.a")...)}
	g, err := loadGraph(src)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range computeHot(g, false, false) {
		if e.name == "A.a" && (e.totalCount != 1 || e.selfCount != 1) {
			t.Errorf("A.a = %+v, want self=1 total=1", e)
		}
	}
}

func TestComputeHotEmpty(t *testing.T) {
	g, err := loadGraph(jfr.Slice{})
	if err != nil {
		t.Fatal(err)
	}
	if ranked := computeHot(g, false, false); len(ranked) != 0 {
		t.Errorf("expected empty, got %v", ranked)
	}
}

func TestAssertBelowPass(t *testing.T) {
	var buf bytes.Buffer
	if err := cmdHot(&buf, capture(), 10, false, false, 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "=== RANK BY SELF TIME ===") {
		t.Errorf("missing self table:\n%s", buf.String())
	}
}

func TestAssertBelowFail(t *testing.T) {
	var buf bytes.Buffer
	err := cmdHot(&buf, capture(), 10, false, false, 40)
	if err == nil {
		t.Fatal("expected assertion failure")
	}
	if !strings.Contains(err.Error(), "ASSERT FAILED: Worker.work self=44.4%") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestThreadFlag(t *testing.T) {
	withFlags(t, "pool", "")
	g, err := loadGraph(capture())
	if err != nil {
		t.Fatal(err)
	}
	ranked := computeHot(g, false, false)
	if len(ranked) != 2 || ranked[0].name != "Task.call" {
		t.Errorf("expected only pool-1 methods, got %v", ranked)
	}
}

func TestWhereFlag(t *testing.T) {
	withFlags(t, "", `"Worker" in frames[-1]`)
	g, err := loadGraph(capture())
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Ticks(false); got != 4 {
		t.Errorf("ticks = %d, want 4", got)
	}
}

func TestWhereFlagCompileError(t *testing.T) {
	withFlags(t, "", "frames[")
	if _, err := loadGraph(capture()); err == nil {
		t.Fatal("expected compile error")
	}
}

// ---------------------------------------------------------------------------
// tree / callers / trace
// ---------------------------------------------------------------------------

func TestCmdTreeFromRoot(t *testing.T) {
	var buf bytes.Buffer
	err := cmdTree(&buf, capture(), "", treeOptions{maxDepth: 4, showSelf: true})
	if err != nil {
		t.Fatal(err)
	}
	want := "[66.7%] App.main\n" +
		"  [66.7%] App.run  ← self=22.2%\n" +
		"    [44.4%] Worker.work  ← self=44.4%\n" +
		"[33.3%] Thread.run\n" +
		"  [33.3%] Task.call  ← self=33.3%\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestCmdTreeMethod(t *testing.T) {
	var buf bytes.Buffer
	err := cmdTree(&buf, capture(), "App.run", treeOptions{maxDepth: 4, showSelf: true})
	if err != nil {
		t.Fatal(err)
	}
	want := "[66.7%] App.run  ← self=22.2%\n" +
		"  [44.4%] Worker.work  ← self=44.4%\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestCmdTreeDepthAndMinPct(t *testing.T) {
	var buf bytes.Buffer
	err := cmdTree(&buf, capture(), "", treeOptions{maxDepth: 1, minPct: 50})
	if err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[66.7%] App.main\n" {
		t.Errorf("got:\n%s", buf.String())
	}
}

func TestCmdCallers(t *testing.T) {
	var buf bytes.Buffer
	err := cmdCallers(&buf, capture(), "Worker.work", treeOptions{maxDepth: 4})
	if err != nil {
		t.Fatal(err)
	}
	want := "[44.4%] Worker.work\n" +
		"  [44.4%] App.run\n" +
		"    [44.4%] App.main\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestCmdCallersNoMatch(t *testing.T) {
	var buf bytes.Buffer
	if err := cmdCallers(&buf, capture(), "Nope", treeOptions{maxDepth: 4}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "no frames matching 'Nope'\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestCmdTraceSiblings(t *testing.T) {
	var src jfr.Slice
	src = append(src, repeat(3, jfrtest.Sample(1, nil, jfrtest.Path("A.a", "B.b")...))...)
	src = append(src, jfrtest.Sample(2, nil, jfrtest.Path("A.a", "C.c")...))

	var buf bytes.Buffer
	if err := cmdTrace(&buf, src, "A.a", treeOptions{minPct: 0.5}); err != nil {
		t.Fatal(err)
	}
	want := "[100.0%] A.a\n" +
		"  [75.0%] B.b  (+1 sibling, next: 25.0% C.c)  ← self=75.0%\n" +
		"Hottest leaf: B.b (self=75.0%)\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestCmdTraceChain(t *testing.T) {
	var buf bytes.Buffer
	if err := cmdTrace(&buf, capture(), "App.main", treeOptions{minPct: 0.5}); err != nil {
		t.Fatal(err)
	}
	want := "[66.7%] App.main\n" +
		"  [66.7%] App.run\n" +
		"    [44.4%] Worker.work  ← self=44.4%\n" +
		"Hottest leaf: Worker.work (self=44.4%)\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestCmdTraceMultipleMatches(t *testing.T) {
	var buf bytes.Buffer
	if err := cmdTrace(&buf, capture(), "run", treeOptions{minPct: 0.5}); err != nil {
		t.Fatal(err)
	}
	want := "# matched 2 methods: App.run, Thread.run\n" +
		"[66.7%] App.run\n" +
		"  [44.4%] Worker.work  ← self=44.4%\n" +
		"Hottest leaf: Worker.work (self=44.4%)\n" +
		"[33.3%] Thread.run\n" +
		"  [33.3%] Task.call  ← self=33.3%\n" +
		"Hottest leaf: Task.call (self=33.3%)\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

// ---------------------------------------------------------------------------
// lines
// ---------------------------------------------------------------------------

func TestCmdLines(t *testing.T) {
	main10 := jfrtest.Line(jfrtest.Frame("com/example/App", "main"), 10)
	run20 := jfrtest.Line(jfrtest.Frame("com/example/App", "run"), 20)
	run25 := jfrtest.Line(jfrtest.Frame("com/example/App", "run"), 25)
	src := jfr.Slice{
		jfrtest.Sample(1, nil, main10, run20),
		// recursion through the same line counts once
		jfrtest.Sample(2, nil, main10, run20, run20),
		jfrtest.Sample(3, nil, main10, run25),
	}

	rep, err := computeLines(src, "App.run", 10, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.entries) != 2 {
		t.Fatalf("got %v", rep.entries)
	}
	if e := rep.entries[0]; e.name != "App.run" || e.line != 20 || e.samples != 2 {
		t.Errorf("entries[0] = %+v", e)
	}
	if e := rep.entries[1]; e.line != 25 || e.samples != 1 {
		t.Errorf("entries[1] = %+v", e)
	}

	var buf bytes.Buffer
	if err := cmdLines(&buf, src, "App.run", 10, false, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "App.run:20") || !strings.Contains(buf.String(), "66.7%") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestCmdLinesNoLineInfo(t *testing.T) {
	var buf bytes.Buffer
	err := cmdLines(&buf, capture(), "Worker.work", 10, false, false)
	if err == nil || !strings.Contains(err.Error(), "no line info") {
		t.Errorf("expected no line info error, got %v", err)
	}
}

func TestCmdLinesNoMatch(t *testing.T) {
	var buf bytes.Buffer
	if err := cmdLines(&buf, capture(), "Nope", 10, false, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "no frames matching 'Nope'\n" {
		t.Errorf("got %q", buf.String())
	}
}

// ---------------------------------------------------------------------------
// threads
// ---------------------------------------------------------------------------

func TestComputeThreads(t *testing.T) {
	rep, err := computeThreads(capture(), false)
	if err != nil {
		t.Fatal(err)
	}
	if rep.total != 9 || rep.noThread != 0 {
		t.Errorf("total=%d noThread=%d", rep.total, rep.noThread)
	}
	want := []threadEntry{{"main", 6}, {"pool-1", 3}}
	if len(rep.ranked) != len(want) {
		t.Fatalf("got %v", rep.ranked)
	}
	for i := range want {
		if rep.ranked[i] != want[i] {
			t.Errorf("ranked[%d] = %v, want %v", i, rep.ranked[i], want[i])
		}
	}
}

func TestCmdThreadsNoThreadInfo(t *testing.T) {
	src := jfr.Slice{jfrtest.Sample(1, nil, jfrtest.Path("A.a")...)}
	var buf bytes.Buffer
	if err := cmdThreads(&buf, src, 10, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "no thread info in this file\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestCmdThreadsMixed(t *testing.T) {
	src := jfr.Slice{
		jfrtest.Sample(1, mainThread, jfrtest.Path("A.a")...),
		jfrtest.Sample(2, nil, jfrtest.Path("A.a")...),
	}
	var buf bytes.Buffer
	if err := cmdThreads(&buf, src, 10, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "main") || !strings.Contains(out, "(no thread info)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

// ---------------------------------------------------------------------------
// collapse / filter
// ---------------------------------------------------------------------------

func TestCmdCollapse(t *testing.T) {
	var buf bytes.Buffer
	if err := cmdCollapse(&buf, capture(), false, true); err != nil {
		t.Fatal(err)
	}
	want := "[main];com.example.App:main;com.example.App:run 2\n" +
		"[main];com.example.App:main;com.example.App:run;com.example.Worker:work 4\n" +
		"[pool-1];java.lang.Thread:run;com.example.Task:call 3\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestCmdCollapseNoThread(t *testing.T) {
	var buf bytes.Buffer
	if err := cmdCollapse(&buf, capture(), true, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "com.example.App:main;java.lang.Thread:sleep 1\n") {
		t.Errorf("native sample missing:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "[") {
		t.Errorf("unexpected thread prefix:\n%s", buf.String())
	}
}

func TestCmdFilter(t *testing.T) {
	var buf bytes.Buffer
	if err := cmdFilter(&buf, capture(), "Worker.work", false, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[main];com.example.Worker:work 4\n" {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	if err := cmdFilter(&buf, capture(), "Worker.work", true, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[main];com.example.App:main;com.example.App:run;com.example.Worker:work 4\n" {
		t.Errorf("got %q", buf.String())
	}
}

// ---------------------------------------------------------------------------
// diff
// ---------------------------------------------------------------------------

func TestComputeDiff(t *testing.T) {
	before := map[string]float64{"A": 10, "B": 5, "C": 2, "E": 1}
	after := map[string]float64{"A": 20, "B": 1, "D": 3, "E": 1.2}
	r := computeDiff(before, after, 0.5, 0)

	if len(r.regressions) != 1 || r.regressions[0].name != "A" || r.regressions[0].delta != 10 {
		t.Errorf("regressions = %v", r.regressions)
	}
	if len(r.improvements) != 1 || r.improvements[0].name != "B" || r.improvements[0].delta != -4 {
		t.Errorf("improvements = %v", r.improvements)
	}
	if len(r.added) != 1 || r.added[0].name != "D" {
		t.Errorf("added = %v", r.added)
	}
	if len(r.gone) != 1 || r.gone[0].name != "C" {
		t.Errorf("gone = %v", r.gone)
	}
}

func TestComputeDiffTop(t *testing.T) {
	before := map[string]float64{}
	after := map[string]float64{"A": 3, "B": 2, "C": 1}
	r := computeDiff(before, after, 0.5, 2)
	if len(r.added) != 2 || r.added[0].name != "A" || r.added[1].name != "B" {
		t.Errorf("added = %v", r.added)
	}
}

func TestCmdDiff(t *testing.T) {
	after := capture()
	after = append(after, repeat(9, jfrtest.Sample(9, mainThread, jfrtest.Path("com/example/Cache.get")...))...)

	var buf bytes.Buffer
	if err := cmdDiff(&buf, capture(), after, 0.5, 0, false, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, s := range []string{"IMPROVEMENT", "Worker.work", "NEW", "Cache.get"} {
		if !strings.Contains(out, s) {
			t.Errorf("missing %q in:\n%s", s, out)
		}
	}
}

func TestCmdDiffNoChanges(t *testing.T) {
	var buf bytes.Buffer
	if err := cmdDiff(&buf, capture(), capture(), 0.5, 0, false, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "no significant changes\n" {
		t.Errorf("got %q", buf.String())
	}
}

// ---------------------------------------------------------------------------
// events / stats / info
// ---------------------------------------------------------------------------

func TestCmdEvents(t *testing.T) {
	var buf bytes.Buffer
	if err := cmdEvents(&buf, capture()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got:\n%s", buf.String())
	}
	if f := strings.Fields(lines[1]); f[0] != jfr.ExecutionSampleType || f[1] != "10" {
		t.Errorf("first row = %q", lines[1])
	}
	if f := strings.Fields(lines[2]); f[0] != jfr.NativeMethodSampleType || f[1] != "1" {
		t.Errorf("second row = %q", lines[2])
	}
}

func TestCmdEventsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := cmdEvents(&buf, jfr.Slice{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "no events found\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestCmdStatsText(t *testing.T) {
	var buf bytes.Buffer
	if err := cmdStats(&buf, capture(), jfr.ExecutionSampleType, formatText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, s := range []string{"start:  1\n", "end:    5\n", "span:   4\n", "jdk.ExecutionSample: 10 events\n"} {
		if !strings.Contains(out, s) {
			t.Errorf("missing %q in:\n%s", s, out)
		}
	}
}

func TestCmdInfo(t *testing.T) {
	var buf bytes.Buffer
	if err := cmdInfo(&buf, capture(), 1, 10, 10, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, s := range []string{
		"=== EVENTS ===",
		"=== THREADS (top 2) ===",
		"=== RANK BY SELF TIME (top 5) ===",
		"Total samples: 9",
		"=== DRILL-DOWN: Worker.work (self=44.4%) ===",
		"--- callers ---",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("missing %q in:\n%s", s, out)
		}
	}
}

// ---------------------------------------------------------------------------
// exports
// ---------------------------------------------------------------------------

func TestCmdFoldedJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := cmdFolded(&buf, capture(), formatJSON, false, true); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, `{"name":"Root","kind":"Other","value":9,`) {
		t.Errorf("unexpected document:\n%s", out)
	}
	if !strings.Contains(out, `"name":"pool-1","kind":"Thread","value":3`) {
		t.Errorf("missing thread node:\n%s", out)
	}
}

func TestCmdSpeedscopeEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := cmdSpeedscope(&buf, jfr.Slice{}, "empty.jfr", formatJSON, false); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("got %q", buf.String())
	}
}

func TestWriteFlameGraphPprof(t *testing.T) {
	g, err := loadGraph(capture())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := writeFlameGraph(&buf, g, formatPprof, false); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Error("empty pprof output")
	}
}

func TestValidateFormat(t *testing.T) {
	if err := validateFormat(formatYAML, formatJSON, formatYAML); err != nil {
		t.Errorf("yaml rejected: %v", err)
	}
	if err := validateFormat("xml", formatJSON, formatYAML); err == nil {
		t.Error("xml accepted")
	}
}

func TestSampleTypes(t *testing.T) {
	for _, ev := range []string{"", eventCPU, eventWall, eventMalloc} {
		if _, err := sampleTypes(ev); err != nil {
			t.Errorf("sampleTypes(%q): %v", ev, err)
		}
	}
	if _, err := sampleTypes("alloc"); err == nil {
		t.Error("alloc accepted")
	}
}

func TestOpenCaptureMissing(t *testing.T) {
	_, err := openCapture(filepath.Join(t.TempDir(), "missing.jfr"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestCreateOutput(t *testing.T) {
	var stdout bytes.Buffer
	w, closeOut, err := createOutput(&stdout, "-")
	if err != nil || w != &stdout {
		t.Fatalf("stdout passthrough: w=%v err=%v", w, err)
	}
	if err := closeOut(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.json")
	w, closeOut, err = createOutput(&stdout, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := writeDocument(w, formatJSON, map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}
	if err := closeOut(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != `{"a":1}` {
		t.Errorf("file content = %q", data)
	}
}

// ---------------------------------------------------------------------------
// init
// ---------------------------------------------------------------------------

func TestResolveTargets(t *testing.T) {
	dir := t.TempDir()
	if got := resolveTargets(dir, false, false); len(got) != 0 {
		t.Errorf("empty dir: got %v", got)
	}
	if err := os.Mkdir(filepath.Join(dir, ".agents"), 0o755); err != nil {
		t.Fatal(err)
	}
	if got := resolveTargets(dir, false, false); len(got) != 1 || got[0] != "codex" {
		t.Errorf("auto-detect: got %v", got)
	}
	if got := resolveTargets(dir, true, false); len(got) != 1 || got[0] != "claude" {
		t.Errorf("explicit: got %v", got)
	}
}

func TestSkillDescribesDecodedEvents(t *testing.T) {
	content := renderSkill("jfrview")
	if strings.Contains(content, "execution and native method samples") {
		t.Error("skill claims --event cpu reads native method samples")
	}
	for _, want := range []string{"`jdk.ExecutionSample`", "`profiler.WallClockSample`", "`profiler.Malloc`"} {
		if !strings.Contains(content, want) {
			t.Errorf("skill does not mention %s", want)
		}
	}
}

func TestWriteSkill(t *testing.T) {
	dir := t.TempDir()
	content := renderSkill("/usr/local/bin/jfrview")
	if strings.Contains(content, "{{") {
		t.Fatal("unrendered placeholder")
	}
	path, err := writeSkill(dir, "claude", content, false)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, ".claude", "skills", "jfr", "SKILL.md") {
		t.Errorf("path = %s", path)
	}
	if _, err := writeSkill(dir, "claude", content, false); err == nil {
		t.Error("overwrite without --force accepted")
	}
	if _, err := writeSkill(dir, "claude", content, true); err != nil {
		t.Errorf("--force: %v", err)
	}
}
