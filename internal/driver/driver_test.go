package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"extlint/internal/diag"
	"extlint/internal/driver"
	"extlint/internal/project"
	"extlint/internal/rules"
)

func mustCategorySet(t *testing.T, names ...string) rules.CategorySet {
	t.Helper()
	set, err := rules.ParseCategorySet(names)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	return set
}

const goodSource = `using System.Threading;
using System.Threading.Tasks;
using Microsoft.VisualStudio.Shell;

class Pkg
{
    async Task InitializeAsync(CancellationToken token)
    {
        task.Wait();
    }
}
`

const cleanSource = `using System;

class Helper
{
    int Doubled(int n)
    {
        return n * 2;
    }
}
`

const brokenSource = `class B
{
    void M()
    {
        var s = "never closed;
    }
}
`

const sleepSource = `using System.Threading;
using System.Threading.Tasks;

class Worker
{
    async Task PumpAsync()
    {
        Thread.Sleep(500);
    }
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func baseOpts() driver.Options {
	return driver.Options{Settings: project.Defaults()}
}

func resultFor(t *testing.T, res *driver.Result, name string) driver.FileResult {
	t.Helper()
	for _, fr := range res.Files {
		if filepath.Base(fr.Path) == name {
			return fr
		}
	}
	t.Fatalf("no result for %s", name)
	return driver.FileResult{}
}

func TestCollectFilesWalksAndFilters(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.cs", "")
	writeFile(t, dir, "notes.txt", "")
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, sub, "b.CS", "")
	for _, skip := range []string{"bin", "obj", ".git"} {
		d := filepath.Join(dir, skip)
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
		writeFile(t, d, "ignored.cs", "")
	}

	// explicit file plus the directory that contains it; no duplicate
	paths, err := driver.CollectFiles([]string{filepath.Join(dir, "a.cs"), dir})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("want 2 paths, got %v", paths)
	}
	if filepath.Base(paths[0]) != "a.cs" || filepath.Base(paths[1]) != "b.CS" {
		t.Fatalf("unexpected order: %v", paths)
	}
}

func TestCollectFilesMissingArg(t *testing.T) {
	_, err := driver.CollectFiles([]string{filepath.Join(t.TempDir(), "absent.cs")})
	if err == nil {
		t.Fatal("want error for missing argument")
	}
}

func TestRunBatchSurvivesParseFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.cs", goodSource)
	writeFile(t, dir, "clean.cs", cleanSource)
	writeFile(t, dir, "broken.cs", brokenSource)

	res, err := driver.Run(context.Background(), []string{dir}, baseOpts())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Files) != 3 {
		t.Fatalf("want 3 file results, got %d", len(res.Files))
	}

	broken := resultFor(t, res, "broken.cs")
	if !broken.ParseFailed {
		t.Fatal("broken.cs should be marked parse-failed")
	}
	if !broken.Bag.HasErrors() {
		t.Fatal("broken.cs should carry parse errors")
	}

	good := resultFor(t, res, "good.cs")
	if got := codeList(good.Bag); len(got) != 1 || got[0] != diag.RuleBlockingWaitOnUIThread {
		t.Fatalf("good.cs findings = %v", got)
	}

	clean := resultFor(t, res, "clean.cs")
	if clean.Bag.Len() != 0 {
		t.Fatalf("clean.cs findings = %v", clean.Bag.Items())
	}
}

func TestRunReportsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.cs", cleanSource)
	if err := os.Symlink(filepath.Join(dir, "absent"), filepath.Join(dir, "dead.cs")); err != nil {
		t.Skipf("symlink: %v", err)
	}

	res, err := driver.Run(context.Background(), []string{dir}, baseOpts())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	dead := resultFor(t, res, "dead.cs")
	if !dead.LoadFailed {
		t.Fatal("dead.cs should be marked load-failed")
	}
	if got := codeList(dead.Bag); len(got) != 1 || got[0] != diag.IOLoadFileError {
		t.Fatalf("dead.cs findings = %v", got)
	}

	good := resultFor(t, res, "good.cs")
	if good.LoadFailed || good.Bag.Len() != 0 {
		t.Fatalf("good.cs degraded by neighbour: %+v", good)
	}
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.cs", goodSource)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := driver.Run(ctx, []string{dir}, baseOpts())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestRunCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "good.cs", goodSource)

	cache, err := driver.OpenCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	opts := baseOpts()
	opts.Cache = cache

	first, err := driver.Run(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if fr := resultFor(t, first, "good.cs"); fr.FromCache {
		t.Fatal("first run should not hit the cache")
	}

	second, err := driver.Run(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	hit := resultFor(t, second, "good.cs")
	if !hit.FromCache {
		t.Fatal("second run should hit the cache")
	}
	want := resultFor(t, first, "good.cs").Bag.Items()
	got := hit.Bag.Items()
	if len(got) != len(want) {
		t.Fatalf("cached findings differ: %d vs %d", len(got), len(want))
	}
	for i := range got {
		if got[i].Code != want[i].Code || got[i].Primary.Start != want[i].Primary.Start {
			t.Fatalf("cached finding %d differs: %+v vs %+v", i, got[i], want[i])
		}
	}
	if len(got) > 0 && !got[0].HasFix() {
		t.Fatal("cached finding lost its fix")
	}

	// content change invalidates
	writeFile(t, dir, "good.cs", cleanSource)
	third, err := driver.Run(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if fr := resultFor(t, third, "good.cs"); fr.FromCache {
		t.Fatal("edited file should miss the cache")
	}
}

func TestRunCacheKeyedByEnabledRules(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "good.cs", goodSource)

	cache, err := driver.OpenCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}

	narrow := baseOpts()
	narrow.Cache = cache
	narrow.Settings.Categories = mustCategorySet(t, "design")
	if _, err := driver.Run(context.Background(), []string{path}, narrow); err != nil {
		t.Fatalf("narrow run: %v", err)
	}

	full := baseOpts()
	full.Cache = cache
	res, err := driver.Run(context.Background(), []string{path}, full)
	if err != nil {
		t.Fatalf("full run: %v", err)
	}
	fr := resultFor(t, res, "good.cs")
	if fr.FromCache {
		t.Fatal("full run must not reuse the narrow run's entry")
	}
	if fr.Bag.Len() == 0 {
		t.Fatal("full run should still find the blocking wait")
	}
}

func TestRunFixModeRewritesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "worker.cs", sleepSource)

	opts := baseOpts()
	opts.Settings.Mode = project.ModeFix

	res, err := driver.Run(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Fix == nil || len(res.Fix.Applied) != 1 {
		t.Fatalf("fix result = %+v", res.Fix)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(after), "await Task.Delay(500);") {
		t.Fatalf("file not rewritten:\n%s", after)
	}

	again, err := driver.Run(context.Background(), []string{path}, baseOpts())
	if err != nil {
		t.Fatalf("re-run: %v", err)
	}
	if fr := resultFor(t, again, "worker.cs"); fr.Bag.Len() != 0 {
		t.Fatalf("findings survived the fix: %v", fr.Bag.Items())
	}
}

func TestRunProgressEvents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.cs", cleanSource)
	writeFile(t, dir, "b.cs", goodSource)

	var done int
	opts := baseOpts()
	opts.Progress = func(ev driver.Event) {
		if ev.Kind == driver.EventFileDone {
			done++
			if ev.Total != 2 {
				t.Errorf("total = %d", ev.Total)
			}
		}
	}

	if _, err := driver.Run(context.Background(), []string{dir}, opts); err != nil {
		t.Fatalf("run: %v", err)
	}
	if done != 2 {
		t.Fatalf("done events = %d", done)
	}
}

func codeList(bag *diag.Bag) []diag.Code {
	out := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}
