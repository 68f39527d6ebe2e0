package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/nanotasks/formats"
	"github.com/arthur-debert/nanotasks/testutil"
	"github.com/arthur-debert/nanotasks/types"
)

// firstID is the id minted for the first task at testutil.Now.
const firstID = "1714564800000"

// isolate keeps config discovery, logs and stores inside a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, key := range []string{"NANOTASKS_CONFIG", "NANOTASKS_STORE_BACKEND", "NANOTASKS_STORE_PATH", "NANOTASKS_LOG_LEVEL", "NANOTASKS_LOG_STDERR", "NANOTASKS_EXPORT_FORMAT"} {
		t.Setenv(key, "")
	}
	t.Chdir(dir)
	return dir
}

// run executes one command against store, like a separate process would.
func run(t *testing.T, store string, args ...string) (string, error) {
	t.Helper()
	cli := NewCLI()
	cli.now = func() time.Time { return testutil.Now }

	var out bytes.Buffer
	cli.rootCmd.SetOut(&out)
	cli.rootCmd.SetErr(&out)
	err := cli.Execute(append([]string{"--store", store}, args...))
	return out.String(), err
}

func mustRun(t *testing.T, store string, args ...string) string {
	t.Helper()
	out, err := run(t, store, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func listJSON(t *testing.T, store, status string) []types.Task {
	t.Helper()
	var tasks []types.Task
	out := mustRun(t, store, "list", "--status", status, "--format", "json")
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		t.Fatalf("list output is not JSON: %v\n%s", err, out)
	}
	return tasks
}

func TestTaskLifecycle(t *testing.T) {
	store := filepath.Join(isolate(t), "tasks.json")

	out := mustRun(t, store, "add", "Buy milk", "--priority", "medium")
	if !strings.Contains(out, "Added task "+firstID+": Buy milk") {
		t.Errorf("add output = %q", out)
	}
	mustRun(t, store, "add", "Pay rent", "-p", "high", "--date", "2024-05-03", "-d", "landlord")

	pending := listJSON(t, store, "pending")
	testutil.AssertTitles(t, pending, "Pay rent", "Buy milk")
	if pending[1].Date != "2024-05-01" {
		t.Errorf("date should default to today, got %q", pending[1].Date)
	}

	mustRun(t, store, "edit", firstID, "--priority", "high", "--title", "Buy oat milk")
	testutil.AssertTitles(t, listJSON(t, store, "pending"), "Buy oat milk", "Pay rent")

	mustRun(t, store, "complete", firstID)
	testutil.AssertTitles(t, listJSON(t, store, "completed"), "Buy oat milk")
	// completing twice leaves it completed
	mustRun(t, store, "complete", firstID)
	testutil.AssertTitles(t, listJSON(t, store, "completed"), "Buy oat milk")

	mustRun(t, store, "reopen", firstID)
	testutil.AssertTitles(t, listJSON(t, store, "completed"))

	out = mustRun(t, store, "delete", firstID)
	if !strings.Contains(out, "Deleted task "+firstID) {
		t.Errorf("delete output = %q", out)
	}
	testutil.AssertTitles(t, listJSON(t, store, "pending"), "Pay rent")
}

func TestAddRejectsBlankTitle(t *testing.T) {
	store := filepath.Join(isolate(t), "tasks.json")

	_, err := run(t, store, "add", "   ")
	var cliErr *CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected CLIError, got %v", err)
	}
	if !strings.Contains(cliErr.Error(), "title is required") {
		t.Errorf("error = %q", cliErr.Error())
	}
	testutil.AssertTitles(t, listJSON(t, store, "pending"))
}

func TestUnknownIDs(t *testing.T) {
	store := filepath.Join(isolate(t), "tasks.json")

	for _, cmd := range []string{"complete", "reopen", "delete", "edit"} {
		_, err := run(t, store, cmd, "42")
		var cliErr *CLIError
		if !errors.As(err, &cliErr) || !strings.Contains(cliErr.Cause, "not found") {
			t.Errorf("%s 42: error = %v, want not found", cmd, err)
		}
	}

	if _, err := run(t, store, "complete", "abc"); err == nil || !strings.Contains(err.Error(), "invalid task id") {
		t.Errorf("complete abc: error = %v", err)
	}
}

func TestListTableAndStats(t *testing.T) {
	store := filepath.Join(isolate(t), "tasks.json")
	mustRun(t, store, "add", "Buy milk", "-p", "high")
	mustRun(t, store, "add", "Read book")
	mustRun(t, store, "complete", firstID)

	out := mustRun(t, store, "list", "--status", "all")
	for _, want := range []string{"Pending (1)", "Completed (1)", "Read book", "Buy milk", "High"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, store, "stats", "--format", "yaml")
	for _, want := range []string{"total: 2", "pending: 1", "completed: 1", "low: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, store, "list", "--format", "xml"); err == nil {
		t.Error("list should reject unknown formats")
	}
	if _, err := run(t, store, "list", "--status", "done"); err == nil {
		t.Error("list should reject unknown statuses")
	}
}

func TestSearch(t *testing.T) {
	store := filepath.Join(isolate(t), "tasks.json")
	mustRun(t, store, "add", "Buy milk")
	mustRun(t, store, "add", "Call mom", "-d", "ask about milk", "-p", "high")
	mustRun(t, store, "add", "Water plants")

	out := mustRun(t, store, "search", "milk", "--format", "json")
	var results []struct {
		Task types.Task `json:"task"`
	}
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("search output is not JSON: %v\n%s", err, out)
	}
	got := make([]string, 0, len(results))
	for _, r := range results {
		got = append(got, r.Task.Title)
	}
	if diff := cmp.Diff([]string{"Buy milk", "Call mom"}, got); diff != "" {
		t.Errorf("search results mismatch (-want +got):\n%s", diff)
	}

	out = mustRun(t, store, "search", "bread")
	if !strings.Contains(out, `No tasks match "bread".`) {
		t.Errorf("search output = %q", out)
	}

	if _, err := run(t, store, "search", "milk", "--field", "priority"); err == nil {
		t.Error("search should reject unknown fields")
	}
}

func TestExportImport(t *testing.T) {
	dir := isolate(t)
	source := filepath.Join(dir, "source.json")
	target := filepath.Join(dir, "target.json")
	archive := filepath.Join(dir, "out.zip")

	mustRun(t, source, "add", "Buy milk", "-p", "high")
	mustRun(t, source, "add", "Read book")
	mustRun(t, source, "complete", firstID)
	mustRun(t, source, "export", "--format", "markdown", archive)

	out := mustRun(t, target, "import", archive)
	if !strings.Contains(out, "Imported 2 tasks") {
		t.Errorf("import output = %q", out)
	}
	testutil.AssertTitles(t, listJSON(t, target, "completed"), "Buy milk")
	testutil.AssertTitles(t, listJSON(t, target, "pending"), "Read book")
}

func TestImportDocuments(t *testing.T) {
	dir := isolate(t)
	store := filepath.Join(dir, "tasks.json")
	docs := filepath.Join(dir, "docs")
	if err := os.MkdirAll(docs, 0755); err != nil {
		t.Fatal(err)
	}

	good := formats.PlainText.Serialize(types.Task{Title: "Water plants", Date: "2024-05-03", Priority: types.PriorityMedium})
	bad := formats.Markdown.Serialize(types.Task{Title: "No date"})
	if err := os.WriteFile(filepath.Join(docs, "a.txt"), []byte(good), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docs, "b.md"), []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docs, "notes.pdf"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, store, "import", docs)
	var cliErr *CLIError
	if !errors.As(err, &cliErr) || !strings.Contains(cliErr.Cause, "1 item(s)") {
		t.Errorf("import error = %v", err)
	}
	if !strings.Contains(out, "Imported 1 tasks") {
		t.Errorf("import output = %q", out)
	}

	got := listJSON(t, store, "pending")
	want := []types.Task{{ID: 1714564800000, Title: "Water plants", Date: "2024-05-03", Priority: types.PriorityMedium}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("imported tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidBackend(t *testing.T) {
	store := filepath.Join(isolate(t), "tasks.json")
	_, err := run(t, store, "--backend", "postgres", "list")
	var cliErr *CLIError
	if !errors.As(err, &cliErr) || !strings.Contains(cliErr.Cause, "configuration error") {
		t.Errorf("error = %v, want configuration error", err)
	}
}

func TestSQLiteBackend(t *testing.T) {
	store := filepath.Join(isolate(t), "tasks.db")
	mustRun(t, store, "--backend", "sqlite", "add", "Buy milk")
	out, err := run(t, store, "--backend", "sqlite", "list", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"title": "Buy milk"`) {
		t.Errorf("list output = %s", out)
	}
}
