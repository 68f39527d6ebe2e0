package export

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/nanotasks/formats"
	"github.com/arthur-debert/nanotasks/nanotasks/store"
	"github.com/arthur-debert/nanotasks/types"
)

func testTasks() []types.Task {
	return []types.Task{
		{ID: 1700000000000, Title: "Buy milk", Date: "2024-05-01", Priority: types.PriorityHigh},
		{ID: 1700000000001, Title: "File taxes!", Description: "before April", Date: "2024-04-01", Completed: true},
	}
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("failed to open zip: %v", err)
	}
	files := make(map[string]string)
	for _, f := range reader.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name, err)
		}
		files[f.Name] = string(content)
	}
	return files
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	tasks := testTasks()
	if err := Write(&buf, tasks, Options{Format: formats.Markdown}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	files := readZip(t, buf.Bytes())
	var names []string
	for name := range files {
		names = append(names, name)
	}

	wantNames := []string{
		"completed/1700000000001-file-taxes.md",
		"pending/1700000000000-buy-milk.md",
		"tasks.json",
	}
	slices.Sort(names)
	if diff := cmp.Diff(wantNames, names); diff != "" {
		t.Errorf("archive entries mismatch (-want +got):\n%s", diff)
	}

	payload, _ := store.Encode(tasks)
	if files["tasks.json"] != string(payload) {
		t.Errorf("tasks.json should hold the slot payload, got %s", files["tasks.json"])
	}
	if !strings.Contains(files["pending/1700000000000-buy-milk.md"], "# Buy milk") {
		t.Errorf("task document missing title:\n%s", files["pending/1700000000000-buy-milk.md"])
	}
}

func TestCreateAndReadArchive(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), ArchiveName(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	if err := CreateArchive(archivePath, testTasks(), Options{}); err != nil {
		t.Fatalf("CreateArchive() error = %v", err)
	}

	got, err := ReadArchive(archivePath)
	if err != nil {
		t.Fatalf("ReadArchive() error = %v", err)
	}
	if diff := cmp.Diff(testTasks(), got); diff != "" {
		t.Errorf("collection mismatch (-want +got):\n%s", diff)
	}
}

func TestReadArchiveWithoutCollection(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, _ = zw.Create("notes.txt")
	_ = zw.Close()

	archivePath := filepath.Join(t.TempDir(), "other.zip")
	if err := writeFile(archivePath, buf.Bytes()); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadArchive(archivePath); err == nil {
		t.Error("ReadArchive() should fail without tasks.json")
	}
}

func TestArchiveName(t *testing.T) {
	got := ArchiveName(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	if got != "nanotasks-export-2024-01-02T03-04-05.zip" {
		t.Errorf("ArchiveName() = %q", got)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Buy milk", "buy-milk"},
		{"  Pay -- rent!! ", "pay-rent"},
		{"Ação rápida", "ação-rápida"},
		{"???", "untitled"},
		{"", "untitled"},
		{strings.Repeat("ab ", 30), strings.Repeat("ab-", 13) + "a"},
		{strings.Repeat("é", 30), strings.Repeat("é", 20)},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilenameFallsBackToDescription(t *testing.T) {
	got := Filename(types.Task{ID: 7, Description: "call the bank"}, formats.PlainText)
	if got != "7-call-the-bank.txt" {
		t.Errorf("Filename() = %q", got)
	}
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
