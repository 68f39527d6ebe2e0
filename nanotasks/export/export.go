// Package export writes task archives: a zip holding the raw task
// collection plus one human-readable document per task.
package export

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/nanotasks/formats"
	"github.com/arthur-debert/nanotasks/nanotasks/store"
	"github.com/arthur-debert/nanotasks/types"
)

// CollectionFile is the archive entry holding the encoded collection.
const CollectionFile = "tasks.json"

// Options configures an export.
type Options struct {
	// Format used for per-task documents. Defaults to formats.PlainText.
	Format *formats.TaskFormat
	// Now stamps every archive entry. Defaults to time.Now().
	Now time.Time
}

// ArchiveName returns the default archive file name for an export taken at now.
func ArchiveName(now time.Time) string {
	return "nanotasks-export-" + now.Format("2006-01-02T15-04-05") + ".zip"
}

// Write writes a zip archive of tasks to w.
func Write(w io.Writer, tasks []types.Task, opts Options) error {
	if opts.Format == nil {
		opts.Format = formats.PlainText
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	zipWriter := zip.NewWriter(w)

	data, err := store.Encode(tasks)
	if err != nil {
		return err
	}
	if err := addFile(zipWriter, CollectionFile, data, opts.Now); err != nil {
		return fmt.Errorf("failed to add %s to zip: %w", CollectionFile, err)
	}

	for _, task := range tasks {
		name := path(task, opts.Format)
		if err := addFile(zipWriter, name, []byte(opts.Format.Serialize(task)), opts.Now); err != nil {
			return fmt.Errorf("failed to add task %d to zip: %w", task.ID, err)
		}
	}

	if err := zipWriter.Close(); err != nil {
		return fmt.Errorf("failed to finish zip: %w", err)
	}
	return nil
}

// CreateArchive writes the archive to a new file at outputPath.
func CreateArchive(outputPath string, tasks []types.Task, opts Options) (err error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close archive file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(outputPath)
		}
	}()

	return Write(file, tasks, opts)
}

// ReadArchive returns the collection stored in an archive written by Write.
// Per-task documents are ignored; the collection file is authoritative.
func ReadArchive(archivePath string) ([]types.Task, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() { _ = reader.Close() }()

	for _, file := range reader.File {
		if file.Name != CollectionFile {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", CollectionFile, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", CollectionFile, err)
		}
		return store.Decode(data)
	}
	return nil, fmt.Errorf("archive %s has no %s", filepath.Base(archivePath), CollectionFile)
}

// addFile adds a deflated entry to the zip archive.
func addFile(zipWriter *zip.Writer, name string, content []byte, modified time.Time) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	}

	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = writer.Write(content)
	return err
}
