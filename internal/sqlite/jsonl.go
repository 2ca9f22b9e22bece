package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// maxJSONLLine bounds a single document in a snapshot file.
const maxJSONLLine = 16 * 1024 * 1024

// readJSONL returns the well-formed lines of a snapshot file. Blank and
// malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	docs, err := scanJSONL(f)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return docs, nil
}

func scanJSONL(r io.Reader) ([]json.RawMessage, error) {
	var docs []json.RawMessage
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxJSONLLine)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		// The scanner reuses its buffer.
		docs = append(docs, json.RawMessage(append([]byte(nil), line...)))
	}
	return docs, sc.Err()
}

// writeJSONL replaces path with one document per line.
func writeJSONL(path string, docs []json.RawMessage) error {
	return writeAtomic(path, func(w *bufio.Writer) error {
		for _, doc := range docs {
			if _, err := w.Write(doc); err != nil {
				return err
			}
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeAtomic writes through a temp file in the same directory, syncs it,
// and renames it over path. On any failure the temp file is removed and
// path is untouched.
func writeAtomic(path string, fill func(*bufio.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = fill(w); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// snapshotPath returns the JSONL file for collection inside dir.
func snapshotPath(dir, collection string) string {
	return filepath.Join(dir, collection+".jsonl")
}
