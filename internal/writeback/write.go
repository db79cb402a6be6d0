package writeback

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// WriteFileAtomic replaces path on fs with data. The content is written
// to a temp file in the same directory first, then renamed over path, so
// readers see either the old or the new file. The permissions of an
// existing file are kept.
func WriteFileAtomic(fs billy.Filesystem, path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := util.TempFile(fs, dir, ".scribe-write-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("close temp: %w", err)
	}

	// Preserve original file permissions
	if info, err := fs.Stat(path); err == nil {
		if ch, ok := fs.(billy.Change); ok {
			_ = ch.Chmod(tmpName, info.Mode()) // best-effort permission sync
		}
	}

	if err := fs.Rename(tmpName, path); err != nil {
		_ = fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("rename temp to %s: %w", path, err)
	}
	return nil
}
