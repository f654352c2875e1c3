package atomic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultMode is the permission of files created by WriteFile
const DefaultMode os.FileMode = 0o644

// WriteFile writes path through a temporary file in the same directory and
// renames it into place, so the target is either the old file or the
// complete new one. An existing target keeps its permissions, a new one is
// created with DefaultMode.
func WriteFile(path string, write func(w io.Writer) error) (err error) {
	var (
		tmp *os.File
		dir = filepath.Dir(path)
	)
	if tmp, err = os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp"); err != nil {
		return fmt.Errorf("unable to create temporary file for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	bw := bufio.NewWriter(tmp)
	if err = write(bw); err != nil {
		return
	}
	if err = bw.Flush(); err != nil {
		return
	}
	mode := DefaultMode
	if fi, statErr := os.Stat(path); statErr == nil {
		mode = fi.Mode().Perm()
	}
	if err = tmp.Chmod(mode); err != nil {
		return
	}
	if err = tmp.Close(); err != nil {
		return
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("unable to move %s into place: %w", path, err)
	}
	return
}
