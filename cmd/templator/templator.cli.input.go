package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// readInput returns the bytes of a data file, or of stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path != InputSourceStdin {
		return os.ReadFile(path)
	}
	if stdin == nil {
		return nil, errors.New(ErrMsgNoStdin)
	}
	return io.ReadAll(stdin)
}

// writeOutput writes text to stdout, or to path after creating its parent
// directories.
func writeOutput(path, text string, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := io.WriteString(stdout, text)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, DirPermissions); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(text), FilePermissions)
}
