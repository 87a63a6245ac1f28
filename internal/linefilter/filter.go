// Package linefilter rewrites text files one line at a time and swaps the
// result in for the original only after the whole output has been written.
package linefilter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Decision is called once per line with the line's content minus its
// terminator. It returns the content to emit and whether to keep the line.
// The original terminator ("\n", "\r\n", or none on a final unterminated
// line) is re-attached to kept lines.
type Decision func(line string) (string, bool)

// Keep passes every line through unchanged.
func Keep(line string) (string, bool) {
	return line, true
}

// createTemp opens the scratch file a rewrite is staged in.
var createTemp = os.CreateTemp

// Apply filters path through decide and atomically replaces it with the
// result. The original is untouched if reading or writing fails.
func Apply(path string, decide Decision) error {
	if decide == nil {
		decide = Keep
	}
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("linefilter: open %s: %w", path, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("linefilter: stat %s: %w", path, err)
	}

	tmp, err := createTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("linefilter: create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err := Copy(tmp, in, decide); err != nil {
		return fmt.Errorf("linefilter: rewrite %s: %w", path, err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return fmt.Errorf("linefilter: chmod temp for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("linefilter: close temp for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		committed = true
		return fmt.Errorf("linefilter: replace %s: %w", path, err)
	}
	committed = true
	return nil
}

// Copy streams r to w applying decide to every line.
func Copy(w io.Writer, r io.Reader, decide Decision) error {
	reader := bufio.NewReader(r)
	writer := bufio.NewWriter(w)
	for {
		raw, err := reader.ReadString('\n')
		if len(raw) > 0 {
			content, terminator := splitTerminator(raw)
			if out, keep := decide(content); keep {
				if _, werr := writer.WriteString(out + terminator); werr != nil {
					return werr
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
	}
	return writer.Flush()
}

func splitTerminator(raw string) (string, string) {
	if strings.HasSuffix(raw, "\r\n") {
		return raw[:len(raw)-2], "\r\n"
	}
	if strings.HasSuffix(raw, "\n") {
		return raw[:len(raw)-1], "\n"
	}
	return raw, ""
}
