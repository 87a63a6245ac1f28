// Package tooltest provides a toolrun.Runner that emulates zip, unzip and
// pdflatex in-process so pipeline tests run without those tools installed.
package tooltest

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kingrea/coursepack/internal/toolrun"
)

// Fake records every invocation and performs the filesystem effect the real
// tool would have.
type Fake struct {
	mu    sync.Mutex
	calls []toolrun.Result

	// Fail maps a program name to the exit status it should report instead of
	// running.
	Fail map[string]int
	// NoPDF makes the document compiler exit cleanly without producing a PDF.
	NoPDF bool
}

// New returns an empty fake.
func New() *Fake {
	return &Fake{Fail: map[string]int{}}
}

// Calls returns the recorded invocations in order.
func (f *Fake) Calls() []toolrun.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]toolrun.Result{}, f.calls...)
}

// Commands returns the recorded invocations as shell strings.
func (f *Fake) Commands() []string {
	var out []string
	for _, c := range f.Calls() {
		out = append(out, c.Command())
	}
	return out
}

// Run implements toolrun.Runner.
func (f *Fake) Run(_ context.Context, dir string, name string, args ...string) (toolrun.Result, error) {
	res := toolrun.Result{Dir: dir, Argv: append([]string{name}, args...)}
	defer func() {
		f.mu.Lock()
		f.calls = append(f.calls, res)
		f.mu.Unlock()
	}()
	if code, ok := f.Fail[name]; ok {
		res.ExitCode = code
		res.Output = []byte(name + ": simulated failure\n")
		return res, nil
	}
	var err error
	switch base := filepath.Base(name); {
	case base == "zip":
		err = fakeZip(dir, args)
	case base == "unzip":
		err = fakeUnzip(dir, args)
	case strings.HasSuffix(base, "latex"):
		err = f.fakeLatex(dir, args)
	default:
		return res, fmt.Errorf("tooltest: unknown program %s", name)
	}
	if err != nil {
		res.ExitCode = 1
		res.Output = []byte(err.Error() + "\n")
	}
	return res, nil
}

func positional(args []string) []string {
	var out []string
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			out = append(out, a)
		}
	}
	return out
}

func fakeZip(dir string, args []string) error {
	pos := positional(args)
	if len(pos) < 2 {
		return fmt.Errorf("zip: usage: zip -r archive source")
	}
	out, err := os.Create(filepath.Join(dir, pos[0]))
	if err != nil {
		return err
	}
	defer out.Close()
	zw := zip.NewWriter(out)
	for _, src := range pos[1:] {
		root := filepath.Join(dir, src)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			name := filepath.ToSlash(rel)
			if d.IsDir() {
				_, err := zw.Create(name + "/")
				return err
			}
			w, err := zw.Create(name)
			if err != nil {
				return err
			}
			in, err := os.Open(path)
			if err != nil {
				return err
			}
			defer in.Close()
			_, err = io.Copy(w, in)
			return err
		})
		if err != nil {
			return err
		}
	}
	return zw.Close()
}

func fakeUnzip(dir string, args []string) error {
	pos := positional(args)
	if len(pos) < 1 {
		return fmt.Errorf("unzip: archive required")
	}
	zr, err := zip.OpenReader(filepath.Join(dir, pos[0]))
	if err != nil {
		return err
	}
	defer zr.Close()
	for _, file := range zr.File {
		target := filepath.Join(dir, filepath.FromSlash(file.Name))
		if !strings.HasPrefix(target, filepath.Clean(dir)+string(os.PathSeparator)) {
			return fmt.Errorf("unzip: %s escapes destination", file.Name)
		}
		if strings.HasSuffix(file.Name, "/") {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractFile(file, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(file *zip.File, target string) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (f *Fake) fakeLatex(dir string, args []string) error {
	pos := positional(args)
	if len(pos) < 1 {
		return fmt.Errorf("latex: source required")
	}
	source := pos[len(pos)-1]
	if _, err := os.Stat(filepath.Join(dir, source)); err != nil {
		return err
	}
	stem := strings.TrimSuffix(source, filepath.Ext(source))
	aux := filepath.Join(dir, stem+".aux")
	if _, err := os.Stat(aux); err != nil {
		return os.WriteFile(aux, []byte("\\relax\n"), 0o644)
	}
	if f.NoPDF {
		return nil
	}
	return os.WriteFile(filepath.Join(dir, stem+".pdf"), []byte("%PDF-1.5\n"), 0o644)
}
