// Package document compiles a project's instructions into a PDF.
package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kingrea/coursepack/internal/archive"
	"github.com/kingrea/coursepack/internal/logging"
	"github.com/kingrea/coursepack/internal/toolrun"
)

// Passes is how many times the compiler runs. The first pass writes the
// auxiliary file the second one needs to resolve cross-references.
const Passes = 2

// Builder runs the document compiler in a document directory.
type Builder struct {
	runner   toolrun.Runner
	compiler string
	source   string
	log      *logging.Logger
}

// New returns a builder compiling source (e.g. project.tex) with compiler.
func New(runner toolrun.Runner, compiler, source string, log *logging.Logger) *Builder {
	if compiler == "" {
		compiler = "pdflatex"
	}
	if source == "" {
		source = "project.tex"
	}
	return &Builder{runner: runner, compiler: compiler, source: source, log: log}
}

// OutputName is the PDF the compiler leaves next to the source.
func (b *Builder) OutputName() string {
	return strings.TrimSuffix(b.source, filepath.Ext(b.source)) + ".pdf"
}

// Build compiles docDir/source twice and copies the PDF to dest. A failed
// first pass is only a warning; the second pass must succeed and the PDF must
// exist afterwards.
func (b *Builder) Build(ctx context.Context, docDir, dest string) error {
	if _, err := os.Stat(filepath.Join(docDir, b.source)); err != nil {
		return fmt.Errorf("document: source: %w", err)
	}
	args := []string{"-interaction=nonstopmode", b.source}
	for pass := 1; pass <= Passes; pass++ {
		res, err := b.runner.Run(ctx, docDir, b.compiler, args...)
		if err != nil {
			return fmt.Errorf("document: pass %d: %w", pass, err)
		}
		if res.Success() {
			continue
		}
		if pass < Passes {
			b.log.Warn("%s pass %d exited %d, retrying with its auxiliary output", b.compiler, pass, res.ExitCode)
			continue
		}
		return fmt.Errorf("document: pass %d: %w", pass, res.Err())
	}
	pdf := filepath.Join(docDir, b.OutputName())
	if _, err := os.Stat(pdf); err != nil {
		return fmt.Errorf("document: %s missing after %d passes: %w", b.OutputName(), Passes, err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("document: ensure %s: %w", filepath.Dir(dest), err)
	}
	b.log.Printf("cp %s %s", pdf, dest)
	if err := archive.CopyFile(pdf, dest); err != nil {
		return fmt.Errorf("document: copy %s: %w", pdf, err)
	}
	return nil
}
