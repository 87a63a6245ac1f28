package config

import "path/filepath"

// Directory and file names expected inside every project directory.
const (
	DocumentDir        = "document"
	EclipseProjectsDir = "eclipse-projects"
	BuildOutputDir     = "bin"
)

// Layout resolves every path one project's pipeline touches. All paths are
// absolute; nothing depends on the process working directory.
type Layout struct {
	Project   ProjectConfig
	OutputDir string
}

// NewLayout binds a project to an output directory.
func NewLayout(project ProjectConfig, outputDir string) *Layout {
	if abs, err := filepath.Abs(outputDir); err == nil {
		outputDir = abs
	}
	return &Layout{Project: project, OutputDir: outputDir}
}

// Name returns the project name.
func (l *Layout) Name() string {
	return l.Project.Name
}

// DocDir returns the directory holding the instructions document source.
func (l *Layout) DocDir() string {
	return filepath.Join(l.Project.Directory, DocumentDir)
}

// EclipseProjectsDir returns the directory holding the graded project tree.
func (l *Layout) EclipseProjectsDir() string {
	return filepath.Join(l.Project.Directory, EclipseProjectsDir)
}

// GradedName is the graded tree's directory name (and its zip's stem).
func (l *Layout) GradedName() string {
	return l.Project.Name + "-graded"
}

// StudentName is the student tree's directory name (and its zip's stem).
func (l *Layout) StudentName() string {
	return l.Project.Name + "-student"
}

// GradedZipName is the graded archive file name.
func (l *Layout) GradedZipName() string {
	return l.GradedName() + ".zip"
}

// StudentZipName is the student archive file name.
func (l *Layout) StudentZipName() string {
	return l.StudentName() + ".zip"
}

// InstructionsName is the file name of the compiled instructions.
func (l *Layout) InstructionsName() string {
	return l.Project.Name + "-instructions.pdf"
}

// GradedProjectDir returns the canonical solution tree.
func (l *Layout) GradedProjectDir() string {
	return filepath.Join(l.EclipseProjectsDir(), l.GradedName())
}

// StaleGradedZip is where the archiver drops the graded zip before it is
// relocated.
func (l *Layout) StaleGradedZip() string {
	return filepath.Join(l.EclipseProjectsDir(), l.GradedZipName())
}

// InstructionsPath returns the instructions PDF in the output directory.
func (l *Layout) InstructionsPath() string {
	return filepath.Join(l.OutputDir, l.InstructionsName())
}

// GradedZipPath returns the graded archive in the output directory.
func (l *Layout) GradedZipPath() string {
	return filepath.Join(l.OutputDir, l.GradedZipName())
}

// StudentZipPath returns the student archive in the output directory.
func (l *Layout) StudentZipPath() string {
	return filepath.Join(l.OutputDir, l.StudentZipName())
}

// GradedDirPath is where the graded archive unpacks inside the output directory.
func (l *Layout) GradedDirPath() string {
	return filepath.Join(l.OutputDir, l.GradedName())
}

// StudentDirPath is the student staging tree inside the output directory.
func (l *Layout) StudentDirPath() string {
	return filepath.Join(l.OutputDir, l.StudentName())
}
