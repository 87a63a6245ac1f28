// Package contracts describes the on-disk shape a project directory must
// have before the pipeline can package it, and checks projects against it.
package contracts

import (
	"path/filepath"

	"github.com/kingrea/coursepack/internal/config"
	"github.com/kingrea/coursepack/internal/sanitize"
)

// Kind is the expected file type of a requirement.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Requirement is one path a project must provide.
type Requirement struct {
	Name string
	Kind Kind
	Path func(l *config.Layout, document string) string
}

// Contract lists the inputs each pipeline stage reads from a project.
type Contract struct {
	Stage        string
	Requirements []Requirement
}

var projectDir = Requirement{
	Name: "project directory",
	Kind: KindDirectory,
	Path: func(l *config.Layout, _ string) string { return l.Project.Directory },
}

var gradedDir = Requirement{
	Name: "graded project",
	Kind: KindDirectory,
	Path: func(l *config.Layout, _ string) string { return l.GradedProjectDir() },
}

var stageContracts = []Contract{
	{
		Stage: "docs",
		Requirements: []Requirement{
			projectDir,
			{
				Name: "document source",
				Kind: KindFile,
				Path: func(l *config.Layout, document string) string { return filepath.Join(l.DocDir(), document) },
			},
		},
	},
	{
		Stage: "graded",
		Requirements: []Requirement{
			projectDir,
			gradedDir,
		},
	},
	{
		Stage: "student",
		Requirements: []Requirement{
			gradedDir,
			{
				Name: "project descriptor",
				Kind: KindFile,
				Path: func(l *config.Layout, _ string) string {
					return filepath.Join(l.GradedProjectDir(), sanitize.DescriptorFile)
				},
			},
			{
				Name: "source folder",
				Kind: KindDirectory,
				Path: func(l *config.Layout, _ string) string {
					return filepath.Join(l.GradedProjectDir(), sanitize.SourceDir)
				},
			},
		},
	},
}

// ContractFor returns the requirements of a stage by module ID.
func ContractFor(stage string) (Contract, bool) {
	for _, c := range stageContracts {
		if c.Stage == stage {
			return c, true
		}
	}
	return Contract{}, false
}

// Contracts returns every stage contract in pipeline order.
func Contracts() []Contract {
	return append([]Contract(nil), stageContracts...)
}
