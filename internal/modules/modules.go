package modules

import (
	"github.com/kingrea/coursepack/internal/module"
	"github.com/kingrea/coursepack/internal/modules/cleanup"
	"github.com/kingrea/coursepack/internal/modules/docs"
	"github.com/kingrea/coursepack/internal/modules/graded"
	"github.com/kingrea/coursepack/internal/modules/student"
)

// RegisterBuiltins installs all of the built-in module factories into the
// provided registry.
func RegisterBuiltins(reg *module.Registry) {
	if reg == nil {
		return
	}
	cleanup.Register(reg)
	docs.Register(reg)
	graded.Register(reg)
	student.Register(reg)
}

// NewRegistry returns a registry holding every built-in module.
func NewRegistry() *module.Registry {
	reg := module.NewRegistry()
	RegisterBuiltins(reg)
	return reg
}
