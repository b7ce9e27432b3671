// Package project provides project level compilation for AroAce.
// This module collects the sources of a project and drives them through the compilation pipeline.
package project

import (
	"context"
	"fmt"

	"github.com/Popaulol/AroAceLang/internal/modules/project/application/pipeline"
	"github.com/Popaulol/AroAceLang/internal/modules/project/infrastructure/sources"

	"github.com/samber/do"
)

// Module represents the project compilation module
type Module struct {
	// Ports - external interfaces
	pipeline *pipeline.Service
}

// NewModule creates a new project module with dependency injection
func NewModule(i *do.Injector) (*Module, error) {
	p, err := do.Invoke[*pipeline.Service](i)
	if err != nil {
		return nil, fmt.Errorf("project module: %w", err)
	}
	return &Module{pipeline: p}, nil
}

// Pipeline returns the compilation pipeline
func (m *Module) Pipeline() *pipeline.Service {
	return m.pipeline
}

// Build collects the sources under paths and compiles them
func (m *Module) Build(ctx context.Context, paths []string) ([]*pipeline.UnitResult, error) {
	srcs, err := sources.Collect(paths)
	if err != nil {
		return nil, err
	}
	return m.pipeline.CompileAll(ctx, srcs)
}

// Validate validates the module configuration
func (m *Module) Validate() error {
	if m.pipeline == nil {
		return fmt.Errorf("compilation pipeline is not initialized")
	}
	return nil
}
