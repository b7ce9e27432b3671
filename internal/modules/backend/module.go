// Package backend provides the backend processing context for AroAce compilation.
// This module lowers checked programs to LLVM IR modules.
package backend

import (
	"fmt"

	domainservices "github.com/Popaulol/AroAceLang/internal/modules/backend/domain/services"
	portservices "github.com/Popaulol/AroAceLang/internal/modules/backend/ports/services"

	"github.com/samber/do"
)

// Module represents the backend processing module
type Module struct {
	// Ports - external interfaces
	backendService portservices.IBackendService

	// Domain services
	generator domainservices.ModuleGenerator
}

// NewModule creates a new backend module with dependency injection
func NewModule(i *do.Injector) (*Module, error) {
	generator, err := do.Invoke[domainservices.ModuleGenerator](i)
	if err != nil {
		return nil, fmt.Errorf("backend module: %w", err)
	}
	backendService, err := do.Invoke[portservices.IBackendService](i)
	if err != nil {
		return nil, fmt.Errorf("backend module: %w", err)
	}

	return &Module{
		backendService: backendService,
		generator:      generator,
	}, nil
}

// BackendService returns the IR lowering service
func (m *Module) BackendService() portservices.IBackendService {
	return m.backendService
}

// Generator returns the module generator
func (m *Module) Generator() domainservices.ModuleGenerator {
	return m.generator
}

// Validate validates the module configuration
func (m *Module) Validate() error {
	if m.backendService == nil {
		return fmt.Errorf("backend service is not initialized")
	}
	if m.generator == nil {
		return fmt.Errorf("module generator is not initialized")
	}
	return nil
}
