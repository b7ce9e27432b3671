// Package middleend provides the middle-end processing context for AroAce compilation.
// This module reads textual IR and verifies IR modules produced by the backend.
package middleend

import (
	"fmt"

	domainservices "github.com/Popaulol/AroAceLang/internal/modules/middleend/domain/services"
	portservices "github.com/Popaulol/AroAceLang/internal/modules/middleend/ports/services"

	"github.com/samber/do"
)

// Module represents the middle-end processing module
type Module struct {
	// Ports - external interfaces
	irService portservices.IIRService

	// Domain services
	reader   domainservices.IRReader
	verifier domainservices.IRVerifier
}

// NewModule creates a new middle-end module with dependency injection
func NewModule(i *do.Injector) (*Module, error) {
	irService, err := do.Invoke[portservices.IIRService](i)
	if err != nil {
		return nil, fmt.Errorf("middle-end module: %w", err)
	}
	reader, err := do.Invoke[domainservices.IRReader](i)
	if err != nil {
		return nil, fmt.Errorf("middle-end module: %w", err)
	}
	verifier, err := do.Invoke[domainservices.IRVerifier](i)
	if err != nil {
		return nil, fmt.Errorf("middle-end module: %w", err)
	}

	return &Module{
		irService: irService,
		reader:    reader,
		verifier:  verifier,
	}, nil
}

// IRService returns the IR service interface
func (m *Module) IRService() portservices.IIRService {
	return m.irService
}

// Validate validates the module configuration
func (m *Module) Validate() error {
	if m.irService == nil {
		return fmt.Errorf("IR service is not initialized")
	}
	if m.reader == nil {
		return fmt.Errorf("IR reader is not initialized")
	}
	if m.verifier == nil {
		return fmt.Errorf("IR verifier is not initialized")
	}
	return nil
}
