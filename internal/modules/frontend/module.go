// Package frontend provides the frontend processing context for AroAce compilation.
// This module handles lexical analysis, syntax analysis, name resolution and type checking of .ace source files.
package frontend

import (
	"fmt"

	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/events"
	portservices "github.com/Popaulol/AroAceLang/internal/modules/frontend/ports/services"

	"github.com/samber/do"
)

// Module represents the frontend processing module
type Module struct {
	// Ports - external interfaces
	frontendService portservices.IFrontendService

	// Domain services
	tokenizer      analysis.Tokenizer
	eventPublisher events.EventPublisher
}

// NewModule creates a new frontend module with dependency injection
func NewModule(i *do.Injector) (*Module, error) {
	frontendService, err := do.Invoke[portservices.IFrontendService](i)
	if err != nil {
		return nil, fmt.Errorf("frontend module: %w", err)
	}
	tokenizer, err := do.Invoke[analysis.Tokenizer](i)
	if err != nil {
		return nil, fmt.Errorf("frontend module: %w", err)
	}
	publisher, err := do.Invoke[events.EventPublisher](i)
	if err != nil {
		return nil, fmt.Errorf("frontend module: %w", err)
	}

	return &Module{
		frontendService: frontendService,
		tokenizer:       tokenizer,
		eventPublisher:  publisher,
	}, nil
}

// FrontendService returns the frontend service interface
func (m *Module) FrontendService() portservices.IFrontendService {
	return m.frontendService
}

// Tokenizer returns the tokenizer used by the frontend
func (m *Module) Tokenizer() analysis.Tokenizer {
	return m.tokenizer
}

// EventPublisher returns the publisher receiving phase events
func (m *Module) EventPublisher() events.EventPublisher {
	return m.eventPublisher
}

// Validate validates the module configuration
func (m *Module) Validate() error {
	if m.frontendService == nil {
		return fmt.Errorf("frontend service is not initialized")
	}
	if m.tokenizer == nil {
		return fmt.Errorf("tokenizer is not initialized")
	}
	if m.eventPublisher == nil {
		return fmt.Errorf("event publisher is not initialized")
	}
	return nil
}
