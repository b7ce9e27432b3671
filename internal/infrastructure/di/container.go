// Package di 组装编译器的依赖注入容器
package di

import (
	"fmt"
	"io"
	"os"

	"github.com/Popaulol/AroAceLang/internal/infrastructure/di/providers"
	"github.com/Popaulol/AroAceLang/internal/infrastructure/logging"
	"github.com/Popaulol/AroAceLang/internal/modules/backend"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/infrastructure/config"
	"github.com/Popaulol/AroAceLang/internal/modules/middleend"
	"github.com/Popaulol/AroAceLang/internal/modules/project"

	"github.com/samber/do"
)

// Container wraps the do.Injector with module accessors
type Container struct {
	*do.Injector
}

// NewContainer creates a container for the given configuration. Logs go to logOutput, os.Stderr when nil
func NewContainer(cfg *config.AroAceConfig, logOutput io.Writer) *Container {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logOutput == nil {
		logOutput = os.Stderr
	}
	container := &Container{
		Injector: do.New(),
	}

	do.ProvideValue(container.Injector, cfg)
	do.ProvideValue(container.Injector, logging.New(logOutput, cfg.Compiler.Verbose))

	// Register all service providers
	providers.ProvideFrontendServices(container.Injector)
	providers.ProvideBackendServices(container.Injector)
	providers.ProvideMiddleEndServices(container.Injector)
	providers.ProvideProjectServices(container.Injector)

	do.Provide(container.Injector, frontend.NewModule)
	do.Provide(container.Injector, backend.NewModule)
	do.Provide(container.Injector, middleend.NewModule)
	do.Provide(container.Injector, project.NewModule)

	return container
}

// Config returns the configuration the container was built with
func (c *Container) Config() *config.AroAceConfig {
	return do.MustInvoke[*config.AroAceConfig](c.Injector)
}

// Logger returns the shared logger
func (c *Container) Logger() *logging.Logger {
	return do.MustInvoke[*logging.Logger](c.Injector)
}

// Frontend resolves the frontend module
func (c *Container) Frontend() (*frontend.Module, error) {
	return invokeModule[*frontend.Module](c, "frontend")
}

// Backend resolves the backend module
func (c *Container) Backend() (*backend.Module, error) {
	return invokeModule[*backend.Module](c, "backend")
}

// MiddleEnd resolves the middle-end module
func (c *Container) MiddleEnd() (*middleend.Module, error) {
	return invokeModule[*middleend.Module](c, "middle-end")
}

// Project resolves the project module
func (c *Container) Project() (*project.Module, error) {
	return invokeModule[*project.Module](c, "project")
}

type validator interface {
	Validate() error
}

func invokeModule[T validator](c *Container, name string) (T, error) {
	m, err := do.Invoke[T](c.Injector)
	if err != nil {
		return m, fmt.Errorf("failed to get %s module: %w", name, err)
	}
	if err := m.Validate(); err != nil {
		return m, fmt.Errorf("%s module: %w", name, err)
	}
	return m, nil
}

// Validate resolves every module and validates it
func (c *Container) Validate() error {
	if c.Injector == nil {
		return fmt.Errorf("container is not initialized")
	}
	if _, err := c.Frontend(); err != nil {
		return err
	}
	if _, err := c.Backend(); err != nil {
		return err
	}
	if _, err := c.MiddleEnd(); err != nil {
		return err
	}
	if _, err := c.Project(); err != nil {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the container and all services
func (c *Container) Shutdown() error {
	return c.Injector.Shutdown()
}
