package providers

import (
	"github.com/Popaulol/AroAceLang/internal/infrastructure/logging"
	backendservices "github.com/Popaulol/AroAceLang/internal/modules/backend/application/services"
	domainservices "github.com/Popaulol/AroAceLang/internal/modules/backend/domain/services"
	"github.com/Popaulol/AroAceLang/internal/modules/backend/infrastructure/codegen"
	portservices "github.com/Popaulol/AroAceLang/internal/modules/backend/ports/services"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/infrastructure/config"

	"github.com/samber/do"
)

// ProvideBackendServices registers backend services with the DI container
func ProvideBackendServices(container *do.Injector) {
	do.Provide(container, func(i *do.Injector) (domainservices.ModuleGenerator, error) {
		cfg := do.MustInvoke[*config.AroAceConfig](i)
		return codegen.NewModuleGenerator(cfg.Compiler.TargetTriple, do.MustInvoke[*logging.Logger](i)), nil
	})

	do.Provide(container, func(i *do.Injector) (portservices.IBackendService, error) {
		return backendservices.NewBackendService(
			do.MustInvoke[domainservices.ModuleGenerator](i),
			do.MustInvoke[*logging.Logger](i),
		), nil
	})
}
