package providers

import (
	"github.com/Popaulol/AroAceLang/internal/infrastructure/logging"
	backendports "github.com/Popaulol/AroAceLang/internal/modules/backend/ports/services"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/events"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/infrastructure/config"
	frontendports "github.com/Popaulol/AroAceLang/internal/modules/frontend/ports/services"
	middleendports "github.com/Popaulol/AroAceLang/internal/modules/middleend/ports/services"
	"github.com/Popaulol/AroAceLang/internal/modules/project/application/pipeline"

	"github.com/samber/do"
)

// ProvideProjectServices registers the compilation pipeline with the DI container
func ProvideProjectServices(container *do.Injector) {
	do.Provide(container, func(i *do.Injector) (*pipeline.Service, error) {
		cfg := do.MustInvoke[*config.AroAceConfig](i)
		return pipeline.NewService(
			do.MustInvoke[frontendports.IFrontendService](i),
			do.MustInvoke[backendports.IBackendService](i),
			do.MustInvoke[middleendports.IIRService](i),
			do.MustInvoke[events.EventPublisher](i),
			do.MustInvoke[*logging.Logger](i),
			pipeline.Options{
				WarningsAsErrors: cfg.Compiler.WarningsAsErrors,
				MaxDiagnostics:   cfg.Compiler.MaxDiagnostics,
				Parallelism:      cfg.Compiler.Parallelism,
			},
		), nil
	})
}
