package providers

import (
	"github.com/Popaulol/AroAceLang/internal/infrastructure/logging"
	frontendservices "github.com/Popaulol/AroAceLang/internal/modules/frontend/application/services"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/events"
	semantic "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/semantic/services"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/infrastructure/config"
	infraevents "github.com/Popaulol/AroAceLang/internal/modules/frontend/infrastructure/events"
	portservices "github.com/Popaulol/AroAceLang/internal/modules/frontend/ports/services"

	"github.com/samber/do"
)

// ProvideFrontendServices registers frontend services with the DI container
func ProvideFrontendServices(container *do.Injector) {
	do.Provide(container, func(i *do.Injector) (*infraevents.Recorder, error) {
		return infraevents.NewRecorder(do.MustInvoke[*logging.Logger](i)), nil
	})
	do.Provide(container, func(i *do.Injector) (events.EventPublisher, error) {
		return do.Invoke[*infraevents.Recorder](i)
	})

	do.Provide(container, func(i *do.Injector) (analysis.Tokenizer, error) {
		return analysis.NewSimpleTokenizer(), nil
	})
	do.Provide(container, func(i *do.Injector) (analysis.Parser, error) {
		return analysis.NewSimpleParser(), nil
	})
	do.Provide(container, func(i *do.Injector) (*semantic.SemanticAnalyzer, error) {
		cfg := do.MustInvoke[*config.AroAceConfig](i)
		return semantic.NewSemanticAnalyzer(semantic.ResolverOptions{
			WarnShadowing: cfg.Compiler.WarnShadowing,
		}), nil
	})

	do.Provide(container, func(i *do.Injector) (portservices.IFrontendService, error) {
		return frontendservices.NewFrontendService(
			do.MustInvoke[analysis.Tokenizer](i),
			do.MustInvoke[analysis.Parser](i),
			do.MustInvoke[*semantic.SemanticAnalyzer](i),
			do.MustInvoke[events.EventPublisher](i),
			do.MustInvoke[*logging.Logger](i),
		), nil
	})
}
