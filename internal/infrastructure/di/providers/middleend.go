package providers

import (
	"github.com/Popaulol/AroAceLang/internal/infrastructure/logging"
	irservices "github.com/Popaulol/AroAceLang/internal/modules/middleend/application/services"
	domainservices "github.com/Popaulol/AroAceLang/internal/modules/middleend/domain/services"
	portservices "github.com/Popaulol/AroAceLang/internal/modules/middleend/ports/services"

	"github.com/samber/do"
)

// ProvideMiddleEndServices registers middle-end services with the DI container
func ProvideMiddleEndServices(container *do.Injector) {
	do.Provide(container, func(i *do.Injector) (domainservices.IRReader, error) {
		return domainservices.NewIRReader(), nil
	})
	do.Provide(container, func(i *do.Injector) (domainservices.IRVerifier, error) {
		return domainservices.NewIRVerifier(), nil
	})

	do.Provide(container, func(i *do.Injector) (portservices.IIRService, error) {
		return irservices.NewIRService(
			do.MustInvoke[domainservices.IRReader](i),
			do.MustInvoke[domainservices.IRVerifier](i),
			do.MustInvoke[*logging.Logger](i),
		), nil
	})
}
