package usecase

import (
	"ui-harness/internal/config"
	"ui-harness/internal/ports"
	"ui-harness/internal/usecase/adapters"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	Scenarios adapters.ScenarioService
	Browser   adapters.BrowserService
}

type Params struct {
	fx.In

	Logger    *zap.Logger
	Config    *config.Config
	Session   ports.Session
	Driver    ports.Driver
	Scenarios []Scenario `group:"scenarios"`
}

func NewUsecase(params Params) *Service {
	factory := newServiceFactory(params)

	return &Service{
		Scenarios: factory.CreateScenarioService(),
		Browser:   factory.CreateBrowserService(),
	}
}
