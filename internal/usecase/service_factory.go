package usecase

import (
	"ui-harness/internal/usecase/adapters"
)

type serviceFactory struct {
	deps Params
}

func newServiceFactory(deps Params) *serviceFactory {
	return &serviceFactory{
		deps: deps,
	}
}

func (f *serviceFactory) CreateScenarioService() adapters.ScenarioService {
	return NewRunner(RunnerParams{
		Config:    f.deps.Config,
		Logger:    f.deps.Logger,
		Session:   f.deps.Session,
		Driver:    f.deps.Driver,
		Scenarios: f.deps.Scenarios,
	})
}

func (f *serviceFactory) CreateBrowserService() adapters.BrowserService {
	return f.deps.Session
}
