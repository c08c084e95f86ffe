package adapters

import (
	"context"

	"ui-harness/internal/entity"
)

type BrowserService interface {
	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	IsReady() bool
}

type ScenarioService interface {
	List() []entity.ScenarioInfo
	Run(ctx context.Context, selector string) ([]*entity.Run, error)
	Stop()
}
