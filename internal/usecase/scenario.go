package usecase

import (
	"context"
	"slices"
	"time"

	"ui-harness/internal/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Scenario is one end-to-end check run against the live browser.
type Scenario struct {
	Name        string
	Description string
	Tags        []string
	Run         func(ctx context.Context, rec *Recorder) error
}

func (s Scenario) HasTag(tag string) bool {
	return slices.Contains(s.Tags, tag)
}

// Recorder appends the steps of one run.
type Recorder struct {
	run    *entity.Run
	logger *zap.Logger
}

func newRecorder(run *entity.Run, logger *zap.Logger) *Recorder {
	return &Recorder{run: run, logger: logger}
}

// Step runs fn and records its outcome under description.
func (r *Recorder) Step(description string, fn func() error) error {
	step := entity.Step{
		ID:          uuid.New(),
		Description: description,
		Timestamp:   time.Now(),
	}

	err := fn()
	if err != nil {
		step.Error = err.Error()
		r.logger.Error("Step failed", zap.String("step", description), zap.Error(err))
	} else {
		step.Success = true
		r.logger.Info("Step passed", zap.String("step", description))
	}

	r.run.Steps = append(r.run.Steps, step)

	return err
}
