package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"ui-harness/internal/config"
	"ui-harness/internal/entity"
	"ui-harness/internal/ports"
	"ui-harness/pkg/apperr"
	"ui-harness/pkg/logg"
	"ui-harness/pkg/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	runnerServiceName = "ScenarioRunner"
	runnerTracer      = "usecase.runner"
	screenshotTimeout = 10 * time.Second

	// SelectAll matches every registered scenario.
	SelectAll = "all"
)

// Runner executes scenarios one at a time and records each as a Run.
type Runner struct {
	config    *config.Config
	logger    *zap.Logger
	session   ports.Session
	driver    ports.Driver
	tracer    trace.Tracer
	scenarios []Scenario

	mu     sync.Mutex
	cancel context.CancelFunc
}

type RunnerParams struct {
	fx.In

	Config    *config.Config
	Logger    *zap.Logger
	Session   ports.Session
	Driver    ports.Driver
	Scenarios []Scenario `group:"scenarios"`
}

func NewRunner(params RunnerParams) *Runner {
	scenarios := cloneScenarios(params.Scenarios)
	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].Name < scenarios[j].Name
	})

	return &Runner{
		config:    params.Config,
		logger:    params.Logger.With(zap.String(logg.Layer, runnerServiceName)),
		session:   params.Session,
		driver:    params.Driver,
		tracer:    otel.Tracer(runnerTracer),
		scenarios: scenarios,
	}
}

func cloneScenarios(in []Scenario) []Scenario {
	return append([]Scenario(nil), in...)
}

func (r *Runner) List() []entity.ScenarioInfo {
	infos := make([]entity.ScenarioInfo, 0, len(r.scenarios))
	for _, s := range r.scenarios {
		infos = append(infos, entity.ScenarioInfo{Name: s.Name, Description: s.Description, Tags: s.Tags})
	}

	return infos
}

// Select returns the scenario named sel, or every scenario tagged sel.
func (r *Runner) Select(sel string) []Scenario {
	if sel == SelectAll {
		return cloneScenarios(r.scenarios)
	}

	for _, s := range r.scenarios {
		if s.Name == sel {
			return []Scenario{s}
		}
	}

	var tagged []Scenario
	for _, s := range r.scenarios {
		if s.HasTag(sel) {
			tagged = append(tagged, s)
		}
	}

	return tagged
}

// Run executes every scenario Select returns for sel, in name order.
// A failing scenario does not stop the rest.
func (r *Runner) Run(ctx context.Context, sel string) ([]*entity.Run, error) {
	const op = "Run"

	selected := r.Select(sel)
	if len(selected) == 0 {
		return nil, apperr.NotFoundError(op, fmt.Errorf("no scenario named or tagged %q", sel))
	}

	runs := make([]*entity.Run, 0, len(selected))

	var errs []error
	for _, s := range selected {
		run, err := r.execute(ctx, s)
		runs = append(runs, run)

		if err != nil {
			errs = append(errs, err)
		}

		if ctx.Err() != nil {
			break
		}
	}

	return runs, errors.Join(errs...)
}

func (r *Runner) Execute(ctx context.Context, name string) (*entity.Run, error) {
	for _, s := range r.scenarios {
		if s.Name == name {
			return r.execute(ctx, s)
		}
	}

	return nil, apperr.NotFoundError("Execute", fmt.Errorf("no scenario named %q", name))
}

func (r *Runner) execute(ctx context.Context, scenario Scenario) (run *entity.Run, err error) {
	const op = "Execute"
	logger := r.logger.With(zap.String(logg.Operation, op), zap.String(logg.Scenario, scenario.Name))

	ctx, step := tracing.StartSpan(ctx, r.tracer, logger, op,
		tracing.Scenario(scenario.Name))
	defer func() {
		step.End(err)
	}()

	run = &entity.Run{
		ID:        uuid.New(),
		Scenario:  scenario.Name,
		Status:    entity.RunStatusPending,
		CreatedAt: time.Now(),
		Steps:     make([]entity.Step, 0),
	}

	logger = logger.With(zap.String(logg.RunID, run.ID.String()))
	step.AddEvent("run created")

	if !r.session.IsReady() {
		run.Status = entity.RunStatusFailed
		run.Error = "browser is not ready"

		return run, apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	ctx, cancel := context.WithCancel(ctx)
	r.setCancel(cancel)
	defer func() {
		r.setCancel(nil)
		cancel()
	}()

	run.Status = entity.RunStatusInProgress
	logger.Info("Scenario started")

	err = scenario.Run(ctx, newRecorder(run, logger))

	completedAt := time.Now()
	run.CompletedAt = &completedAt

	if err != nil {
		run.Status = entity.RunStatusFailed
		run.Error = err.Error()
		run.Screenshot = r.capture(ctx, logger, run)

		logger.Error("Scenario failed", zap.Error(err), zap.Duration("duration", completedAt.Sub(run.CreatedAt)))

		code := apperr.CodeOf(err)
		if code == "" {
			code = apperr.CodeInternal
		}

		return run, apperr.Wrap(op, code, err, map[string]any{
			apperr.MetaReason: "scenario_failed",
			apperr.MetaStage:  apperr.StageScenario,
		})
	}

	run.Status = entity.RunStatusPassed
	logger.Info("Scenario passed", zap.Int("steps", len(run.Steps)), zap.Duration("duration", completedAt.Sub(run.CreatedAt)))
	step.AddEvent("run passed")

	return run, nil
}

// capture saves a screenshot of the failed run and returns its path, or ""
// when none could be taken.
func (r *Runner) capture(ctx context.Context, logger *zap.Logger, run *entity.Run) string {
	dir := r.config.BrowserConfig.ScreenshotDir
	if dir == "" {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), screenshotTimeout)
	defer cancel()

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.jpg", run.Scenario, run.ID))
	if err := r.driver.Screenshot(ctx, path); err != nil {
		logger.Warn("Failed to capture screenshot", zap.Error(err))

		return ""
	}

	return path
}

// Stop cancels the scenario currently running, if any.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.logger.Info("Stopping running scenario...")
		r.cancel()
	}
}

func (r *Runner) setCancel(cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cancel = cancel
}
