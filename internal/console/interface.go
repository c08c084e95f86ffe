package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"ui-harness/internal/config"
	"ui-harness/internal/entity"
	"ui-harness/internal/usecase"
	"ui-harness/pkg/logg"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	ExitOK     = 0
	ExitFailed = 1
)

type Interface struct {
	config   *config.Config
	logger   *zap.Logger
	usecase  *usecase.Service
	in       io.Reader
	out      io.Writer
	ctx      context.Context
	cancel   context.CancelFunc
	stopping atomic.Bool
}

type Params struct {
	fx.In

	Config  *config.Config
	Logger  *zap.Logger
	Usecase *usecase.Service

	Input  io.Reader `optional:"true"`
	Output io.Writer `optional:"true"`
}

func NewInterface(params Params) *Interface {
	ctx, cancel := context.WithCancel(context.Background())

	in, out := params.Input, params.Output
	if in == nil {
		in = os.Stdin
	}

	if out == nil {
		out = os.Stdout
	}

	return &Interface{
		config:  params.Config,
		logger:  params.Logger.With(zap.String(logg.Layer, "Console")),
		usecase: params.Usecase,
		in:      in,
		out:     out,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start reads commands until exit, end of input or Stop.
func (i *Interface) Start() error {
	i.printHelp()

	scanner := bufio.NewScanner(i.in)

	for !i.stopping.Load() {
		fmt.Fprint(i.out, "\n> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if exit := i.handleCommand(input); exit {
			break
		}
	}

	return scanner.Err()
}

// RunBatch runs each selector in turn and returns the process exit code.
func (i *Interface) RunBatch(selectors []string) int {
	code := ExitOK

	for _, sel := range selectors {
		if i.stopping.Load() {
			return ExitFailed
		}

		if !i.runScenarios(strings.TrimSpace(sel)) {
			code = ExitFailed
		}
	}

	return code
}

// Stop aborts the scenario in flight and ends the read loop.
func (i *Interface) Stop() {
	if !i.stopping.CompareAndSwap(false, true) {
		return
	}

	i.logger.Info("Stopping console interface...")

	i.cancel()
	i.usecase.Scenarios.Stop()
}

func (i *Interface) handleCommand(input string) (exit bool) {
	command, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch command {
	case "help", "h":
		i.printHelp()
	case "list", "ls":
		i.printScenarios()
	case "run", "r":
		if arg == "" {
			fmt.Fprintln(i.out, "Usage: run <scenario|tag|all>")

			return false
		}

		i.runScenarios(arg)
	case "exit", "quit", "q":
		fmt.Fprintln(i.out, "Shutting down...")

		return true
	default:
		fmt.Fprintf(i.out, "Unknown command %q, type help for the list\n", command)
	}

	return false
}

// runScenarios reports whether every selected scenario passed.
func (i *Interface) runScenarios(selector string) bool {
	if !i.usecase.Browser.IsReady() {
		i.logger.Error("Browser is not ready", zap.String("selector", selector))
		fmt.Fprintln(i.out, "Error: browser is not ready, nothing was run")

		return false
	}

	fmt.Fprintf(i.out, "\nRunning: %s\n", selector)

	runs, err := i.usecase.Scenarios.Run(i.ctx, selector)
	if len(runs) == 0 && err != nil {
		i.logger.Error("Command error", zap.String("selector", selector), zap.Error(err))
		fmt.Fprintf(i.out, "Error: %v\n", err)

		return false
	}

	passed := 0
	for _, run := range runs {
		i.printRun(run)

		if run.Status == entity.RunStatusPassed {
			passed++
		}
	}

	fmt.Fprintf(i.out, "\n%d/%d passed\n", passed, len(runs))

	return err == nil
}

func (i *Interface) printRun(run *entity.Run) {
	var elapsed time.Duration
	if run.CompletedAt != nil {
		elapsed = run.CompletedAt.Sub(run.CreatedAt).Round(time.Millisecond)
	}

	if run.Status == entity.RunStatusPassed {
		fmt.Fprintf(i.out, "PASS %s (%d steps, %s)\n", run.Scenario, len(run.Steps), elapsed)

		return
	}

	fmt.Fprintf(i.out, "FAIL %s (%d steps, %s)\n", run.Scenario, len(run.Steps), elapsed)
	fmt.Fprintf(i.out, "     %s\n", run.Error)

	if run.Screenshot != "" {
		fmt.Fprintf(i.out, "     screenshot: %s\n", run.Screenshot)
	}
}

func (i *Interface) printScenarios() {
	w := tabwriter.NewWriter(i.out, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "NAME\tTAGS\tDESCRIPTION")

	for _, info := range i.usecase.Scenarios.List() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, strings.Join(info.Tags, ","), info.Description)
	}
}

func (i *Interface) printHelp() {
	help := `
Available commands:
  help, h             - Show this help message
  list, ls            - List registered scenarios
  run, r <selector>   - Run a scenario by name, every scenario with a tag, or "all"
  exit, quit, q       - Exit the application

Target site: ` + i.config.HarnessConfig.BaseURL + `
`
	fmt.Fprintln(i.out, help)
}
