// Package task runs long operations as a sequence of discrete steps.
//
// The event loop never blocks: each step runs inside a tea.Cmd and reports
// back with a StepDoneMsg, which the Runner turns into Progress and Status
// actions. Steps are paced so progress stays visible between them.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"neviraller/internal/action"
	"neviraller/internal/telemetry"
)

// ErrBusy is returned by Start while another plan is running.
var ErrBusy = errors.New("another task is running")

// startedRatio is reported when a plan starts so progress shows while the
// first step runs.
const startedRatio = 0.02

// Outcome is what a successful step reports.
type Outcome struct {
	Status string // shown in the status pane when non-empty
	Finish bool   // end the plan successfully after this step
	// Ask pauses the plan until Answer is called. Declining ends it.
	Ask string
}

// Done is a convenience Outcome that ends the plan.
func Done(status string) Outcome {
	return Outcome{Status: status, Finish: true}
}

// Step is one unit of work. Exactly one of Run or Exec is set.
type Step struct {
	Name string
	// Run does blocking work off the event loop.
	Run func(ctx context.Context) (Outcome, error)
	// Exec hands the terminal to a child process (sudo prompts).
	Exec func() *exec.Cmd
	// Status is reported after a successful Exec step.
	Status string
}

// Plan is an ordered list of steps.
type Plan struct {
	Name  string
	Steps []Step
	Pace  time.Duration // delay between a step finishing and the next starting
}

// StepDoneMsg reports a finished step back to the loop.
type StepDoneMsg struct {
	gen     uint64
	Index   int
	Outcome Outcome
	Err     error
}

// DueMsg is delivered when the next step's pacing delay has elapsed.
type DueMsg struct {
	gen uint64
}

// Runner executes at most one plan at a time.
type Runner struct {
	tracer  oteltrace.Tracer
	logger  *slog.Logger
	timeout time.Duration

	plan     *Plan
	gen      uint64
	index    int
	inFlight bool
	awaiting bool
	nextAt   time.Time
	started  time.Time

	planCtx  context.Context
	planSpan oteltrace.Span
	stepSpan oteltrace.Span
}

// Option configures a Runner.
type Option func(*Runner)

// WithTracer sets the tracer used for plan and step spans.
func WithTracer(t oteltrace.Tracer) Option {
	return func(r *Runner) { r.tracer = t }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithStepTimeout bounds each Run step. Zero means no timeout.
func WithStepTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// NewRunner creates an idle runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		tracer: telemetry.Noop().Tracer(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Running reports whether a plan is in progress.
func (r *Runner) Running() bool {
	return r.plan != nil
}

// Current returns the running plan's name.
func (r *Runner) Current() string {
	if r.plan == nil {
		return ""
	}
	return r.plan.Name
}

// Awaiting reports whether the plan waits for an answer to a question.
func (r *Runner) Awaiting() bool {
	return r.awaiting
}

// Start begins p and launches its first step.
func (r *Runner) Start(p Plan, now time.Time) ([]action.Action, tea.Cmd, error) {
	if r.plan != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrBusy, r.plan.Name)
	}
	if len(p.Steps) == 0 {
		return []action.Action{action.StatusMessage(p.Name + ": nothing to do")}, nil, nil
	}
	r.gen++
	r.plan = &p
	r.index = 0
	r.inFlight = false
	r.started = now
	r.nextAt = now
	r.planCtx, r.planSpan = r.tracer.Start(context.Background(), p.Name,
		oteltrace.WithAttributes(telemetry.KeyPlan.String(p.Name)))
	r.logger.Info("task started", "plan", p.Name, "steps", len(p.Steps))

	acts := []action.Action{action.StatusMessage("▶ " + p.Name), action.ProgressRatio(startedRatio)}
	return acts, r.launch(), nil
}

// OnTick launches the next step when it is due and nothing is in flight.
func (r *Runner) OnTick(now time.Time) tea.Cmd {
	if r.plan == nil || r.inFlight || r.awaiting || now.Before(r.nextAt) {
		return nil
	}
	return r.launch()
}

// OnDue handles a pacing timer. Timers from a stopped plan are ignored.
func (r *Runner) OnDue(msg DueMsg, now time.Time) tea.Cmd {
	if msg.gen != r.gen {
		return nil
	}
	return r.OnTick(now)
}

func (r *Runner) launch() tea.Cmd {
	step := r.plan.Steps[r.index]
	gen, index := r.gen, r.index
	r.inFlight = true

	ctx, span := r.tracer.Start(r.planCtx, step.Name, oteltrace.WithAttributes(
		telemetry.KeyStep.String(step.Name),
		telemetry.KeyIndex.Int(index),
	))
	r.stepSpan = span

	if step.Exec != nil {
		cmd := step.Exec()
		span.SetAttributes(telemetry.KeyCommand.String(cmd.String()))
		status := step.Status
		return tea.ExecProcess(cmd, func(err error) tea.Msg {
			return StepDoneMsg{gen: gen, Index: index, Outcome: Outcome{Status: status}, Err: err}
		})
	}

	timeout := r.timeout
	run := step.Run
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		if run == nil {
			return StepDoneMsg{gen: gen, Index: index, Err: fmt.Errorf("step %q has nothing to run", step.Name)}
		}
		out, err := run(ctx)
		return StepDoneMsg{gen: gen, Index: index, Outcome: out, Err: err}
	}
}

// Complete records a step result. Results from a stopped plan are ignored.
// On success the next step is scheduled Pace later; the returned command
// delivers the DueMsg for it.
func (r *Runner) Complete(msg StepDoneMsg, now time.Time) ([]action.Action, tea.Cmd) {
	if r.plan == nil || msg.gen != r.gen || msg.Index != r.index {
		return nil, nil
	}
	r.inFlight = false
	step := r.plan.Steps[r.index]
	total := len(r.plan.Steps)

	if msg.Err != nil {
		r.endStep(msg.Err)
		r.logger.Warn("task step failed", "plan", r.plan.Name, "step", step.Name, "error", msg.Err)
		acts := []action.Action{
			action.StatusMessage(fmt.Sprintf("✗ %s: %v", step.Name, msg.Err)),
			action.ProgressRatio(0),
		}
		r.finish(codes.Error, "failed")
		return acts, nil
	}
	r.endStep(nil)

	var acts []action.Action
	if msg.Outcome.Status != "" {
		acts = append(acts, action.StatusMessage(msg.Outcome.Status))
	}
	r.index++
	if msg.Outcome.Finish || r.index >= total {
		name := r.plan.Name
		r.logger.Info("task finished", "plan", name, "elapsed", now.Sub(r.started))
		r.finish(codes.Ok, "done")
		return append(acts, action.ProgressRatio(1), action.StatusMessage("✓ "+name)), nil
	}
	acts = append(acts, action.ProgressRatio(float64(r.index)/float64(total)))
	if msg.Outcome.Ask != "" {
		r.awaiting = true
		r.logger.Info("task waiting for an answer", "plan", r.plan.Name, "question", msg.Outcome.Ask)
		return append(acts, action.Question(msg.Outcome.Ask)), nil
	}

	pace := r.plan.Pace
	r.nextAt = now.Add(pace)
	if pace <= 0 {
		return acts, r.launch()
	}
	gen := r.gen
	return acts, tea.Tick(pace, func(time.Time) tea.Msg { return DueMsg{gen: gen} })
}

// Answer resumes a plan paused by a question. Declining ends the plan
// without running the remaining steps.
func (r *Runner) Answer(yes bool, now time.Time) ([]action.Action, tea.Cmd) {
	if r.plan == nil || !r.awaiting {
		return nil, nil
	}
	r.awaiting = false
	if !yes {
		name := r.plan.Name
		r.logger.Info("task declined", "plan", name)
		r.finish(codes.Ok, "declined")
		return []action.Action{
			action.StatusMessage(fmt.Sprintf("■ %s declined", name)),
			action.ProgressRatio(0),
		}, nil
	}
	r.nextAt = now
	return nil, r.launch()
}

// Stop abandons the running plan. In-flight work is not interrupted but
// its result will be ignored.
func (r *Runner) Stop(reason string) []action.Action {
	if r.plan == nil {
		return nil
	}
	name := r.plan.Name
	r.logger.Info("task stopped", "plan", name, "reason", reason)
	if r.stepSpan != nil {
		r.stepSpan.SetStatus(codes.Error, reason)
		r.stepSpan.End()
		r.stepSpan = nil
	}
	r.finish(codes.Error, reason)
	return []action.Action{
		action.StatusMessage(fmt.Sprintf("■ %s %s", name, reason)),
		action.ProgressRatio(0),
	}
}

func (r *Runner) endStep(err error) {
	if r.stepSpan == nil {
		return
	}
	if err != nil {
		r.stepSpan.RecordError(err)
		r.stepSpan.SetStatus(codes.Error, err.Error())
	}
	r.stepSpan.End()
	r.stepSpan = nil
}

func (r *Runner) finish(code codes.Code, status string) {
	if r.planSpan != nil {
		r.planSpan.SetAttributes(telemetry.KeyStatus.String(status))
		r.planSpan.SetStatus(code, status)
		r.planSpan.End()
	}
	r.planSpan = nil
	r.planCtx = nil
	r.plan = nil
	r.inFlight = false
	r.awaiting = false
	r.gen++
}
