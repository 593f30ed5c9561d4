// Package app is the event loop and lifecycle controller.
//
// App implements tea.Model. Each Update normalizes the incoming message,
// resolves keys through the keymap, then drains the action bus: every
// action is handled by the loop itself and broadcast to every component in
// registration order. Follow-up actions go back on the bus and are handled
// in a later pass of the same drain.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"neviraller/internal/action"
	"neviraller/internal/bus"
	"neviraller/internal/component"
	"neviraller/internal/config"
	"neviraller/internal/event"
	"neviraller/internal/frame"
	"neviraller/internal/keymap"
	"neviraller/internal/layout"
	"neviraller/internal/task"
)

// maxDrainPasses bounds one drain. Whatever is still queued is handled on
// the next wake-up.
const maxDrainPasses = 64

// Planner turns a domain action into a task plan.
type Planner interface {
	Plan(kind action.Kind) (task.Plan, bool)
}

// Option configures an App.
type Option func(*App)

// WithPlanner sets the planner for domain actions.
func WithPlanner(p Planner) Option {
	return func(a *App) { a.planner = p }
}

// WithRunner replaces the task runner.
func WithRunner(r *task.Runner) Option {
	return func(a *App) { a.runner = r }
}

// WithLogger sets the loop's logger. It should not forward to the bus.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithSize sets the initial screen size.
func WithSize(width, height int) Option {
	return func(a *App) { a.width, a.height = width, height }
}

// App is the root tea.Model.
type App struct {
	cfg      config.Config
	bus      *bus.Bus
	registry *component.Registry
	resolver *keymap.Resolver
	runner   *task.Runner
	planner  Planner
	logger   *slog.Logger
	now      func() time.Time

	state         State
	width, height int
	assignment    layout.Assignment
	auxVisible    bool

	cmds []tea.Cmd // collected while handling one message

	drawErrs map[component.ID]string // last reported Draw error per component
}

var _ tea.Model = (*App)(nil)

// New wires the components to the bus and the configuration.
func New(cfg config.Config, b *bus.Bus, reg *component.Registry, opts ...Option) (*App, error) {
	a := &App{
		cfg:      cfg,
		bus:      b,
		registry: reg,
		resolver: keymap.NewResolver(cfg.Bindings),
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
		state:    State{Mode: keymap.ModeHome, Lifecycle: Running},
		drawErrs: make(map[component.ID]string),
	}
	for _, o := range opts {
		o(a)
	}
	if a.runner == nil {
		a.runner = task.NewRunner(task.WithLogger(a.logger))
	}
	for _, p := range reg.Placements() {
		c := p.Component
		if err := c.RegisterActionSink(b); err != nil {
			return nil, fmt.Errorf("component %s: register sink: %w", c.ID(), err)
		}
		if err := c.RegisterConfig(cfg); err != nil {
			return nil, fmt.Errorf("component %s: register config: %w", c.ID(), err)
		}
	}
	a.relayout()
	return a, nil
}

// State returns a copy of the application state.
func (a *App) State() State {
	return a.state
}

// Pending returns the keys of an unfinished chord.
func (a *App) Pending() keymap.Sequence {
	return a.resolver.Pending()
}

// Size returns the last known screen size.
func (a *App) Size() (int, int) {
	return a.width, a.height
}

// Assignment returns the current layout.
func (a *App) Assignment() layout.Assignment {
	return a.assignment
}

// Init gives components their first area and starts the tick, frame and
// bus schedules.
func (a *App) Init() tea.Cmd {
	areas := a.registry.Areas(a.assignment)
	for _, p := range a.registry.Placements() {
		id := p.Component.ID()
		if err := p.Component.Init(areas[id]); err != nil {
			if errors.Is(err, component.ErrZeroArea) {
				a.logger.Debug("component has no area yet", "component", id)
				continue
			}
			a.componentError(id, "init", err)
		}
	}
	return tea.Batch(
		event.TickEvery(a.cfg.TickInterval()),
		event.FrameEvery(a.cfg.FrameInterval()),
		a.bus.Wait(),
	)
}

// Update runs one iteration of the loop.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state.Lifecycle == Terminating {
		return a, nil
	}

	switch msg := msg.(type) {
	case bus.ReadyMsg:
		a.cmd(a.bus.Wait())
	case tea.ResumeMsg:
		a.enqueue(action.New(action.Resume))
	case task.StepDoneMsg:
		acts, cmd := a.runner.Complete(msg, a.now())
		a.enqueue(acts...)
		a.cmd(cmd)
		if !a.runner.Running() {
			a.setMode(keymap.ModeHome)
		}
	case task.DueMsg:
		a.cmd(a.runner.OnDue(msg, a.now()))
	default:
		switch msg.(type) {
		case event.TickMsg:
			a.cmd(event.TickEvery(a.cfg.TickInterval()))
		case event.FrameMsg:
			a.cmd(event.FrameEvery(a.cfg.FrameInterval()))
		}
		if ev, ok := event.FromMsg(msg); ok {
			a.handleEvent(ev)
		}
	}

	a.drain()
	if visible := a.registry.AuxVisible(); visible != a.auxVisible {
		a.relayout()
	}
	a.cmd(a.advanceLifecycle())

	cmds := a.cmds
	a.cmds = nil
	return a, tea.Batch(cmds...)
}

func (a *App) handleEvent(ev event.Event) {
	switch ev.Kind {
	case event.Key:
		if act, ok := a.resolver.Resolve(a.state.Mode, ev.Key); ok {
			a.enqueue(act)
			return
		}
		a.offer(ev)
	case event.Resize:
		a.enqueue(action.ResizeTo(ev.Width, ev.Height))
	case event.Render:
		a.enqueue(action.New(action.Render))
	case event.Tick:
		a.enqueue(action.New(action.Tick))
	case event.Quit:
		a.enqueue(action.New(action.Quit))
	default:
		a.offer(ev)
	}
}

// offer hands an unconsumed event to every component.
func (a *App) offer(ev event.Event) {
	for _, p := range a.registry.Placements() {
		if act := p.Component.HandleEvent(ev); !act.IsNone() {
			a.enqueue(act)
		}
	}
}

func (a *App) drain() {
	for pass := 0; pass < maxDrainPasses; pass++ {
		batch := a.bus.Drain()
		if len(batch) == 0 {
			return
		}
		for _, act := range batch {
			a.dispatch(act)
		}
	}
	if n := a.bus.Len(); n > 0 {
		a.logger.Warn("action drain limit reached, deferring", "passes", maxDrainPasses, "queued", n)
	}
}

func (a *App) dispatch(act action.Action) {
	if act.Kind != action.Tick && act.Kind != action.Render {
		a.logger.Debug("action", "action", act.String())
	}
	a.handle(act)
	for _, p := range a.registry.Placements() {
		out, err := p.Component.Update(act)
		if err != nil {
			a.componentError(p.Component.ID(), "update", err)
			continue
		}
		if !out.IsNone() {
			a.enqueue(out)
		}
	}
}

// handle is the loop's own reaction to an action.
func (a *App) handle(act action.Action) {
	switch act.Kind {
	case action.Tick:
		a.resolver.Reset()
		a.cmd(a.runner.OnTick(a.now()))
	case action.Resize:
		a.width, a.height = act.Width, act.Height
		a.relayout()
	case action.Render:
		a.relayout()
	case action.Suspend:
		a.state.ShouldSuspend = true
	case action.Resume:
		a.state.Lifecycle = Running
		a.relayout()
		a.cmd(tea.ClearScreen)
		a.cmd(tea.WindowSize())
	case action.Quit:
		a.state.ShouldQuit = true
		a.enqueue(a.runner.Stop("quit")...)
	case action.Cancel:
		if a.runner.Running() {
			a.enqueue(a.runner.Stop("cancelled")...)
			a.setMode(keymap.ModeHome)
		}
	case action.Ask:
		if a.runner.Awaiting() {
			a.setMode(keymap.ModeConfirm)
		}
	case action.Confirm, action.Decline:
		a.answer(act.Kind == action.Confirm)
	case action.InstallNeovimNightly, action.InstallNeviraide, action.CheckDeps, action.Refresh:
		a.startTask(act.Kind)
	}
}

// answer passes the user's reply to a task waiting on a question.
func (a *App) answer(yes bool) {
	if !a.runner.Awaiting() {
		return
	}
	acts, cmd := a.runner.Answer(yes, a.now())
	a.enqueue(acts...)
	a.cmd(cmd)
	if a.runner.Running() {
		a.setMode(keymap.ModeBusy)
	} else {
		a.setMode(keymap.ModeHome)
	}
}

func (a *App) startTask(kind action.Kind) {
	if a.planner == nil {
		return
	}
	plan, ok := a.planner.Plan(kind)
	if !ok {
		a.logger.Warn("no plan for action", "action", kind.String())
		return
	}
	acts, cmd, err := a.runner.Start(plan, a.now())
	if err != nil {
		a.enqueue(action.StatusMessage(err.Error()))
		return
	}
	a.enqueue(acts...)
	a.cmd(cmd)
	if a.runner.Running() {
		a.setMode(keymap.ModeBusy)
	}
}

func (a *App) setMode(m keymap.Mode) {
	if a.state.Mode == m {
		return
	}
	a.state.Mode = m
	a.resolver.Reset()
	a.enqueue(action.ModeChange(m))
}

// advanceLifecycle applies the quit and suspend flags. Quit wins, and a
// loop already terminating after a fatal error quits too.
func (a *App) advanceLifecycle() tea.Cmd {
	switch {
	case a.state.ShouldQuit, a.state.Lifecycle == Terminating:
		a.state.Lifecycle = Terminating
		a.teardown()
		return tea.Quit
	case a.state.ShouldSuspend:
		a.state.ShouldSuspend = false
		a.state.Lifecycle = Suspended
		return tea.Suspend
	}
	return nil
}

func (a *App) teardown() {
	if err := a.bus.Close(); err != nil {
		a.logger.Warn("close action bus", "error", err)
	}
	a.logger.Info("terminating")
}

func (a *App) relayout() {
	a.auxVisible = a.registry.AuxVisible()
	a.assignment = layout.Compute(a.width, a.height, a.auxVisible)
}

func (a *App) enqueue(acts ...action.Action) {
	for _, act := range acts {
		if err := a.bus.Send(act); err != nil {
			a.logger.Error("action bus send failed", "action", act.String(), "error", err)
			if errors.Is(err, bus.ErrClosed) {
				a.state.Lifecycle = Terminating
			}
			return
		}
	}
}

func (a *App) componentError(id component.ID, op string, err error) {
	a.logger.Error("component failed", "component", id, "op", op, "error", err)
	a.enqueue(action.Errorf("%s: %v", id, err))
}

func (a *App) cmd(c tea.Cmd) {
	if c != nil {
		a.cmds = append(a.cmds, c)
	}
}

// View draws every visible component that has room.
func (a *App) View() string {
	if a.state.Lifecycle == Terminating {
		return ""
	}
	f := frame.New(a.width, a.height)
	areas := a.registry.Areas(a.assignment)
	for _, p := range a.registry.Placements() {
		c := p.Component
		area := areas[c.ID()]
		if area.Empty() || !c.Visible() {
			continue
		}
		if err := c.Draw(f, area); err != nil {
			a.drawFailed(c.ID(), err)
			continue
		}
		delete(a.drawErrs, c.ID())
	}
	return f.String()
}

// drawFailed reports a Draw error once until the component draws again or
// fails differently; View runs on every frame.
func (a *App) drawFailed(id component.ID, err error) {
	if a.drawErrs[id] == err.Error() {
		return
	}
	a.drawErrs[id] = err.Error()
	a.componentError(id, "draw", err)
}
