// Package installer builds the task plans behind the menu: installing
// Neovim nightly, installing NEVIRAIDE, checking dependencies and
// refreshing the version check.
package installer

import (
	"log/slog"
	"net/http"
	"os"

	"neviraller/internal/action"
	"neviraller/internal/config"
	"neviraller/internal/deps"
	"neviraller/internal/nightly"
	"neviraller/internal/shell"
	"neviraller/internal/task"
)

// Planner maps domain actions to plans. It satisfies app.Planner.
type Planner struct {
	cfg     config.Config
	runner  shell.Runner
	client  *http.Client
	look    shell.LookPath
	logger  *slog.Logger
	tempDir string
	tools   []deps.Dependency
}

// Option configures a Planner.
type Option func(*Planner)

// WithShell sets the command runner.
func WithShell(r shell.Runner) Option {
	return func(p *Planner) { p.runner = r }
}

// WithHTTPClient sets the client for the release page and the download.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Planner) { p.client = c }
}

// WithLookPath sets the PATH lookup used for dependency checks.
func WithLookPath(l shell.LookPath) Option {
	return func(p *Planner) { p.look = l }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) { p.logger = l }
}

// WithTempDir sets where downloads are staged.
func WithTempDir(dir string) Option {
	return func(p *Planner) { p.tempDir = dir }
}

// WithDependencies replaces the checked tool list.
func WithDependencies(list []deps.Dependency) Option {
	return func(p *Planner) { p.tools = list }
}

// NewPlanner creates a planner over cfg.
func NewPlanner(cfg config.Config, opts ...Option) *Planner {
	p := &Planner{
		cfg:     cfg,
		runner:  &shell.PTYRunner{},
		client:  &http.Client{},
		look:    shell.SystemLookPath,
		logger:  slog.New(slog.DiscardHandler),
		tempDir: os.TempDir(),
		tools:   deps.Defaults(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Plan returns the plan for kind. ok is false for kinds without one.
func (p *Planner) Plan(kind action.Kind) (task.Plan, bool) {
	var plan task.Plan
	switch kind {
	case action.InstallNeovimNightly:
		plan = p.installNightly()
	case action.Refresh:
		plan = p.refresh()
	case action.InstallNeviraide:
		plan = p.installNeviraide()
	case action.CheckDeps:
		plan = p.checkDeps()
	default:
		return task.Plan{}, false
	}
	plan.Pace = p.cfg.StepPace
	return plan, true
}

func (p *Planner) scraper() *nightly.Scraper {
	return &nightly.Scraper{Client: p.client, URL: p.cfg.Nightly.ReleaseURL, Logger: p.logger}
}
