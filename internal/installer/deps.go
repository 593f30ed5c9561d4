package installer

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"neviraller/internal/deps"
	"neviraller/internal/task"
)

// checkDeps probes one tool per step and reports the summary. When tools
// are missing and a package manager is available it offers to install
// them; the install runs with the terminal so sudo can prompt.
func (p *Planner) checkDeps() task.Plan {
	var (
		statuses []deps.Status
		missing  []deps.Dependency
		manager  deps.Manager
	)
	steps := make([]task.Step, 0, len(p.tools)+2)
	for _, d := range p.tools {
		steps = append(steps, task.Step{
			Name: "probe " + d.Name,
			Run: func(context.Context) (task.Outcome, error) {
				s := deps.Probe(d, p.look)
				statuses = append(statuses, s)
				return task.Outcome{Status: s.Line()}, nil
			},
		})
	}
	steps = append(steps,
		task.Step{
			Name: "summary",
			Run: func(context.Context) (task.Outcome, error) {
				status := deps.Summary(statuses)
				missing = deps.Missing(statuses)
				if len(missing) == 0 {
					return task.Done(status), nil
				}
				p.logger.Info("missing dependencies", "count", len(missing))
				managers := deps.DetectManagers(p.look)
				if len(managers) == 0 {
					return task.Done(status + "\nno supported package manager found"), nil
				}
				manager = managers[0]
				return task.Outcome{
					Status: status + "\n" + deps.Suggest(missing, managers),
					Ask:    fmt.Sprintf("Install %s with %s?", names(missing), manager.Name),
				}, nil
			},
		},
		task.Step{
			Name: "install missing",
			Exec: func() *exec.Cmd {
				return manager.InstallCommand(missing).Cmd(context.Background())
			},
			Status: "missing dependencies installed",
		},
	)
	return task.Plan{Name: "Check dependencies", Steps: steps}
}

func names(list []deps.Dependency) string {
	out := make([]string, len(list))
	for i, d := range list {
		out[i] = d.Name
	}
	return strings.Join(out, ", ")
}
