package installer

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"neviraller/internal/nightly"
	"neviraller/internal/shell"
	"neviraller/internal/task"
)

// versionCheck carries the scraped version to the later steps of a plan.
type versionCheck struct {
	latest nightly.Version
}

func (p *Planner) refresh() task.Plan {
	return task.Plan{Name: "Check Neovim version", Steps: p.versionSteps(&versionCheck{}, false)}
}

func (p *Planner) installNightly() task.Plan {
	vc := &versionCheck{}
	cfg := p.cfg.Nightly
	staged := filepath.Join(p.tempDir, "nvim.appimage")

	steps := p.versionSteps(vc, true)
	steps = append(steps,
		task.Step{
			Name: "download",
			Run: func(ctx context.Context) (task.Outcome, error) {
				n, err := nightly.Download(ctx, p.client, cfg.AppImageURL, staged)
				if err != nil {
					return task.Outcome{}, err
				}
				return task.Outcome{Status: fmt.Sprintf("downloaded %s (%.1f MB)", vc.latest, float64(n)/(1<<20))}, nil
			},
		},
		task.Step{
			Name: "install",
			// sudo may prompt for a password, so the child gets the terminal.
			Exec: func() *exec.Cmd {
				return shell.Command{Name: "sudo", Args: []string{"mv", staged, cfg.InstallPath}}.Cmd(context.Background())
			},
			Status: "installed to " + cfg.InstallPath,
		},
	)
	return task.Plan{Name: "Install Neovim nightly", Steps: steps}
}

// versionSteps fetch the latest nightly and compare it with the installed
// nvim. The plan finishes early when nothing newer is available; with ask
// set it then waits for the user to accept the install.
func (p *Planner) versionSteps(vc *versionCheck, ask bool) []task.Step {
	return []task.Step{
		{
			Name: "fetch latest version",
			Run: func(ctx context.Context) (task.Outcome, error) {
				if t := p.cfg.Nightly.Timeout; t > 0 {
					var cancel context.CancelFunc
					ctx, cancel = context.WithTimeout(ctx, t)
					defer cancel()
				}
				v, err := p.scraper().Latest(ctx)
				if err != nil {
					return task.Outcome{}, err
				}
				vc.latest = v
				return task.Outcome{Status: "latest nightly: " + v.String()}, nil
			},
		},
		{
			Name: "check installed version",
			Run: func(ctx context.Context) (task.Outcome, error) {
				v, ok, err := nightly.Installed(ctx, p.runner)
				if err != nil {
					return task.Outcome{}, err
				}
				var out task.Outcome
				switch {
				case !ok:
					out.Status = "nvim is not installed"
					if ask {
						out.Ask = fmt.Sprintf("Install Neovim nightly %s?", vc.latest)
					}
				case !nightly.Newer(v, vc.latest):
					return task.Done("Neovim is up to date (" + v.String() + ")"), nil
				default:
					p.logger.Info("nightly update available", "installed", v.String(), "latest", vc.latest.String())
					out.Status = fmt.Sprintf("update available: %s -> %s", v, vc.latest)
					if ask {
						out.Ask = fmt.Sprintf("Update Neovim to %s?", vc.latest)
					}
				}
				return out, nil
			},
		},
	}
}
