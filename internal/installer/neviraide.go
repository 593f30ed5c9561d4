package installer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"neviraller/internal/shell"
	"neviraller/internal/task"
)

func (p *Planner) installNeviraide() task.Plan {
	cfg := p.cfg.Neviraide
	target := cfg.NvimConfigDir()

	return task.Plan{Name: "Install NEVIRAIDE", Steps: []task.Step{
		{
			Name: "check git",
			Run: func(context.Context) (task.Outcome, error) {
				path, err := p.look("git")
				if err != nil {
					return task.Outcome{}, fmt.Errorf("git is required: %w", err)
				}
				return task.Outcome{Status: "using " + path}, nil
			},
		},
		{
			Name: "clone",
			Run: func(ctx context.Context) (task.Outcome, error) {
				if err := os.RemoveAll(cfg.CloneDir); err != nil {
					return task.Outcome{}, fmt.Errorf("clear %s: %w", cfg.CloneDir, err)
				}
				clone := shell.Command{Name: "git", Args: []string{"clone", "--depth", "1", cfg.RepoURL, cfg.CloneDir}}
				if _, err := p.runner.Run(ctx, clone); err != nil {
					return task.Outcome{}, fmt.Errorf("git clone: %w", err)
				}
				return task.Outcome{Status: "cloned " + cfg.RepoURL}, nil
			},
		},
		{
			Name: "backup",
			Run: func(context.Context) (task.Outcome, error) {
				dest, err := backup(target, time.Now())
				switch {
				case err != nil:
					return task.Outcome{}, err
				case dest == "":
					return task.Outcome{Status: "no existing configuration in " + target}, nil
				}
				return task.Outcome{Status: fmt.Sprintf("moved %s to %s", target, dest)}, nil
			},
		},
		{
			Name: "copy",
			Run: func(ctx context.Context) (task.Outcome, error) {
				cp := shell.Command{Name: "cp", Args: []string{"-r", cfg.CloneDir, target}}
				if _, err := p.runner.Run(ctx, cp); err != nil {
					return task.Outcome{}, fmt.Errorf("copy configuration: %w", err)
				}
				return task.Outcome{Status: "copied configuration to " + target}, nil
			},
		},
		{
			Name: "cleanup",
			Run: func(context.Context) (task.Outcome, error) {
				if err := os.RemoveAll(cfg.CloneDir); err != nil {
					p.logger.Warn("remove clone directory", "dir", cfg.CloneDir, "error", err)
				}
				return task.Done("NEVIRAIDE installed in " + target), nil
			},
		},
	}}
}

// backup moves an existing configuration directory aside to dir.old, or
// dir.old.<timestamp> when dir.old is taken. It returns "" when there was
// nothing to move.
func backup(dir string, now time.Time) (string, error) {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("stat %s: %w", dir, err)
	}
	dest := dir + ".old"
	if _, err := os.Stat(dest); err == nil {
		dest = dir + ".old." + now.Format("20060102-150405")
	}
	if err := os.Rename(dir, dest); err != nil {
		return "", fmt.Errorf("back up %s: %w", dir, err)
	}
	return dest, nil
}
