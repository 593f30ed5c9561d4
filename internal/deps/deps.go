// Package deps probes the system for the tools NEVIRAIDE relies on and for
// a package manager that can install the missing ones.
package deps

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"neviraller/internal/shell"
)

// Dependency is one external tool.
type Dependency struct {
	Name       string // package name
	Command    string // binary looked up on PATH
	RequiredBy string
}

// Status is the probe result for one dependency.
type Status struct {
	Dependency
	Path   string
	Exists bool
}

// Defaults lists the tools NEVIRAIDE needs.
func Defaults() []Dependency {
	return []Dependency{
		{Name: "curl", Command: "curl", RequiredBy: "Mason.nvim"},
		{Name: "fd", Command: "fd", RequiredBy: "Telescope.nvim"},
		{Name: "git", Command: "git", RequiredBy: "Work with git"},
		{Name: "npm", Command: "npm", RequiredBy: "Mason.nvim"},
		{Name: "ripgrep", Command: "rg", RequiredBy: "Telescope.nvim"},
		{Name: "tar", Command: "tar", RequiredBy: "Mason.nvim"},
		{Name: "unzip", Command: "unzip", RequiredBy: "Mason.nvim"},
		{Name: "wget", Command: "wget", RequiredBy: "Neovim Nightly updater"},
	}
}

// Probe checks a single dependency.
func Probe(d Dependency, look shell.LookPath) Status {
	if look == nil {
		look = shell.SystemLookPath
	}
	path, err := look(d.Command)
	return Status{Dependency: d, Path: path, Exists: err == nil}
}

// Check probes every dependency in order.
func Check(list []Dependency, look shell.LookPath) []Status {
	out := make([]Status, 0, len(list))
	for _, d := range list {
		out = append(out, Probe(d, look))
	}
	return out
}

// Missing filters the statuses that were not found.
func Missing(statuses []Status) []Dependency {
	var out []Dependency
	for _, s := range statuses {
		if !s.Exists {
			out = append(out, s.Dependency)
		}
	}
	return out
}

// Line formats one status for the status pane in fixed-width columns.
func (s Status) Line() string {
	icon := "✗"
	if s.Exists {
		icon = "✓"
	}
	return strings.Join([]string{
		icon,
		runewidth.FillRight(s.Name, 8),
		runewidth.FillRight(s.Command, 6),
		s.RequiredBy,
	}, " ")
}

// Summary reports the missing count the way the status pane shows it.
func Summary(statuses []Status) string {
	missing := len(Missing(statuses))
	if missing == 0 {
		return "All dependencies are present"
	}
	return fmt.Sprintf("%d out of %d is missing", missing, len(statuses))
}

// Manager is a package manager and how it installs packages.
type Manager struct {
	Name    string
	Install []string // argv prefix, package names are appended
	Sudo    bool
}

// Managers lists the supported package managers in detection order.
var Managers = []Manager{
	{Name: "apt", Install: []string{"apt", "install", "-y"}, Sudo: true},
	{Name: "yum", Install: []string{"yum", "install", "-y"}, Sudo: true},
	{Name: "dnf", Install: []string{"dnf", "install", "-y"}, Sudo: true},
	{Name: "pacman", Install: []string{"pacman", "-S", "--noconfirm"}, Sudo: true},
	{Name: "zypper", Install: []string{"zypper", "install", "-y"}, Sudo: true},
	{Name: "brew", Install: []string{"brew", "install"}},
	{Name: "yay", Install: []string{"yay", "-S", "--noconfirm"}},
	{Name: "paru", Install: []string{"paru", "-S", "--noconfirm"}},
}

// DetectManagers returns the package managers found on PATH.
func DetectManagers(look shell.LookPath) []Manager {
	if look == nil {
		look = shell.SystemLookPath
	}
	var out []Manager
	for _, m := range Managers {
		if _, err := look(m.Name); err == nil {
			out = append(out, m)
		}
	}
	return out
}

// InstallCommand builds the command that installs pkgs with m.
func (m Manager) InstallCommand(pkgs []Dependency) shell.Command {
	args := append([]string{}, m.Install...)
	for _, p := range pkgs {
		args = append(args, m.packageName(p))
	}
	if m.Sudo {
		return shell.Command{Name: "sudo", Args: args}
	}
	return shell.Command{Name: args[0], Args: args[1:]}
}

// packageName maps tool names that differ per distribution.
func (m Manager) packageName(d Dependency) string {
	if d.Name == "fd" && m.Name == "apt" {
		return "fd-find"
	}
	return d.Name
}

// Suggest returns a human-readable install hint for the missing tools, or
// "" when nothing is missing or no manager was found.
func Suggest(missing []Dependency, managers []Manager) string {
	if len(missing) == 0 || len(managers) == 0 {
		return ""
	}
	return "install with: " + strings.TrimSpace(managers[0].InstallCommand(missing).String())
}
