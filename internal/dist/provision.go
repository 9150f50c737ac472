package dist

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"
	"k8s.io/klog/v2"

	"github.com/danieljhkim/hadoop-node/internal/env"
	"github.com/danieljhkim/hadoop-node/internal/util"
)

// Provisioner applies a descriptor's users, groups, directories and packages
// to the host. Each bulk operation keeps going past individual failures and
// returns them combined.
type Provisioner struct {
	desc   *Descriptor
	runner env.Runner

	// Chown sets directory ownership. Defaults to util.Chown.
	Chown func(path, owner, group string) error
}

// NewProvisioner creates a provisioner for d.
func NewProvisioner(d *Descriptor, r env.Runner) *Provisioner {
	return &Provisioner{desc: d, runner: r, Chown: util.Chown}
}

// exists asks getent whether name is present in database (passwd or group).
func (p *Provisioner) exists(database, name string) (bool, error) {
	_, err := p.runner.Run(env.Command{Name: "getent", Args: []string{database, name}})
	if err == nil {
		return true, nil
	}
	// getent exits 2 when the key is not found.
	if env.ExitCodeOf(err) == 2 {
		return false, nil
	}
	return false, err
}

// ProvisionUsersAndGroups creates missing groups, then missing users with
// their first group as primary, then adds every user to each of its groups.
func (p *Provisioner) ProvisionUsersAndGroups() error {
	var errs error

	for _, g := range p.desc.Groups {
		found, err := p.exists("group", g)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to look up group %s: %w", g, err))
			continue
		}
		if found {
			continue
		}
		if _, err := p.runner.Run(env.Command{Name: "groupadd", Args: []string{g}}); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to create group %s: %w", g, err))
		}
	}

	for _, u := range p.desc.Users {
		found, err := p.exists("passwd", u.Name)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to look up user %s: %w", u.Name, err))
			continue
		}
		if !found {
			args := []string{"--system", "--create-home", "--shell", "/bin/bash"}
			if len(u.Groups) > 0 {
				args = append(args, "-g", u.Groups[0])
			}
			args = append(args, u.Name)
			if _, err := p.runner.Run(env.Command{Name: "useradd", Args: args}); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("failed to create user %s: %w", u.Name, err))
				continue
			}
		}
		for _, g := range u.Groups {
			if _, err := p.runner.Run(env.Command{Name: "usermod", Args: []string{"-a", "-G", g, u.Name}}); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("failed to add %s to %s: %w", u.Name, g, err))
			}
		}
	}

	return errs
}

// ProvisionDirectories creates every descriptor directory and applies its
// owner, group and mode. Existing directories are brought into line too.
func (p *Provisioner) ProvisionDirectories() error {
	var errs error
	for _, dir := range p.desc.Dirs {
		path, err := p.desc.ResolvePath(dir.Name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		klog.V(2).Infof("provisioning dir %s -> %s (%s:%s %s)", dir.Name, path, dir.Owner, dir.Group, dir.Perms)

		if err := os.MkdirAll(path, dir.Perms); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to create %s: %w", path, err))
			continue
		}
		// chown can clear setuid and setgid, so the mode goes on last.
		if err := p.Chown(path, dir.Owner, dir.Group); err != nil {
			errs = multierr.Append(errs, err)
		}
		if err := os.Chmod(path, dir.Perms); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to chmod %s: %w", path, err))
		}
	}
	return errs
}

// ProvisionPackages installs the descriptor's packages in one apt
// transaction with the host firewall turned off.
func (p *Provisioner) ProvisionPackages() error {
	if len(p.desc.Packages) == 0 {
		return nil
	}
	return WithFirewallDisabled(p.runner, func() error {
		aptEnv := append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")
		if _, err := p.runner.Run(env.Command{Name: "apt-get", Args: []string{"update", "-q"}, Env: aptEnv}); err != nil {
			return fmt.Errorf("failed to update package index: %w", err)
		}
		args := append([]string{"install", "-y", "-q", "--no-install-recommends"}, p.desc.Packages...)
		if _, err := p.runner.Run(env.Command{Name: "apt-get", Args: args, Env: aptEnv}); err != nil {
			return fmt.Errorf("failed to install packages: %w", err)
		}
		return nil
	})
}

// DeprovisionUsersAndGroups does not remove anything; it only logs.
func (p *Provisioner) DeprovisionUsersAndGroups() error {
	names := make([]string, len(p.desc.Users))
	for i, u := range p.desc.Users {
		names[i] = u.Name
	}
	util.Log("noop: remove users %s and groups %s", strings.Join(names, ", "), strings.Join(p.desc.Groups, ", "))
	return nil
}

// DeprovisionDirectories does not remove anything; it only logs.
func (p *Provisioner) DeprovisionDirectories() error {
	util.Log("noop: remove dirs %s", strings.Join(p.desc.DirNames(), ", "))
	return nil
}

// DeprovisionPackages does not remove anything; it only logs.
func (p *Provisioner) DeprovisionPackages() error {
	util.Log("noop: remove packages %s", strings.Join(p.desc.Packages, ", "))
	return nil
}
