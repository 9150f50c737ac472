package dist

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/danieljhkim/hadoop-node/internal/env"
	"github.com/danieljhkim/hadoop-node/internal/util"
)

// WithFirewallDisabled runs fn with ufw turned off, turning it back on
// afterwards if it was active. Hosts without ufw just run fn.
func WithFirewallDisabled(r env.Runner, fn func() error) (err error) {
	if _, lookErr := r.LookPath("ufw"); lookErr != nil {
		return fn()
	}

	res, statusErr := r.Run(env.Command{Name: "ufw", Args: []string{"status"}})
	if statusErr != nil {
		return fmt.Errorf("failed to read firewall status: %w", statusErr)
	}
	if strings.Contains(res.Stdout, "inactive") {
		return fn()
	}

	util.Log("Disabling firewall for package installation")
	if _, err := r.Run(env.Command{Name: "ufw", Args: []string{"disable"}}); err != nil {
		return fmt.Errorf("failed to disable firewall: %w", err)
	}
	defer func() {
		if _, enableErr := r.Run(env.Command{Name: "ufw", Args: []string{"--force", "enable"}}); enableErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to re-enable firewall: %w", enableErr))
		}
	}()

	return fn()
}
