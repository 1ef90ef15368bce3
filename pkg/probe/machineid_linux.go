//go:build linux

package probe

import (
	"context"
	"os"

	"github.com/frostleo/atlas/pkg/errors"
)

// systemd writes /etc/machine-id; older D-Bus installs keep a copy
// under /var/lib/dbus.
var machineIDPaths = []string{
	"/etc/machine-id",
	"/var/lib/dbus/machine-id",
}

func readMachineID(_ context.Context) (string, error) {
	var lastErr error
	for _, path := range machineIDPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			lastErr = err
			continue
		}
		return string(data), nil
	}
	return "", errors.Wrap(errors.ErrCodeUnavailable, "no machine-id file readable", lastErr)
}
