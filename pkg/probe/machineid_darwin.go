//go:build darwin

package probe

import (
	"context"
	"os/exec"
	"regexp"

	"golang.org/x/sys/unix"

	"github.com/frostleo/atlas/pkg/errors"
)

var ioPlatformUUIDRe = regexp.MustCompile(`"IOPlatformUUID"\s*=\s*"([^"]+)"`)

func readMachineID(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "ioreg", "-rd1", "-c", "IOPlatformExpertDevice").Output()
	if err == nil {
		if m := ioPlatformUUIDRe.FindSubmatch(out); m != nil {
			return string(m[1]), nil
		}
	}
	// Happens in sandboxed environments where ioreg is unavailable.
	id, serr := unix.Sysctl("kern.uuid")
	if serr != nil {
		return "", errors.Wrap(errors.ErrCodeUnavailable, "neither ioreg nor kern.uuid yielded an identifier", serr)
	}
	return id, nil
}
