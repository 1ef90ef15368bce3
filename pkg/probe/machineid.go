package probe

import (
	"context"
	"log/slog"
	"net"
	"os"
	"strings"

	"github.com/google/uuid"
)

// machineID returns a stable identifier for this machine. It prefers
// the OS-provided identifier and falls back to one derived from stable
// hardware traits when the platform source is unavailable.
func machineID(ctx context.Context) (string, error) {
	id, err := readMachineID(ctx)
	if err == nil {
		id = strings.TrimSpace(id)
		if id != "" {
			return id, nil
		}
	} else {
		slog.Debug("platform machine identifier unavailable, deriving one", "error", err)
	}
	return derivedMachineID(), nil
}

// derivedMachineID builds a deterministic UUID from the hostname and
// first hardware address, so repeated runs on the same box agree even
// without an OS identifier. With no traits at all the identifier is
// random per call.
func derivedMachineID() string {
	var traits []string
	if host, err := os.Hostname(); err == nil && host != "" {
		traits = append(traits, host)
	}
	if ifaces, err := net.Interfaces(); err == nil {
		for _, iface := range ifaces {
			if iface.Flags&net.FlagLoopback != 0 {
				continue
			}
			if hw := iface.HardwareAddr.String(); hw != "" {
				traits = append(traits, hw)
				break
			}
		}
	}
	if len(traits) == 0 {
		return uuid.NewString()
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.Join(traits, "|"))).String()
}
