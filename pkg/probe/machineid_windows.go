//go:build windows

package probe

import (
	"context"

	"golang.org/x/sys/windows/registry"

	"github.com/frostleo/atlas/pkg/errors"
)

func readMachineID(_ context.Context) (string, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`SOFTWARE\Microsoft\Cryptography`, registry.QUERY_VALUE|registry.WOW64_64KEY)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUnavailable, "failed to open cryptography registry key", err)
	}
	defer key.Close()

	id, _, err := key.GetStringValue("MachineGuid")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUnavailable, "failed to read MachineGuid", err)
	}
	return id, nil
}
