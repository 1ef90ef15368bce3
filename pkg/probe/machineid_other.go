//go:build !linux && !darwin && !windows

package probe

import (
	"context"

	"github.com/frostleo/atlas/pkg/errors"
)

func readMachineID(_ context.Context) (string, error) {
	return "", errors.New(errors.ErrCodeUnsupported, "no machine identifier source on this platform")
}
