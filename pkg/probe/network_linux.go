//go:build linux

package probe

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// linkSpeedMbps reads the negotiated link speed from sysfs. Virtual and
// wireless interfaces report -1 or nothing; those stay absent.
func linkSpeedMbps(name string) *int64 {
	data, err := os.ReadFile(filepath.Join("/sys/class/net", name, "speed"))
	if err != nil {
		return nil
	}
	speed, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil || speed <= 0 {
		return nil
	}
	return &speed
}
