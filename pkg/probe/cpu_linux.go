//go:build linux

package probe

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	sysCPUCacheGlob = "/sys/devices/system/cpu/cpu0/cache/index*"
	sysCPUFreqDir   = "/sys/devices/system/cpu/cpu0/cpufreq"
)

// readCacheSizes walks the sysfs cache topology of cpu0. Data caches
// at the same level are summed with their unified siblings; instruction
// caches are skipped to match how vendors advertise capacity.
func readCacheSizes() cacheSizes {
	var sizes cacheSizes
	indexes, err := filepath.Glob(sysCPUCacheGlob)
	if err != nil {
		return sizes
	}
	for _, dir := range indexes {
		typ := readSysString(filepath.Join(dir, "type"))
		if typ == "Instruction" {
			continue
		}
		level, err := strconv.Atoi(readSysString(filepath.Join(dir, "level")))
		if err != nil {
			continue
		}
		size, ok := parseCacheSize(readSysString(filepath.Join(dir, "size")))
		if !ok {
			continue
		}
		switch level {
		case 1:
			sizes.l1 = addSize(sizes.l1, size)
		case 2:
			sizes.l2 = addSize(sizes.l2, size)
		case 3:
			sizes.l3 = addSize(sizes.l3, size)
		}
	}
	return sizes
}

// readFreqRange reads the cpufreq envelope of cpu0 in kHz and converts
// to MHz. Boxes without cpufreq (VMs, some containers) report nothing.
func readFreqRange() freqRange {
	var fr freqRange
	if khz, ok := readSysUint(filepath.Join(sysCPUFreqDir, "cpuinfo_min_freq")); ok {
		mhz := float64(khz) / 1000
		fr.min = &mhz
	}
	if khz, ok := readSysUint(filepath.Join(sysCPUFreqDir, "cpuinfo_max_freq")); ok {
		mhz := float64(khz) / 1000
		fr.max = &mhz
	}
	return fr
}

// parseCacheSize converts sysfs size notation ("32K", "8192K", "16M")
// to bytes.
func parseCacheSize(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	mult := uint64(1)
	switch s[len(s)-1] {
	case 'K':
		mult = 1024
		s = s[:len(s)-1]
	case 'M':
		mult = 1024 * 1024
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n * mult, true
}

func addSize(cur *uint64, n uint64) *uint64 {
	if cur == nil {
		return &n
	}
	total := *cur + n
	return &total
}

func readSysString(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func readSysUint(path string) (uint64, bool) {
	n, err := strconv.ParseUint(readSysString(path), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
