//go:build darwin

package probe

import "golang.org/x/sys/unix"

// readCacheSizes queries the hw sysctl tree. The L1 figure is the data
// cache only, matching what Apple reports per performance core.
func readCacheSizes() cacheSizes {
	var sizes cacheSizes
	sizes.l1 = sysctlSize("hw.l1dcachesize")
	sizes.l2 = sysctlSize("hw.l2cachesize")
	sizes.l3 = sysctlSize("hw.l3cachesize")
	return sizes
}

// readFreqRange reports nothing on darwin. Apple silicon does not
// expose a frequency envelope through sysctl, and the legacy
// hw.cpufrequency keys disappeared with the Intel machines.
func readFreqRange() freqRange {
	return freqRange{}
}

func sysctlSize(name string) *uint64 {
	n, err := unix.SysctlUint64(name)
	if err != nil || n == 0 {
		return nil
	}
	return &n
}
