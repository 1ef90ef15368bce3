//go:build !linux && !darwin

package probe

func readCacheSizes() cacheSizes {
	return cacheSizes{}
}

func readFreqRange() freqRange {
	return freqRange{}
}
