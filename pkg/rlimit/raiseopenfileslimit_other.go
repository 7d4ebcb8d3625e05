//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris)

package rlimit

import "math"

func raiseOpenFilesLimit() (int, error) {
	return math.MaxInt32, nil
}
