// Package rlimit raises the open file limit so that a join over many
// secondary datasets does not run out of descriptors.
package rlimit

// RaiseOpenFilesLimit raises the soft limit on open files to the hard
// limit and returns the new soft limit.
func RaiseOpenFilesLimit() (int, error) {
	return raiseOpenFilesLimit()
}
