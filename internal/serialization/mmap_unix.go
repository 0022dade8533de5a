//go:build unix

package serialization

import (
	"os"
	"syscall"
)

// mmapFile maps a file read-only into memory (Unix implementation).
func mmapFile(f *os.File, size int64) ([]byte, error) {
	return syscall.Mmap(
		int(f.Fd()), //nolint:gosec // G115: file descriptor fits in int
		0,
		int(size), //nolint:gosec // G115: file size validated by caller
		syscall.PROT_READ,
		syscall.MAP_SHARED,
	)
}

// munmapFile releases a mapping created by mmapFile (Unix implementation).
func munmapFile(data []byte) error {
	return syscall.Munmap(data)
}
