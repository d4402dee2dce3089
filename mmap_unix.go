//go:build unix

package geodesy

import "syscall"

// mapFile memory-maps a file read-only. The file descriptor may be
// closed once the mapping exists.
func mapFile(fd uintptr, size int) ([]byte, error) {
	return syscall.Mmap(int(fd), 0, size, syscall.PROT_READ, syscall.MAP_PRIVATE)
}

func unmapFile(data []byte) error {
	return syscall.Munmap(data)
}
