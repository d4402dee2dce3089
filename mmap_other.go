//go:build !unix

package geodesy

import "fmt"

func mapFile(fd uintptr, size int) ([]byte, error) {
	return nil, fmt.Errorf("memory mapping is not supported on this platform")
}

func unmapFile(data []byte) error {
	return nil
}
