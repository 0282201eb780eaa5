//go:build linux

package archive

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential tells the kernel the archive is read front to back once.
// It is only a hint; failures are ignored.
func adviseSequential(f *os.File) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}

// syncData flushes file data (not metadata) to disk.
func syncData(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}
