//go:build !linux

package archive

import "os"

func adviseSequential(*os.File) {}

func syncData(f *os.File) error { return f.Sync() }
