//go:build unix

package source

import (
	"os"
	"syscall"
)

// MmapSource is a slice-backed Source over a memory-mapped file.
// OpenMmap creates the mapping and Close releases it; reads go
// through an embedded SliceSource over the mapped bytes.
type MmapSource struct {
	*SliceSource
	data []byte
	f    *os.File
}

// OpenMmap memory-maps path read-only and returns a slice-backed
// Source over its contents. The mapping is released on Close.
func OpenMmap(path string) (*MmapSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return &MmapSource{SliceSource: NewSlice(nil), f: f}, nil
	}
	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &MmapSource{SliceSource: NewSlice(data), data: data, f: f}, nil
}

// Close unmaps the file and releases the underlying descriptor.
func (m *MmapSource) Close() error {
	var err error
	if m.data != nil {
		err = syscall.Munmap(m.data)
		m.data = nil
	}
	if m.f != nil {
		if cerr := m.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
