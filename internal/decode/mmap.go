package decode

import (
	"io"
	"os"

	"golang.org/x/exp/mmap"
)

// mmapReader adapts golang.org/x/exp/mmap's ReaderAt (random access,
// no syscall per read once mapped) to io.ReadSeeker so it can stand
// in for a buffered *os.File in the decoder implementations below.
type mmapReader struct {
	ra  *mmap.ReaderAt
	off int64
}

func newMmapReader(f *os.File) (*mmapReader, error) {
	ra, err := mmap.Open(f.Name())
	if err != nil {
		return nil, err
	}
	// The os.File handle itself is no longer needed once the mapping
	// is open; the mmap.ReaderAt holds its own descriptor.
	f.Close()
	return &mmapReader{ra: ra}, nil
}

func (m *mmapReader) Read(p []byte) (int, error) {
	if m.off >= m.ra.Len() {
		return 0, io.EOF
	}
	n, err := m.ra.ReadAt(p, m.off)
	m.off += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

func (m *mmapReader) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = m.off
	case io.SeekEnd:
		base = m.ra.Len()
	}
	m.off = base + offset
	return m.off, nil
}

func (m *mmapReader) Close() error {
	return m.ra.Close()
}
