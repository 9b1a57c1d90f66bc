package vfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Volume provides block access to a disk image.
type Volume interface {
	// ReadBlock reads block n into buf, which must be BlockSize long.
	ReadBlock(n int, buf []byte) error

	// WriteBlock writes buf, which must be BlockSize long, to block n.
	WriteBlock(n int, buf []byte) error

	// Size reports how big the volume is, in whole blocks.
	Size() (int, error)

	// Sync makes all completed writes durable.
	Sync() error

	// Close releases the volume. It is unusable afterwards.
	Close() error
}

func checkBlock(n int, buf []byte) error {
	if len(buf) != BlockSize {
		return fmt.Errorf("buffer is not block sized (%d bytes): %w", len(buf), ErrInvalidArgument)
	}
	if n < 0 || n >= BlockCount {
		return OutOfRange{n, BlockCount - 1}
	}
	return nil
}

var _ Volume = (*FileVolume)(nil)

// FileVolume is a Volume backed by an image file on the host.
type FileVolume struct {
	path string
	fd   int
}

// PrepareVolumeFile creates a zero filled image file of VolumeSize bytes.
func PrepareVolumeFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		_ = f.Close()
	}()

	return f.Truncate(VolumeSize)
}

// NewFileVolume opens an existing image. It never creates one.
func NewFileVolume(path string) (*FileVolume, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return &FileVolume{path: path, fd: fd}, nil
}

func (v *FileVolume) ReadBlock(n int, buf []byte) error {
	if err := checkBlock(n, buf); err != nil {
		return err
	}
	read, err := unix.Pread(v.fd, buf, BlockToAddress(n))
	if err != nil {
		return fmt.Errorf("reading block %d of %s: %w", n, v.path, err)
	}
	if read != len(buf) {
		return fmt.Errorf("block %d of %s: read %d bytes: %w", n, v.path, read, ErrShortBlock)
	}
	return nil
}

func (v *FileVolume) WriteBlock(n int, buf []byte) error {
	if err := checkBlock(n, buf); err != nil {
		return err
	}
	written, err := unix.Pwrite(v.fd, buf, BlockToAddress(n))
	if err != nil {
		return fmt.Errorf("writing block %d of %s: %w", n, v.path, err)
	}
	if written != len(buf) {
		return fmt.Errorf("block %d of %s: short write of %d bytes", n, v.path, written)
	}
	return nil
}

func (v *FileVolume) Size() (int, error) {
	var stat unix.Stat_t
	if err := unix.Fstat(v.fd, &stat); err != nil {
		return 0, err
	}
	if stat.Size%BlockSize != 0 {
		return 0, fmt.Errorf("%s has %d bytes: %w", v.path, stat.Size, ErrImageSize)
	}
	return int(stat.Size / BlockSize), nil
}

func (v *FileVolume) Sync() error {
	return unix.Fsync(v.fd)
}

func (v *FileVolume) Close() error {
	return unix.Close(v.fd)
}

var _ Volume = (*MemVolume)(nil)

// MemVolume keeps the whole image in memory.
type MemVolume struct {
	l      *sync.RWMutex
	blocks [][BlockSize]byte
}

func NewMemVolume() *MemVolume {
	return &MemVolume{l: new(sync.RWMutex), blocks: make([][BlockSize]byte, BlockCount)}
}

// NewMemVolumeFromBytes copies an image; a short image leaves the tail
// unreadable so that superblock loads can fail the way a truncated file does.
func NewMemVolumeFromBytes(image []byte) *MemVolume {
	v := &MemVolume{l: new(sync.RWMutex)}
	for len(image) >= BlockSize && len(v.blocks) < BlockCount {
		var block [BlockSize]byte
		copy(block[:], image[:BlockSize])
		v.blocks = append(v.blocks, block)
		image = image[BlockSize:]
	}
	return v
}

func (v *MemVolume) ReadBlock(n int, buf []byte) error {
	if err := checkBlock(n, buf); err != nil {
		return err
	}
	v.l.RLock()
	defer v.l.RUnlock()
	if n >= len(v.blocks) {
		return fmt.Errorf("block %d: %w", n, ErrShortBlock)
	}
	copy(buf, v.blocks[n][:])
	return nil
}

func (v *MemVolume) WriteBlock(n int, buf []byte) error {
	if err := checkBlock(n, buf); err != nil {
		return err
	}
	v.l.Lock()
	defer v.l.Unlock()
	for n >= len(v.blocks) {
		v.blocks = append(v.blocks, [BlockSize]byte{})
	}
	copy(v.blocks[n][:], buf)
	return nil
}

func (v *MemVolume) Size() (int, error) {
	v.l.RLock()
	defer v.l.RUnlock()
	return len(v.blocks), nil
}

func (v *MemVolume) Bytes() []byte {
	v.l.RLock()
	defer v.l.RUnlock()
	image := make([]byte, 0, len(v.blocks)*BlockSize)
	for _, block := range v.blocks {
		image = append(image, block[:]...)
	}
	return image
}

func (v *MemVolume) Sync() error { return nil }

func (v *MemVolume) Close() error { return nil }

// WriteStruct encodes data little endian and writes it at the start of
// block n, zero padding the rest of the block.
func WriteStruct(v Volume, n int, data interface{}) error {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, data); err != nil {
		return err
	}
	if buf.Len() > BlockSize {
		return fmt.Errorf("struct of %d bytes does not fit a block: %w", buf.Len(), ErrInvalidArgument)
	}
	block := make([]byte, BlockSize)
	copy(block, buf.Bytes())
	return v.WriteBlock(n, block)
}

// ReadStruct decodes data from the start of block n.
func ReadStruct(v Volume, n int, data interface{}) error {
	block := make([]byte, BlockSize)
	if err := v.ReadBlock(n, block); err != nil {
		return err
	}
	return binary.Read(bytes.NewReader(block), binary.LittleEndian, data)
}
