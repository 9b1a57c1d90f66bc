package vfs

import "fmt"

// Filesystem pairs a volume with the superblock that describes it.
type Filesystem struct {
	Volume     Volume
	Superblock Superblock
}

// LoadFilesystem reads and checks the superblock of volume. The volume must
// hold exactly BlockCount blocks. It is left open on failure; closing it is
// up to the caller.
func LoadFilesystem(volume Volume) (*Filesystem, error) {
	sb, err := LoadSuperblock(volume)
	if err != nil {
		return nil, err
	}

	size, err := volume.Size()
	if err != nil {
		return nil, err
	}
	if size != BlockCount {
		return nil, fmt.Errorf("volume has %d blocks: %w", size, ErrImageSize)
	}

	if err := Check(&sb); err != nil {
		return nil, err
	}

	return &Filesystem{
		Volume:     volume,
		Superblock: sb,
	}, nil
}

// Format writes an empty filesystem to volume and zeroes its data blocks.
func Format(volume Volume) (*Filesystem, error) {
	f := &Filesystem{
		Volume:     volume,
		Superblock: NewSuperblock(),
	}

	if err := zeroBlocks(volume, FirstDataBlock, DataBlockCount); err != nil {
		return nil, err
	}

	if err := f.WriteStructureToVolume(); err != nil {
		return nil, err
	}
	return f, nil
}

// WriteStructureToVolume persists the superblock to block 0.
func (f *Filesystem) WriteStructureToVolume() error {
	return SaveSuperblock(f.Volume, &f.Superblock)
}

func (f *Filesystem) Close() error {
	return f.Volume.Close()
}
