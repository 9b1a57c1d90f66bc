package vfs

import (
	"errors"
	"fmt"
)

type PageMissingError struct {
	requestedPage int
}

func (p PageMissingError) Error() string {
	return fmt.Sprintf("requested page %d is not in cachedPages", p.requestedPage)
}

var _ Volume = (*CachedVolume)(nil)

// CachedVolume is a write-through block cache in front of another Volume.
// Pages are exactly one block.
type CachedVolume struct {
	Volume      Volume
	cachedPages map[int][BlockSize]byte
}

func NewCachedVolume(volume Volume) *CachedVolume {
	return &CachedVolume{
		Volume:      volume,
		cachedPages: make(map[int][BlockSize]byte),
	}
}

func (cv *CachedVolume) readFromCache(n int, buf []byte) error {
	page, ok := cv.cachedPages[n]
	if !ok {
		return PageMissingError{n}
	}
	copy(buf, page[:])
	return nil
}

func (cv *CachedVolume) loadPageIntoCache(n int) error {
	var page [BlockSize]byte

	err := cv.Volume.ReadBlock(n, page[:])
	if err != nil {
		return err
	}

	cv.cachedPages[n] = page

	return nil
}

func (cv *CachedVolume) ReadBlock(n int, buf []byte) error {
	if err := checkBlock(n, buf); err != nil {
		return err
	}

	err := cv.readFromCache(n, buf)
	if err == nil {
		return nil
	}

	var missing PageMissingError
	if !errors.As(err, &missing) {
		return err
	}

	if err := cv.loadPageIntoCache(n); err != nil {
		return err
	}
	return cv.readFromCache(n, buf)
}

func (cv *CachedVolume) WriteBlock(n int, buf []byte) error {
	if err := cv.Volume.WriteBlock(n, buf); err != nil {
		delete(cv.cachedPages, n)
		return err
	}

	var page [BlockSize]byte
	copy(page[:], buf)
	cv.cachedPages[n] = page

	return nil
}

func (cv *CachedVolume) Cached() int {
	return len(cv.cachedPages)
}

func (cv *CachedVolume) Size() (int, error) {
	return cv.Volume.Size()
}

func (cv *CachedVolume) Sync() error {
	return cv.Volume.Sync()
}

func (cv *CachedVolume) Close() error {
	cv.cachedPages = make(map[int][BlockSize]byte)
	return cv.Volume.Close()
}
