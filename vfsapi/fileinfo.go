package vfsapi

// FileInfo is one line of a directory listing. Size is in blocks for files
// and is the entry count (children plus "." and "..") for directories.
type FileInfo struct {
	name  string
	size  int
	isDir bool
}

func (fi FileInfo) Name() string {
	return fi.name
}

func (fi FileInfo) Size() int {
	return fi.size
}

func (fi FileInfo) IsDir() bool {
	return fi.isDir
}
