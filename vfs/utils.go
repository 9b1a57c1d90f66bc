package vfs

func BlockToAddress(block int) int64 {
	return int64(block) * BlockSize
}

func StringNameToBytes(name string) [NameLength]byte {
	var nameBytes [NameLength]byte
	copy(nameBytes[:], name)
	return nameBytes
}

func CToGoString(data []byte) string {
	n := -1
	for i, b := range data {
		if b == 0 {
			break
		}
		n = i
	}
	return string(data[:n+1])
}
