package domain

// BlockSize is the disk sector size firmware assumes when loading a raw image.
const BlockSize = 512

// ImageFormat selects the kind of bootable image to assemble.
type ImageFormat string

const (
	// ImageFormatDisk is a raw, block-aligned disk image.
	ImageFormatDisk ImageFormat = "disk"
	// ImageFormatISO is an ISO9660 image mastered by grub-mkrescue.
	ImageFormatISO ImageFormat = "iso"
)

// Extension returns the file extension used for images of this format.
func (f ImageFormat) Extension() string {
	if f == ImageFormatISO {
		return ".iso"
	}
	return ".bin"
}

// BootableImage is an assembled image on disk.
type BootableImage struct {
	Path   string
	Length int64
	Format ImageFormat
}

// PaddedLength returns the smallest multiple of BlockSize that is not less than n.
func PaddedLength(n int64) int64 {
	if rem := n % BlockSize; rem != 0 {
		return n + BlockSize - rem
	}
	return n
}

// ImageInfo is the cache record for an assembled image.
type ImageInfo struct {
	ImagePath   string      `json:"image_path"`
	Format      ImageFormat `json:"format"`
	ELFHash     uint64      `json:"elf_hash"`
	ImageLength int64       `json:"image_length"`
}
