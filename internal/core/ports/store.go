package ports

import "go.trai.ch/bootimage/internal/core/domain"

// ImageStore records which ELF produced each assembled image.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ImageStore interface {
	// Get retrieves the record for the given image path.
	// Returns nil, nil if not found.
	Get(imagePath string) (*domain.ImageInfo, error)

	// Put stores the record.
	Put(info domain.ImageInfo) error

	// Fingerprint hashes the content of the file at path.
	Fingerprint(path string) (uint64, error)
}
