package ports

// ISOVerifier checks the layout of a mastered ISO image.
//
//go:generate go run go.uber.org/mock/mockgen -source=verifier.go -destination=mocks/mock_verifier.go -package=mocks
type ISOVerifier interface {
	// Verify ensures every slash-separated path in required exists in the image.
	Verify(isoPath string, required []string) error
}
