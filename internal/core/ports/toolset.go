package ports

import "context"

// Toolset locates binaries of the rustc LLVM tools component.
//
//go:generate go run go.uber.org/mock/mockgen -source=toolset.go -destination=mocks/mock_toolset.go -package=mocks
type Toolset interface {
	// Objcopy returns the path of llvm-objcopy.
	Objcopy(ctx context.Context) (string, error)
}
