// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/bootimage/internal/adapters/cargo"
	_ "go.trai.ch/bootimage/internal/adapters/cas"
	_ "go.trai.ch/bootimage/internal/adapters/config"
	_ "go.trai.ch/bootimage/internal/adapters/iso"
	_ "go.trai.ch/bootimage/internal/adapters/llvm"
	_ "go.trai.ch/bootimage/internal/adapters/logger"
	_ "go.trai.ch/bootimage/internal/adapters/report"
	_ "go.trai.ch/bootimage/internal/adapters/shell"
	_ "go.trai.ch/bootimage/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/bootimage/internal/app"
	_ "go.trai.ch/bootimage/internal/engine/image"
)
