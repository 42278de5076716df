package app

import "go.trai.ch/bootimage/internal/core/ports"

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

// Quieter is implemented by loggers that can suppress informational output.
type Quieter interface {
	SetQuiet(quiet bool)
}

// SetQuiet raises the logger level to warnings when quiet is set and the logger supports it.
func (c *Components) SetQuiet(quiet bool) {
	if q, ok := c.Logger.(Quieter); ok {
		q.SetQuiet(quiet)
	}
}
