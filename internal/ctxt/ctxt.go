// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package ctxt selects and holds the GPU driver used by
// commands.
package ctxt

import (
	"errors"
	"strings"

	"github.com/gviegas/dust"
	"github.com/gviegas/dust/driver"
)

var (
	drv driver.Driver
	gpu driver.GPU
)

var errNoDriver = errors.New("ctxt: driver not found")

// Load attempts to open any driver whose name contains
// the name string. It is case insensitive.
// If name is the empty string, then all registered
// drivers are considered.
// A previously loaded driver is closed first.
func Load(name string) (driver.GPU, error) {
	Close()
	drivers := driver.Drivers()
	err := errNoDriver
	name = strings.ToLower(name)
	for i := range drivers {
		if !strings.Contains(strings.ToLower(drivers[i].Name()), name) {
			continue
		}
		var u driver.GPU
		if u, err = drivers[i].Open(); err != nil {
			dust.Logger().Warn("ctxt: failed to open driver", "name", drivers[i].Name(), "err", err)
			continue
		}
		drv = drivers[i]
		gpu = u
		dust.Logger().Debug("ctxt: driver loaded", "name", drv.Name())
		return gpu, nil
	}
	return nil, err
}

// Driver returns the loaded driver.Driver.
// It returns nil if no driver is loaded.
func Driver() driver.Driver { return drv }

// GPU returns the loaded driver.GPU.
// It returns nil if no driver is loaded.
func GPU() driver.GPU { return gpu }

// Close closes the loaded driver, if any.
func Close() {
	if drv != nil {
		drv.Close()
		drv = nil
		gpu = nil
	}
}
