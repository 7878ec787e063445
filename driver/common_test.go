// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver_test

import (
	"log"

	"github.com/gviegas/dust/driver"
	_ "github.com/gviegas/dust/driver/soft"
)

var (
	drv driver.Driver
	gpu driver.GPU
)

func init() {
	// Select a driver to use.
	drivers := driver.Drivers()
drvLoop:
	for i := range drivers {
		switch drivers[i].Name() {
		case "soft":
			drv = drivers[i]
			break drvLoop
		}
	}
	if drv == nil {
		log.Fatal("driver.Drivers(): driver not found")
	}
	var err error
	gpu, err = drv.Open()
	if err != nil {
		log.Fatal(err)
	}
}
