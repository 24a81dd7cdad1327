//go:build !(tinygo && bootdebug)

package app

import "rfpocket/hal"

func bootStep(string) {}

func bootDiagStart(hal.HAL) {}
