//go:build tinygo

package main

import (
	"context"

	"rfpocket/app"
	"rfpocket/hal"
)

func main() {
	_ = app.Run(context.Background(), hal.New())
	select {}
}
