package main

import (
	"github.com/humanbelnik/pollcast/core/internal/app"
	"github.com/humanbelnik/pollcast/core/internal/config"
)

func main() {
	app.Go(config.Load())
}
