package main

import (
	"github.com/mrlokans/booksread/internal/config"
	"github.com/mrlokans/booksread/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cfg := config.NewConfig()
	entrypoint.Run(cfg, Version)
}
