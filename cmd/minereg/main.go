// Command minereg is the entry point for the mining-regulation retrieval tool.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/minereg/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is normal; the environment may already be set.
	_ = godotenv.Load()

	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
