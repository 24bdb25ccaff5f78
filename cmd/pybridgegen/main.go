package main

import (
	"github.com/spf13/afero"

	"github.com/mathieupost/pybridge/internal/cli"
	"github.com/mathieupost/pybridge/log"
)

func main() {
	if err := cli.NewCommand(afero.NewOsFs()).Execute(); err != nil {
		log.Fatal(err)
	}
}
