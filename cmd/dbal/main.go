package main

import (
	"os"

	"github.com/spf13/afero"

	"github.com/satishbabariya/go-dbal/cmd/dbal/commands"
	"github.com/satishbabariya/go-dbal/internal/ui"
)

func main() {
	if err := commands.NewRootCommand(afero.NewOsFs()).Execute(); err != nil {
		ui.PrintError(os.Stderr, "%v", err)
		os.Exit(1)
	}
}
