package cmd

import (
	"fmt"

	"github.com/go-drift/scene/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "version",
		Short: "Show version information",
		Long:  "Print the CLI version and the scene API version it implements.",
		Usage: "scenegraph version",
		Run: func(args []string) error {
			printVersion()
			return nil
		},
	})
}

func printVersion() {
	fmt.Fprintf(stdout, "scenegraph version %s (built %s), scene API %s\n", Version, BuildTime, config.CurrentAPIVersion)
}
