// Command scenegraph loads YAML scene files, lays them out and drives them
// through vsync frames.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/scene/cmd/scenegraph/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
