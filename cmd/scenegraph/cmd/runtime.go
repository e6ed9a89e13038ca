package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/go-drift/scene/pkg/callback"
	"github.com/go-drift/scene/pkg/config"
	"github.com/go-drift/scene/pkg/node"
	"github.com/go-drift/scene/pkg/scene"
	"github.com/go-drift/scene/pkg/scenefile"
)

// loadConfig reads --config when given, otherwise scene.yaml in the working
// directory if present.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.LoadOptional(wd)
}

// echoMethod stands in for a scripting VM. Custom measure resolves to the
// largest bounded size the constraints allow; layout and draw are no-ops.
func echoMethod(_ callback.VMContext, _ int32, args []callback.Arg) int32 {
	call, err := callback.DecodeCall(args)
	if err != nil {
		return -1
	}
	if call.Op == callback.OpMeasure {
		c := call.Constraints
		args[0] = callback.Float32(bounded(c.MaxWidth, c.MinWidth))
		args[1] = callback.Float32(bounded(c.MaxHeight, c.MinHeight))
	}
	return 0
}

func bounded(hi, lo float32) float32 {
	if math.IsInf(float64(hi), 0) || math.IsNaN(float64(hi)) {
		return lo
	}
	return hi
}

// loadScene builds a runtime and the tree described by the scene file.
func loadScene(path string) (*scene.Runtime, *scenefile.File, *node.Node, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	rt, err := scene.New(cfg, scene.WithLogOutput(os.Stderr))
	if err != nil {
		return nil, nil, nil, err
	}
	if err := rt.SetCallbackMethod(callback.MethodFunc(echoMethod)); err != nil {
		return nil, nil, nil, err
	}
	file, err := scenefile.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}
	root, err := file.Build(rt)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to build %s: %w", path, err)
	}
	return rt, file, root, nil
}

// parseFloatFlag reads the value following a flag at args[i].
func parseFloatFlag(args []string, i int, name string) (float64, error) {
	if i+1 >= len(args) {
		return 0, fmt.Errorf("%s requires a value", name)
	}
	var v float64
	if _, err := fmt.Sscanf(args[i+1], "%g", &v); err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, args[i+1])
	}
	return v, nil
}
