package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-drift/scene/pkg/debug"
	"github.com/go-drift/scene/pkg/node"
	"github.com/go-drift/scene/pkg/trace"
	"github.com/go-drift/scene/pkg/vsync"
)

func init() {
	RegisterCommand(&Command{
		Name:  "run",
		Short: "Drive a scene through vsync frames",
		Long: `Build the tree described by a scene file and drive it with a vsync
ticker. Every tick redraws the tree; phases run only for dirty nodes.

The tick interval comes from vsync.interval in the runtime configuration.
With --frames the run stops after that many frames, otherwise it runs until
interrupted. With --debug-port the tree and a wireframe are served over HTTP
while the scene runs.`,
		Usage: "scenegraph run <scene.yaml> [--frames N] [--debug-port PORT]",
		Run:   runScene,
	})
}

type runOptions struct {
	frames    int64
	debugPort int
	debug     bool
}

func parseRunArgs(args []string) ([]string, runOptions, error) {
	opts := runOptions{}
	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--frames":
			if i+1 >= len(args) {
				return nil, opts, fmt.Errorf("--frames requires a count")
			}
			n, err := strconv.ParseInt(args[i+1], 10, 64)
			if err != nil || n < 0 {
				return nil, opts, fmt.Errorf("invalid --frames %q", args[i+1])
			}
			opts.frames = n
			i++
		case "--debug-port":
			if i+1 >= len(args) {
				return nil, opts, fmt.Errorf("--debug-port requires a port")
			}
			port, err := strconv.Atoi(args[i+1])
			if err != nil || port < 0 || port > 65535 {
				return nil, opts, fmt.Errorf("invalid --debug-port %q", args[i+1])
			}
			opts.debugPort = port
			opts.debug = true
			i++
		default:
			filtered = append(filtered, args[i])
		}
	}
	return filtered, opts, nil
}

// errLoopStopped is returned to inspections that arrive after the scene loop
// has exited.
var errLoopStopped = errors.New("scene loop stopped")

// stopTimeout bounds the debug server shutdown.
const stopTimeout = 2 * time.Second

// loopInspector runs inspections on the loop's owner goroutine. Once stopped
// is closed, pending and new inspections fail instead of waiting for a
// Drain that will never come.
func loopInspector(loop *vsync.Loop, root *node.Node, stopped <-chan struct{}) debug.Inspector {
	return debug.InspectorFunc(func(ctx context.Context, fn func(*node.Node)) error {
		done := make(chan struct{})
		loop.Post(func() {
			defer close(done)
			fn(root)
		})
		select {
		case <-done:
			return nil
		case <-stopped:
			return errLoopStopped
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

func runScene(args []string) error {
	rest, opts, err := parseRunArgs(args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("run takes exactly one scene file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	frames, layouts, err := driveScene(ctx, rest[0], opts)
	fmt.Fprintf(stdout, "%d frames, %d layout passes\n", frames, layouts)
	return err
}

// driveScene runs the scene until ctx ends or opts.frames have been drawn.
// The tree is only touched on the calling goroutine.
func driveScene(ctx context.Context, path string, opts runOptions) (frames, layouts int64, err error) {
	rt, file, root, err := loadScene(path)
	if err != nil {
		return 0, 0, err
	}
	defer rt.DisposeTree(root)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := &vsync.Loop{}

	if opts.debug {
		srv := &debug.Server{Inspector: loopInspector(loop, root, ctx.Done()), Scale: 1}
		port, err := srv.Start(fmt.Sprintf("127.0.0.1:%d", opts.debugPort))
		if err != nil {
			return 0, 0, err
		}
		log.Printf("scenegraph: debug server on http://127.0.0.1:%d", port)
		defer func() {
			// Fail in-flight inspections before waiting on their handlers.
			cancel()
			stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
			defer stopCancel()
			if err := srv.Stop(stopCtx); err != nil {
				log.Printf("scenegraph: debug server stop: %v", err)
			}
		}()
	}

	constraints := file.Viewport.Constraints()
	rt.MarkDirty(root, node.DirtyMeasure)

	g, gctx := errgroup.WithContext(ctx)
	ticker := &vsync.Ticker{
		Interval: rt.Config().Vsync.Interval,
		OnTick: func(int64, time.Duration) {
			loop.Post(func() {
				if ctx.Err() != nil {
					return
				}
				if !rt.NeedsFrame() {
					rt.MarkDirty(root, node.DirtyDraw)
				}
				flushed := rt.FlushFrame(constraints, 0)
				for _, f := range flushed {
					if f.LaidOut {
						layouts++
					}
				}
				frames++
				rt.Log().Event(trace.KindVsync, "frame %d: %d roots flushed", frames, len(flushed))
				if opts.frames > 0 && frames >= opts.frames {
					cancel()
				}
			})
		},
	}
	g.Go(func() error { return ticker.Run(gctx) })

	for {
		if err := loop.WaitForVsync(gctx); err != nil {
			break
		}
		loop.Drain()
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		err = nil
	}
	return frames, layouts, err
}
