package debug

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-drift/scene/pkg/node"
)

// Inspector runs fn against the current root on the goroutine that owns the
// tree. root may be nil when no scene is loaded.
type Inspector interface {
	Inspect(ctx context.Context, fn func(root *node.Node)) error
}

// InspectorFunc adapts a function to Inspector.
type InspectorFunc func(ctx context.Context, fn func(root *node.Node)) error

// Inspect calls f.
func (f InspectorFunc) Inspect(ctx context.Context, fn func(root *node.Node)) error {
	return f(ctx, fn)
}

// StaticInspector serves a tree that is not mutated concurrently.
func StaticInspector(root *node.Node) Inspector {
	return InspectorFunc(func(_ context.Context, fn func(*node.Node)) error {
		fn(root)
		return nil
	})
}

// Server exposes /tree, /wireframe.png and /health over HTTP.
type Server struct {
	Inspector Inspector
	// Scale is the default wireframe scale; ?scale= overrides it.
	Scale float64

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// Handler returns the routes without starting a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tree", s.handleTree)
	mux.HandleFunc("/wireframe.png", s.handleWireframe)
	mux.HandleFunc("/health", handleHealth)
	return mux
}

// Start listens on addr (":0" for an ephemeral port) and serves in the
// background. It returns the bound port. Starting a running server returns
// its current port.
func (s *Server) Start(addr string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return s.listener.Addr().(*net.TCPAddr).Port, nil
	}

	// Bind listener first to fail fast on port conflicts
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("debug server listen: %w", err)
	}
	server := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	s.server = server
	s.listener = listener

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.mu.Lock()
			if s.server == server {
				s.server = nil
				s.listener = nil
			}
			s.mu.Unlock()
			log.Printf("debug server error: %v", err)
		}
	}()

	return listener.Addr().(*net.TCPAddr).Port, nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// inspect runs fn on the tree and writes an error response on failure. It
// reports whether fn succeeded.
func (s *Server) inspect(w http.ResponseWriter, r *http.Request, fn func(root *node.Node) error) bool {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if s.Inspector == nil {
		http.Error(w, "no scene", http.StatusServiceUnavailable)
		return false
	}

	var found bool
	var fnErr error
	err := s.Inspector.Inspect(r.Context(), func(root *node.Node) {
		// Recover from panics during serialization
		defer func() {
			if rec := recover(); rec != nil {
				fnErr = fmt.Errorf("panic: %v", rec)
			}
		}()
		if root == nil {
			return
		}
		found = true
		fnErr = fn(root)
	})
	switch {
	case err != nil:
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case fnErr != nil:
		http.Error(w, fnErr.Error(), http.StatusInternalServerError)
	case !found:
		http.Error(w, "no scene", http.StatusServiceUnavailable)
	default:
		return true
	}
	return false
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	var data []byte
	ok := s.inspect(w, r, func(root *node.Node) error {
		var err error
		data, err = MarshalTree(root)
		if err != nil {
			return fmt.Errorf("json encode error: %w", err)
		}
		return nil
	})
	if ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}

func (s *Server) handleWireframe(w http.ResponseWriter, r *http.Request) {
	scale := s.Scale
	if v := r.URL.Query().Get("scale"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 || parsed > 8 {
			http.Error(w, "scale must be in (0, 8]", http.StatusBadRequest)
			return
		}
		scale = parsed
	}

	var buf bytes.Buffer
	ok := s.inspect(w, r, func(root *node.Node) error {
		return WritePNG(&buf, Wireframe(root, scale))
	})
	if ok {
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}
}

// handleHealth returns a simple health check response.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
