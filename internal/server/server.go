// Package server runs the live preview for a manuscript directory: it serves
// rendered HTML, watches the source files, and pushes a reload to open pages
// whenever the manuscript changes.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-md2tex/internal/check"
	"github.com/alnah/go-md2tex/internal/yamlutil"
)

// debounceWindow collapses the burst of filesystem events editors emit on
// save into a single rebuild.
const debounceWindow = 500 * time.Millisecond

// shutdownTimeout bounds how long Run waits for in-flight requests on exit.
const shutdownTimeout = 5 * time.Second

// Renderer converts manuscript Markdown to a standalone HTML page.
type Renderer interface {
	Render(ctx context.Context, content string) (string, error)
}

// Server watches a manuscript directory and serves its rendered preview with
// live reload. Create one with New and drive it with Run.
type Server struct {
	dir      string
	addr     string
	renderer Renderer
	logf     func(format string, args ...any)
	hub      *hub

	mu   sync.RWMutex
	page []byte
}

// New creates a preview server for the manuscript in dir, listening on addr.
// logf receives progress messages; nil disables them.
func New(dir, addr string, renderer Renderer, logf func(format string, args ...any)) *Server {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Server{
		dir:      dir,
		addr:     addr,
		renderer: renderer,
		logf:     logf,
		hub:      newHub(logf),
	}
}

// Run renders the manuscript, starts the watcher and the HTTP server, and
// blocks until ctx is canceled or the listener fails. The initial render must
// succeed; later render failures keep the last good page and are logged.
func (s *Server) Run(ctx context.Context) error {
	if err := s.refresh(ctx); err != nil {
		return fmt.Errorf("initial preview render: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	// Watching the directory rather than individual files survives the
	// rename-and-replace save strategy editors use.
	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watching %s: %w", s.dir, err)
	}
	figDir := filepath.Join(s.dir, check.FiguresDir)
	if info, err := os.Stat(figDir); err == nil && info.IsDir() {
		if err := watcher.Add(figDir); err != nil {
			return fmt.Errorf("watching %s: %w", figDir, err)
		}
	}

	go s.watch(ctx, watcher)

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.servePage)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(s.hub, w, r)
	})
	figServer := http.FileServer(http.Dir(figDir))
	mux.Handle("/"+check.FiguresDir+"/", http.StripPrefix("/"+check.FiguresDir+"/", figServer))

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logf("preview at http://%s", s.addr)

	select {
	case <-ctx.Done():
		s.hub.closeAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down preview server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("preview server: %w", err)
	}
}

// servePage writes the current preview with the reload script injected and
// caching disabled so every reload shows the latest render.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.mu.RLock()
	page := s.page
	s.mu.RUnlock()

	body := bytes.Replace(page, []byte("</body>"), []byte(liveReloadScript+"</body>"), 1)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	_, _ = w.Write(body)
}

// watch rebuilds the preview after filesystem changes, debounced so one save
// triggers one rebuild, and notifies connected pages on success.
func (s *Server) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			s.logf("change detected: %s", event.Name)
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
			} else {
				timer.Reset(debounceWindow)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			if err := s.refresh(ctx); err != nil {
				s.logf("preview render failed, keeping previous page: %v", err)
				continue
			}
			s.hub.broadcast([]byte("reload"))
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logf("watcher error: %v", err)
		}
	}
}

// refresh reads the manuscript sources and swaps in a freshly rendered page.
func (s *Server) refresh(ctx context.Context) error {
	content, err := s.loadManuscript()
	if err != nil {
		return err
	}
	page, err := s.renderer.Render(ctx, content)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.page = []byte(page)
	s.mu.Unlock()
	return nil
}

// loadManuscript concatenates the main content and, when present, the
// supplementary information. YAML front matter is metadata, not prose, so it
// is stripped before rendering.
func (s *Server) loadManuscript() (string, error) {
	main, err := os.ReadFile(filepath.Join(s.dir, check.MainFile)) // #nosec G304 -- manuscript path is user-provided
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", check.MainFile, err)
	}
	_, content := yamlutil.SplitFrontMatter(string(main))

	supp, err := os.ReadFile(filepath.Join(s.dir, check.SupplementaryFile)) // #nosec G304 -- manuscript path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return content, nil
		}
		return "", fmt.Errorf("reading %s: %w", check.SupplementaryFile, err)
	}
	_, suppContent := yamlutil.SplitFrontMatter(string(supp))
	return content + "\n\n---\n\n" + suppContent, nil
}

// liveReloadScript does not reconnect: a dead socket means the watch process
// exited, and the author restarts it.
const liveReloadScript = `
<script>
  (function() {
    var socket = new WebSocket("ws://" + window.location.host + "/ws");
    socket.onmessage = function(event) {
      if (event.data === "reload") {
        window.location.reload();
      }
    };
    socket.onerror = function() {
      console.error("Live reload disconnected; restart the watch command.");
    };
  })();
</script>
`
