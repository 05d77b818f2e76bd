package publisher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"
)

// WebPublisher serves the latest brief as an HTML page over HTTP.
type WebPublisher struct {
	addr   string
	server *http.Server
	log    *logrus.Logger
	mu     sync.RWMutex
	latest *Brief
}

func NewWebPublisher(addr string, log *logrus.Logger) *WebPublisher {
	wp := &WebPublisher{addr: addr, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("/", wp.handleIndex)
	wp.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return wp
}

// Start begins serving HTTP in the background. Call Shutdown to stop.
func (wp *WebPublisher) Start() error {
	ln, err := net.Listen("tcp", wp.addr)
	if err != nil {
		return fmt.Errorf("web: failed to listen on %s: %w", wp.addr, err)
	}
	go func() {
		wp.log.Infof("Web publisher listening on %s", wp.addr)
		if err := wp.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			wp.log.WithError(err).Error("Web publisher error")
		}
	}()
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (wp *WebPublisher) Shutdown(ctx context.Context) error {
	return wp.server.Shutdown(ctx)
}

func (wp *WebPublisher) Publish(_ context.Context, brief *Brief) error {
	wp.mu.Lock()
	wp.latest = brief
	wp.mu.Unlock()
	wp.log.Infof("Web publisher updated with brief of %d stories", len(brief.Stories))
	return nil
}

func (wp *WebPublisher) handleIndex(w http.ResponseWriter, r *http.Request) {
	wp.mu.RLock()
	brief := wp.latest
	wp.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if brief == nil {
		fmt.Fprint(w, `<!DOCTYPE html><html><body><h1>AI Daily Brief</h1><p>No brief available yet. Check back later.</p></body></html>`)
		return
	}

	fmt.Fprint(w, buildHTMLBody(brief))
}
