package editpage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

const maxBufferBytes = 8 << 20

// Sink loads and stores the buffer behind an edit page.
type Sink interface {
	Load(ctx context.Context) (string, error)
	Store(ctx context.Context, code string) error
}

// FileSink edits one file in place.
type FileSink struct {
	Path string
	mu   sync.Mutex
}

func (f *FileSink) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %w", f.Path, err)
	}
	return string(data), nil
}

func (f *FileSink) Store(ctx context.Context, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, ".nmoo-edit-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(code); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		return fmt.Errorf("replace %s: %w", f.Path, err)
	}
	cleanup = false

	return nil
}

// Handler serves the edit page on GET and accepts the saved buffer on POST
// at the same URL.
type Handler struct {
	sink    Sink
	logger  *zap.Logger
	onSaved func(code string)
}

func NewHandler(sink Sink, logger *zap.Logger, onSaved func(code string)) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{sink: sink, logger: logger, onSaved: onSaved}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.serveEditor(w, r)
	case http.MethodPost:
		h.acceptSave(w, r)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) serveEditor(w http.ResponseWriter, r *http.Request) {
	code, err := h.sink.Load(r.Context())
	if err != nil {
		h.logger.Error("load edit buffer", zap.Error(err))
		http.Error(w, "could not load buffer", http.StatusInternalServerError)
		return
	}

	page, err := Render(code)
	if err != nil {
		h.logger.Error("render edit page", zap.Error(err))
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(page)
}

func (h *Handler) acceptSave(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBufferBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "buffer too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "could not read buffer", http.StatusBadRequest)
		return
	}

	code := string(body)
	if err := h.sink.Store(r.Context(), code); err != nil {
		h.logger.Error("store edit buffer", zap.Error(err))
		http.Error(w, "could not save buffer", http.StatusInternalServerError)
		return
	}

	h.logger.Info("edit buffer saved", zap.Int("bytes", len(body)), zap.String("remote", r.RemoteAddr))
	if h.onSaved != nil {
		h.onSaved(code)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("saved"))
}

// Server runs a Handler on a local listener until closed.
type Server struct {
	listener net.Listener
	server   *http.Server
	errCh    chan error
	once     sync.Once
}

func Start(listenAddr string, handler http.Handler) (*Server, error) {
	if listenAddr == "" {
		listenAddr = "127.0.0.1:0"
	}

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen edit server: %w", err)
	}

	s := &Server{
		listener: listener,
		server:   &http.Server{Handler: handler},
		errCh:    make(chan error, 1),
	}

	go func() {
		if serveErr := s.server.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.errCh <- serveErr
		}
		close(s.errCh)
	}()

	return s, nil
}

func (s *Server) URL() string {
	if tcpAddr, ok := s.listener.Addr().(*net.TCPAddr); ok {
		host := tcpAddr.IP.String()
		if tcpAddr.IP.IsUnspecified() {
			host = "localhost"
		}
		return fmt.Sprintf("http://%s/", net.JoinHostPort(host, fmt.Sprint(tcpAddr.Port)))
	}
	return "http://" + s.listener.Addr().String() + "/"
}

// Wait blocks until ctx is done or the server fails, then shuts it down.
func (s *Server) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return s.Close()
	case err, ok := <-s.errCh:
		if ok && err != nil {
			return fmt.Errorf("serve edit page: %w", err)
		}
		return nil
	}
}

func (s *Server) Close() error {
	var closeErr error
	s.once.Do(func() {
		closeErr = s.server.Close()
	})
	return closeErr
}
