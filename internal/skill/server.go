package skill

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const maxRequestBody = 1 << 20

// Server exposes the Handler as the skill's HTTPS endpoint (TLS is expected
// to terminate in front of it).
type Server struct {
	addr    string
	handler *Handler
}

func NewServer(addr string, h *Handler) *Server {
	return &Server{addr: addr, handler: h}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /", s.serveSkill)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func (s *Server) serveSkill(w http.ResponseWriter, r *http.Request) {
	var env RequestEnvelope
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&env); err != nil {
		slog.Warn("bad skill request", "remote", r.RemoteAddr, "err", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	resp := s.safeHandle(r.Context(), &env)
	w.Header().Set("Content-Type", "application/json;charset=UTF-8")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Warn("write skill response", "err", err)
	}
}

// safeHandle answers with the generic apology if the handler panics.
func (s *Server) safeHandle(ctx context.Context, env *RequestEnvelope) (resp *ResponseEnvelope) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("skill handler panic", "requestID", env.Request.RequestID, "panic", p)
			resp = ask(msgGenericError)
		}
	}()
	return s.handler.Handle(ctx, env)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("skill endpoint listening", "addr", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("shutting down skill endpoint")
	return srv.Shutdown(shutdownCtx)
}
