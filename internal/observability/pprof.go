package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/riskibarqy/petanque-league/internal/config"
	"github.com/riskibarqy/petanque-league/internal/platform/logging"
)

// PprofServer is the debug listener. A nil *PprofServer is valid and does nothing.
type PprofServer struct {
	srv    *http.Server
	addr   string
	logger *logging.Logger
}

// StartPprofServer binds cfg.PprofAddr before returning so a taken port fails startup.
func StartPprofServer(cfg config.Config, logger *logging.Logger) (*PprofServer, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PprofEnabled {
		logger.Debug("pprof disabled")
		return nil, nil
	}

	ln, err := net.Listen("tcp", cfg.PprofAddr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", cfg.PprofAddr, err)
	}

	p := &PprofServer{
		srv: &http.Server{
			Handler:           pprofMux(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		addr:   ln.Addr().String(),
		logger: logger,
	}
	go func() {
		if err := p.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof server failed", "addr", p.addr, "error", err)
		}
	}()
	logger.Info("pprof server listening", "addr", p.addr)
	return p, nil
}

func pprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("POST /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	return mux
}

// Addr is the bound address, useful when PPROF_ADDR asks for port 0.
func (p *PprofServer) Addr() string {
	if p == nil {
		return ""
	}
	return p.addr
}

func (p *PprofServer) Stop(ctx context.Context) error {
	if p == nil {
		return nil
	}
	if err := p.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown pprof: %w", err)
	}
	p.logger.Info("pprof server stopped")
	return nil
}
