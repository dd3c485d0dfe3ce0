package webserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/psidex/simgraph/internal/lib"
	"github.com/psidex/simgraph/internal/matrix"
	"github.com/psidex/simgraph/internal/orchestrator"
)

var (
	upgrader = websocket.Upgrader{}
)

func init() {
	upgrader.CheckOrigin = func(r *http.Request) bool { return true }
}

// Server builds matrices over a fixed results folder for websocket clients.
type Server struct {
	logger  *slog.Logger
	cfg     orchestrator.Config
	results string
	truth   string
}

// NewServer creates a Server. truth may be empty, in which case pair sessions are
// refused.
func NewServer(logger *slog.Logger, cfg orchestrator.Config, results, truth string) *Server {
	return &Server{
		logger:  logger,
		cfg:     cfg,
		results: results,
		truth:   truth,
	}
}

func (s *Server) Session(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade err", "err", err)
		return
	}
	defer c.Close()

	ws := lib.NewThreadSafeWebSocket(c)
	logger := s.logger.With("remote", r.RemoteAddr)

	_, msg, err := ws.ReadMessage()
	if err != nil {
		logger.Warn("ws cfg read err", "err", err)
		return
	}

	cfg := &SessionConfig{}
	if err = json.Unmarshal(msg, cfg); err != nil {
		logger.Warn("ws cfg unmarshal err", "err", err)
		return
	}

	frontEnd := NewMatrixWs(ws, logger)

	build, err := s.builder(cfg.Kind)
	if err != nil {
		frontEnd.NotifyError(err)
		return
	}

	runCtx := r.Context()
	if cfg.Runtime.Duration > 0 {
		var timeoutCancel context.CancelFunc
		runCtx, timeoutCancel = context.WithTimeout(runCtx, cfg.Runtime.Duration)
		defer timeoutCancel()
	}
	ctx, cancel := context.WithCancel(runCtx)
	defer cancel()

	go func() {
		// Client can send anything and it will cancel the session.
		// If it never does, closing the conn on return makes ReadMessage fail and this
		// goroutine ends.
		_, _, _ = ws.ReadMessage()
		cancel()
	}()

	logger.Info("Session started", "kind", cfg.Kind, "runtime", cfg.Runtime.Duration)

	o := orchestrator.New(s.cfg, logger, frontEnd)
	m, err := build(ctx, o)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logger.Info("Session cancelled", "err", err)
		} else {
			logger.Warn("Session failed", "err", err)
		}
		frontEnd.NotifyError(err)
		return
	}

	frontEnd.NotifyMatrix(m)
	logger.Info("Session finished", "rows", len(m))
}

type buildFunc func(ctx context.Context, o *orchestrator.Orchestrator) (matrix.Matrix, error)

func (s *Server) builder(kind string) (buildFunc, error) {
	switch kind {
	case KindInclusion:
		return func(ctx context.Context, o *orchestrator.Orchestrator) (matrix.Matrix, error) {
			return o.InclusionMatrix(ctx, s.results)
		}, nil
	case KindPair:
		if s.truth == "" {
			return nil, errors.New("pair matrices need the server to be started with a ground truth")
		}
		return func(ctx context.Context, o *orchestrator.Orchestrator) (matrix.Matrix, error) {
			return o.PairMatrix(ctx, s.results, s.truth)
		}, nil
	default:
		return nil, fmt.Errorf("unknown session kind %q", kind)
	}
}
