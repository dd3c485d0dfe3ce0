package webserver

import (
	"log/slog"

	"github.com/psidex/simgraph/internal/lib"
	"github.com/psidex/simgraph/internal/matrix"
	"github.com/psidex/simgraph/internal/orchestrator"
)

// MatrixWs defines an orchestrator.Observer that streams every finished cell over a
// websocket as it comes in.
type MatrixWs struct {
	ws     lib.ThreadSafeWebSocket
	logger *slog.Logger
}

var _ orchestrator.Observer = MatrixWs{}

func NewMatrixWs(ws lib.ThreadSafeWebSocket, logger *slog.Logger) MatrixWs {
	return MatrixWs{ws: ws, logger: logger}
}

func (m MatrixWs) send(msg Message) {
	if err := m.ws.WriteJSON(msg); err != nil {
		m.logger.Debug("ws.WriteJSON err", "type", msg.Type, "err", err)
	}
}

func (m MatrixWs) CellDone(source, comparedTo string, similarity float64) {
	m.send(Message{Type: "cell", Data: cellData{Source: source, ComparedTo: comparedTo, Similarity: similarity}})
}

func (m MatrixWs) CellFailed(source, comparedTo string, err error) {
	m.send(Message{Type: "cellerror", Data: cellErrorData{Source: source, ComparedTo: comparedTo, Error: err.Error()}})
}

// NotifyMatrix sends the finished, sorted matrix.
func (m MatrixWs) NotifyMatrix(mat matrix.Matrix) {
	m.send(Message{Type: "matrix", Data: mat})
}

// NotifyError tells the client the session ended early.
func (m MatrixWs) NotifyError(err error) {
	m.send(Message{Type: "error", Data: errorData{Error: err.Error()}})
}
