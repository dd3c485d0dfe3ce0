package webserver

import (
	"github.com/psidex/simgraph/internal/lib"
)

// Session kinds a client can ask for.
const (
	KindInclusion = "inclusion"
	KindPair      = "pair"
)

// SessionConfig is the first message a client sends. The folders themselves are fixed
// by the server.
type SessionConfig struct {
	Kind    string       `json:"kind"`
	Runtime lib.Duration `json:"runtime"`
}

// Message is the envelope of everything sent to the client.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type cellData struct {
	Source     string  `json:"source"`
	ComparedTo string  `json:"compared_to"`
	Similarity float64 `json:"similarity"`
}

type cellErrorData struct {
	Source     string `json:"source"`
	ComparedTo string `json:"compared_to"`
	Error      string `json:"error"`
}

type errorData struct {
	Error string `json:"error"`
}
