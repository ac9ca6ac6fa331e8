package runner

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/aretw0/tinysplit"
)

// JSONHandler writes one domain.LineRecord per result as JSON Lines.
type JSONHandler struct {
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for NDJSON output.
func NewJSONHandler(w io.Writer) *JSONHandler {
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, res tinysplit.Result) error {
	return h.Encoder.Encode(res.Record())
}
