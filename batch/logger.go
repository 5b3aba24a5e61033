package batch

import (
	"io"

	"github.com/baditaflorin/l"
)

// NewLogger creates the structured logger used for per-pair diagnostics.
func NewLogger(w io.Writer, jsonFormat bool) (l.Logger, error) {
	return l.NewStandardFactory().CreateLogger(l.Config{
		Output:      w,
		JsonFormat:  jsonFormat,
		AsyncWrite:  true,
		BufferSize:  64 * 1024,
		MaxFileSize: 10 * 1024 * 1024,
		MaxBackups:  5,
		AddSource:   false,
		Metrics:     false,
	})
}
