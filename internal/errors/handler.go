package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sort"
)

// Process exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ErrorHandler reports a failed run: full detail to the log, one line to
// the terminal.
type ErrorHandler struct {
	logger       *slog.Logger
	program      string
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, program string, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		program:      program,
		includeStack: includeStack,
	}
}

// Handle logs err, writes its user message to w and returns the exit code
func (h *ErrorHandler) Handle(ctx context.Context, w io.Writer, err error) int {
	if err == nil {
		return ExitOK
	}

	attrs := []any{
		slog.String("error", err.Error()),
		slog.String("error_type", string(typeOf(err))),
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) && len(appErr.Context) > 0 {
		keys := make([]string, 0, len(appErr.Context))
		for k := range appErr.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			attrs = append(attrs, slog.Any(k, appErr.Context[k]))
		}
	}

	if h.includeStack {
		attrs = append(attrs, slog.String("stack", getStackTrace()))
	}

	h.logger.ErrorContext(ctx, "run failed", attrs...)

	if h.program != "" {
		fmt.Fprintf(w, "%s: %s\n", h.program, UserMessage(err))
	} else {
		fmt.Fprintln(w, UserMessage(err))
	}
	return ExitFailure
}

// typeOf returns the AppError type of err, classifying context errors and
// untyped errors too.
func typeOf(err error) ErrorType {
	var appErr *AppError
	switch {
	case stderrors.As(err, &appErr):
		return appErr.Type
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return "CANCELLED"
	default:
		return "INTERNAL"
	}
}

// getStackTrace returns the current stack trace
func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
