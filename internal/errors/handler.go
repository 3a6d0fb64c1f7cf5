package errors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Exit statuses per failure kind. Zero is success.
const (
	ExitOK               = 0
	ExitFailure          = 1
	ExitDataSource       = 2
	ExitInvalidSelection = 3
	ExitTypeCoercion     = 4
	ExitBinning          = 5
	ExitEmptyResult      = 6
	ExitConfig           = 7
)

var exitCodes = map[ErrorType]int{
	ErrTypeDataSource:       ExitDataSource,
	ErrTypeInvalidSelection: ExitInvalidSelection,
	ErrTypeTypeCoercion:     ExitTypeCoercion,
	ErrTypeBinning:          ExitBinning,
	ErrTypeEmptyResult:      ExitEmptyResult,
	ErrTypeConfig:           ExitConfig,
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if code, ok := exitCodes[TypeOf(err)]; ok {
		return code
	}
	return ExitFailure
}

// ErrorHandler reports run failures to the user and the log
type ErrorHandler struct {
	logger *slog.Logger
	out    io.Writer
}

// NewErrorHandler creates a new error handler writing user-facing messages to out
func NewErrorHandler(logger *slog.Logger, out io.Writer) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
		out:    out,
	}
}

// Handle logs err, prints a one-line message and returns the exit status.
func (h *ErrorHandler) Handle(ctx context.Context, err error) int {
	if err == nil {
		return ExitOK
	}

	attrs := []any{slog.String("error", err.Error())}
	var appErr *AppError
	if errors.As(err, &appErr) {
		attrs = append(attrs, slog.String("kind", string(appErr.Type)))
		for k, v := range appErr.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
	}
	h.logger.ErrorContext(ctx, "run failed", attrs...)

	fmt.Fprintf(h.out, "Error: %s\n", UserMessage(err))
	return ExitCode(err)
}

// UserMessage renders err without the internal kind prefix.
func UserMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	prefix := map[ErrorType]string{
		ErrTypeDataSource:       "cannot read equity data",
		ErrTypeInvalidSelection: "invalid selection",
		ErrTypeTypeCoercion:     "type coercion failed",
		ErrTypeBinning:          "cannot bin factor",
		ErrTypeEmptyResult:      "no result",
		ErrTypeConfig:           "invalid configuration",
	}[appErr.Type]
	if prefix == "" {
		prefix = string(appErr.Type)
	}
	if appErr.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, appErr.Message, appErr.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, appErr.Message)
}
