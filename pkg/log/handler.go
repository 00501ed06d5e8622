package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	cferrors "github.com/YuminosukeSato/ccfraud/pkg/errors"
)

// ErrFmtHandler is a slog handler to format errors from cockroachdb/errors.
// For the record's error attribute it adds the stack trace and, for
// validation failures, one attribute per failing field path.
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler function wraps the standard slog handler.
// This function returns the slog handler which emits logs with a stacktrace attribute.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{
		handler: handler,
	}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var logged error
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		if err, ok := attr.Value.Any().(error); ok {
			logged = err
		}
		return false
	})
	if logged == nil {
		return eh.handler.Handle(ctx, r)
	}

	if stacktrace := extractStacktrace(logged); stacktrace != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, stacktrace))
	}
	var verr *cferrors.ValidationErrors
	if errors.As(logged, &verr) {
		fields := make([]any, 0, len(verr.Fields))
		for _, fe := range verr.Fields {
			fields = append(fields, slog.String(fe.Path, fe.Reason))
		}
		r.AddAttrs(
			slog.Int(ValidationCountKey, len(verr.Fields)),
			slog.Group(ValidationFieldsKey, fields...),
		)
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

// extractStacktrace returns the stack recorded by the outermost
// cockroachdb/errors wrapper, if any.
func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
