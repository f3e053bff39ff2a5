package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/rhuss/alloyrpc/pkg/api"
)

// Logging returns middleware that emits one structured log entry per
// request. Solve entries include the request ID, the command specifier,
// solver type, output format, duration and either the verdict or the
// error. Ping entries are logged at debug level.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next SolverService) SolverService {
		return SolverServiceFuncs{
			SolveFunc: func(ctx context.Context, req *api.SolveRequest) (*api.SolveResponse, error) {
				start := time.Now()
				resp, err := next.Solve(ctx, req)

				attrs := []slog.Attr{
					slog.String("request_id", RequestIDFromContext(ctx)),
					slog.String("operation", "solve"),
					slog.Duration("duration", time.Since(start)),
				}
				if req != nil {
					attrs = append(attrs,
						slog.String("command", req.Command),
						slog.String("solver_type", req.SolverType.String()),
						slog.String("output_format", req.OutputFormat.String()),
						slog.Int("model_bytes", len(req.ModelContent)),
					)
				}

				switch {
				case err != nil:
					attrs = append(attrs, slog.String("error", err.Error()))
					logger.LogAttrs(ctx, slog.LevelError, "request failed", attrs...)
				case resp != nil && resp.ErrorMessage != "":
					attrs = append(attrs, slog.String("error_message", resp.ErrorMessage))
					logger.LogAttrs(ctx, slog.LevelWarn, "request rejected", attrs...)
				default:
					if resp != nil {
						attrs = append(attrs, slog.Bool("satisfiable", resp.Satisfiable))
						if resp.Metadata != nil {
							attrs = append(attrs, slog.String("executed_command", resp.Metadata.ExecutedCommand))
						}
					}
					logger.LogAttrs(ctx, slog.LevelInfo, "request completed", attrs...)
				}
				return resp, err
			},
			PingFunc: func(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
				start := time.Now()
				resp, err := next.Ping(ctx, req)
				attrs := []slog.Attr{
					slog.String("request_id", RequestIDFromContext(ctx)),
					slog.String("operation", "ping"),
					slog.Duration("duration", time.Since(start)),
				}
				if err != nil {
					attrs = append(attrs, slog.String("error", err.Error()))
					logger.LogAttrs(ctx, slog.LevelError, "request failed", attrs...)
				} else {
					logger.LogAttrs(ctx, slog.LevelDebug, "request completed", attrs...)
				}
				return resp, err
			},
		}
	}
}
