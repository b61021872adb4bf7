package server

import (
	"context"
	"errors"
	"esc-cup/internal/apperr"
	"esc-cup/internal/constants"
	"esc-cup/internal/middleware"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/known/structpb"
)

var codes = map[apperr.Kind]connect.Code{
	apperr.KindNotFound:          connect.CodeNotFound,
	apperr.KindForbidden:         connect.CodePermissionDenied,
	apperr.KindMalformedPayload:  connect.CodeFailedPrecondition,
	apperr.KindTransientUpstream: connect.CodeUnavailable,
	apperr.KindValidation:        connect.CodeInvalidArgument,
	apperr.KindInternal:          connect.CodeInternal,
}

// toConnectError maps an apperr kind to a connect code and attaches {kind, message} as a
// google.protobuf.Struct detail. Internal causes are not exposed.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	kind := apperr.KindOf(err)
	message := err.Error()
	var appErr *apperr.Error
	if kind == apperr.KindInternal {
		message = "internal error"
		if errors.As(err, &appErr) {
			message = appErr.Message
		}
	}

	cerr := connect.NewError(codes[kind], errors.New(message))
	detail, err := structpb.NewStruct(map[string]any{
		"kind":    kind.String(),
		"message": message,
	})
	if err == nil {
		if d, err := connect.NewErrorDetail(detail); err == nil {
			cerr.AddDetail(d)
		}
	}
	return cerr
}

func errorInterceptor(logger zerolog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
			defer cancel()

			start := time.Now()
			res, err := next(ctx, req)
			if err == nil {
				return res, nil
			}

			cerr := toConnectError(err)
			event := logger.Warn()
			if cerr.Code() == connect.CodeInternal || cerr.Code() == connect.CodeUnavailable {
				event = logger.Error()
			}
			event.Err(err).
				Str("request_id", middleware.GetRequestID(ctx)).
				Str("procedure", req.Spec().Procedure).
				Str("code", cerr.Code().String()).
				Dur("elapsed", time.Since(start)).
				Msg("rpc failed")
			return nil, cerr
		}
	}
}

func handlerOptions(logger zerolog.Logger) []connect.HandlerOption {
	return []connect.HandlerOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithInterceptors(errorInterceptor(logger)),
	}
}
