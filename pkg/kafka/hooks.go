package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// HeaderRequestID carries the caller's correlation id from a request
// message to everything published while handling it.
const HeaderRequestID = "request_id"

// ConsumerHook wraps message handling. Returning an error from
// BeforeHandle skips the handler and takes the failure path (retries are
// not attempted, the message goes to the DLQ when one is configured).
type ConsumerHook interface {
	BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, []byte, error)
	AfterHandle(ctx context.Context, topic string, km kafka.Message, err error)
}

// NoopHook passes everything through.
type NoopHook struct{}

func (NoopHook) BeforeHandle(ctx context.Context, _ string, _ kafka.Message, data []byte) (context.Context, []byte, error) {
	return ctx, data, nil
}

func (NoopHook) AfterHandle(context.Context, string, kafka.Message, error) {}

// HookFuncs adapts plain functions to ConsumerHook. Nil functions are
// no-ops.
type HookFuncs struct {
	Before func(context.Context, string, kafka.Message, []byte) (context.Context, []byte, error)
	After  func(context.Context, string, kafka.Message, error)
}

func (h HookFuncs) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, []byte, error) {
	if h.Before == nil {
		return ctx, data, nil
	}
	return h.Before(ctx, topic, km, data)
}

func (h HookFuncs) AfterHandle(ctx context.Context, topic string, km kafka.Message, err error) {
	if h.After != nil {
		h.After(ctx, topic, km, err)
	}
}

type ctxKey string

const ctxRequestID ctxKey = "kafka_request_id"

// WithRequestID stores id in ctx. Empty ids leave ctx unchanged.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxRequestID, id)
}

// RequestIDFromContext returns the id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestID).(string)
	return id
}

// ExtractRequestID reads the request_id header, falling back to the key.
func ExtractRequestID(km kafka.Message) string {
	for _, h := range km.Headers {
		if h.Key == HeaderRequestID && len(h.Value) > 0 {
			return string(h.Value)
		}
	}
	return string(km.Key)
}

// RequestIDHook puts the message's request id into the handler context.
type RequestIDHook struct{ NoopHook }

func (RequestIDHook) BeforeHandle(ctx context.Context, _ string, km kafka.Message, data []byte) (context.Context, []byte, error) {
	return WithRequestID(ctx, ExtractRequestID(km)), data, nil
}

// HookChain runs hooks in order before handling and in reverse after.
type HookChain []ConsumerHook

func (c HookChain) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, []byte, error) {
	var err error
	for _, h := range c {
		if ctx, data, err = h.BeforeHandle(ctx, topic, km, data); err != nil {
			return ctx, data, err
		}
	}
	return ctx, data, nil
}

func (c HookChain) AfterHandle(ctx context.Context, topic string, km kafka.Message, err error) {
	for i := len(c) - 1; i >= 0; i-- {
		c[i].AfterHandle(ctx, topic, km, err)
	}
}
