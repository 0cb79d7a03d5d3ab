package gomap

import "go.uber.org/zap"

// EncodeOption is an option for controlling the mapping from Go values to
// nodes.
type EncodeOption interface {
	applyEncode(*encodeConfig)
}

// DecodeOption is an option for controlling the mapping from nodes to Go
// values.
type DecodeOption interface {
	applyDecode(*decodeConfig)
}

type encodeConfig struct {
	runtime Runtime
	logger  *zap.Logger
}

type decodeConfig struct {
	runtime        Runtime
	logger         *zap.Logger
	disallowExtras bool
	elements       bool
}

func newEncodeConfig(opts []EncodeOption) *encodeConfig {
	cfg := &encodeConfig{runtime: DefaultRuntime, logger: Logger()}
	for _, opt := range opts {
		opt.applyEncode(cfg)
	}
	return cfg
}

func newDecodeConfig(opts []DecodeOption) *decodeConfig {
	cfg := &decodeConfig{runtime: DefaultRuntime, logger: Logger()}
	for _, opt := range opts {
		opt.applyDecode(cfg)
	}
	return cfg
}

type disallowUnknownKeys struct{}

func (disallowUnknownKeys) applyDecode(c *decodeConfig) { c.disallowExtras = true }

// DisallowUnknownKeys makes Decode reject object keys that name no struct
// field, and array elements past the end of a tuple.
func DisallowUnknownKeys() DecodeOption { return disallowUnknownKeys{} }

type runtimeOption struct{ rt Runtime }

func (o runtimeOption) applyEncode(c *encodeConfig) { c.runtime = o.rt }
func (o runtimeOption) applyDecode(c *decodeConfig) { c.runtime = o.rt }

// RuntimeOption is both an EncodeOption and a DecodeOption.
type RuntimeOption interface {
	EncodeOption
	DecodeOption
}

// WithRuntime sets the element runtime used by DecodeAny, Match and
// EncodeElement.
func WithRuntime(rt Runtime) RuntimeOption { return runtimeOption{rt: rt} }

type loggerOption struct{ l *zap.Logger }

func (o loggerOption) applyEncode(c *encodeConfig) { c.logger = o.l }
func (o loggerOption) applyDecode(c *decodeConfig) { c.logger = o.l }

// LoggerOption is both an EncodeOption and a DecodeOption.
type LoggerOption interface {
	EncodeOption
	DecodeOption
}

// WithLogger overrides the package logger for one call.
func WithLogger(l *zap.Logger) LoggerOption {
	if l == nil {
		l = zap.NewNop()
	}
	return loggerOption{l: l}
}
