package main

import (
	"github.com/signadot/nodetree/gomap"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var theLog = zap.NewNop()

func setupLog(verbose bool) {
	if !verbose {
		return
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	l, err := cfg.Build()
	if err != nil {
		return
	}
	theLog = l.Named("o")
	gomap.SetLogger(l.Named("gomap"))
}
