// Package logger 两个入口共用的 zap 构建：控制台/JSON 编码，可选 lumberjack 切割文件。
package logger

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"grocery-backend/internal/core/config"
)

type Options struct {
	Name   string // 进程名，写进每条日志的 service 字段
	Level  string
	JSON   bool
	Sample bool // 每秒同一条消息超过 100 次后采样
	Rotate config.Rotate
}

// FromConfig api / admin 两个进程只差 Name；admin 不写文件
func FromConfig(c config.Log, name string) Options {
	o := Options{Name: name, Level: c.Level, JSON: c.JSON, Sample: c.JSON, Rotate: c.Rotate}
	if name == "admin" {
		o.Rotate.Enable = false
	}
	return o
}

func level(s string) zapcore.Level {
	var l zapcore.Level
	if err := l.Set(strings.ToLower(strings.TrimSpace(s))); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

func encoder(jsonOut bool) zapcore.Encoder {
	if jsonOut {
		ec := zap.NewProductionEncoderConfig()
		ec.TimeKey = "ts"
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		ec.EncodeCaller = zapcore.ShortCallerEncoder
		return zapcore.NewJSONEncoder(ec)
	}
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	ec.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(ec)
}

// rotating lumberjack 自己管理落盘，Sync 不需要做事
type rotating struct{ *lumberjack.Logger }

func (rotating) Sync() error { return nil }

func fileSink(r config.Rotate) zapcore.WriteSyncer {
	return rotating{&lumberjack.Logger{
		Filename:   r.Filename,
		MaxSize:    max(1, r.MaxSizeMB),
		MaxBackups: max(0, r.MaxBackups),
		MaxAge:     max(0, r.MaxAgeDays),
		Compress:   r.Compress,
	}}
}

// Build 返回 logger 和退出前要调用的 flush
func Build(o Options) (*zap.Logger, func()) {
	lvl := level(o.Level)
	enc := encoder(o.JSON)

	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.Lock(os.Stdout), lvl)}
	if o.Rotate.Enable && o.Rotate.Filename != "" {
		cores = append(cores, zapcore.NewCore(enc, fileSink(o.Rotate), lvl))
	}
	core := zapcore.NewTee(cores...)
	if o.Sample {
		core = zapcore.NewSamplerWithOptions(core, time.Second, 100, 100)
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if !o.JSON {
		opts = append(opts, zap.Development())
	}
	l := zap.New(core, opts...)
	if o.Name != "" {
		l = l.Named(o.Name).With(zap.String("service", "grocery-"+o.Name))
	}
	return l, func() { _ = l.Sync() }
}

// lineWriter 把按行写入的文本（gin debug 输出等）转成 zap 日志
type lineWriter struct {
	l   *zap.Logger
	lvl zapcore.Level
}

func (w lineWriter) Write(p []byte) (int, error) {
	if ce := w.l.Check(w.lvl, strings.TrimRight(string(p), "\r\n")); ce != nil {
		ce.Write()
	}
	return len(p), nil
}

func ToWriter(l *zap.Logger, lvl zapcore.Level) io.Writer { return lineWriter{l: l, lvl: lvl} }

// ToStdLogger 给 http.Server.ErrorLog 用
func ToStdLogger(l *zap.Logger, lvl zapcore.Level) (*log.Logger, error) {
	return zap.NewStdLogAt(l, lvl)
}

// RedirectStdLog 返回恢复函数
func RedirectStdLog(l *zap.Logger, lvl zapcore.Level) func() {
	undo, err := zap.RedirectStdLogAt(l, lvl)
	if err != nil {
		return func() {}
	}
	return undo
}
