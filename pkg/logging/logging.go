// Package logging 配置全局 zerolog 日志器
//
// 各系统通过 For("GhostSystem") 获取带 system 字段的子日志器，
// 输出形如 `INF 幽灵开始追击 system=GhostSystem ghost=...`。
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvLogLevel 覆盖日志级别的环境变量（trace/debug/info/warn/error/disabled）
const EnvLogLevel = "GHOSTFRAME_LOG_LEVEL"

// Init 安装全局日志器
//
// 参数:
//   - verbose: false 时关闭日志输出（与 --verbose 未开启时丢弃日志一致），
//     true 时输出 debug 及以上级别
//
// 环境变量 GHOSTFRAME_LOG_LEVEL 优先于 verbose。
func Init(verbose bool) zerolog.Logger {
	return InitWithWriter(os.Stderr, verbose)
}

// InitWithWriter 与 Init 相同，但输出到指定 writer（测试使用）
func InitWithWriter(out io.Writer, verbose bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.TimeOnly,
	}
	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger

	level := zerolog.Disabled
	if verbose {
		level = zerolog.DebugLevel
	}
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		level = lvl
	}
	zerolog.SetGlobalLevel(level)

	return logger
}

// For 返回带 system 字段的子日志器
func For(system string) zerolog.Logger {
	return log.Logger.With().Str("system", system).Logger()
}

func parseLevel(raw string) (zerolog.Level, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return zerolog.NoLevel, false
	}
	if raw == "off" {
		return zerolog.Disabled, true
	}
	lvl, err := zerolog.ParseLevel(raw)
	if err != nil {
		return zerolog.NoLevel, false
	}
	return lvl, true
}
