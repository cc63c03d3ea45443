package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/static-serve/static-serve/internal/config"
)

// InitLogger 根据全局配置初始化 JSON 结构化日志。文件输出不可用时降级到
// stdout 并以 logger_fallback 记录原因，check-config 与服务启动不因日志
// 目录问题而失败。
func InitLogger(cfg config.GlobalConfig) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("无法解析日志级别: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	logger.SetOutput(os.Stdout)

	if cfg.LogFilePath != "" {
		rotator, rotErr := fileRotator(cfg)
		if rotErr != nil {
			logger.WithFields(logrus.Fields{
				"action": "logger_fallback",
				"path":   cfg.LogFilePath,
			}).Warn(rotErr.Error())
		} else {
			logger.SetOutput(rotator)
		}
	}

	// 第三方库内部经由全局 logrus 输出的日志保持一致的格式与去向。
	logrus.SetFormatter(logger.Formatter)
	logrus.SetOutput(logger.Out)
	logrus.SetLevel(logger.GetLevel())

	return logger, nil
}

// fileRotator 创建按大小轮转的日志文件输出，目录不存在时先行创建。
func fileRotator(cfg config.GlobalConfig) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0o755); err != nil {
		return nil, fmt.Errorf("创建日志目录失败: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   cfg.LogFilePath,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		Compress:   cfg.LogCompress,
		LocalTime:  true,
	}, nil
}
