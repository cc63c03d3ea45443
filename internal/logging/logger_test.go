package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/static-serve/static-serve/internal/config"
)

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	_, err := InitLogger(config.GlobalConfig{LogLevel: "noisy"})
	if err == nil {
		t.Fatalf("非法日志级别应报错")
	}
}

func TestInitLoggerStdoutByDefault(t *testing.T) {
	logger, err := InitLogger(config.GlobalConfig{LogLevel: "debug"})
	if err != nil {
		t.Fatalf("初始化失败: %v", err)
	}
	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("级别应为 debug，得到 %v", logger.GetLevel())
	}
	if logger.Out != os.Stdout {
		t.Fatalf("未配置文件路径时应输出到 stdout")
	}
}

func TestInitLoggerWithFileOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "static-serve.log")
	logger, err := InitLogger(config.GlobalConfig{
		LogLevel:    "info",
		LogFilePath: logPath,
		LogMaxSize:  10,
	})
	if err != nil {
		t.Fatalf("初始化失败: %v", err)
	}
	if logger.Out == os.Stdout {
		t.Fatalf("配置文件路径后不应输出到 stdout")
	}
	if _, err := os.Stat(filepath.Dir(logPath)); err != nil {
		t.Fatalf("日志目录应已创建: %v", err)
	}
}
