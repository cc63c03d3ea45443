package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// captureCLIOutput 将 stdOut/stdErr 替换为内存缓冲，便于断言 CLI 输出，
// 测试结束后自动还原。
func captureCLIOutput(t *testing.T) (outBuf, errBuf *bytes.Buffer) {
	t.Helper()

	outBuf = &bytes.Buffer{}
	errBuf = &bytes.Buffer{}
	prevOut, prevErr := stdOut, stdErr
	stdOut, stdErr = outBuf, errBuf
	t.Cleanup(func() {
		stdOut, stdErr = prevOut, prevErr
	})
	return outBuf, errBuf
}

var repoRoot string

func init() {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return
	}
	dir := filepath.Dir(file)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			repoRoot = dir
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func projectRoot(t *testing.T) string {
	t.Helper()
	if repoRoot == "" {
		t.Fatal("无法定位项目根目录")
	}
	return repoRoot
}

func configFixture(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(projectRoot(t), "internal", "config", "testdata", name)
}
