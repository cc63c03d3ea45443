package main

import (
	"strings"
	"testing"
)

func TestParseCLIFlagsPriority(t *testing.T) {
	t.Setenv("STATIC_SERVE_CONFIG", "/tmp/env.toml")

	opts, err := parseCLIFlags([]string{})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if opts.configPath != "/tmp/env.toml" {
		t.Fatalf("应优先使用环境变量，得到 %s", opts.configPath)
	}

	opts, err = parseCLIFlags([]string{"--config", "/tmp/flag.toml"})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if opts.configPath != "/tmp/flag.toml" {
		t.Fatalf("flag 应高于环境变量，得到 %s", opts.configPath)
	}
}

func TestParseCLIFlagsDefault(t *testing.T) {
	t.Setenv("STATIC_SERVE_CONFIG", "")
	opts, err := parseCLIFlags([]string{})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if opts.configPath != "config.toml" {
		t.Fatalf("缺省路径应为 config.toml，得到 %s", opts.configPath)
	}
}

func TestRunCheckConfigSuccess(t *testing.T) {
	_, errBuf := captureCLIOutput(t)
	code := run(cliOptions{configPath: configFixture(t, "valid.toml"), checkOnly: true})
	if code != 0 {
		t.Fatalf("期望退出码 0，得到 %d（stderr=%s）", code, errBuf.String())
	}
}

func TestRunCheckConfigFailure(t *testing.T) {
	captureCLIOutput(t)
	code := run(cliOptions{configPath: configFixture(t, "missing.toml"), checkOnly: true})
	if code == 0 {
		t.Fatalf("无效配置应返回非零退出码")
	}
}

func TestRunCheckConfigRejectsUnknownProvider(t *testing.T) {
	_, errBuf := captureCLIOutput(t)
	path := writeConfigFile(t, `
[Static]
IncludePath = ["@never-registered"]
`)
	code := run(cliOptions{configPath: path, checkOnly: true})
	if code == 0 {
		t.Fatalf("引用未注册生成器的配置应校验失败")
	}
	if !strings.Contains(errBuf.String(), "never-registered") {
		t.Fatalf("错误输出应包含生成器名称: %s", errBuf.String())
	}
}

func TestRunVersionOutput(t *testing.T) {
	outBuf, _ := captureCLIOutput(t)
	code := run(cliOptions{showVersion: true})
	if code != 0 {
		t.Fatalf("version 模式应成功退出，得到 %d", code)
	}
	if !strings.Contains(outBuf.String(), "static-serve") {
		t.Fatalf("version 输出应包含 static-serve 标识")
	}
}
