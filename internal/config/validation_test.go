package config

import (
	"errors"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Global: GlobalConfig{
			ListenPort: 5000,
			LogLevel:   "info",
			Root:       "/srv/public",
		},
		Static: StaticConfig{
			IncludePath: []IncludeEntry{{Dir: "/srv/public"}},
		},
	}
}

func TestValidateAcceptsMinimalConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("合法配置不应报错: %v", err)
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := validConfig()
	cfg.Global.ListenPort = 70000
	assertFieldError(t, cfg.Validate(), "ListenPort")
}

func TestValidateRejectsEmptyRoot(t *testing.T) {
	cfg := validConfig()
	cfg.Global.Root = ""
	assertFieldError(t, cfg.Validate(), "Root")
}

func TestValidateMimeTypeKeys(t *testing.T) {
	cases := map[string]map[string]string{
		"带点":  {".css": "text/css"},
		"大写":  {"OMG": "text/example"},
		"空键":  {"": "text/plain"},
		"空类型": {"css": " "},
	}
	for name, overrides := range cases {
		cfg := validConfig()
		cfg.Static.MimeTypes = overrides
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s 的 MIME 键应校验失败", name)
		}
	}

	cfg := validConfig()
	cfg.Static.MimeTypes = map[string]string{"omg": "text/example"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("合法覆盖表不应报错: %v", err)
	}
}

func TestValidateRejectsEmptyDirRule(t *testing.T) {
	cfg := validConfig()
	rule, err := ParseDirRule("/static")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	cfg.Static.Dirs = []DirRule{rule, {}}
	assertFieldError(t, cfg.Validate(), "Static.Dirs")
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	if err == nil {
		t.Fatalf("字段 %s 应校验失败", field)
	}
	var fieldErr FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("应返回 FieldError，得到 %T: %v", err, err)
	}
	if fieldErr.Field != field {
		t.Fatalf("字段路径应为 %s，得到 %s", field, fieldErr.Field)
	}
}
