package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
// 目录规则与搜索路径条目在这里一次性解析为带标签的结构，
// 请求处理阶段不再出现字符串约定嗅探。
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		dirRuleDecodeHook(),
		includeEntryDecodeHook(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyGlobalDefaults(&cfg.Global)

	absRoot, err := filepath.Abs(cfg.Global.Root)
	if err != nil {
		return nil, fmt.Errorf("无法解析应用根目录: %w", err)
	}
	cfg.Global.Root = absRoot

	applyStaticDefaults(&cfg, v)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", 5000)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("Root", "./public")
}

func applyGlobalDefaults(g *GlobalConfig) {
	if g.ListenPort == 0 {
		g.ListenPort = 5000
	}
	if g.LogLevel == "" {
		g.LogLevel = "info"
	}
	if g.Root == "" {
		g.Root = "./public"
	}
}

// applyStaticDefaults 注入依赖其他字段的缺省值：搜索路径回退到应用根目录，
// Debug 未显式配置时继承全局日志级别。
func applyStaticDefaults(cfg *Config, v *viper.Viper) {
	if len(cfg.Static.IncludePath) == 0 {
		cfg.Static.IncludePath = []IncludeEntry{{Dir: cfg.Global.Root}}
	}
	if !v.IsSet("Static.Debug") {
		cfg.Static.Debug = strings.EqualFold(cfg.Global.LogLevel, "debug")
	}
}

// dirRuleDecodeHook 把配置中的规则字符串解析为 DirRule，非法正则立即报错。
func dirRuleDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(DirRule{})

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}
		raw, ok := data.(string)
		if !ok {
			return nil, fmt.Errorf("目录规则必须是字符串，收到 %T", data)
		}
		return ParseDirRule(raw)
	}
}

// includeEntryDecodeHook 把搜索路径字符串解析为 IncludeEntry，@ 前缀引用生成器。
func includeEntryDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(IncludeEntry{})

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}
		raw, ok := data.(string)
		if !ok {
			return nil, fmt.Errorf("IncludePath 条目必须是字符串，收到 %T", data)
		}
		return ParseIncludeEntry(raw), nil
	}
}
