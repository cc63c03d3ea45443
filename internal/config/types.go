package config

// GlobalConfig 描述进程级运行参数，所有请求共享同一份配置。
type GlobalConfig struct {
	ListenPort    int    `mapstructure:"ListenPort"`
	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`

	// Root 是应用根目录，IncludePath 缺省时即以它作为唯一搜索目录。
	Root string `mapstructure:"Root"`
}

// StaticConfig 控制静态资源解析管线，加载完成后只读，可被并发请求共享。
type StaticConfig struct {
	// Dirs 按序评估，命中即强制走静态模式；字面规则前缀锚定，re: 规则按正则匹配。
	Dirs []DirRule `mapstructure:"Dirs"`

	// IncludePath 是扩展名触发查找时的有序搜索路径，@name 条目引用目录生成器。
	IncludePath []IncludeEntry `mapstructure:"IncludePath"`

	// MimeTypes 覆盖外部 MIME 数据库，键为小写扩展名（不含点）。
	MimeTypes map[string]string `mapstructure:"MimeTypes"`

	// UsePassthrough 允许把默认根目录下的命中委托给前置原生服务器。
	UsePassthrough    bool   `mapstructure:"UsePassthrough"`
	PassthroughEngine string `mapstructure:"PassthroughEngine"`

	// Debug 开启逐请求 trace，缺省继承 LogLevel == "debug"。
	Debug bool `mapstructure:"Debug"`

	// IgnoreExtensions/IgnoreDirs 仅约束扩展名启发式，不影响 Dirs 规则。
	IgnoreExtensions []string `mapstructure:"IgnoreExtensions"`
	IgnoreDirs       []string `mapstructure:"IgnoreDirs"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global GlobalConfig `mapstructure:",squash"`
	Static StaticConfig `mapstructure:"Static"`
}

// HasMimeOverrides 表示是否配置了 MIME 覆盖表；存在覆盖时原生委托被禁用。
func (c *Config) HasMimeOverrides() bool {
	return len(c.Static.MimeTypes) > 0
}
