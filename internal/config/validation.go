package config

import (
	"errors"
	"strings"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
// 目录规则的正则编译在解析阶段已经完成，这里负责剩余的取值约束。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("ListenPort", "必须在 1-65535")
	}
	if g.Root == "" {
		return newFieldError("Root", "不能为空")
	}
	if g.LogMaxSize < 0 {
		return newFieldError("LogMaxSize", "不能为负数")
	}
	if g.LogMaxBackups < 0 {
		return newFieldError("LogMaxBackups", "不能为负数")
	}

	s := c.Static
	for ext, mimeType := range s.MimeTypes {
		if strings.TrimSpace(ext) == "" {
			return newFieldError(staticField("MimeTypes"), "扩展名键不能为空")
		}
		if strings.HasPrefix(ext, ".") {
			return newFieldError(staticField("MimeTypes"), "扩展名键不应包含点: "+ext)
		}
		if ext != strings.ToLower(ext) {
			return newFieldError(staticField("MimeTypes"), "扩展名键必须为小写: "+ext)
		}
		if strings.TrimSpace(mimeType) == "" {
			return newFieldError(staticField("MimeTypes"), "MIME 类型不能为空: "+ext)
		}
	}

	if s.UsePassthrough && strings.TrimSpace(s.PassthroughEngine) == "" {
		return newFieldError(staticField("PassthroughEngine"), "启用 UsePassthrough 时不能为空")
	}

	for _, rule := range s.Dirs {
		if rule.Raw == "" {
			return newFieldError(staticField("Dirs"), "规则不能为空字符串")
		}
	}

	return nil
}
