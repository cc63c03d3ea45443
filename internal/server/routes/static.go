package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/static-serve/static-serve/internal/config"
	"github.com/static-serve/static-serve/internal/passthrough"
	"github.com/static-serve/static-serve/internal/staticfile"
)

// RegisterStaticRoutes 暴露 /-/static 诊断接口，供 SRE 查询静态管线的生效配置。
func RegisterStaticRoutes(app *fiber.App, cfg *config.Config) {
	if app == nil || cfg == nil {
		return
	}

	app.Get("/-/static", func(c fiber.Ctx) error {
		payload := fiber.Map{
			"root":           cfg.Global.Root,
			"rules":          encodeRules(cfg.Static.Dirs),
			"include_path":   encodeIncludePath(cfg.Static.IncludePath),
			"mime_overrides": len(cfg.Static.MimeTypes),
			"passthrough":    encodePassthrough(cfg.Static),
			"debug":          cfg.Static.Debug,
		}
		return c.JSON(payload)
	})
}

type rulePayload struct {
	Rule string `json:"rule"`
	Kind string `json:"kind"`
}

type includePayload struct {
	Dir      string `json:"dir,omitempty"`
	Provider string `json:"provider,omitempty"`
	Status   string `json:"status,omitempty"`
}

func encodeRules(rules []config.DirRule) []rulePayload {
	if len(rules) == 0 {
		return nil
	}
	result := make([]rulePayload, 0, len(rules))
	for _, rule := range rules {
		kind := "literal"
		if rule.Kind == config.RulePattern {
			kind = "pattern"
		}
		result = append(result, rulePayload{Rule: rule.Raw, Kind: kind})
	}
	return result
}

func encodeIncludePath(entries []config.IncludeEntry) []includePayload {
	if len(entries) == 0 {
		return nil
	}
	result := make([]includePayload, 0, len(entries))
	for _, entry := range entries {
		if entry.IsProvider() {
			result = append(result, includePayload{
				Provider: entry.Provider,
				Status:   staticfile.ProviderStatus(entry.Provider),
			})
			continue
		}
		result = append(result, includePayload{Dir: entry.Dir})
	}
	return result
}

func encodePassthrough(cfg config.StaticConfig) fiber.Map {
	payload := fiber.Map{
		"enabled": cfg.UsePassthrough,
	}
	if !cfg.UsePassthrough {
		return payload
	}
	payload["engine"] = cfg.PassthroughEngine
	if engine, ok := passthrough.Lookup(cfg.PassthroughEngine); ok {
		payload["detected"] = engine.Detected()
		payload["document_root"] = engine.DocumentRoot()
	} else {
		payload["detected"] = false
	}
	return payload
}
