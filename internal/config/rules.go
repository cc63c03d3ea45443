package config

import (
	"fmt"
	"regexp"
	"strings"
)

// RuleKind 区分目录规则的两种形态：字面前缀与显式正则。
type RuleKind int

const (
	// RuleLiteral 表示按前缀匹配的字面规则。
	RuleLiteral RuleKind = iota
	// RulePattern 表示配置中以 re: 标记声明的显式正则规则。
	RulePattern
)

// patternMarker 是配置字符串中声明正则规则的前缀标记，加载时一次性解析，
// 请求路径匹配阶段不再做任何字符串嗅探。
const patternMarker = "re:"

// DirRule 是加载阶段编译完成的目录规则。字面规则编译为 ^<rule> 前缀锚定
// 模式（保留规则内正则元字符的原始语义），显式正则按原样编译。
type DirRule struct {
	Raw  string
	Kind RuleKind

	re *regexp.Regexp
}

// ParseDirRule 将配置字符串解析为 DirRule。非法正则属于配置错误，启动即失败。
func ParseDirRule(raw string) (DirRule, error) {
	if src, ok := strings.CutPrefix(raw, patternMarker); ok {
		re, err := regexp.Compile(src)
		if err != nil {
			return DirRule{}, fmt.Errorf("无法编译正则规则 %q: %w", raw, err)
		}
		return DirRule{Raw: raw, Kind: RulePattern, re: re}, nil
	}

	re, err := regexp.Compile("^" + raw)
	if err != nil {
		return DirRule{}, fmt.Errorf("无法编译前缀规则 %q: %w", raw, err)
	}
	return DirRule{Raw: raw, Kind: RuleLiteral, re: re}, nil
}

// Matches 判断请求路径是否落入规则范围，调用方按配置顺序扫描、首个命中即停。
func (r DirRule) Matches(path string) bool {
	if r.re == nil {
		return false
	}
	return r.re.MatchString(path)
}

// providerMarker 标记 IncludePath 中引用已注册目录生成器的条目。
const providerMarker = "@"

// IncludeEntry 是搜索路径中的一个条目：要么是字面目录，要么引用一个
// 代码注册的目录生成器（Provider 非空时生效）。空目录条目予以保留，
// 由搜索器在消耗一次配额后跳过。
type IncludeEntry struct {
	Dir      string
	Provider string
}

// ParseIncludeEntry 解析 IncludePath 条目，@name 形式引用生成器。
func ParseIncludeEntry(raw string) IncludeEntry {
	if name, ok := strings.CutPrefix(raw, providerMarker); ok {
		return IncludeEntry{Provider: strings.TrimSpace(name)}
	}
	return IncludeEntry{Dir: raw}
}

// IsProvider 表示该条目是否引用目录生成器。
func (e IncludeEntry) IsProvider() bool {
	return e.Provider != ""
}
