package util

import "strings"

// NormalizeURL 没有 http(s):// 前缀的地址视为站内相对路径，拼到 base 上
//
//	/uploads/a.jpg -> http://localhost:8080/uploads/a.jpg
func NormalizeURL(base, raw string) string {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}

	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return strings.TrimRight(base, "/") + raw
}
