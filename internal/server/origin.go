package server

import (
	"net"
	"net/http"
	"strings"
)

// OriginChecker 校验 WebSocket 握手的 Origin 头
type OriginChecker struct {
	allowed  map[string]struct{}
	allowAny bool
}

// NewOriginChecker 创建来源校验器，列表中包含 "*" 时放行所有来源
func NewOriginChecker(origins []string) *OriginChecker {
	oc := &OriginChecker{allowed: make(map[string]struct{}, len(origins))}
	for _, origin := range origins {
		if origin == "*" {
			return &OriginChecker{allowAny: true}
		}
		oc.allowed[strings.ToLower(origin)] = struct{}{}
	}
	return oc
}

// Check 没有 Origin 头的请求（本地客户端、同源）直接放行
func (oc *OriginChecker) Check(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if oc.allowAny || origin == "" {
		return true
	}
	_, ok := oc.allowed[strings.ToLower(origin)]
	return ok
}

// GetClientIP 客户端 IP，优先使用代理头
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
