package provider

import (
	"errors"
	"fmt"
	"strings"
)

// HTTPStatusError 表示端点返回了非 200 的 HTTP 状态码。
// Snippet 是截断后的响应体（已去除 HTML 标记），用于诊断输出。
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Snippet    string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	s := strings.TrimSpace(e.Snippet)
	if s == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, s)
}

// BlockedError 表示请求被引导到了“验证/拦截”页面（通常是 CDN 的浏览器校验）。
// 产品约束：不尝试绕过，按传输失败处理。
type BlockedError struct {
	URL        string
	StatusCode int
	Reason     string // 例如拦截页的 <title>
}

func (e *BlockedError) Error() string {
	if e == nil {
		return "blocked"
	}
	if strings.TrimSpace(e.Reason) == "" {
		return fmt.Sprintf("HTTP %d: blocked", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: blocked: %s", e.StatusCode, strings.TrimSpace(e.Reason))
}

// TransportError 表示网络层失败（建连/超时/读取）或响应体无法解析。
type TransportError struct {
	Op  string // "request" / "read" / "decode"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// GraphQLError 表示 HTTP 200 但响应中带有 errors 数组（应用层错误）。
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "GraphQL errors: " + strings.Join(e.Messages, ", ")
}

// UserNotFoundError 表示响应中没有 user 对象：用户不存在，或资料未公开。
type UserNotFoundError struct {
	Username string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("User '%s' not found or profile is private.", e.Username)
}

// IsTransport 判断 err 是否属于传输层失败（网络/超时/非 200/拦截/响应无法解析）。
func IsTransport(err error) bool {
	var (
		se *HTTPStatusError
		be *BlockedError
		te *TransportError
	)
	return errors.As(err, &se) || errors.As(err, &be) || errors.As(err, &te)
}
