package httpx

import (
	"errors"
	"net"
	"net/http"
	"time"
)

const (
	// ConnectTimeout 覆盖 TCP 建连 + TLS 握手。
	ConnectTimeout = 10 * time.Second
	// ReadTimeout 是发出请求后等待响应头的上限；整体超时 = 建连 + 读取。
	ReadTimeout = 30 * time.Second

	// DefaultUserAgent 是浏览器风格 UA；目标站点会拒绝明显的脚本 UA。
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Transport 把“默认 UA + keep-alive 策略”固化为统一策略。
//
// 不做重试：导出流程约定任意一页失败即终止（由上层决定如何收尾）。
type Transport struct {
	Base *http.Transport

	// UserAgent 仅在请求未显式设置 UA 时生效。
	UserAgent string
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}

	r := req
	if r.Header.Get("User-Agent") == "" && t.UserAgent != "" {
		// Clone 会复制 Header 等，避免在 RoundTripper 内部“污染”调用方的 request。
		r = req.Clone(req.Context())
		r.Header.Set("User-Agent", t.UserAgent)
	}
	return t.Base.RoundTrip(r)
}

// NewClient 构造 GraphQL 抓取用的 HTTP client。
//
// 规则：
// - 建连（含 TLS）上限 ConnectTimeout，等待响应头上限 ReadTimeout
// - 两者均为固定值，不对外暴露配置
func NewClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   ConnectTimeout,
		ResponseHeaderTimeout: ReadTimeout,
		MaxIdleConns:          4,
		IdleConnTimeout:       90 * time.Second,
	}
	return &http.Client{
		Transport: &Transport{
			Base:      base,
			UserAgent: DefaultUserAgent,
		},
		Timeout: ConnectTimeout + ReadTimeout,
	}
}
