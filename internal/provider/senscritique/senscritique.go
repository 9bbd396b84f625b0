// Package senscritique 实现 SensCritique GraphQL 端点的分页抓取。
package senscritique

import (
	"bytes"
	"context"
	"encoding/json"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/John-Robertt/scexport/internal/domain"
	"github.com/John-Robertt/scexport/internal/provider"
)

const (
	// DefaultEndpoint 是公开的 GraphQL 端点。
	DefaultEndpoint = "https://apollo.senscritique.com/"
	// WebOrigin 用于 Origin/Referer；缺失时端点会拒绝请求。
	WebOrigin = "https://www.senscritique.com"

	// UniverseMovie 是电影目录分区。
	UniverseMovie = "movie"

	snippetMax  = 200
	maxBodySize = 16 << 20
)

var _ provider.Fetcher = (*Client)(nil)

// Client 发送固定的 GraphQL 查询并把响应剥离为 CollectionPage。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string
	query      Query
}

// NewClient 构造 Client；endpoint 为空时使用 DefaultEndpoint。
func NewClient(httpClient *http.Client, logger *slog.Logger, endpoint string, q Query) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		endpoint:   endpoint,
		query:      q,
	}
}

type requestBody struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type response struct {
	Data *struct {
		User *struct {
			Collection *struct {
				Total    *int                `json:"total"`
				Products []domain.RawProduct `json:"products"`
			} `json:"collection"`
		} `json:"user"`
	} `json:"data"`
	// 只要 errors 字段出现（哪怕是空数组）就视为应用层错误；null 等同于缺失。
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchPage 发送一次 POST 并解析一页结果。
//
// 判定顺序：网络失败 -> 非 200 -> JSON 无法解析 -> errors 非空 -> user 缺失。
// user 存在但 collection 缺失时返回空页（由上层按“无更多条目”终止）。
func (c *Client) FetchPage(ctx context.Context, pr provider.PageRequest) (domain.CollectionPage, error) {
	body, err := json.Marshal(requestBody{
		OperationName: c.query.OperationName,
		Query:         c.query.Document,
		Variables: map[string]any{
			"username": pr.Username,
			"universe": pr.Universe,
			"limit":    pr.Limit,
			"offset":   pr.Offset,
		},
	})
	if err != nil {
		return domain.CollectionPage{}, &provider.TransportError{Op: "encode", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.CollectionPage{}, &provider.TransportError{Op: "request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Origin", WebOrigin)
	req.Header.Set("Referer", WebOrigin+"/")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("graphql request failed",
			slog.Int("offset", pr.Offset),
			slog.String("error", err.Error()),
		)
		return domain.CollectionPage{}, &provider.TransportError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return domain.CollectionPage{}, &provider.TransportError{Op: "read", Err: err}
	}

	c.logger.Debug("graphql response",
		slog.Int("offset", pr.Offset),
		slog.Int("limit", pr.Limit),
		slog.Int("http_status", resp.StatusCode),
		slog.Int("bytes", len(b)),
		slog.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode != http.StatusOK {
		return domain.CollectionPage{}, statusError(c.endpoint, resp.StatusCode, b)
	}

	var r response
	if err := json.Unmarshal(b, &r); err != nil {
		return domain.CollectionPage{}, &provider.TransportError{Op: "decode", Err: err}
	}

	if r.Errors != nil {
		msgs := make([]string, 0, len(r.Errors))
		for _, e := range r.Errors {
			msgs = append(msgs, e.Message)
		}
		return domain.CollectionPage{}, &provider.GraphQLError{Messages: msgs}
	}

	if r.Data == nil || r.Data.User == nil {
		return domain.CollectionPage{}, &provider.UserNotFoundError{Username: pr.Username}
	}

	col := r.Data.User.Collection
	if col == nil {
		return domain.CollectionPage{}, nil
	}
	return domain.CollectionPage{Total: col.Total, Products: col.Products}, nil
}

var stripPolicy = bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true)

// statusError 把非 200 响应转为可诊断的错误。
// HTML 拦截页（CDN 浏览器校验等）识别为 BlockedError，其余为 HTTPStatusError。
func statusError(url string, status int, body []byte) error {
	if !looksHTML(body) {
		return &provider.HTTPStatusError{URL: url, StatusCode: status, Snippet: truncate(string(body), snippetMax)}
	}

	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
		title := normSpace(doc.Find("title").First().Text())
		if isChallenge(doc, title) {
			return &provider.BlockedError{URL: url, StatusCode: status, Reason: title}
		}
	}

	text := normSpace(html.UnescapeString(stripPolicy.Sanitize(string(body))))
	return &provider.HTTPStatusError{URL: url, StatusCode: status, Snippet: truncate(text, snippetMax)}
}

var challengeTitles = []string{
	"just a moment",
	"attention required",
	"access denied",
	"verify you are human",
}

func isChallenge(doc *goquery.Document, title string) bool {
	if doc.Find("#challenge-form, #cf-wrapper, #challenge-running").Length() > 0 {
		return true
	}
	lt := strings.ToLower(title)
	for _, s := range challengeTitles {
		if strings.Contains(lt, s) {
			return true
		}
	}
	return false
}

func looksHTML(b []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(b))
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) ||
		bytes.HasPrefix(head, []byte("<html")) ||
		bytes.Contains(head, []byte("<head")) ||
		bytes.Contains(head, []byte("<body"))
}

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }

// truncate 按字符（而不是字节）截断，避免切出半个 UTF-8 序列。
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
