package provider

import (
	"context"

	"github.com/John-Robertt/scexport/internal/domain"
)

// PageRequest 是一次分页请求的全部变量。
type PageRequest struct {
	Username string
	Universe string
	Limit    int
	Offset   int
}

// Fetcher 把“站点/协议变化”限制在 provider 包内部；分页流程只依赖该接口。
//
// 约束：
// - FetchPage 不做缓存、不做重试、不做限速（由上层统一控制）
// - 失败一律以类型化 error 返回（见 http_error.go），不 panic
type Fetcher interface {
	FetchPage(ctx context.Context, req PageRequest) (domain.CollectionPage, error)
}
