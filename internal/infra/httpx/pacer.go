package httpx

import (
	"context"
	"time"
)

// Pacer 在相邻两页之间插入固定停顿（对远端友好）。
//
// 停顿从上一页处理完开始计时，与响应耗时无关；interval<=0 时不停顿（测试用）。
type Pacer struct {
	interval time.Duration
}

func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Pause 阻塞 interval，ctx 结束时提前返回 ctx.Err()。
func (p *Pacer) Pause(ctx context.Context) error {
	if p == nil || p.interval <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
