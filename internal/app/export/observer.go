package export

import (
	"time"

	"github.com/John-Robertt/scexport/internal/config"
)

// Observer 用于把“分页进度/终止原因”从核心流程中解耦出来。
//
// 约束：export 包只负责发事件，不做任何输出（由 CLI 决定展示方式）。
type Observer interface {
	// OnStart 在第一次请求之前调用。
	OnStart(eff config.EffectiveConfig)
	// OnPageStart 在每次请求发出前调用（每个尝试的页面恰好一次）。
	OnPageStart(offset int)
	// OnPageDone 在一页成功返回后调用；total 为已记住的声明总数（可能为 nil）。
	OnPageDone(offset, items int, total *int, dur time.Duration)
	// OnAbort 在分页因错误提前终止时调用（诊断信息）。
	OnAbort(err error)
}

type nopObserver struct{}

func (nopObserver) OnStart(config.EffectiveConfig) {}
func (nopObserver) OnPageStart(int) {}
func (nopObserver) OnPageDone(int, int, *int, time.Duration) {}
func (nopObserver) OnAbort(error) {}
