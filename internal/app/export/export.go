// Package export 驱动分页抓取、记录扁平化与 CSV 落盘。
package export

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/John-Robertt/scexport/internal/config"
	"github.com/John-Robertt/scexport/internal/csvout"
	"github.com/John-Robertt/scexport/internal/domain"
	"github.com/John-Robertt/scexport/internal/infra/fsx"
	"github.com/John-Robertt/scexport/internal/infra/httpx"
	"github.com/John-Robertt/scexport/internal/provider"
	"github.com/John-Robertt/scexport/internal/record"
)

// Result 是一次分页抓取的结果。
//
// Err 非 nil 表示分页提前终止；Records 仍包含终止前已累积的全部记录。
type Result struct {
	Records []domain.MovieRecord
	Pages   int
	Total   *int
	Err     error
}

// Exporter 串起 Fetcher -> record.ToRecord -> csvout。
type Exporter struct {
	fetcher provider.Fetcher
	logger  *slog.Logger
	obs     Observer
}

// New 构造 Exporter；logger/obs 允许为 nil。
func New(f provider.Fetcher, logger *slog.Logger, obs Observer) *Exporter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if obs == nil {
		obs = nopObserver{}
	}
	return &Exporter{fetcher: f, logger: logger, obs: obs}
}

// Collect 从 offset=0 开始按页抓取，直到以下任一条件成立（按顺序判定）：
// 1) 传输/解析失败  2) GraphQL errors  3) 用户不存在或未公开
// 4) 本页 0 条  5) offset 前进 limit 后 >= 已记住的 total
//
// 不做重试：任意一页失败即终止，已累积的记录原样保留。
// 每处理完一页（且未终止）后固定停顿 eff.PageDelay 再发下一次请求；终止那一轮之后不再停顿。
func (e *Exporter) Collect(ctx context.Context, eff config.EffectiveConfig) Result {
	limit := eff.PageSize
	if limit <= 0 {
		limit = config.PageSize
	}
	pacer := httpx.NewPacer(eff.PageDelay)

	e.obs.OnStart(eff)

	var res Result
	res.Records = make([]domain.MovieRecord, 0, limit)

	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			res.Err = err
			break
		}

		e.obs.OnPageStart(offset)
		started := time.Now()
		page, err := e.fetcher.FetchPage(ctx, provider.PageRequest{
			Username: eff.Username,
			Universe: eff.Universe,
			Limit:    limit,
			Offset:   offset,
		})
		if err != nil {
			res.Err = err
			break
		}
		res.Pages++

		// total 以第一次声明为准；服务端未声明时后续页仍可补上。
		if res.Total == nil && page.Total != nil {
			t := *page.Total
			res.Total = &t
		}

		dur := time.Since(started)
		e.obs.OnPageDone(offset, len(page.Products), res.Total, dur)
		e.logger.Debug("page fetched",
			slog.Int("offset", offset),
			slog.Int("items", len(page.Products)),
			slog.Int("accumulated", len(res.Records)+len(page.Products)),
			slog.Duration("elapsed", dur),
		)

		if len(page.Products) == 0 {
			break
		}
		for _, p := range page.Products {
			res.Records = append(res.Records, record.ToRecord(p))
		}

		offset += limit
		if res.Total != nil && offset >= *res.Total {
			break
		}

		if err := pacer.Pause(ctx); err != nil {
			res.Err = err
			break
		}
	}

	if res.Err != nil {
		e.logger.Info("export aborted",
			slog.Int("offset", offset),
			slog.Int("accumulated", len(res.Records)),
			slog.String("error_code", Classify(res.Err)),
			slog.String("error", res.Err.Error()),
		)
		e.obs.OnAbort(res.Err)
	}
	return res
}

// Export 执行一次完整导出并返回对外稳定的 ExportReport。
//
// 0 条记录时不写文件（status=empty）；写盘失败记录在 WriteError（致命）。
func (e *Exporter) Export(ctx context.Context, eff config.EffectiveConfig, runID string) domain.ExportReport {
	rr := domain.ExportReport{
		RunID:     runID,
		Username:  eff.Username,
		Output:    eff.Output,
		StartedAt: time.Now().UTC(),
	}

	res := e.Collect(ctx, eff)
	rr.Pages = res.Pages
	rr.Total = res.Total
	rr.Exported = len(res.Records)
	if res.Err != nil {
		rr.ErrorCode = Classify(res.Err)
		rr.ErrorMsg = res.Err.Error()
	}

	if len(res.Records) > 0 {
		if err := csvout.Write(res.Records, eff.Output); err != nil {
			rr.WriteError = err.Error()
			rr.WriteErrorCode = domain.ErrCodeIOFailed
			if fsx.IsPathTypeConflict(err) {
				rr.WriteErrorCode = domain.ErrCodeTargetConflict
			}
			e.logger.Error("csv write failed",
				slog.String("path", eff.Output),
				slog.String("error_code", rr.WriteErrorCode),
				slog.String("error", err.Error()),
			)
		} else {
			rr.Written = true
		}
	}

	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr
}

// Classify 把终止原因映射为 report 的 error_code。
func Classify(err error) string {
	if err == nil {
		return ""
	}
	var (
		be *provider.BlockedError
		ge *provider.GraphQLError
		ue *provider.UserNotFoundError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return domain.ErrCodeCanceled
	case errors.As(err, &be):
		return domain.ErrCodeBlocked
	case errors.As(err, &ge):
		return domain.ErrCodeGraphQL
	case errors.As(err, &ue):
		return domain.ErrCodeUserNotFound
	default:
		return domain.ErrCodeTransportFailed
	}
}
