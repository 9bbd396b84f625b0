package domain

import "time"

const (
	StatusComplete = "complete"
	StatusPartial  = "partial"
	StatusEmpty    = "empty"
)

const (
	ErrCodeTransportFailed = "transport_failed"
	ErrCodeBlocked         = "blocked"
	ErrCodeGraphQL         = "graphql_error"
	ErrCodeUserNotFound    = "user_not_found"
	ErrCodeCanceled        = "canceled"

	// 写盘失败（记录在 WriteErrorCode，不影响 status）。
	ErrCodeTargetConflict = "target_conflict"
	ErrCodeIOFailed       = "io_failed"
)

// ExportReport 是一次导出的对外稳定摘要（--json 时写到 stdout）。
type ExportReport struct {
	RunID    string `json:"run_id"`
	Username string `json:"username"`
	Output   string `json:"output"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Pages    int  `json:"pages"`
	Total    *int `json:"total"`
	Exported int  `json:"exported"`
	Written  bool `json:"written"`

	Status string `json:"status"`

	// ErrorCode/ErrorMsg 描述分页为何提前终止（正常结束时为空）。
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`

	// WriteError 非空表示 CSV 写盘失败（这是唯一的致命错误）。
	WriteError     string `json:"write_error"`
	WriteErrorCode string `json:"write_error_code"`
}

// Finalize 做两件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) status 由 exported/error_code 推导得出
//
// status 只描述“抓到了什么”；写盘结果看 Written/WriteError。
func (r *ExportReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	switch {
	case r.Exported == 0:
		r.Status = StatusEmpty
	case r.ErrorCode != "":
		r.Status = StatusPartial
	default:
		r.Status = StatusComplete
	}
}
