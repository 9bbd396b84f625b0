// Package record 把 GraphQL 原始作品扁平化为 CSV 行。
package record

import (
	"strings"
	"time"

	"github.com/John-Robertt/scexport/internal/domain"
)

// ToRecord 是纯函数：相同输入 => 相同输出，且对任意字段缺失都不会失败。
func ToRecord(p domain.RawProduct) domain.MovieRecord {
	names := make([]string, 0, len(p.Directors))
	for _, d := range p.Directors {
		if d.Name == nil {
			names = append(names, "")
			continue
		}
		names = append(names, *d.Name)
	}

	rec := domain.MovieRecord{
		Title:     p.Title,
		Year:      p.YearOfProduction,
		Directors: strings.Join(names, ", "),
	}
	if p.OtherUserInfos != nil {
		rec.Rating10 = p.OtherUserInfos.Rating
		rec.WatchedDate = FormatDate(p.OtherUserInfos.DateDone)
	}
	return rec
}

// 按“最常见 => 最宽松”排列；带时区的格式必须排在不带时区的前面。
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 Z0700",
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// FormatDate 把观看日期规范化为 YYYY-MM-DD。
//
// - nil 或空串：返回 nil
// - 能解析：按时间戳自身的时区取日期（不转换到本地时区）
// - 无法解析：原样返回（单条日期异常不影响整次导出）
func FormatDate(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	raw := *s
	v := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, v)
		if err != nil {
			continue
		}
		out := t.Format("2006-01-02")
		return &out
	}
	return &raw
}
