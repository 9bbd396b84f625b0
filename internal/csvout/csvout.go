// Package csvout 把 MovieRecord 序列化为固定表头的 CSV。
package csvout

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/John-Robertt/scexport/internal/domain"
	"github.com/John-Robertt/scexport/internal/infra/fsx"
)

// Header 是导出文件的表头（对外契约，不可调整顺序）。
var Header = []string{"Title", "Year", "Directors", "Rating10", "WatchedDate"}

// Encode 按输入顺序输出 CSV（含表头）。
//
// 规则：
// - nil 字段输出为空单元格
// - 评分用最短十进制表示（7、7.5），不补小数位
// - 含分隔符/引号/换行的字段按 RFC 4180 加引号转义
func Encode(records []domain.MovieRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, err
	}
	row := make([]string, len(Header))
	for _, r := range records {
		row[0] = str(r.Title)
		row[1] = intStr(r.Year)
		row[2] = r.Directors
		row[3] = floatStr(r.Rating10)
		row[4] = str(r.WatchedDate)
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write 创建（或覆盖）path 并写入全部记录。写入是原子的。
func Write(records []domain.MovieRecord, path string) error {
	b, err := Encode(records)
	if err != nil {
		return err
	}
	return fsx.WriteFile(path, b)
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intStr(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func floatStr(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
