package domain

// MovieRecord 是扁平化后的一行导出数据。
//
// 不变量：Directors 永远不是“缺失”，没有导演时为空串；其余字段允许为 nil。
type MovieRecord struct {
	Title       *string
	Year        *int
	Directors   string
	Rating10    *float64
	WatchedDate *string // YYYY-MM-DD；无法解析时保留原始字符串
}
