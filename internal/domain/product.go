package domain

// RawProduct 是 GraphQL 返回的单个作品（只取导出需要的字段）。
//
// 约束：所有可缺失字段一律用指针/切片表达；使用方必须在访问处判空，
// 不依赖“缺失即空对象”的隐式默认。
type RawProduct struct {
	Title            *string       `json:"title"`
	YearOfProduction *int          `json:"yearOfProduction"`
	Directors        []RawDirector `json:"directors"`
	OtherUserInfos   *RawUserInfos `json:"otherUserInfos"`
}

type RawDirector struct {
	Name *string `json:"name"`
}

// RawUserInfos 是按 username 参数化的“某用户对该作品的标注”。
type RawUserInfos struct {
	Rating   *float64 `json:"rating"`
	DateDone *string  `json:"dateDone"`
}

// CollectionPage 是一次分页请求的结果（已剥离 data/user/collection 外壳）。
//
// Total 只在服务端声明时非空；Products 为空表示没有更多条目。
type CollectionPage struct {
	Total    *int
	Products []RawProduct
}
