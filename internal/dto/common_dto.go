package dto

// TimeLayout 响应中的时间格式
const TimeLayout = "2006-01-02 15:04:05"

// ListResponse 列表响应
type ListResponse struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
}

// DedupeResponse 标签去重结果
type DedupeResponse struct {
	Groups   int `json:"groups"`
	Removed  int `json:"removed"`
	Relinked int `json:"relinked"`
}

// PageQuery 分页查询参数
type PageQuery struct {
	Page    int `form:"page" binding:"omitempty,gte=1"`
	PerPage int `form:"per_page" binding:"omitempty,gte=1,lte=100"`
}
