package dto

// Response 统一响应封装
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageMeta 分页元数据，pages = ceil(total/limit)
type PageMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// PageResult 分页响应体
type PageResult struct {
	Data interface{} `json:"data"`
	Meta PageMeta    `json:"meta"`
}
