package models

// ApiResponse is the envelope every handler writes. Page/Limit/Total are
// only set for list endpoints.
type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Page    int         `json:"page,omitempty"`
	Limit   int         `json:"limit,omitempty"`
	Total   int         `json:"total,omitempty"`
}

func SuccessResponse(data interface{}, message string) ApiResponse {
	return ApiResponse{Success: true, Data: data, Message: message}
}

func ErrorResponse(err string) ApiResponse {
	return ApiResponse{Success: false, Error: err}
}

// PaginatedResponse wraps one page of results with its paging window and
// the total match count.
func PaginatedResponse(data interface{}, page, limit, total int) ApiResponse {
	return ApiResponse{Success: true, Data: data, Page: page, Limit: limit, Total: total}
}
