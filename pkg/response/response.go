package response

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}

// PageMeta describes one page of a paginated listing
type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// Page is the data payload of a paginated listing
type Page struct {
	Items interface{} `json:"items"`
	Meta  PageMeta    `json:"meta"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// SuccessWithPagination wraps one page of items and its position
func SuccessWithPagination(statusCode int, items interface{}, page, limit int, total int64) Response {
	pages := 0
	if limit > 0 && total > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Success(statusCode, Page{
		Items: items,
		Meta:  PageMeta{Page: page, Limit: limit, Total: total, Pages: pages},
	})
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, message string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Message:    message,
	}
}

// ValidationError returns an error response carrying per-field details
func ValidationError(statusCode int, message string, errors interface{}) Response {
	resp := Error(statusCode, message)
	resp.Errors = errors
	return resp
}
