package dto

// GenericResponse is the envelope every endpoint answers with, success or
// failure alike. TotalCount carries the size of the scoped set for paged
// responses and is zero elsewhere.
type GenericResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	TotalCount int    `json:"totalCount"`
}

// OK wraps a successful single-object response.
func OK(message string, data any) GenericResponse {
	return GenericResponse{Success: true, Message: message, Data: data}
}

// OKList wraps a successful paged response.
func OKList(message string, data any, totalCount int) GenericResponse {
	return GenericResponse{Success: true, Message: message, Data: data, TotalCount: totalCount}
}

// Fail wraps a failed response. Data stays null.
func Fail(message string) GenericResponse {
	return GenericResponse{Success: false, Message: message}
}
