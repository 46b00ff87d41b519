package model

// Response is the envelope of every JSON reply
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func NewSuccessResponse(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

func NewErrorResponse(message, details string) Response {
	return NewCodedErrorResponse("internal", message, details)
}

// NewCodedErrorResponse carries a machine-readable error code
func NewCodedErrorResponse(code, message, details string) Response {
	return Response{
		Success: false,
		Message: message,
		Error:   &ErrorBody{Code: code, Message: message, Details: details},
	}
}
