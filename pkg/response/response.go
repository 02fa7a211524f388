package response

// Response is the standard API envelope shared by all endpoints
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success wraps data in a successful envelope with a human-readable message
func Success(message string, data interface{}) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// Error wraps an error message in a failed envelope
func Error(err string) Response {
	return Response{
		Success: false,
		Error:   err,
	}
}
