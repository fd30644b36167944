package types

// Response is what every service method hands back to its handler.
type Response struct {
	Code    int
	Message string
	Data    any
	Error   error
	Headers map[string]string
}

// ResponseAPI is the JSON envelope written to clients.
type ResponseAPI struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
