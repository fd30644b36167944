package helper

import (
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/pkg/logger"
	"net/http"
)

// ParseResponse fills the message from the status text when empty and logs
// server-side failures once, here, instead of at every call site.
func ParseResponse(r *types.Response) *types.Response {
	if r.Code == 0 {
		r.Code = http.StatusOK
	}
	if r.Message == "" {
		r.Message = http.StatusText(r.Code)
	}
	if r.Error != nil && r.Code >= http.StatusInternalServerError {
		logger.Error.Printf("%s: %v", r.Message, r.Error)
	}
	return r
}

// ToResponseAPI converts a service response into the client envelope.
func ToResponseAPI(r *types.Response) types.ResponseAPI {
	res := types.ResponseAPI{
		Status:  r.Code,
		Message: r.Message,
		Data:    r.Data,
	}
	if r.Error != nil {
		res.Error = r.Error.Error()
	}
	return res
}
