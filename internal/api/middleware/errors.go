package middleware

import (
	"net/http"

	"github.com/emicklei/go-restful/v3"
)

// ErrorResponse is the JSON error body returned by every failing endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleError writes err as a JSON error response with the given status.
func HandleError(resp *restful.Response, err error, status int) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	resp.WriteHeaderAndEntity(status, ErrorResponse{Error: err.Error()})
}
