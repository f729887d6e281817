package httperr

import (
	"net/http"

	"storefront-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Kind    string `json:"kind,omitempty"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail
	if appErr, ok := errs.AsError(err); ok {
		resp.Error.Kind = string(appErr.Kind)
	}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Respond maps a use case error to its status by kind. Fatal errors never
// leak their message.
func Respond(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	status := kind.HTTPStatus()

	msg := "Internal server error"
	var detail any
	if appErr, ok := errs.AsError(err); ok && kind != errs.KindFatal {
		msg = appErr.Message
		detail = appErr.Detail
	}
	if status == http.StatusInternalServerError {
		detail = nil
	}
	AbortWithError(c, status, err, msg, detail)
}
