package request

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huynhanx03/go-consumable/pkg/common/http/response"
	"github.com/huynhanx03/go-consumable/pkg/common/http/validation"
)

// ParseRequest binds the JSON body (or the query string for GET) into T and
// validates it. On failure the error response is already written.
func ParseRequest[T any](c *gin.Context) (*T, bool) {
	var req T

	bind := c.ShouldBindJSON
	if c.Request.Method == http.MethodGet {
		bind = c.ShouldBindQuery
	}
	if err := bind(&req); err != nil {
		response.ErrorResponse(c, response.CodeParamInvalid, response.ToErrorResponse(err))
		return nil, false
	}

	if ok, msg := validation.IsRequestValid(req); !ok {
		response.ErrorResponse(c, response.CodeValidationFailed, response.ToErrorResponse(msg))
		return nil, false
	}

	return &req, true
}
