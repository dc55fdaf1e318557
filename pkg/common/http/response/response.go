package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeSuccess          = 20000
	CodeParamInvalid     = 40001
	CodeValidationFailed = 40002
	CodeInternalServer   = 50000
)

var messages = map[int]string{
	CodeSuccess:          "success",
	CodeParamInvalid:     "invalid parameters",
	CodeValidationFailed: "validation failed",
	CodeInternalServer:   "internal server error",
}

// Response is the envelope returned by every endpoint.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
}

// ErrorBody carries the detail of a failed request.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// ToErrorResponse converts an error or message into an ErrorBody.
func ToErrorResponse(v any) ErrorBody {
	switch e := v.(type) {
	case error:
		return ErrorBody{Detail: e.Error()}
	case string:
		return ErrorBody{Detail: e}
	default:
		return ErrorBody{}
	}
}

// HTTPStatus maps a response code to its HTTP status.
func HTTPStatus(code int) int {
	switch {
	case code >= 50000:
		return http.StatusInternalServerError
	case code >= 40000:
		return http.StatusBadRequest
	default:
		return http.StatusOK
	}
}

func SuccessResponse(c *gin.Context, code int, data any) {
	c.JSON(HTTPStatus(code), Response{Code: code, Message: messages[code], Data: data})
}

func ErrorResponse(c *gin.Context, code int, detail any) {
	c.AbortWithStatusJSON(HTTPStatus(code), Response{Code: code, Message: messages[code], Error: detail})
}
