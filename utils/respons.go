package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freshpress/juicebar-app/apperror"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondAppError maps an application error to its HTTP status and stable
// code. Internal errors are logged with their cause but returned to the
// caller with an opaque message.
func RespondAppError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal(err, "unexpected error")
	}

	if appErr.Code == apperror.ErrCodeInternal {
		if ErrorLogger != nil {
			ErrorLogger.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, appErr)
		}
		c.JSON(appErr.HTTPStatus, JSONResponse{
			Status:  false,
			Code:    string(appErr.Code),
			Message: "internal error",
		})
		return
	}

	c.JSON(appErr.HTTPStatus, JSONResponse{
		Status:  false,
		Code:    string(appErr.Code),
		Message: appErr.Message,
	})
}
