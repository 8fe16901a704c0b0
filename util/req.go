package util

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/tightknit-app/tightknit-be/apperror"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Status  int
	Message string
}

func (he *HTTPError) Error() string {
	return fmt.Sprintf("%v (statusCode=%v)", he.Message, he.Status)
}

var (
	DbHTTPErr = HTTPError{
		Message: "database error",
		Status:  http.StatusInternalServerError,
	}
	MalformedIdHTTPErr = HTTPError{
		Message: "id malformed",
		Status:  http.StatusBadRequest,
	}
)

type HandlerOpts struct {
}

// HandlerWrapper adapts a value-or-error handler into a gin.HandlerFunc with
// the standard response envelope: {"success": true, "data": ...} on success,
// {"success": false, "message": ...} on error.
func HandlerWrapper(handler func(c *gin.Context) (interface{}, *HTTPError), opts *HandlerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, httpErr := handler(c)
		if httpErr != nil {
			HandleHTTPErrorRes(c, httpErr)
			return
		}
		res := gin.H{"success": true}
		if data != nil {
			res["data"] = data
		}
		c.JSON(http.StatusOK, res)
	}
}

/*
	HandleHTTPErrorRes handles creating the appropriate response for the HTTP error.
	break the route after calling this function
*/
func HandleHTTPErrorRes(c *gin.Context, err *HTTPError) {
	c.JSON(err.Status, gin.H{
		"success": false,
		"message": err.Message,
	})
}

func BuildJSONBindHTTPErr(err error) *HTTPError {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: "malformed request body",
	}
}

// BuildDbHTTPErr hides store errors behind a generic message but logs the
// cause.
func BuildDbHTTPErr(err error) *HTTPError {
	log.Println("database error occurred", err)
	return &DbHTTPErr
}

// HTTPErrorFromErr maps application errors onto HTTP statuses. Anything that
// is not an apperror sentinel is treated as a store failure.
func HTTPErrorFromErr(err error) *HTTPError {
	status := 0
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrNotAuthorized):
		status = http.StatusForbidden
	case errors.Is(err, apperror.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, apperror.ErrValidation),
		errors.Is(err, apperror.ErrInvalidState),
		errors.Is(err, apperror.ErrCapacityExceeded):
		status = http.StatusBadRequest
	default:
		return BuildDbHTTPErr(err)
	}
	return &HTTPError{
		Status:  status,
		Message: err.Error(),
	}
}
