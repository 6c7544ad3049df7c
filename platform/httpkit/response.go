package httpkit

import (
	"errors"
	"mime"
	"net/http"

	"sakkanal_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx JSON answer.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func JSON(c *gin.Context, status int, payload interface{}) { c.JSON(status, payload) }
func OK(c *gin.Context, payload interface{})               { c.JSON(http.StatusOK, payload) }
func Created(c *gin.Context, payload interface{})          { c.JSON(http.StatusCreated, payload) }
func Accepted(c *gin.Context, payload interface{})         { c.JSON(http.StatusAccepted, payload) }

func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// SetAttachment marks the response as a download. Non-ASCII file names are
// encoded as filename* so accented company names survive.
func SetAttachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}

// HandleError writes err and reports whether there was one. An *apperr.Error
// anywhere in the chain decides status and message; anything else becomes a
// bare 500. The cause is kept on the gin context for RequestLogger.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	_ = c.Error(err)

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:   domainErr.Message,
			Details: domainErr.Details,
		})
		return true
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	return true
}
