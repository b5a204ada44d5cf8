package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-auth/internal/usecase"
)

// ErrorCase pairs a sentinel error with the HTTP status and message a
// handler responds with when it sees that error.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// RespondWithMappedError writes the response for a service error.
// Validation failures short-circuit to 400 with their own message,
// which is always safe to return verbatim; anything not covered by
// cases gets the fallback.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: verr.Message})
		return
	}

	status, message := fallbackStatus, fallbackMessage
	for _, cs := range cases {
		if cs.Err != nil && errors.Is(err, cs.Err) {
			status, message = cs.Status, cs.Message
			break
		}
	}

	c.JSON(status, ErrorResponse{Error: message})
}
