package server

import (
	"errors"
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/cinesub/SubsceneProxy/internal/apperrors"
)

// statusForError maps the client's typed errors onto proxy response codes.
// The site not knowing a resource is the caller's 404; the site answering
// badly is a bad gateway; the site not answering at all is a gateway timeout.
func statusForError(err error) int {
	switch {
	case errors.Is(err, &apperrors.ErrNotFound{}):
		return http.StatusNotFound
	case errors.Is(err, &apperrors.HTTPError{}):
		return http.StatusBadGateway
	case errors.Is(err, &apperrors.ParseError{}):
		return http.StatusBadGateway
	case errors.Is(err, &apperrors.TransportError{}):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error body. Responses in the 5xx range are
// also reported through the Sentry hub the middleware put on the context,
// when one is present.
func respondError(c *gin.Context, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
