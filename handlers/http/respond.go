package httpHandler

import (
	"bytes"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"starwars-api/apperror"
	"starwars-api/logging"
	"starwars-api/usecases"
)

// respondError writes err as {"msg", "fields"} with the matching status.
// Server side failures are logged with the request logger.
func respondError(c *gin.Context, err error) {
	appErr := apperror.FromError(err)
	status := appErr.StatusCode()
	if status >= 500 {
		logging.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, appErr.ToResponse())
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		respondError(c, apperror.NewBadRequestError(name+" must be a positive integer", err))
		return 0, false
	}
	return uint(id), true
}

// bindPayload decodes the body into a Payload. Numbers are kept as
// json.Number so large values are not rounded. An absent body or a JSON
// null is treated as an empty payload and rejected by the use case.
func bindPayload(c *gin.Context) (usecases.Payload, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, apperror.NewBadRequestError("Invalid request body", err))
		return nil, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return usecases.Payload{}, true
	}

	var payload usecases.Payload
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		respondError(c, apperror.NewBadRequestError("Invalid request body", err))
		return nil, false
	}
	if payload == nil {
		payload = usecases.Payload{}
	}
	return payload, true
}
