package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const apiVersion = "v0"

type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	RequestID string    `json:"requestId"`
}

// Response is the envelope around every response body.
type Response struct {
	Data     any      `json:"data"`
	Errors   []string `json:"errors"`
	Metadata Metadata `json:"metadata"`
}

func newResponse(c *gin.Context, data any, errors []string) Response {
	requestId := c.GetString(requestIdKey)
	if requestId == "" {
		requestId = uuid.New().String()
	}
	if errors == nil {
		errors = []string{}
	}
	return Response{
		Data:   data,
		Errors: errors,
		Metadata: Metadata{
			Timestamp: time.Now(),
			Version:   apiVersion,
			RequestID: requestId,
		},
	}
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, newResponse(c, data, nil))
}

func respondError(c *gin.Context, status int, errors ...string) {
	c.JSON(status, newResponse(c, nil, errors))
}
