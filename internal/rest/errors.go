package rest

import (
	"github.com/dfryer1193/goimages/api"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	msgGetNotFound    = "no image found with that id"
	msgDeleteNotFound = "image does not exist"
	msgImageExists    = "an image with that id already exists"
	msgInvalidPayload = "invalid image payload"
	msgInternal       = "internal server error"
	msgBadID          = "image id must be a positive integer"
)

func abortWithMessage(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, api.Message{Message: message})
}

// abortWithError hides err from the client but logs it and records it on the gin context
func abortWithError(c *gin.Context, code int, message string, err error) {
	log.Ctx(c.Request.Context()).Error().Err(err).Int("status", code).Msg(message)
	_ = c.Error(err)

	abortWithMessage(c, code, message)
}
