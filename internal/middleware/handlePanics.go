package middleware

import (
	"fmt"
	"net/http"

	"github.com/dfryer1193/goimages/api"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HandlePanics turns a recovered panic into a 500 with the usual error envelope
func HandlePanics() gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("%v", recovered)
		}

		log.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.Message{Message: "internal server error"})
	}
}
