package rest

import "github.com/gin-gonic/gin"

// NewApi mounts the image resource and its documentation on router
func NewApi(router gin.IRouter, images *ImagesHandler, docs *DocsHandler) {
	images.RegisterRoutes(router)
	docs.RegisterRoutes(router)
}
