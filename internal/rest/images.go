package rest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dfryer1193/goimages/api"
	"github.com/dfryer1193/goimages/images/application"
	"github.com/dfryer1193/goimages/images/domain"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	maxBodyBytes      = 1 << 20
	maxMultipartBytes = 8 << 20
)

// ImageService is what the handler needs from the application layer
type ImageService interface {
	GetImage(ctx context.Context, id int64) (*domain.Image, error)
	CreateImage(ctx context.Context, id int64, input application.ImageInput) (*domain.Image, error)
	DeleteImage(ctx context.Context, id int64) error
}

type ImagesHandler struct {
	svc ImageService
}

func NewImagesHandler(svc ImageService) *ImagesHandler {
	return &ImagesHandler{svc: svc}
}

func (h *ImagesHandler) RegisterRoutes(r gin.IRouter) {
	images := r.Group("/images")
	{
		images.GET("/:id", h.GetImage)
		images.POST("/:id", h.CreateImage)
		images.DELETE("/:id", h.DeleteImage)
	}
}

// imageID parses the path id. Anything that is not a positive integer
// addresses no image.
func imageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || !domain.ValidID(id) {
		return 0, false
	}
	return id, true
}

func (h *ImagesHandler) GetImage(c *gin.Context) {
	id, ok := imageID(c)
	if !ok {
		abortWithMessage(c, http.StatusNotFound, msgBadID)
		return
	}

	img, err := h.svc.GetImage(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, msgGetNotFound)
		return
	}

	c.JSON(http.StatusOK, api.NewImage(img))
}

func (h *ImagesHandler) CreateImage(c *gin.Context) {
	id, ok := imageID(c)
	if !ok {
		abortWithMessage(c, http.StatusNotFound, msgBadID)
		return
	}

	payload, err := readPayload(c)
	if err != nil {
		h.fail(c, err, msgGetNotFound)
		return
	}

	input, err := application.ValidateImagePayload(payload)
	if err != nil {
		h.fail(c, err, msgGetNotFound)
		return
	}

	img, err := h.svc.CreateImage(c.Request.Context(), id, input)
	if err != nil {
		h.fail(c, err, msgGetNotFound)
		return
	}

	c.JSON(http.StatusCreated, api.NewImage(img))
}

func (h *ImagesHandler) DeleteImage(c *gin.Context) {
	id, ok := imageID(c)
	if !ok {
		abortWithMessage(c, http.StatusNotFound, msgBadID)
		return
	}

	if err := h.svc.DeleteImage(c.Request.Context(), id); err != nil {
		h.fail(c, err, msgDeleteNotFound)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ImagesHandler) fail(c *gin.Context, err error, notFound string) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, api.Message{Message: msgInvalidPayload, Errors: verr.Fields})
	case errors.Is(err, domain.ErrImageExists):
		abortWithMessage(c, http.StatusConflict, msgImageExists)
	case errors.Is(err, domain.ErrImageNotFound):
		abortWithMessage(c, http.StatusNotFound, notFound)
	default:
		abortWithError(c, http.StatusInternalServerError, msgInternal, err)
	}
}

// readPayload collects the create fields from the body and the query string.
// Form fields override query arguments; a JSON body is kept raw for validation.
func readPayload(c *gin.Context) (application.Payload, error) {
	values := c.Request.URL.Query()
	p := application.Payload{Values: values}

	switch c.ContentType() {
	case binding.MIMEPOSTForm:
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		if err := c.Request.ParseForm(); err != nil {
			return p, bodyError("request body is not a valid form")
		}
		merge(values, c.Request.PostForm)
	case binding.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(maxMultipartBytes); err != nil {
			return p, bodyError("request body is not a valid multipart form")
		}
		merge(values, c.Request.MultipartForm.Value)
	default:
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
		if err != nil {
			return p, bodyError("request body could not be read")
		}
		if len(bytes.TrimSpace(body)) > 0 {
			p.JSON = body
		}
	}

	return p, nil
}

func merge(dst url.Values, src map[string][]string) {
	for k, v := range src {
		dst[k] = v
	}
}

func bodyError(msg string) error {
	return &application.ValidationError{Fields: map[string]string{"body": msg}}
}
