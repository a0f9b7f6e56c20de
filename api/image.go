package api

import "github.com/dfryer1193/goimages/images/domain"

// Image is the wire form of an image record. Field order is the response order.
type Image struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
}

func NewImage(img *domain.Image) Image {
	return Image{
		ID:     img.ID,
		Name:   img.Name,
		Format: img.Format,
		Size:   img.Size,
	}
}

// Message is the body of every error response
type Message struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}
