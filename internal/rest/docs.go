package rest

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"

	"github.com/dfryer1193/goimages/api"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-openapi/spec"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	SwaggerPath   = "/swagger/"
	SwaggerUIPath = "/swagger-ui/"
)

// NewOpenAPIDocument builds the Swagger 2.0 description of the image API from
// the schema kept in package api
func NewOpenAPIDocument() *spec.Swagger {
	defs := spec.Definitions{}
	for name, fields := range api.Definitions {
		defs[name] = *objectSchema(fields)
	}

	var item spec.PathItem
	for _, o := range api.ImageOperations {
		op := operation(o)
		switch o.Method {
		case http.MethodGet:
			item.Get = op
		case http.MethodPost:
			item.Post = op
		case http.MethodDelete:
			item.Delete = op
		}
	}

	return &spec.Swagger{
		SwaggerProps: spec.SwaggerProps{
			Swagger: "2.0",
			Info: &spec.Info{
				InfoProps: spec.InfoProps{
					Title:       api.Title,
					Description: api.Description,
					Version:     api.Version,
				},
			},
			Consumes: []string{binding.MIMEJSON},
			Produces: []string{binding.MIMEJSON},
			Paths: &spec.Paths{
				Paths: map[string]spec.PathItem{api.ImagePath: item},
			},
			Definitions: defs,
			Tags:        []spec.Tag{spec.NewTag(api.Tag, "Image metadata records", nil)},
		},
	}
}

func operation(o api.Operation) *spec.Operation {
	op := spec.NewOperation(o.ID).
		WithSummary(o.Summary).
		WithDescription(o.Description).
		WithTags(api.Tag).
		WithProduces(binding.MIMEJSON)

	op.AddParam(spec.PathParam("id").
		Typed("integer", "int64").
		WithMinimum(1, false).
		WithDescription("Image id"))

	if o.Body != nil {
		op.WithConsumes(binding.MIMEJSON, binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm)
		op.AddParam(spec.BodyParam("body", spec.RefSchema("#/definitions/ImageInput")).AsRequired())
	}

	for _, r := range o.Responses {
		resp := spec.NewResponse().WithDescription(r.Description)
		if r.Schema != "" {
			resp.WithSchema(spec.RefSchema("#/definitions/" + r.Schema))
		}
		op.RespondsWith(r.Status, resp)
	}
	return op
}

func objectSchema(fields []api.Field) *spec.Schema {
	s := new(spec.Schema).Typed("object", "")
	var required []string
	for _, f := range fields {
		s.SetProperty(f.Name, fieldSchema(f))
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return s.WithRequired(required...)
}

func fieldSchema(f api.Field) spec.Schema {
	var s *spec.Schema
	if f.Type == "integer" {
		s = spec.Int64Property()
	} else {
		s = spec.StringProperty()
	}

	s.WithDescription(f.Description)
	if f.MaxLength > 0 {
		s.WithMaxLength(f.MaxLength)
	}
	if f.Minimum != nil {
		s.WithMinimum(*f.Minimum, false)
	}
	return *s
}

// MarshalOpenAPI renders doc as "json" (indented) or "yaml"
func MarshalOpenAPI(doc *spec.Swagger, format string) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode openapi document: %w", err)
	}

	switch format {
	case "json", "":
		return data, nil
	case "yaml", "yml":
		var tree any
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("failed to decode openapi document: %w", err)
		}
		return yaml.Marshal(tree)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// DocsHandler publishes the API document and a Swagger UI page for it
type DocsHandler struct {
	doc  *spec.Swagger
	page []byte
}

func NewDocsHandler(doc *spec.Swagger) *DocsHandler {
	var desc string
	if doc.Info != nil {
		desc = doc.Info.Description
	}

	intro, err := renderMarkdown([]byte(desc))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to render API description, using plain text")
		intro = []byte("<pre>" + html.EscapeString(desc) + "</pre>")
	}
	return &DocsHandler{doc: doc, page: []byte(swaggerUIHead + string(intro) + swaggerUIFoot)}
}

func (h *DocsHandler) RegisterRoutes(r gin.IRouter) {
	r.GET(SwaggerPath, h.GetDocument)
	r.GET(SwaggerUIPath, h.GetUI)
}

func (h *DocsHandler) GetDocument(c *gin.Context) {
	c.JSON(http.StatusOK, h.doc)
}

func (h *DocsHandler) GetUI(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.page)
}

const swaggerUIHead = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>` + api.Title + `</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <noscript>
`

const swaggerUIFoot = `  </noscript>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({ url: "` + SwaggerPath + `", dom_id: "#swagger-ui" });
  </script>
</body>
</html>
`
