package api

import "net/http"

const (
	Title   = "REST API"
	Version = "v1"
	Tag     = "Images"

	ImagePath = "/images/{id}"
)

// Description is the GitHub-flavoured markdown shown above the operations
const Description = `Stores image metadata records addressed by a caller-chosen id.

| Verb | Result |
| --- | --- |
| GET | the stored record |
| POST | creates the record, never overwrites |
| DELETE | removes the record |

Create requests accept a JSON object, a form body or query arguments.
Errors are returned as ` + "`{\"message\": ...}`" + `.
`

// Field describes one attribute of a schema for the API document
type Field struct {
	Name        string
	Type        string // "string" or "integer"
	Description string
	Required    bool
	MaxLength   int64
	Minimum     *float64
}

// Response describes one documented status code of an operation
type Response struct {
	Status      int
	Description string
	// Schema names a definition below, empty for responses without a body
	Schema string
}

// Operation describes one verb on ImagePath
type Operation struct {
	Method      string
	ID          string
	Summary     string
	Description string
	// Body lists the accepted request fields, nil when the verb takes no body
	Body      []Field
	Responses []Response
}

var (
	minID   = 1.0
	minSize = 0.0
)

// ImageFields is the field-level schema of a stored image, in response order
var ImageFields = []Field{
	{Name: "id", Type: "integer", Description: "Caller-chosen unique identifier", Required: true, Minimum: &minID},
	{Name: "name", Type: "string", Description: "Image name", Required: true, MaxLength: 100},
	{Name: "format", Type: "string", Description: "Image format, e.g. png", Required: true, MaxLength: 100},
	{Name: "size", Type: "integer", Description: "Image size", Required: true, Minimum: &minSize},
}

// ImageInputFields are the fields a create request must carry
var ImageInputFields = ImageFields[1:]

// MessageFields is the schema of the error envelope
var MessageFields = []Field{
	{Name: "message", Type: "string", Description: "What went wrong", Required: true},
}

// Definition names used in Response.Schema
const (
	ImageSchema   = "Image"
	MessageSchema = "Message"
)

// Definitions maps definition names to their fields
var Definitions = map[string][]Field{
	ImageSchema:   ImageFields,
	"ImageInput":  ImageInputFields,
	MessageSchema: MessageFields,
}

// ImageOperations are the verbs served on ImagePath
var ImageOperations = []Operation{
	{
		Method:      http.MethodGet,
		ID:          "getImage",
		Summary:     "Get an image",
		Description: "Returns the image stored under id.",
		Responses: []Response{
			{Status: http.StatusOK, Description: "The stored image", Schema: ImageSchema},
			{Status: http.StatusNotFound, Description: "No image with that id", Schema: MessageSchema},
		},
	},
	{
		Method:      http.MethodPost,
		ID:          "createImage",
		Summary:     "Create an image",
		Description: "Stores a new image under id. Existing images are never overwritten.",
		Body:        ImageInputFields,
		Responses: []Response{
			{Status: http.StatusCreated, Description: "The created image", Schema: ImageSchema},
			{Status: http.StatusBadRequest, Description: "Missing or mistyped fields", Schema: MessageSchema},
			{Status: http.StatusConflict, Description: "An image with that id already exists", Schema: MessageSchema},
		},
	},
	{
		Method:      http.MethodDelete,
		ID:          "deleteImage",
		Summary:     "Delete an image",
		Description: "Removes the image stored under id.",
		Responses: []Response{
			{Status: http.StatusNoContent, Description: "The image was deleted"},
			{Status: http.StatusNotFound, Description: "No image with that id", Schema: MessageSchema},
		},
	},
}
