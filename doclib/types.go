package doclib

import (
	"github.com/getkin/kin-openapi/openapi3"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Doc describes a single route. Pattern, OpId, Method, Tags and AuthType are
// filled in by uapi when the route is registered.
type Doc struct {
	Summary     string
	Description string
	Params      []Parameter
	Req         any
	Resp        any
	RespName    string
	// Success status when Resp is set, 200 when unset
	Status int

	Pattern  string
	OpId     string
	Method   string
	Tags     []string
	AuthType []string
}

type Parameter struct {
	Name        string              `json:"name"`
	In          string              `json:"in"`
	Description string              `json:"description"`
	Required    bool                `json:"required"`
	Schema      *openapi3.SchemaRef `json:"schema,omitempty"`
}

type Openapi struct {
	OpenAPI    string                               `json:"openapi"`
	Info       Info                                 `json:"info"`
	Servers    []Server                             `json:"servers"`
	Tags       []Tag                                `json:"tags,omitempty"`
	Paths      *orderedmap.OrderedMap[string, Path] `json:"paths"`
	Components Component                            `json:"components"`
}

type Info struct {
	Title          string  `json:"title"`
	TermsOfService string  `json:"termsOfService,omitempty"`
	Version        string  `json:"version"`
	Description    string  `json:"description,omitempty"`
	Contact        Contact `json:"contact"`
	License        License `json:"license"`
}

type Contact struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Email string `json:"email,omitempty"`
}

type License struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Server struct {
	URL         string         `json:"url"`
	Description string         `json:"description"`
	Variables   map[string]any `json:"variables,omitempty"`
}

type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Component struct {
	Schemas       map[string]any      `json:"schemas"`
	Security      map[string]Security `json:"securitySchemes"`
	RequestBodies map[string]ReqBody  `json:"requestBodies"`
}

type Security struct {
	Type         string `json:"type"`
	Scheme       string `json:"scheme,omitempty"`
	BearerFormat string `json:"bearerFormat,omitempty"`
	Name         string `json:"name,omitempty"`
	In           string `json:"in,omitempty"`
	Description  string `json:"description"`
}

type ReqBody struct {
	Description string             `json:"description,omitempty"`
	Required    bool               `json:"required"`
	Content     map[string]Content `json:"content"`
}

type Content struct {
	Schema *openapi3.SchemaRef `json:"schema"`
}

type Path struct {
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Get         *Operation `json:"get,omitempty"`
	Post        *Operation `json:"post,omitempty"`
	Put         *Operation `json:"put,omitempty"`
	Patch       *Operation `json:"patch,omitempty"`
	Delete      *Operation `json:"delete,omitempty"`
}

type Operation struct {
	Tags        []string              `json:"tags"`
	Summary     string                `json:"summary"`
	Description string                `json:"description"`
	ID          string                `json:"operationId"`
	Parameters  []Parameter           `json:"parameters"`
	RequestBody *Schema               `json:"requestBody,omitempty"`
	Responses   map[string]Response   `json:"responses"`
	Security    []map[string][]string `json:"security"`
}

type Response struct {
	Description string                `json:"description"`
	Content     map[string]SchemaResp `json:"content,omitempty"`
}

type SchemaResp struct {
	Schema Schema `json:"schema"`
}

type Schema struct {
	Ref string `json:"$ref"`
}
