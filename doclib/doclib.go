// Package doclib builds the OpenAPI document served at /openapi from the
// route docs registered through uapi.
package doclib

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var schemaNameReplacer = strings.NewReplacer("encore/", "", "*", "", "[", "_", "]", "", ",", "_", " ", "")

// SchemaName names the component schema of a Go type. Generic instantiations
// like types.Page[encore/types.ReviewView] become types.Page_types.ReviewView.
func SchemaName(v any) string {
	return schemaNameReplacer.Replace(reflect.TypeOf(v).String())
}

type SetupData struct {
	URL         string
	ErrorStruct any
	Info        Info

	errorStructName string
}

var (
	DocsSetupData *SetupData
	stringType    = openapi3.Types([]string{"string"})
)

var (
	IdSchema     *openapi3.SchemaRef
	BoolSchema   *openapi3.SchemaRef
	StringSchema *openapi3.SchemaRef
	IntSchema    *openapi3.SchemaRef
)

var api = Openapi{
	OpenAPI: "3.1.0",
	Servers: []Server{
		{
			Description: "Encore API",
			Variables:   map[string]any{},
		},
	},
	Components: Component{
		Schemas:       make(map[string]any),
		Security:      make(map[string]Security),
		RequestBodies: make(map[string]ReqBody),
	},
}

func mustSchema(v any) *openapi3.SchemaRef {
	ref, err := openapi3gen.NewSchemaRefForValue(v, nil, SchemaInject(v))
	if err != nil {
		panic(err)
	}
	return ref
}

// Setup resets the document. Calling it again drops every registered path.
func Setup() {
	if DocsSetupData == nil {
		panic("DocsSetupData is nil")
	}

	DocsSetupData.errorStructName = SchemaName(DocsSetupData.ErrorStruct)
	api.Components.Schemas[DocsSetupData.errorStructName] = mustSchema(DocsSetupData.ErrorStruct)

	IdSchema = mustSchema("00000000-0000-0000-0000-000000000000")
	IdSchema.Value.Format = "uuid"
	BoolSchema = mustSchema(true)
	StringSchema = mustSchema("")
	IntSchema = mustSchema(0)

	api.Info = DocsSetupData.Info
	api.Servers[0].URL = DocsSetupData.URL
	api.Tags = nil
	api.Paths = orderedmap.New[string, Path]()
}

func AddTag(name, description string) {
	for _, t := range api.Tags {
		if t.Name == name {
			return
		}
	}

	api.Tags = append(api.Tags, Tag{
		Name:        name,
		Description: description,
	})
}

// AddBearerSchema registers an Authorization: Bearer <jwt> scheme.
func AddBearerSchema(id, description string) {
	api.Components.Security[id] = Security{
		Type:         "http",
		Scheme:       "bearer",
		BearerFormat: "JWT",
		Description:  description,
	}
}

// fieldByJSONName finds the struct field whose json tag is name.
func fieldByJSONName(s any, name string) any {
	for _, field := range reflect.VisibleFields(reflect.TypeOf(s)) {
		if strings.Split(field.Tag.Get("json"), ",")[0] == name {
			return reflect.ValueOf(s).FieldByIndex(field.Index).Interface()
		}
	}
	return nil
}

// SchemaInject applies the description, enum and validate struct tags of s to
// the generated schema.
func SchemaInject(s any) openapi3gen.Option {
	return openapi3gen.SchemaCustomizer(func(name string, ft reflect.Type, tag reflect.StructTag, schema *openapi3.Schema) error {
		if d := tag.Get("description"); d != "" {
			schema.Description = d
		}

		if tag.Get("dynexample") == "true" {
			schema.Example = fieldByJSONName(s, name)
		}

		if e := tag.Get("enum"); e != "" {
			schema.Enum = []any{}
			for _, val := range strings.Split(e, ",") {
				schema.Enum = append(schema.Enum, val)
			}
		}

		for _, rule := range strings.Split(tag.Get("validate"), ",") {
			key, arg, _ := strings.Cut(rule, "=")
			switch key {
			case "required":
				schema.Nullable = false
			case "oneof":
				schema.Enum = []any{}
				for _, val := range strings.Fields(arg) {
					schema.Enum = append(schema.Enum, val)
				}
			case "max":
				if n, err := strconv.ParseUint(arg, 10, 64); err == nil && ft.Kind() == reflect.String {
					schema.MaxLength = &n
				}
			}
		}

		switch ft.String() {
		case "time.Time":
			schema.Type = &stringType
			schema.Format = "date-time"
		case "uuid.UUID":
			schema.Type = &stringType
			schema.Format = "uuid"
		}

		if t := tag.Get("type"); t != "" {
			typ := openapi3.Types([]string{t})
			schema.Type = &typ
		}

		return nil
	})
}

func jsonRef(ref string) map[string]SchemaResp {
	return map[string]SchemaResp{
		"application/json": {Schema: Schema{Ref: ref}},
	}
}

// successResponse documents the status a route answers with when it works.
// Routes without a response body answer 204.
func successResponse(doc *Doc) (string, Response) {
	if doc.Resp == nil {
		return strconv.Itoa(http.StatusNoContent), Response{Description: "No Content"}
	}

	schemaName := doc.RespName
	if schemaName == "" {
		schemaName = SchemaName(doc.Resp)
	}

	if _, ok := api.Components.Schemas[schemaName]; !ok {
		api.Components.Schemas[schemaName] = mustSchema(doc.Resp)
	}

	status := doc.Status
	if status == 0 {
		status = http.StatusOK
	}

	return strconv.Itoa(status), Response{
		Description: http.StatusText(status),
		Content:     jsonRef("#/components/schemas/" + schemaName),
	}
}

// Route adds doc to the document. uapi fills in Pattern, OpId, Method, Tags
// and AuthType before calling this.
func Route(doc *Doc) {
	switch {
	case len(doc.Tags) == 0:
		panic("no tags set in route: " + doc.Pattern)
	case doc.OpId == "":
		panic("no opId set in route: " + doc.Pattern)
	case doc.Pattern == "":
		panic("no path set in route: " + doc.OpId)
	}

	if doc.Params == nil {
		doc.Params = []Parameter{}
	}

	for _, param := range doc.Params {
		if param.Description == "" {
			panic("no description set for param " + param.Name + " in route: " + doc.Pattern)
		}
	}

	errorRef := "#/components/schemas/" + DocsSetupData.errorStructName
	okStatus, okResp := successResponse(doc)

	op := &Operation{
		Tags:        doc.Tags,
		Summary:     doc.Summary,
		Description: doc.Description,
		ID:          doc.OpId,
		Parameters:  doc.Params,
		Responses: map[string]Response{
			okStatus: okResp,
			"400":    {Description: "Bad Request", Content: jsonRef(errorRef)},
		},
		Security: []map[string][]string{},
	}

	if len(doc.AuthType) > 0 {
		op.Responses["401"] = Response{Description: "Unauthorized"}
	}

	if doc.Req != nil {
		name := doc.Method + "_" + SchemaName(doc.Req)

		api.Components.RequestBodies[name] = ReqBody{
			Required: true,
			Content: map[string]Content{
				"application/json": {Schema: mustSchema(doc.Req)},
			},
		}

		op.RequestBody = &Schema{Ref: "#/components/requestBodies/" + name}
	}

	for _, auth := range doc.AuthType {
		op.Security = append(op.Security, map[string][]string{auth: {}})
	}

	path, _ := api.Paths.Get(doc.Pattern)

	switch strings.ToUpper(doc.Method) {
	case http.MethodGet:
		path.Get = op
	case http.MethodPost:
		path.Post = op
	case http.MethodPut:
		path.Put = op
	case http.MethodPatch:
		path.Patch = op
	case http.MethodDelete:
		path.Delete = op
	default:
		panic("unknown method: " + doc.Method)
	}

	api.Paths.Set(doc.Pattern, path)
}

func GetSchema() Openapi {
	return api
}
