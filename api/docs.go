package api

import (
	docs "encore/doclib"
)

func PathParam(name, description string) docs.Parameter {
	return docs.Parameter{
		Name:        name,
		In:          "path",
		Description: description,
		Required:    true,
		Schema:      docs.IdSchema,
	}
}

func QueryParam(name, description string) docs.Parameter {
	return docs.Parameter{
		Name:        name,
		In:          "query",
		Description: description,
		Schema:      docs.StringSchema,
	}
}

// PageDocParams documents the cursor pagination query parameters.
func PageDocParams(withSort bool) []docs.Parameter {
	params := []docs.Parameter{
		{
			Name:        "limit",
			In:          "query",
			Description: "Page size, 1 to 50 (default 20)",
			Schema:      docs.IntSchema,
		},
		QueryParam("cursor", "Opaque cursor from the previous page's next_cursor"),
	}

	if withSort {
		params = append(params, QueryParam("sort", "recent (default) or popular"))
	}

	return params
}
