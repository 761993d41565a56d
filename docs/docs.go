// Package docs registers the OpenAPI document served under /swagger. The
// document is assembled from the resource table below rather than generated,
// because every entity exposes the same five operations.
package docs

import (
	"encoding/json"
	"fmt"

	"github.com/swaggo/swag/v2"
)

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Community Support API",
	Description:      "Articles, jobs and donations for community support organisations.",
	InfoInstanceName: "swagger",
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

// property is a schema property: a JSON type plus an optional format
type property struct {
	Type   string
	Format string
}

type resource struct {
	Entity  string
	Tag     string
	Lookups []string
	Fields  map[string]property
}

var (
	text     = property{Type: "string"}
	id       = property{Type: "integer", Format: "int64"}
	version  = property{Type: "integer"}
	dateTime = property{Type: "string", Format: "date-time"}
	money    = property{Type: "string", Format: "decimal"}
)

var resources = []resource{
	{Entity: "Category", Tag: "content", Fields: map[string]property{
		"name": text, "description": text,
	}},
	{Entity: "Article", Tag: "content", Lookups: []string{"ListArticlesForCategory"}, Fields: map[string]property{
		"title": text, "content": text, "publishedDate": dateTime, "categoryId": id,
	}},
	{Entity: "Company", Tag: "employment", Fields: map[string]property{
		"name": text, "description": text, "website": text,
	}},
	{Entity: "JobCategory", Tag: "employment", Fields: map[string]property{
		"name": text, "description": text,
	}},
	{Entity: "Job", Tag: "employment", Lookups: []string{"ListJobsForArticle", "ListJobsForCompany", "ListJobsForJobCategory"}, Fields: map[string]property{
		"title": text, "description": text, "postedDate": dateTime,
		"companyId": id, "jobCategoryId": id, "articleId": id,
	}},
	{Entity: "Donor", Tag: "fundraising", Fields: map[string]property{
		"name": text, "email": text, "phone": text,
	}},
	{Entity: "Campaign", Tag: "fundraising", Fields: map[string]property{
		"name": text, "description": text, "startDate": dateTime, "endDate": dateTime, "goal": money,
	}},
	{Entity: "Donation", Tag: "fundraising", Lookups: []string{"ListDonationsForDonor", "ListDonationsForCampaign", "ListDonationsForCompany"}, Fields: map[string]property{
		"donationAmount": money, "donationDate": dateTime,
		"donorId": id, "campaignId": id, "companyId": id,
		"donorName": text, "campaignName": text, "companyName": text,
	}},
}

func init() {
	doc, err := json.Marshal(document())
	if err != nil {
		panic(fmt.Sprintf("docs: %v", err))
	}
	SwaggerInfo.SwaggerTemplate = string(doc)
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

type object = map[string]any

func ref(name string) object {
	return object{"$ref": "#/definitions/" + name}
}

func document() object {
	paths := object{}
	definitions := object{
		"ErrorResponse": object{
			"type": "object",
			"properties": object{
				"success": object{"type": "boolean"},
				"error": object{
					"type": "object",
					"properties": object{
						"code":      object{"type": "string"},
						"message":   object{"type": "string"},
						"requestId": object{"type": "string"},
						"details": object{"type": "array", "items": object{
							"type":       "object",
							"properties": object{"field": object{"type": "string"}, "message": object{"type": "string"}},
						}},
					},
				},
			},
		},
	}

	for _, r := range resources {
		definitions[r.Entity] = schema(r)
		addResourcePaths(paths, r)
	}
	addAccountPaths(paths)

	return object{
		"swagger": "2.0",
		"info": object{
			"title":       "{{.Title}}",
			"description": "{{escape .Description}}",
			"version":     "{{.Version}}",
		},
		"host":     "{{.Host}}",
		"basePath": "{{.BasePath}}",
		"schemes":  []string{},
		"securityDefinitions": object{
			"CookieAuth": object{"type": "apiKey", "in": "header", "name": "Cookie"},
			"BearerAuth": object{"type": "apiKey", "in": "header", "name": "Authorization"},
		},
		"paths":       paths,
		"definitions": definitions,
	}
}

func schema(r resource) object {
	props := object{"id": object{"type": "integer", "format": "int64"}, "version": object{"type": version.Type}}
	for name, p := range r.Fields {
		prop := object{"type": p.Type}
		if p.Format != "" {
			prop["format"] = p.Format
		}
		props[name] = prop
	}
	return object{"type": "object", "properties": props}
}

func idParam() object {
	return object{"name": "id", "in": "path", "required": true, "type": "integer", "format": "int64"}
}

func bodyParam(entity string) object {
	return object{"name": "request", "in": "body", "required": true, "schema": ref(entity)}
}

func response(description string, schema object) object {
	out := object{"description": description}
	if schema != nil {
		out["schema"] = schema
	}
	return out
}

func list(entity string) object {
	return object{"type": "array", "items": ref(entity)}
}

var secured = []object{{"CookieAuth": []string{}}, {"BearerAuth": []string{}}}

func addResourcePaths(paths object, r resource) {
	base := "/" + r.Entity + "Data/"
	tags := []string{r.Tag}
	failure := ref("ErrorResponse")

	paths[base+"List"+r.Entity+"s"] = object{"get": object{
		"tags":        tags,
		"summary":     "List every " + r.Entity,
		"operationId": "list" + r.Entity,
		"produces":    []string{"application/json"},
		"responses":   object{"200": response("OK", list(r.Entity))},
	}}
	paths[base+"Find"+r.Entity+"/{id}"] = object{"get": object{
		"tags":        tags,
		"summary":     "Find a " + r.Entity + " by id",
		"operationId": "find" + r.Entity,
		"parameters":  []object{idParam()},
		"responses": object{
			"200": response("OK", ref(r.Entity)),
			"404": response("Not Found", nil),
		},
	}}
	paths[base+"Add"+r.Entity] = object{"post": object{
		"tags":        tags,
		"summary":     "Add a " + r.Entity,
		"operationId": "add" + r.Entity,
		"consumes":    []string{"application/json"},
		"parameters":  []object{bodyParam(r.Entity)},
		"security":    secured,
		"responses": object{
			"201": response("Created", ref(r.Entity)),
			"400": response("Bad Request", failure),
			"401": response("Unauthorized", failure),
		},
	}}
	update := object{
		"tags":       tags,
		"summary":    "Replace a " + r.Entity,
		"consumes":   []string{"application/json"},
		"parameters": []object{idParam(), bodyParam(r.Entity)},
		"security":   secured,
		"responses": object{
			"204": response("No Content", nil),
			"400": response("Bad Request", failure),
			"401": response("Unauthorized", failure),
			"404": response("Not Found", nil),
			"500": response("Concurrency conflict", failure),
		},
	}
	paths[base+"Update"+r.Entity+"/{id}"] = object{
		"post": withID(update, "update"+r.Entity),
		"put":  withID(update, "replace"+r.Entity),
	}
	remove := object{
		"tags":       tags,
		"summary":    "Delete a " + r.Entity + " and the records that depend on it",
		"parameters": []object{idParam()},
		"security":   secured,
		"responses": object{
			"200": response("OK", ref(r.Entity)),
			"401": response("Unauthorized", failure),
			"404": response("Not Found", nil),
		},
	}
	paths[base+"Delete"+r.Entity+"/{id}"] = object{
		"post":   withID(remove, "delete"+r.Entity),
		"delete": withID(remove, "remove"+r.Entity),
	}

	for _, lookup := range r.Lookups {
		paths[base+lookup+"/{id}"] = object{"get": object{
			"tags":        tags,
			"summary":     "List the " + r.Entity + " records referencing a parent",
			"operationId": lookup,
			"parameters":  []object{idParam()},
			"responses":   object{"200": response("OK", list(r.Entity))},
		}}
	}
}

// withID copies op with a distinct operation id
func withID(op object, operationID string) object {
	out := make(object, len(op)+1)
	for k, v := range op {
		out[k] = v
	}
	out["operationId"] = operationID
	return out
}

func addAccountPaths(paths object) {
	tags := []string{"account"}
	credentials := object{"type": "object", "properties": object{
		"email":    object{"type": "string"},
		"password": object{"type": "string"},
	}}
	user := object{"type": "object", "properties": object{
		"id":          object{"type": "integer", "format": "int64"},
		"email":       object{"type": "string"},
		"displayName": object{"type": "string"},
	}}
	failure := ref("ErrorResponse")

	paths["/Account/Register"] = object{"post": object{
		"tags": tags, "summary": "Register an account", "operationId": "register",
		"parameters": []object{{"name": "request", "in": "body", "required": true, "schema": object{
			"type": "object", "properties": object{
				"email":       object{"type": "string"},
				"displayName": object{"type": "string"},
				"password":    object{"type": "string"},
			},
		}}},
		"responses": object{
			"201": response("Created", user),
			"400": response("Bad Request", failure),
			"404": response("Registration disabled", failure),
			"409": response("Conflict", failure),
		},
	}}
	paths["/Account/Login"] = object{"post": object{
		"tags": tags, "summary": "Sign in and receive the session cookie", "operationId": "login",
		"parameters": []object{{"name": "request", "in": "body", "required": true, "schema": credentials}},
		"responses": object{
			"200": response("OK", object{"type": "object", "properties": object{
				"token":     object{"type": "string"},
				"expiresAt": object{"type": "string", "format": "date-time"},
				"user":      user,
			}}),
			"400": response("Bad Request", failure),
			"401": response("Unauthorized", failure),
			"429": response("Too Many Requests", failure),
		},
	}}
	paths["/Account/Logout"] = object{"post": object{
		"tags": tags, "summary": "Sign out", "operationId": "logout",
		"responses": object{"204": response("No Content", nil)},
	}}
	paths["/Account/Me"] = object{"get": object{
		"tags": tags, "summary": "Current account", "operationId": "me",
		"security": secured,
		"responses": object{
			"200": response("OK", user),
			"401": response("Unauthorized", failure),
		},
	}}
}
