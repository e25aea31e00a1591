// Package docs holds the Swagger description served at /swagger/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/envelope": {
            "post": {
                "description": "Dispatch a request envelope exactly as the TCP server would",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["envelope"],
                "summary": "Send a raw envelope",
                "parameters": [
                    {
                        "description": "Request envelope",
                        "name": "envelope",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.EnvelopeRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.Response"}}
                }
            }
        },
        "/movies": {
            "get": {
                "description": "List every movie as id and title",
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "List movies",
                "responses": {
                    "200": {"description": "Movies retrieved successfully", "schema": {"$ref": "#/definitions/utils.Response"}},
                    "500": {"description": "Store error", "schema": {"$ref": "#/definitions/utils.Response"}}
                }
            },
            "post": {
                "description": "Create a movie and link its genres, creating unknown genres on the way",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "Create a movie",
                "parameters": [
                    {
                        "description": "Movie",
                        "name": "movie",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.MovieRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Movie created successfully", "schema": {"$ref": "#/definitions/utils.Response"}},
                    "400": {"description": "Invalid field", "schema": {"$ref": "#/definitions/utils.Response"}},
                    "500": {"description": "Store error", "schema": {"$ref": "#/definitions/utils.Response"}}
                }
            }
        },
        "/movies/detail": {
            "get": {
                "description": "List every movie that has at least one genre, with all fields",
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "List movies with genres",
                "responses": {
                    "200": {"description": "Movies retrieved successfully", "schema": {"$ref": "#/definitions/utils.Response"}},
                    "500": {"description": "Store error", "schema": {"$ref": "#/definitions/utils.Response"}}
                }
            }
        },
        "/movies/genre": {
            "get": {
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "List movies of a genre",
                "parameters": [
                    {"type": "string", "description": "Genre name", "name": "query", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Movies retrieved successfully", "schema": {"$ref": "#/definitions/utils.Response"}},
                    "400": {"description": "Bad Request: Invalid body.query", "schema": {"$ref": "#/definitions/utils.Response"}},
                    "500": {"description": "Store error", "schema": {"$ref": "#/definitions/utils.Response"}}
                }
            }
        },
        "/movies/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "Get movie by ID",
                "parameters": [
                    {"type": "integer", "description": "Movie ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Movie retrieved successfully", "schema": {"$ref": "#/definitions/utils.Response"}},
                    "404": {"description": "Movie not found", "schema": {"$ref": "#/definitions/utils.Response"}}
                }
            },
            "put": {
                "description": "Replace the fields and the genre list of a movie",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "Update a movie",
                "parameters": [
                    {"type": "integer", "description": "Movie ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Movie",
                        "name": "movie",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.MovieRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Movie updated successfully", "schema": {"$ref": "#/definitions/utils.Response"}},
                    "400": {"description": "Invalid field", "schema": {"$ref": "#/definitions/utils.Response"}},
                    "404": {"description": "Movie not found", "schema": {"$ref": "#/definitions/utils.Response"}},
                    "500": {"description": "Store error", "schema": {"$ref": "#/definitions/utils.Response"}}
                }
            },
            "delete": {
                "description": "Delete a movie and its genre links. Unknown ids succeed too.",
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "Delete a movie",
                "parameters": [
                    {"type": "integer", "description": "Movie ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Movie deleted successfully", "schema": {"$ref": "#/definitions/utils.Response"}},
                    "500": {"description": "Store error", "schema": {"$ref": "#/definitions/utils.Response"}}
                }
            }
        },
        "/genres": {
            "get": {
                "produces": ["application/json"],
                "tags": ["genres"],
                "summary": "List genres",
                "responses": {
                    "200": {"description": "Genres retrieved successfully", "schema": {"$ref": "#/definitions/utils.Response"}}
                }
            }
        },
        "/genres/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["genres"],
                "summary": "Get genre by ID",
                "parameters": [
                    {"type": "integer", "description": "Genre ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Genre retrieved successfully", "schema": {"$ref": "#/definitions/utils.Response"}},
                    "404": {"description": "Genre not found", "schema": {"$ref": "#/definitions/utils.Response"}}
                }
            }
        },
        "/snapshots": {
            "post": {
                "description": "Upload every movie and genre as one JSON document to object storage",
                "produces": ["application/json"],
                "tags": ["snapshots"],
                "summary": "Snapshot the catalog",
                "responses": {
                    "200": {"description": "Snapshot uploaded successfully", "schema": {"$ref": "#/definitions/utils.Response"}},
                    "500": {"description": "Upload failed", "schema": {"$ref": "#/definitions/utils.Response"}},
                    "503": {"description": "Snapshot storage is not configured", "schema": {"$ref": "#/definitions/utils.Response"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.EnvelopeRequest": {
            "type": "object",
            "properties": {
                "body": {"type": "object", "additionalProperties": true},
                "method": {"type": "string", "example": "GET"},
                "resource": {"type": "string", "example": "/movies/1"}
            }
        },
        "handlers.MovieRequest": {
            "type": "object",
            "properties": {
                "director": {"type": "string", "example": "Ridley Scott"},
                "genre": {"type": "array", "items": {"type": "string"}, "example": ["Sci-fi", "Suspense"]},
                "release_year": {"type": "integer", "example": 1982},
                "title": {"type": "string", "example": "Blade Runner"}
            }
        },
        "utils.Response": {
            "type": "object",
            "properties": {
                "genre": {},
                "genres": {},
                "message": {"type": "string", "example": "Movie retrieved successfully"},
                "movie": {},
                "movies": {},
                "snapshot": {},
                "status": {"type": "integer", "example": 200}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8010",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Movie Records API",
	Description:      "HTTP gateway to the movie records envelope service",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
