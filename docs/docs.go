// Package docs holds the Swagger document served under /swagger.
// Regenerate with: swag init -g cmd/main.go
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
        "/api/v1/customers": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Retrieves every customer in store order.",
                "produces": ["application/json"],
                "tags": ["Customers"],
                "summary": "List customers",
                "responses": {
                    "200": {"description": "List of customers", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.CustomerResponse"}}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Creates a customer. The email must not belong to another customer.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Customers"],
                "summary": "Register a new customer",
                "parameters": [
                    {"description": "Customer registration request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RegistrationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Customer successfully registered", "schema": {"$ref": "#/definitions/dto.CustomerResponse"}},
                    "400": {"description": "Invalid request payload", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Email is already taken", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/customers/{customerID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Retrieves a specific customer by ID.",
                "produces": ["application/json"],
                "tags": ["Customers"],
                "summary": "Retrieve customer details",
                "parameters": [
                    {"minimum": 1, "type": "integer", "description": "Customer ID", "name": "customerID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Customer details retrieved", "schema": {"$ref": "#/definitions/dto.CustomerResponse"}},
                    "400": {"description": "Invalid customer ID format", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Customer not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Applies a sparse update. Omitted fields are left unchanged; a request that changes nothing is rejected.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Customers"],
                "summary": "Update a customer",
                "parameters": [
                    {"minimum": 1, "type": "integer", "description": "Customer ID", "name": "customerID", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "Customer updated", "schema": {"$ref": "#/definitions/dto.CustomerResponse"}},
                    "400": {"description": "Invalid request or no data changed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Customer not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Email is already taken", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Customers"],
                "summary": "Remove a customer",
                "parameters": [
                    {"minimum": 1, "type": "integer", "description": "Customer ID", "name": "customerID", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Customer removed"},
                    "400": {"description": "Invalid customer ID format", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Customer not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/auth/token": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "Generate a JWT bearer token",
                "parameters": [
                    {"description": "username", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.TokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token successfully generated", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Invalid request parameters", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness and store reachability",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}},
                    "500": {"description": "Store unreachable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.CustomerResponse": {
            "type": "object",
            "properties": {
                "age": {"type": "integer"},
                "email": {"type": "string"},
                "id": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "dto.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/dto.ErrorDetail"}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"}
            }
        },
        "dto.RegistrationRequest": {
            "type": "object",
            "required": ["age", "email", "name"],
            "properties": {
                "age": {"type": "integer", "maximum": 150, "minimum": 1},
                "email": {"type": "string", "maxLength": 255},
                "name": {"type": "string", "maxLength": 255}
            }
        },
        "dto.TokenRequest": {
            "type": "object",
            "required": ["username"],
            "properties": {
                "username": {"type": "string"}
            }
        },
        "dto.UpdateRequest": {
            "type": "object",
            "properties": {
                "age": {"type": "integer", "maximum": 150, "minimum": 1},
                "email": {"type": "string", "maxLength": 255},
                "name": {"type": "string", "maxLength": 255, "minLength": 1}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Customer Service API",
	Description:      "CRUD API over customer records.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
