// Package docs registers the booth dashboard OpenAPI document with swag.
// Keep in sync with the handler annotations (swag init -g cmd/main.go).
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/booth_dashboard.HealthResponse"}}
                }
            }
        },
        "/auth/unlock": {
            "post": {
                "description": "Exchanges the shared PIN for a bearer token used by /write and /api/v1/logs.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Unlock the write gate",
                "parameters": [
                    {"description": "PIN", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.unlockRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/booth_dashboard.UnlockResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/stream": {
            "get": {
                "description": "Each event is data: {\"values\":{...}} on a good poll or data: {\"error\":\"...\"} on a faulted one.",
                "produces": ["text/event-stream"],
                "tags": ["booth"],
                "summary": "Server-sent event stream",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ws": {
            "get": {
                "description": "Same frames as /stream, one JSON text message per poll.",
                "tags": ["booth"],
                "summary": "WebSocket stream",
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        },
        "/api/read": {
            "get": {
                "description": "Reads every point once on a transient device session. error is null on success.",
                "produces": ["application/json"],
                "tags": ["booth"],
                "summary": "One-shot read",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/booth_dashboard.ReadResponse"}}
                }
            }
        },
        "/write": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Momentary writes pulse the value and clear it to 0 after the settle delay. The clear always runs once the first write succeeded.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["booth"],
                "summary": "Write a point",
                "parameters": [
                    {"description": "Write command", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.WriteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/booth_dashboard.WriteResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Filter the command audit log by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'), type and point. If 'to' is date-only, it is treated as end-of-day inclusive.",
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List write commands",
                "parameters": [
                    {"type": "string", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "description": "End of range. Date-only treated as end of day.", "name": "to", "in": "query"},
                    {"enum": ["WRITE", "PULSE", "REJECTED", "FAULT", "CLEAR_FAILED"], "type": "string", "description": "Event type", "name": "type", "in": "query"},
                    {"type": "string", "description": "Point id", "name": "point", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "booth_dashboard.HealthResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "service": {"type": "string"},
                "status": {"type": "string"},
                "plc_ip": {"type": "string"}
            }
        },
        "booth_dashboard.ReadResponse": {
            "type": "object",
            "properties": {
                "values": {"type": "object", "additionalProperties": {"type": "number"}},
                "error": {"type": "string"}
            }
        },
        "booth_dashboard.UnlockResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}}
        },
        "booth_dashboard.WriteResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "tag": {"type": "string"},
                "value": {"type": "number"}
            }
        },
        "handlers.WriteRequest": {
            "type": "object",
            "properties": {
                "tag": {"description": "Point id on the controller", "type": "string", "example": "M[1].0"},
                "value": {"description": "Value to write", "type": "number", "example": 1},
                "momentary": {"description": "Write the value, wait the settle delay, then write 0", "type": "boolean", "example": true}
            }
        },
        "handlers.unlockRequest": {
            "type": "object",
            "required": ["pin"],
            "properties": {"pin": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Booth Dashboard API",
	Description:      "Live state stream and write control for paint booth 1.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
