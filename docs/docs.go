// Package docs registers the OpenAPI document served under /swagger.
// Keep it in step with the @Router annotations in internal/handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
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
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "All rolling histories",
                "description": "Luminosity, humidity and temperature series in poll order.",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/historyResponse"}}
                }
            }
        },
        "/api/v1/history/{kind}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "One rolling history",
                "parameters": [
                    {"type": "string", "enum": ["luminosity", "humidity", "temperature"], "description": "Sensor kind", "name": "kind", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Series"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/actuator": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Actuator status",
                "description": "Last acknowledged command, last decision and last tick time.",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ActuatorStatus"}}
                }
            }
        },
        "/api/v1/logs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List actuator audit events",
                "description": "A date-only 'to' covers the whole day.",
                "parameters": [
                    {"type": "string", "description": "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD')", "name": "from", "in": "query"},
                    {"type": "string", "description": "End of range (RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD')", "name": "to", "in": "query"},
                    {"type": "string", "enum": ["COMMAND_SENT", "COMMAND_FAILED", "COMMAND_REJECTED"], "description": "Event type", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"$ref": "#/definitions/logsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "models.Series": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "example": "temperature"},
                "timestamps": {"type": "array", "items": {"type": "string", "format": "date-time"}},
                "values": {"type": "array", "items": {"type": "number"}}
            }
        },
        "models.Decision": {
            "type": "object",
            "properties": {
                "command": {"type": "string", "enum": ["on", "off"]},
                "reason": {"type": "string", "enum": ["NO_DATA", "THRESHOLD_EXCEEDED", "WITHIN_LIMITS"]},
                "triggers": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.ActuatorStatus": {
            "type": "object",
            "properties": {
                "last_command_sent": {"type": "string", "enum": ["on", "off", "unset"]},
                "acknowledged_at": {"type": "string", "format": "date-time"},
                "last_decision": {"$ref": "#/definitions/models.Decision"},
                "last_tick_at": {"type": "string", "format": "date-time"}
            }
        },
        "models.ActuatorEvent": {
            "type": "object",
            "properties": {
                "event_id": {"type": "string"},
                "occurred_at": {"type": "string", "format": "date-time"},
                "type": {"type": "string"},
                "command": {"type": "string"},
                "description": {"type": "string"},
                "metadata": {"type": "object"}
            }
        },
        "historyResponse": {
            "type": "object",
            "properties": {
                "series": {"type": "array", "items": {"$ref": "#/definitions/models.Series"}}
            }
        },
        "logsResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "events": {"type": "array", "items": {"$ref": "#/definitions/models.ActuatorEvent"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Sensor Dashboard API",
	Description:      "Rolling sensor histories and LED actuator status read from FIWARE.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
