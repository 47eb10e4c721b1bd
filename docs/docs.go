// Package docs is generated by swag from the handler annotations.
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
        "/api/v1/categories": {
            "get": {
                "description": "The fixed index-to-category table with display colors.",
                "produces": ["application/json"],
                "tags": ["predictions"],
                "summary": "AQI categories",
                "responses": {
                    "200": {"description": "categories", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/v1/logs": {
            "get": {
                "description": "Filter logs by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive (23:59:59.999999999Z).",
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List logs",
                "parameters": [
                    {"type": "string", "example": "2025-08-01", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-08-31", "description": "End of range. Date-only treated as end of day.", "name": "to", "in": "query"},
                    {"enum": ["PREDICTION", "FALLBACK", "REJECTED", "ENDPOINT_FAILED", "SESSION_OPENED", "SESSION_CLOSED", "SESSION_EXPIRED"], "type": "string", "description": "Event type", "name": "type", "in": "query"},
                    {"type": "string", "description": "Only events of this session", "name": "session_id", "in": "query"},
                    {"type": "integer", "description": "Maximum number of events (1-1000)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/predictions": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Produces a reading for the location and prepends it to the session history. Without a reachable endpoint the reading is demo data and placeholder is true.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["predictions"],
                "summary": "Predict AQI",
                "parameters": [
                    {"description": "Prediction request", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.PredictRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Outcome"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/predictions/current": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Latest reading of the session with its pollutant breakdown.",
                "produces": ["application/json"],
                "tags": ["predictions"],
                "summary": "Current reading",
                "responses": {
                    "200": {"description": "reading, placeholder, breakdown", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/predictions/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Up to the 10 most recent readings of the session, newest first.",
                "produces": ["application/json"],
                "tags": ["predictions"],
                "summary": "Prediction history",
                "responses": {
                    "200": {"description": "count, readings", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/sessions": {
            "post": {
                "description": "Starts an empty prediction history and returns the token that identifies it.",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Open a session",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/service.Ticket"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/sessions/current": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Discards the session and its history.",
                "tags": ["sessions"],
                "summary": "Close the current session",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
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
        "/ws": {
            "get": {
                "description": "WebSocket that pushes {\"type\":\"history\",\"data\":{current,readings}} every interval. The session token goes in ?token= or the Authorization header.",
                "tags": ["predictions"],
                "summary": "Stream session history",
                "parameters": [
                    {"type": "string", "description": "Session token", "name": "token", "in": "query"},
                    {"type": "string", "description": "Push interval, e.g. 2s (max 10s)", "name": "interval", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "aqi.PollutantLevel": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "value": {"type": "number"},
                "unit": {"type": "string"},
                "max": {"type": "number"},
                "percent": {"type": "number"}
            }
        },
        "handlers.PredictRequest": {
            "type": "object",
            "properties": {
                "endpoint": {"description": "Optional prediction endpoint overriding the server default", "type": "string", "example": "http://localhost:5000/predict"},
                "location": {"description": "Place to predict for; surrounding whitespace is ignored", "type": "string", "example": "Paris"}
            }
        },
        "models.Notice": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "variant": {"type": "string"}
            }
        },
        "models.Pollutants": {
            "type": "object",
            "properties": {
                "pm25": {"type": "number"},
                "pm10": {"type": "number"},
                "o3": {"type": "number"},
                "no2": {"type": "number"},
                "so2": {"type": "number"},
                "co": {"type": "number"}
            }
        },
        "models.Reading": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "location": {"type": "string"},
                "aqi": {"type": "integer"},
                "category": {"type": "string"},
                "color": {"type": "string"},
                "timestamp": {"type": "string"},
                "pollutants": {"$ref": "#/definitions/models.Pollutants"},
                "origin": {"type": "string"},
                "placeholder": {"type": "boolean"}
            }
        },
        "service.Outcome": {
            "type": "object",
            "properties": {
                "reading": {"$ref": "#/definitions/models.Reading"},
                "notice": {"$ref": "#/definitions/models.Notice"},
                "placeholder": {"type": "boolean"},
                "breakdown": {"type": "array", "items": {"$ref": "#/definitions/aqi.PollutantLevel"}}
            }
        },
        "service.Ticket": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "token": {"type": "string"},
                "expires_at": {"type": "string"}
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
	Title:            "AQI Predictor API",
	Description:      "Classifies air-quality predictions and keeps a short per-session history.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
