package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Slotbook API",
        "description": "Teacher availability slots and demo session booking",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Slots", "description": "Teacher availability slots"},
        {"name": "Reservations", "description": "Demo session booking"},
        {"name": "Schedule", "description": "Student demo schedule"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/slots": {
            "get": {
                "tags": ["Slots"],
                "summary": "List slots with availability projection",
                "parameters": [
                    {"name": "teacherId", "in": "query", "type": "integer"},
                    {"name": "courseId", "in": "query", "type": "integer"},
                    {"name": "dateFrom", "in": "query", "type": "string"},
                    {"name": "dateTo", "in": "query", "type": "string"},
                    {"name": "timezone", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "post": {
                "tags": ["Slots"],
                "summary": "Batch-create bookable slots",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSlotsRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Teacher not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/slots/{id}/open": {
            "get": {
                "tags": ["Slots"],
                "summary": "List a teacher's open slots",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "courseId", "in": "query", "type": "integer"},
                    {"name": "dateFrom", "in": "query", "type": "string"},
                    {"name": "dateTo", "in": "query", "type": "string"},
                    {"name": "timezone", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/slots/{id}/reserve": {
            "post": {
                "tags": ["Reservations"],
                "summary": "Reserve a demo seat on a slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReserveDemoRequest"}}
                ],
                "responses": {
                    "201": {"description": "Reserved", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Slot closed, full, past, course mismatch or quota reached", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Slot or course not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/slots/{id}/export": {
            "get": {
                "tags": ["Slots"],
                "summary": "Export a teacher's open slot schedule",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "timezone", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/slots/student/{userId}": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List a student's demo bookings",
                "parameters": [
                    {"name": "userId", "in": "path", "required": true, "type": "integer"},
                    {"name": "timezone", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Missing or invalid timezone", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "SlotEntry": {
            "type": "object",
            "required": ["startTime", "endTime"],
            "properties": {
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "capacity": {"type": "integer"},
                "courseId": {"type": "integer"}
            }
        },
        "CreateSlotsRequest": {
            "type": "object",
            "required": ["teacherId", "slots"],
            "properties": {
                "teacherId": {"type": "integer"},
                "slots": {"type": "array", "items": {"$ref": "#/definitions/SlotEntry"}}
            }
        },
        "ReserveDemoRequest": {
            "type": "object",
            "required": ["userId", "courseId"],
            "properties": {
                "userId": {"type": "integer"},
                "courseId": {"type": "integer"}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "count": {"type": "integer"},
                "data": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
