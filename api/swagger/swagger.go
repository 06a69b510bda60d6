package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Scheduling API",
        "description": "Interview scheduling, matching and billing service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Availability", "description": "Interviewer availability and eligible slot search"},
        {"name": "Scheduling", "description": "Scheduling rounds and confirmation links"},
        {"name": "Feedback", "description": "Interview evaluation forms"},
        {"name": "Billing", "description": "Monthly billing aggregates"}
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
                    "200": {"description": "Ready"},
                    "503": {"description": "A backing store is unreachable"}
                }
            }
        },
        "/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "List availability slots",
                "parameters": [
                    {"name": "interviewerId", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string", "format": "date-time"},
                    {"name": "to", "in": "query", "type": "string", "format": "date-time"},
                    {"name": "unbooked", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Availability"],
                "summary": "Open an availability slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddSlotRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "409": {"description": "Overlapping slot"}
                }
            }
        },
        "/availability/search": {
            "get": {
                "tags": ["Availability"],
                "summary": "Find eligible interviewer slots for a job",
                "parameters": [
                    {"name": "jobId", "in": "query", "type": "string", "required": true},
                    {"name": "date", "in": "query", "type": "string", "required": true, "description": "YYYY-MM-DD"},
                    {"name": "time", "in": "query", "type": "string", "description": "HH:MM"},
                    {"name": "specialization", "in": "query", "type": "string"},
                    {"name": "minExperience", "in": "query", "type": "integer"},
                    {"name": "excludedCompany", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Job not found or no eligible slots"}
                }
            }
        },
        "/scheduling/requests": {
            "post": {
                "tags": ["Scheduling"],
                "summary": "Start a scheduling round for a candidate",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/InitiateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Round started", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "409": {"description": "Slot already booked or round already running"}
                }
            }
        },
        "/scheduling/confirmations/{token}": {
            "post": {
                "tags": ["Scheduling"],
                "summary": "Resolve an accept or reject confirmation link",
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Resolved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Malformed token"},
                    "409": {"description": "Superseded or already scheduled"},
                    "410": {"description": "Expired token"}
                }
            }
        },
        "/interviews/{id}/feedback": {
            "get": {
                "tags": ["Feedback"],
                "summary": "Fetch the feedback form for an interview",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not found"}
                }
            },
            "patch": {
                "tags": ["Feedback"],
                "summary": "Submit the interviewer evaluation for an interview",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitFeedbackRequest"}}
                ],
                "responses": {
                    "200": {"description": "Submitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/billing/records": {
            "get": {
                "tags": ["Billing"],
                "summary": "List monthly billing records",
                "parameters": [
                    {"name": "recordType", "in": "query", "type": "string"},
                    {"name": "month", "in": "query", "type": "string", "description": "YYYY-MM"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden"}
                }
            }
        }
    },
    "definitions": {
        "AddSlotRequest": {
            "type": "object",
            "required": ["interviewer_id", "start_at", "end_at"],
            "properties": {
                "interviewer_id": {"type": "string"},
                "start_at": {"type": "string", "format": "date-time"},
                "end_at": {"type": "string", "format": "date-time"},
                "notes": {"type": "string"}
            }
        },
        "InitiateRequest": {
            "type": "object",
            "required": ["candidate_id", "slot_ids", "scheduled_at"],
            "properties": {
                "candidate_id": {"type": "string"},
                "slot_ids": {"type": "array", "items": {"type": "string"}},
                "scheduled_at": {"type": "string", "format": "date-time"},
                "requested_by": {"type": "string"}
            }
        },
        "SubmitFeedbackRequest": {
            "type": "object",
            "required": ["overall_remark"],
            "properties": {
                "overall_remark": {"type": "string"},
                "overall_score": {"type": "integer"},
                "strengths": {"type": "string"},
                "improvement_points": {"type": "string"},
                "skill_performance": {"type": "object"},
                "skill_evaluation": {"type": "object"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
