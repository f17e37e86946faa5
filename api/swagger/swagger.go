package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "UniPortal API",
        "description": "University administration portal: recurring class schedules, classroom availability and reference data",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedules", "description": "Recurring weekly class schedules"},
        {"name": "Availability", "description": "Classroom occupancy at an instant"},
        {"name": "Cancellations", "description": "Per-date class cancellations"},
        {"name": "Semesters", "description": "Semester windows"},
        {"name": "Classrooms", "description": "Classroom reference data"},
        {"name": "Courses", "description": "Course offerings"},
        {"name": "Departments", "description": "Department reference data"},
        {"name": "Subjects", "description": "Subject reference data"},
        {"name": "Notices", "description": "Announcement board"},
        {"name": "Exports", "description": "Timetable downloads"},
        {"name": "Audit", "description": "Audit trail"}
    ],
    "paths": {
        "/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List schedules with their weekly entries",
                "parameters": [
                    {"name": "semester_id", "in": "query", "type": "string"},
                    {"name": "course_id", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Schedules"],
                "summary": "Create a schedule shell",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateScheduleRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedules/{id}": {
            "put": {
                "tags": ["Schedules"],
                "summary": "Replace a schedule's weekly pattern",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReconcileScheduleRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Schedules"],
                "summary": "Delete a schedule and its entries",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/schedules/{id}/entries": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List a schedule's active entries",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Schedules"],
                "summary": "Add weekly entries to a schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddEntriesRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/classrooms/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Check classroom availability",
                "parameters": [
                    {"name": "day", "in": "query", "type": "integer", "description": "1=Monday..7=Sunday"},
                    {"name": "time", "in": "query", "type": "string", "description": "HH:MM"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/cancellations": {
            "post": {
                "tags": ["Cancellations"],
                "summary": "Cancel one occurrence of a schedule entry",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CancelClassRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already canceled on this date"}
                }
            }
        },
        "/cancellations/{id}": {
            "delete": {
                "tags": ["Cancellations"],
                "summary": "Revoke a cancellation",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/schedule-entries/{id}/cancellations": {
            "get": {
                "tags": ["Cancellations"],
                "summary": "List cancellations for a schedule entry",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/semesters": {
            "get": {"tags": ["Semesters"], "summary": "List semesters", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Semesters"], "summary": "Create semester", "responses": {"201": {"description": "Created"}}}
        },
        "/semesters/current": {
            "get": {"tags": ["Semesters"], "summary": "Get the semester currently in session", "responses": {"200": {"description": "OK"}, "404": {"description": "No semester in session"}}}
        },
        "/semesters/{id}": {
            "get": {"tags": ["Semesters"], "summary": "Get semester", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Semesters"], "summary": "Update semester", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Semesters"], "summary": "Delete semester", "responses": {"204": {"description": "No Content"}}}
        },
        "/semesters/{id}/activate": {
            "post": {"tags": ["Semesters"], "summary": "Restore a soft-deleted semester", "responses": {"204": {"description": "No Content"}}}
        },
        "/classrooms": {
            "get": {"tags": ["Classrooms"], "summary": "List classrooms", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Classrooms"], "summary": "Create classroom", "responses": {"201": {"description": "Created"}}}
        },
        "/classrooms/{id}": {
            "get": {"tags": ["Classrooms"], "summary": "Get classroom", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Classrooms"], "summary": "Update classroom", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Classrooms"], "summary": "Delete classroom", "responses": {"204": {"description": "No Content"}}}
        },
        "/classrooms/{id}/activate": {
            "post": {"tags": ["Classrooms"], "summary": "Restore a soft-deleted classroom", "responses": {"204": {"description": "No Content"}}}
        },
        "/courses": {
            "get": {"tags": ["Courses"], "summary": "List courses", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Courses"], "summary": "Create course", "responses": {"201": {"description": "Created"}}}
        },
        "/courses/ongoing": {
            "get": {"tags": ["Courses"], "summary": "List courses in the current semester", "responses": {"200": {"description": "OK"}}}
        },
        "/courses/{id}": {
            "get": {"tags": ["Courses"], "summary": "Get course", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Courses"], "summary": "Update course", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Courses"], "summary": "Delete course", "responses": {"204": {"description": "No Content"}}}
        },
        "/courses/{id}/activate": {
            "post": {"tags": ["Courses"], "summary": "Restore a soft-deleted course", "responses": {"204": {"description": "No Content"}}}
        },
        "/departments": {
            "get": {"tags": ["Departments"], "summary": "List departments", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Departments"], "summary": "Create department", "responses": {"201": {"description": "Created"}}}
        },
        "/departments/{id}": {
            "get": {"tags": ["Departments"], "summary": "Get department", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Departments"], "summary": "Update department", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Departments"], "summary": "Delete department", "responses": {"204": {"description": "No Content"}}}
        },
        "/departments/{id}/activate": {
            "post": {"tags": ["Departments"], "summary": "Restore a soft-deleted department", "responses": {"204": {"description": "No Content"}}}
        },
        "/subjects": {
            "get": {"tags": ["Subjects"], "summary": "List subjects", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Subjects"], "summary": "Create subject", "responses": {"201": {"description": "Created"}, "409": {"description": "Subject code already in use"}}}
        },
        "/subjects/{id}": {
            "get": {"tags": ["Subjects"], "summary": "Get subject", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Subjects"], "summary": "Update subject", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Subjects"], "summary": "Delete subject", "responses": {"204": {"description": "No Content"}}}
        },
        "/subjects/{id}/activate": {
            "post": {"tags": ["Subjects"], "summary": "Restore a soft-deleted subject", "responses": {"204": {"description": "No Content"}}}
        },
        "/notices": {
            "get": {"tags": ["Notices"], "summary": "List notices", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Notices"], "summary": "Publish a notice", "responses": {"201": {"description": "Created"}}}
        },
        "/notices/{id}": {
            "get": {"tags": ["Notices"], "summary": "Get notice", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Notices"], "summary": "Update notice", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Notices"], "summary": "Delete notice", "responses": {"204": {"description": "No Content"}}}
        },
        "/notices/{id}/activate": {
            "post": {"tags": ["Notices"], "summary": "Restore a soft-deleted notice", "responses": {"204": {"description": "No Content"}}}
        },
        "/exports/timetable": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the weekly timetable",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "semester_id", "in": "query", "type": "string"},
                    {"name": "course_id", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "File download"}}
            }
        },
        "/exports/download": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an archived timetable via a signed link",
                "parameters": [
                    {"name": "token", "in": "query", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "File download"}, "401": {"description": "Invalid or expired token"}}
            }
        },
        "/audit": {
            "get": {
                "tags": ["Audit"],
                "summary": "List the audit trail for one entity",
                "parameters": [
                    {"name": "entity_type", "in": "query", "required": true, "type": "string"},
                    {"name": "entity_id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "CreateScheduleRequest": {
            "type": "object",
            "required": ["course_id", "classroom_id"],
            "properties": {
                "course_id": {"type": "string"},
                "classroom_id": {"type": "string"}
            }
        },
        "AddEntriesRequest": {
            "type": "object",
            "required": ["days", "start_time", "end_time"],
            "properties": {
                "days": {"type": "array", "items": {"type": "integer", "minimum": 1, "maximum": 7}},
                "start_time": {"type": "string", "example": "08:00"},
                "end_time": {"type": "string", "example": "09:30"}
            }
        },
        "ReconcileScheduleRequest": {
            "type": "object",
            "required": ["course_id", "classroom_id", "days", "start_time", "end_time"],
            "properties": {
                "course_id": {"type": "string"},
                "classroom_id": {"type": "string"},
                "days": {"type": "array", "items": {"type": "integer", "minimum": 1, "maximum": 7}},
                "start_time": {"type": "string", "example": "22:00"},
                "end_time": {"type": "string", "example": "02:00"}
            }
        },
        "CancelClassRequest": {
            "type": "object",
            "required": ["schedule_entry_id", "date"],
            "properties": {
                "schedule_entry_id": {"type": "string"},
                "date": {"type": "string", "example": "2026-09-07"},
                "reason": {"type": "string"}
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
