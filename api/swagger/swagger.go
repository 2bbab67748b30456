package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tutoring Reports API",
        "description": "Read-only attendance, exam, finance and student reports with CSV/PDF export",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Reports", "description": "Aggregated reports over tutoring records"},
        {"name": "Observability", "description": "Health, readiness and metrics"}
    ],
    "parameters": {
        "academicYear": {"name": "academic_year_id", "in": "query", "type": "integer"},
        "curriculum": {"name": "curriculum_id", "in": "query", "type": "integer"},
        "subject": {"name": "subject_id", "in": "query", "type": "integer"},
        "teacher": {"name": "teacher_id", "in": "query", "type": "integer"},
        "student": {"name": "student_id", "in": "query", "type": "integer"},
        "dateRange": {
            "name": "date_range", "in": "query", "type": "string",
            "enum": ["current_term", "previous_term", "current_month", "previous_month", "current_year", "previous_year", "last_30_days", "last_90_days", "custom"]
        },
        "startDate": {"name": "start_date", "in": "query", "type": "string", "format": "date"},
        "endDate": {"name": "end_date", "in": "query", "type": "string", "format": "date"},
        "limit": {"name": "limit", "in": "query", "type": "integer", "minimum": 1}
    },
    "paths": {
        "/health": {
            "get": {
                "tags": ["Observability"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Observability"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unavailable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Observability"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/reports/filters": {
            "get": {
                "tags": ["Reports"],
                "summary": "Report filter options",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/reports/attendance": {
            "get": {
                "tags": ["Reports"],
                "summary": "Attendance report",
                "parameters": [
                    {"$ref": "#/parameters/academicYear"},
                    {"$ref": "#/parameters/curriculum"},
                    {"$ref": "#/parameters/subject"},
                    {"$ref": "#/parameters/teacher"},
                    {"$ref": "#/parameters/student"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["present", "absent", "late", "excused"]},
                    {"$ref": "#/parameters/dateRange"},
                    {"$ref": "#/parameters/startDate"},
                    {"$ref": "#/parameters/endDate"},
                    {"$ref": "#/parameters/limit"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Invalid date window", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/reports/exams": {
            "get": {
                "tags": ["Reports"],
                "summary": "Exam report",
                "parameters": [
                    {"$ref": "#/parameters/academicYear"},
                    {"$ref": "#/parameters/curriculum"},
                    {"$ref": "#/parameters/subject"},
                    {"$ref": "#/parameters/teacher"},
                    {"$ref": "#/parameters/student"},
                    {"name": "grade", "in": "query", "type": "string", "enum": ["A", "B", "C", "D", "F"]},
                    {"name": "exam_type", "in": "query", "type": "string", "enum": ["quiz", "midterm", "final", "assignment"]},
                    {"$ref": "#/parameters/dateRange"},
                    {"$ref": "#/parameters/startDate"},
                    {"$ref": "#/parameters/endDate"},
                    {"$ref": "#/parameters/limit"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Invalid date window", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/reports/finances": {
            "get": {
                "tags": ["Reports"],
                "summary": "Finance report",
                "parameters": [
                    {"$ref": "#/parameters/academicYear"},
                    {"$ref": "#/parameters/curriculum"},
                    {"$ref": "#/parameters/student"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["draft", "sent", "partially_paid", "paid", "overdue"]},
                    {"name": "payment_method", "in": "query", "type": "string"},
                    {"$ref": "#/parameters/dateRange"},
                    {"$ref": "#/parameters/startDate"},
                    {"$ref": "#/parameters/endDate"},
                    {"$ref": "#/parameters/limit"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Invalid date window", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/reports/students": {
            "get": {
                "tags": ["Reports"],
                "summary": "Student report",
                "parameters": [
                    {"$ref": "#/parameters/academicYear"},
                    {"$ref": "#/parameters/curriculum"},
                    {"$ref": "#/parameters/subject"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["active", "inactive", "completed", "withdrawn"]},
                    {"name": "gender", "in": "query", "type": "string"},
                    {"$ref": "#/parameters/dateRange"},
                    {"$ref": "#/parameters/startDate"},
                    {"$ref": "#/parameters/endDate"},
                    {"$ref": "#/parameters/limit"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Invalid date window", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/reports/{type}/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export a report",
                "description": "Accepts the same filters as the matching report endpoint.",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "type", "in": "path", "required": true, "type": "string", "enum": ["attendance", "exams", "finances", "students"]},
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Report file", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown report type", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
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
                "meta": {
                    "type": "object",
                    "properties": {
                        "cache_hit": {"type": "boolean"},
                        "query": {"type": "string"},
                        "processing_time_ms": {"type": "number"}
                    }
                }
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
