package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Substitute Coverage API",
        "description": "Absence coverage lifecycle and substitute shift matching",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {
            "name": "Absences",
            "description": "Absence lifecycle"
        },
        {
            "name": "Coverage",
            "description": "Coverage summaries and requests"
        },
        {
            "name": "Substitutes",
            "description": "Substitute responses and assignments"
        },
        {
            "name": "TeacherSchedules",
            "description": "Baseline placements and conflicts"
        },
        {
            "name": "BaselineUsage",
            "description": "Master data usage checks"
        }
    ],
    "paths": {
        "/absences": {
            "post": {
                "tags": [
                    "Absences"
                ],
                "summary": "Create a draft absence",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateAbsenceRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/absences/{id}": {
            "get": {
                "tags": [
                    "Absences"
                ],
                "summary": "Get an absence with its shifts",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Absence ID"
                    },
                    {
                        "name": "school_id",
                        "in": "query",
                        "type": "string",
                        "description": "School override"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/absences/{id}/activate": {
            "post": {
                "tags": [
                    "Absences"
                ],
                "summary": "Activate a draft absence and open its coverage request",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Absence ID"
                    },
                    {
                        "name": "school_id",
                        "in": "query",
                        "type": "string",
                        "description": "School override"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Invalid status transition",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/absences/{id}/cancel": {
            "post": {
                "tags": [
                    "Absences"
                ],
                "summary": "Cancel an absence and its coverage",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Absence ID"
                    },
                    {
                        "name": "school_id",
                        "in": "query",
                        "type": "string",
                        "description": "School override"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Invalid status transition",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/absences/{id}/coverage": {
            "get": {
                "tags": [
                    "Coverage"
                ],
                "summary": "Coverage summary and badges for an absence",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Absence ID"
                    },
                    {
                        "name": "school_id",
                        "in": "query",
                        "type": "string",
                        "description": "School override"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/absences/{id}/coverage/export": {
            "get": {
                "tags": [
                    "Coverage"
                ],
                "summary": "Download the coverage report of an absence",
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Absence ID"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "csv",
                            "pdf"
                        ],
                        "default": "csv"
                    },
                    {
                        "name": "school_id",
                        "in": "query",
                        "type": "string",
                        "description": "School override"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Report file",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Unsupported format",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/coverage-requests/{id}/status": {
            "patch": {
                "tags": [
                    "Coverage"
                ],
                "summary": "Change a coverage request status",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Coverage request ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateCoverageRequestStatusRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Invalid status transition",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/coverage-requests/{id}/substitutes/{substituteId}": {
            "get": {
                "tags": [
                    "Substitutes"
                ],
                "summary": "Get a substitute's stored response on a coverage request",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Coverage request ID"
                    },
                    {
                        "name": "substituteId",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Substitute ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/coverage-requests/shifts/{shiftId}/cancel": {
            "post": {
                "tags": [
                    "Coverage"
                ],
                "summary": "Cancel one coverage shift",
                "parameters": [
                    {
                        "name": "shiftId",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Coverage shift ID"
                    },
                    {
                        "name": "school_id",
                        "in": "query",
                        "type": "string",
                        "description": "School override"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Invalid status transition",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/substitute-responses": {
            "post": {
                "tags": [
                    "Substitutes"
                ],
                "summary": "Record a substitute's shift availability and optionally book shifts",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SubstituteResponseRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Stale version or shift already taken",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/sub-assignments": {
            "post": {
                "tags": [
                    "Substitutes"
                ],
                "summary": "Book a substitute onto a coverage shift",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateSubAssignmentRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Shift already has an active assignment",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/sub-assignments/{id}/cancel": {
            "post": {
                "tags": [
                    "Substitutes"
                ],
                "summary": "Cancel a substitute assignment",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Assignment ID"
                    },
                    {
                        "name": "school_id",
                        "in": "query",
                        "type": "string",
                        "description": "School override"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/teacher-schedules/conflicts": {
            "post": {
                "tags": [
                    "TeacherSchedules"
                ],
                "summary": "Detect conflicts for proposed placements without writing",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CheckConflictsRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/teacher-schedules": {
            "post": {
                "tags": [
                    "TeacherSchedules"
                ],
                "summary": "Create baseline placements",
                "description": "Conflicting batches are rejected unless resolution is replace or floater.",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateTeacherSchedulesRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Schedule conflicts detected",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/baseline-usage/staff/{id}": {
            "get": {
                "tags": [
                    "BaselineUsage"
                ],
                "summary": "Whether a staff is used by the active baseline schedule",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Staff ID"
                    },
                    {
                        "name": "school_id",
                        "in": "query",
                        "type": "string",
                        "description": "School override"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/baseline-usage/classrooms/{id}": {
            "get": {
                "tags": [
                    "BaselineUsage"
                ],
                "summary": "Whether a classroom is used by the active baseline schedule",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Classroom ID"
                    },
                    {
                        "name": "school_id",
                        "in": "query",
                        "type": "string",
                        "description": "School override"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/baseline-usage/class-groups/{id}": {
            "get": {
                "tags": [
                    "BaselineUsage"
                ],
                "summary": "Whether a class group is used by the active baseline schedule",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Class group ID"
                    },
                    {
                        "name": "school_id",
                        "in": "query",
                        "type": "string",
                        "description": "School override"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/baseline-usage/time-slots/{id}": {
            "get": {
                "tags": [
                    "BaselineUsage"
                ],
                "summary": "Whether a time slot is used by the active baseline schedule",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Time slot ID"
                    },
                    {
                        "name": "school_id",
                        "in": "query",
                        "type": "string",
                        "description": "School override"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "CreateAbsenceRequest": {
            "type": "object",
            "required": [
                "staff_id",
                "start_date",
                "end_date",
                "shift_selection_mode"
            ],
            "properties": {
                "school_id": {
                    "type": "string"
                },
                "staff_id": {
                    "type": "string"
                },
                "start_date": {
                    "type": "string",
                    "format": "date"
                },
                "end_date": {
                    "type": "string",
                    "format": "date"
                },
                "shift_selection_mode": {
                    "type": "string",
                    "enum": [
                        "all_scheduled",
                        "selected_shifts"
                    ]
                },
                "shift_keys": {
                    "type": "array",
                    "items": {
                        "type": "string",
                        "example": "2026-02-10|AM"
                    }
                },
                "reason": {
                    "type": "string"
                }
            }
        },
        "UpdateCoverageRequestStatusRequest": {
            "type": "object",
            "required": [
                "status"
            ],
            "properties": {
                "school_id": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "open",
                        "filled",
                        "cancelled"
                    ]
                }
            }
        },
        "SubstituteResponseRequest": {
            "type": "object",
            "required": [
                "coverage_request_id",
                "substitute_id"
            ],
            "properties": {
                "school_id": {
                    "type": "string"
                },
                "coverage_request_id": {
                    "type": "string"
                },
                "substitute_id": {
                    "type": "string"
                },
                "response_status": {
                    "type": "string",
                    "enum": [
                        "none",
                        "pending",
                        "confirmed",
                        "declined"
                    ]
                },
                "is_contacted": {
                    "type": "boolean"
                },
                "notes": {
                    "type": "string"
                },
                "version": {
                    "type": "integer",
                    "minimum": 0
                },
                "selected": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "override": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "available": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "unavailable": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "book_assignments": {
                    "type": "boolean"
                }
            }
        },
        "CreateSubAssignmentRequest": {
            "type": "object",
            "required": [
                "coverage_request_shift_id",
                "substitute_id"
            ],
            "properties": {
                "school_id": {
                    "type": "string"
                },
                "coverage_request_shift_id": {
                    "type": "string"
                },
                "substitute_id": {
                    "type": "string"
                },
                "is_partial": {
                    "type": "boolean"
                },
                "partial_start_time": {
                    "type": "string",
                    "example": "08:00"
                },
                "partial_end_time": {
                    "type": "string",
                    "example": "10:30"
                }
            }
        },
        "PlacementCheck": {
            "type": "object",
            "required": [
                "teacher_id",
                "day_of_week_id",
                "time_slot_id",
                "classroom_id"
            ],
            "properties": {
                "teacher_id": {
                    "type": "string"
                },
                "day_of_week_id": {
                    "type": "string"
                },
                "time_slot_id": {
                    "type": "string"
                },
                "classroom_id": {
                    "type": "string"
                }
            }
        },
        "CheckConflictsRequest": {
            "type": "object",
            "required": [
                "checks"
            ],
            "properties": {
                "school_id": {
                    "type": "string"
                },
                "checks": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/PlacementCheck"
                    }
                }
            }
        },
        "PlacementInput": {
            "type": "object",
            "required": [
                "teacher_id",
                "day_of_week_id",
                "time_slot_id",
                "classroom_id"
            ],
            "properties": {
                "teacher_id": {
                    "type": "string"
                },
                "day_of_week_id": {
                    "type": "string"
                },
                "time_slot_id": {
                    "type": "string"
                },
                "classroom_id": {
                    "type": "string"
                },
                "class_group_id": {
                    "type": "string"
                },
                "is_floater": {
                    "type": "boolean"
                }
            }
        },
        "CreateTeacherSchedulesRequest": {
            "type": "object",
            "required": [
                "placements"
            ],
            "properties": {
                "school_id": {
                    "type": "string"
                },
                "placements": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/PlacementInput"
                    }
                },
                "resolution": {
                    "type": "string",
                    "enum": [
                        "reject",
                        "replace",
                        "floater"
                    ],
                    "default": "reject"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "meta": {
                    "type": "object"
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
