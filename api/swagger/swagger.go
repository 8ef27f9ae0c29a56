package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "StoryForge Collab API",
        "description": "Orchestration service for collaborative story-authoring sessions",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Sessions", "description": "Session lifecycle and participant management"},
        {"name": "Contributions", "description": "Story submission and moderation"},
        {"name": "Conflicts", "description": "Narrative conflict resolution"},
        {"name": "Feedback", "description": "Peer and facilitator review"},
        {"name": "Assessments", "description": "Derived individual and group assessment"},
        {"name": "Presentations", "description": "Presentation compilation"},
        {"name": "Exports", "description": "Asynchronous artifact generation"}
    ],
    "paths": {
        "/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List session summaries",
                "parameters": [
                    {"name": "classroomId", "in": "query", "type": "string"},
                    {"name": "facilitatorId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sessions"],
                "summary": "Create a story session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Fetch one session aggregate",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/status": {
            "patch": {
                "tags": ["Sessions"],
                "summary": "Move a session to a new lifecycle status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransitionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Illegal transition", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/participants": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Admit students into a session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AdmitRequest"}}
                ],
                "responses": {
                    "200": {"description": "Partial-success batch result", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/participants/{studentId}": {
            "delete": {
                "tags": ["Sessions"],
                "summary": "Deactivate a participant",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/participants/{studentId}/rating": {
            "put": {
                "tags": ["Assessments"],
                "summary": "Store a collaboration rating for a participant",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RateCollaborationRequest"}}
                ],
                "responses": {
                    "204": {"description": "Stored"}
                }
            }
        },
        "/sessions/{id}/contributions": {
            "post": {
                "tags": ["Contributions"],
                "summary": "Submit a story contribution",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitContributionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Accepted contribution", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Not your turn", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/segments/{segmentId}": {
            "patch": {
                "tags": ["Contributions"],
                "summary": "Resubmit text for a pending segment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "segmentId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviseSegmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the author", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Segment not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/segments/{segmentId}/review": {
            "patch": {
                "tags": ["Contributions"],
                "summary": "Review a pending segment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "segmentId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewSegmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/segments/{segmentId}/feedback": {
            "post": {
                "tags": ["Feedback"],
                "summary": "Attach feedback to a segment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "segmentId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProvideFeedbackRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Segment not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/conflicts/{conflictId}/resolve": {
            "post": {
                "tags": ["Conflicts"],
                "summary": "Resolve a raised conflict",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "conflictId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResolveConflictRequest"}}
                ],
                "responses": {
                    "200": {"description": "Resolution record", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Conflict not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/resolutions": {
            "get": {
                "tags": ["Conflicts"],
                "summary": "List a session's resolution log",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/assessment": {
            "get": {
                "tags": ["Assessments"],
                "summary": "Compute session assessment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "type", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/presentation": {
            "post": {
                "tags": ["Presentations"],
                "summary": "Compile a completed session into a presentation package",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CompilePresentationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Session not completed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue an export job",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/downloads/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export via signed token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "403": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "CreateSessionRequest": {
            "type": "object",
            "properties": {
                "classroom_id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "facilitator_id": {"type": "string"},
                "prompt": {"type": "string"},
                "objectives": {"type": "array", "items": {"type": "string"}},
                "type": {"type": "string", "enum": ["COLLABORATIVE", "TURN_BASED", "GUIDED"]},
                "max_participants": {"type": "integer"},
                "scheduled_start": {"type": "string", "format": "date-time"}
            },
            "required": ["classroom_id", "title", "facilitator_id", "type", "max_participants"]
        },
        "TransitionRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["SCHEDULED", "ACTIVE", "PAUSED", "COMPLETED", "CANCELLED"]}
            },
            "required": ["status"]
        },
        "AdmitRequest": {
            "type": "object",
            "properties": {
                "student_ids": {"type": "array", "items": {"type": "string"}},
                "strategy": {"type": "string", "enum": ["RANDOM", "SKILL_BASED", "PREFERENCE_BASED", "MANUAL"]}
            },
            "required": ["student_ids"]
        },
        "SubmitContributionRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "text": {"type": "string"},
                "segment_type": {"type": "string", "enum": ["INTRODUCTION", "CHARACTER_DEVELOPMENT", "PLOT_ADVANCEMENT", "CONFLICT", "RESOLUTION", "DIALOGUE"]}
            },
            "required": ["student_id", "text", "segment_type"]
        },
        "ReviewSegmentRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["APPROVED", "NEEDS_REVISION", "REJECTED"]}
            },
            "required": ["status"]
        },
        "ReviseSegmentRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "text": {"type": "string"}
            },
            "required": ["student_id", "text"]
        },
        "ProvideFeedbackRequest": {
            "type": "object",
            "properties": {
                "reviewer_id": {"type": "string"},
                "reviewer_type": {"type": "string", "enum": ["PEER", "FACILITATOR", "SYSTEM"]},
                "type": {"type": "string", "enum": ["SUGGESTION", "PRAISE", "CONCERN", "QUESTION"]},
                "content": {"type": "string"}
            },
            "required": ["reviewer_id", "reviewer_type", "type", "content"]
        },
        "ResolveConflictRequest": {
            "type": "object",
            "properties": {
                "strategy": {"type": "string", "enum": ["VOTING", "DISCUSSION", "COMPROMISE", "FACILITATOR_DECISION", "ALTERNATIVE_VERSIONS"]},
                "initiator_id": {"type": "string"},
                "votes": {"type": "object"},
                "decision": {"type": "string"},
                "merged_text": {"type": "string"},
                "summary": {"type": "string"}
            },
            "required": ["strategy", "initiator_id"]
        },
        "RateCollaborationRequest": {
            "type": "object",
            "properties": {
                "rating": {"type": "number"}
            },
            "required": ["rating"]
        },
        "CompilePresentationRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string"},
                "presentation_time": {"type": "integer"},
                "include_feedback": {"type": "boolean"}
            }
        },
        "CreateExportRequest": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "kind": {"type": "string", "enum": ["PRESENTATION_PDF", "ASSESSMENT_CSV"]}
            },
            "required": ["session_id", "kind"]
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
