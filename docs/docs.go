// Package docs registra la especificación OpenAPI servida en /swagger/.
// Se mantiene a mano junto a las anotaciones @Router de los handlers.
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
        "/geocode/reverse": {
            "get": {
                "description": "Devuelve la dirección para unas coordenadas. Si el proveedor no responde se devuelve \"Location at lat, lng\" con ` + "`" + `fallback` + "`" + ` true.",
                "produces": ["application/json"],
                "tags": ["geocode"],
                "summary": "Geocodificación inversa",
                "parameters": [
                    {"type": "number", "description": "Latitud", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "Longitud", "name": "lng", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/locations.Resolved"}},
                    "400": {"description": "coordenadas inválidas", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/geocode/search": {
            "get": {
                "description": "Búsqueda de direcciones acotada al área configurada (máximo 5 resultados).",
                "produces": ["application/json"],
                "tags": ["geocode"],
                "summary": "Buscar lugares",
                "parameters": [
                    {"type": "string", "description": "Texto a buscar", "name": "q", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/locations.searchResponse"}},
                    "400": {"description": "q requerido", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "502": {"description": "proveedor no disponible", "schema": {"type": "string"}}
                }
            }
        },
        "/grievances": {
            "get": {
                "description": "Snapshot ordenado por fecha de creación (más recientes primero). ` + "`" + `scope=mine` + "`" + ` (default) devuelve los propios; ` + "`" + `scope=all` + "`" + ` todos.",
                "produces": ["application/json"],
                "tags": ["grievances"],
                "summary": "Listar reclamos",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"type": "string", "description": "mine|all", "name": "scope", "in": "query"},
                    {"type": "string", "description": "Categoría o all", "name": "category", "in": "query"},
                    {"type": "string", "description": "Estado o all", "name": "status", "in": "query"},
                    {"type": "string", "description": "Urgencia o all", "name": "urgency", "in": "query"},
                    {"type": "string", "description": "Texto en título, descripción, nombre del usuario o dirección", "name": "q", "in": "query"},
                    {"type": "string", "description": "Fecha mínima (RFC3339 o YYYY-MM-DD, inclusiva)", "name": "from", "in": "query"},
                    {"type": "string", "description": "Fecha máxima (RFC3339 o YYYY-MM-DD, inclusiva)", "name": "to", "in": "query"},
                    {"type": "integer", "description": "1-200, default 50", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "default 0", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/grievances.listGrievancesResponse"}},
                    "400": {"description": "filtros inválidos", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            },
            "post": {
                "description": "Crea un reclamo en estado ` + "`" + `submitted` + "`" + `. Acepta JSON o ` + "`" + `multipart/form-data` + "`" + `. Si la subida de la foto falla, el reclamo se crea sin foto y ` + "`" + `photoDropped` + "`" + ` es true.",
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["grievances"],
                "summary": "Reportar reclamo",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"description": "Datos del reclamo (JSON)", "name": "payload", "in": "body", "schema": {"$ref": "#/definitions/grievances.createGrievanceRequest"}},
                    {"type": "file", "description": "Foto del problema", "name": "photo", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/grievances.createGrievanceResponse"}},
                    "400": {"description": "validación", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "error del store", "schema": {"type": "string"}}
                }
            }
        },
        "/grievances/bulk": {
            "post": {
                "description": "Actualiza el estado o borra varios reclamos en una sola escritura atómica.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["grievances"],
                "summary": "Acciones masivas",
                "parameters": [
                    {"description": "Acción e ids", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/grievances.bulkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/grievances.bulkResponse"}},
                    "400": {"description": "validación", "schema": {"type": "string"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}},
                    "404": {"description": "grievance not found", "schema": {"type": "string"}},
                    "409": {"description": "transición inválida", "schema": {"type": "string"}}
                }
            }
        },
        "/grievances/export.csv": {
            "get": {
                "description": "Exporta todos los reclamos que cumplen los filtros. Requiere rol municipal o administrador.",
                "produces": ["text/csv"],
                "tags": ["grievances"],
                "summary": "Exportar reclamos a CSV",
                "responses": {
                    "200": {"description": "CSV", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}}
                }
            }
        },
        "/grievances/search": {
            "get": {
                "description": "Búsqueda de texto. Usa el índice de búsqueda si está disponible; si no, filtra el snapshot.",
                "produces": ["application/json"],
                "tags": ["grievances"],
                "summary": "Buscar reclamos",
                "parameters": [
                    {"type": "string", "description": "Texto", "name": "q", "in": "query", "required": true},
                    {"type": "string", "description": "mine|all", "name": "scope", "in": "query"},
                    {"type": "integer", "description": "1-200, default 20", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/grievances.grievanceResponse"}}},
                    "400": {"description": "q requerido", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/grievances/stats": {
            "get": {
                "description": "Conteos por estado, prioridad alta y tasa de resolución sobre el snapshot del scope.",
                "produces": ["application/json"],
                "tags": ["grievances"],
                "summary": "Estadísticas de reclamos",
                "parameters": [
                    {"type": "string", "description": "mine|all", "name": "scope", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/grievances.statsResponse"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/grievances/stream": {
            "get": {
                "description": "Server-sent events. Cada evento ` + "`" + `snapshot` + "`" + ` trae la lista completa del scope y su resumen.",
                "produces": ["text/event-stream"],
                "tags": ["grievances"],
                "summary": "Suscripción en vivo",
                "parameters": [
                    {"type": "string", "description": "mine|all", "name": "scope", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/grievances.snapshotEvent"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/grievances/{id}": {
            "get": {
                "description": "Devuelve el reclamo con su historial, progreso y transiciones permitidas.",
                "produces": ["application/json"],
                "tags": ["grievances"],
                "summary": "Obtener reclamo",
                "parameters": [
                    {"type": "string", "description": "ID del reclamo", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/grievances.grievanceResponse"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "404": {"description": "grievance not found", "schema": {"type": "string"}}
                }
            },
            "delete": {
                "description": "Solo administradores.",
                "tags": ["grievances"],
                "summary": "Borrar reclamo",
                "parameters": [
                    {"type": "string", "description": "ID del reclamo", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "borrado"},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}},
                    "404": {"description": "grievance not found", "schema": {"type": "string"}}
                }
            },
            "patch": {
                "description": "Cambia estado, urgencia, categoría o notas internas. Requiere rol municipal o administrador.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["grievances"],
                "summary": "Actualizar reclamo",
                "parameters": [
                    {"type": "string", "description": "ID del reclamo", "name": "id", "in": "path", "required": true},
                    {"description": "Cambios", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/grievances.updateGrievanceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/grievances.grievanceResponse"}},
                    "400": {"description": "validación", "schema": {"type": "string"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}},
                    "404": {"description": "grievance not found", "schema": {"type": "string"}},
                    "409": {"description": "transición inválida", "schema": {"type": "string"}}
                }
            }
        },
        "/me": {
            "get": {
                "description": "Devuelve el usuario autenticado y el rol resuelto.",
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Sesión actual",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/router.meResponse"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/statuses": {
            "get": {
                "description": "Devuelve los estados en orden de presentación con su etiqueta, color, ícono y transiciones permitidas.",
                "produces": ["application/json"],
                "tags": ["statuses"],
                "summary": "Catálogo de estados",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/grievances.statusResponse"}}}
                }
            }
        }
    },
    "definitions": {
        "geocoding.Place": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "locations.Resolved": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "fallback": {"type": "boolean"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "locations.searchResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/geocoding.Place"}}
            }
        },
        "grievances.Location": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "grievances.StatusChange": {
            "type": "object",
            "properties": {
                "by": {"type": "string"},
                "byName": {"type": "string"},
                "note": {"type": "string"},
                "status": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "grievances.Summary": {
            "type": "object",
            "properties": {
                "acknowledged": {"type": "integer"},
                "duplicate": {"type": "integer"},
                "highPriority": {"type": "integer"},
                "inProgress": {"type": "integer"},
                "rejected": {"type": "integer"},
                "resolved": {"type": "integer"},
                "submitted": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "grievances.grievanceResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "urgency": {"type": "string"},
                "location": {"$ref": "#/definitions/grievances.Location"},
                "photoURL": {"type": "string"},
                "status": {"type": "string"},
                "statusHistory": {"type": "array", "items": {"$ref": "#/definitions/grievances.StatusChange"}},
                "userId": {"type": "string"},
                "userName": {"type": "string"},
                "userEmail": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"},
                "updatedBy": {"type": "string"},
                "adminNotes": {"type": "string"},
                "progress": {"type": "integer"},
                "allowedNext": {"type": "array", "items": {"type": "string"}}
            }
        },
        "grievances.createGrievanceRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string", "enum": ["pothole", "streetlight", "garbage", "water", "drainage", "electricity", "traffic", "other"]},
                "urgency": {"type": "string", "enum": ["low", "medium", "high"]},
                "location": {
                    "type": "object",
                    "properties": {
                        "address": {"type": "string"},
                        "latitude": {"type": "number"},
                        "longitude": {"type": "number"}
                    }
                }
            }
        },
        "grievances.createGrievanceResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "photoDropped": {"type": "boolean"},
                "grievance": {"$ref": "#/definitions/grievances.grievanceResponse"}
            }
        },
        "grievances.listGrievancesResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/grievances.grievanceResponse"}},
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "summary": {"$ref": "#/definitions/grievances.Summary"},
                "total": {"type": "integer"}
            }
        },
        "grievances.statsResponse": {
            "type": "object",
            "properties": {
                "acknowledged": {"type": "integer"},
                "duplicate": {"type": "integer"},
                "highPriority": {"type": "integer"},
                "inProgress": {"type": "integer"},
                "rejected": {"type": "integer"},
                "resolutionRate": {"type": "integer"},
                "resolved": {"type": "integer"},
                "submitted": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "grievances.updateGrievanceRequest": {
            "type": "object",
            "properties": {
                "adminNotes": {"type": "string"},
                "category": {"type": "string"},
                "force": {"type": "boolean"},
                "note": {"type": "string"},
                "status": {"type": "string"},
                "urgency": {"type": "string"}
            }
        },
        "grievances.bulkRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "enum": ["update-status", "delete"]},
                "force": {"type": "boolean"},
                "ids": {"type": "array", "items": {"type": "string"}},
                "note": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "grievances.bulkResponse": {
            "type": "object",
            "properties": {
                "action": {"type": "string"},
                "deleted": {"type": "integer"},
                "skipped": {"type": "integer"},
                "updated": {"type": "integer"}
            }
        },
        "grievances.snapshotEvent": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/grievances.grievanceResponse"}},
                "summary": {"$ref": "#/definitions/grievances.Summary"}
            }
        },
        "grievances.statusResponse": {
            "type": "object",
            "properties": {
                "allowedNext": {"type": "array", "items": {"type": "string"}},
                "colorTag": {"type": "string"},
                "description": {"type": "string"},
                "icon": {"type": "string"},
                "label": {"type": "string"},
                "progress": {"type": "integer"},
                "terminal": {"type": "boolean"},
                "value": {"type": "string"}
            }
        },
        "router.meResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "picture": {"type": "string"},
                "role": {"type": "string"},
                "userId": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Civic Grievances API",
	Description:      "Reporte y seguimiento de reclamos ciudadanos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
