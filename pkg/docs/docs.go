// Package docs registers the OpenAPI document of the invoice builder API.
// Regenerate with: swag init -g pkg/server/server.go -o pkg/docs
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
        "/invoice": {
            "get": {
                "produces": ["application/json"],
                "tags": ["invoice"],
                "summary": "Current invoice with totals",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/invoice.Snapshot"}}
                }
            }
        },
        "/invoice/fields/{name}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["invoice"],
                "summary": "Update a header field",
                "parameters": [
                    {"type": "string", "description": "companyName, contactPerson, invoiceDate, dueDate, invoiceNumber, notes or taxRate", "name": "name", "in": "path", "required": true},
                    {"description": "new value", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.FieldInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/invoice.Snapshot"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.ErrorView"}}
                }
            }
        },
        "/invoice/items": {
            "post": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Append an empty row",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/server.AddItemView"}}
                }
            }
        },
        "/invoice/items/{id}": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Change one field of a row",
                "parameters": [
                    {"type": "string", "description": "row ID", "name": "id", "in": "path", "required": true},
                    {"description": "field is name, unitPrice or quantity", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.ItemInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/invoice.Snapshot"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.ErrorView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.ErrorView"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Delete a row",
                "parameters": [
                    {"type": "string", "description": "row ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/invoice.Snapshot"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.ErrorView"}}
                }
            }
        },
        "/invoice/reset": {
            "post": {
                "produces": ["application/json"],
                "tags": ["invoice"],
                "summary": "Discard the draft and start a new one",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/invoice.Snapshot"}}
                }
            }
        },
        "/invoice/pdf": {
            "post": {
                "produces": ["application/pdf"],
                "tags": ["export"],
                "summary": "Download the invoice as PDF",
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/server.ErrorView"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/server.ErrorView"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.ErrorView"}}
                }
            }
        },
        "/invoice/pdf/preview": {
            "get": {
                "produces": ["application/pdf"],
                "tags": ["export"],
                "summary": "Render the invoice as PDF without validation",
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/server.ErrorView"}}
                }
            }
        },
        "/invoice/sheets": {
            "post": {
                "produces": ["application/json"],
                "tags": ["export"],
                "summary": "Send the invoice to the spreadsheet webhook",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/sheets.Result"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/server.ErrorView"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/server.ErrorView"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/server.ErrorView"}}
                }
            }
        },
        "/sheets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["export"],
                "summary": "Rows stored by the spreadsheet webhook",
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/server.ErrorView"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/server.ErrorView"}}
                }
            }
        },
        "/settings/endpoint": {
            "get": {
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Webhook URL in use",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.EndpointView"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Store the webhook URL",
                "parameters": [
                    {"description": "http or https URL", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.EndpointInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.EndpointView"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.ErrorView"}}
                }
            }
        }
    },
    "definitions": {
        "calc.Totals": {
            "type": "object",
            "properties": {
                "subtotal": {"type": "string"},
                "taxAmount": {"type": "string"},
                "total": {"type": "string"},
                "formattedSubtotal": {"type": "string"},
                "formattedTaxAmount": {"type": "string"},
                "formattedTotal": {"type": "string"},
                "formattedTaxRate": {"type": "string"}
            }
        },
        "invoice.Row": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "unitPrice": {"type": "string"},
                "quantity": {"type": "integer"},
                "total": {"type": "string"},
                "position": {"type": "integer"},
                "materialized": {"type": "boolean"}
            }
        },
        "invoice.Snapshot": {
            "type": "object",
            "properties": {
                "companyName": {"type": "string"},
                "contactPerson": {"type": "string"},
                "invoiceDate": {"type": "string"},
                "dueDate": {"type": "string"},
                "invoiceNumber": {"type": "string"},
                "notes": {"type": "string"},
                "taxRate": {"type": "string"},
                "rows": {"type": "array", "items": {"$ref": "#/definitions/invoice.Row"}},
                "totals": {"$ref": "#/definitions/calc.Totals"}
            }
        },
        "server.AddItemView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "invoice": {"$ref": "#/definitions/invoice.Snapshot"}
            }
        },
        "server.EndpointInput": {
            "type": "object",
            "properties": {
                "url": {"type": "string"}
            }
        },
        "server.EndpointView": {
            "type": "object",
            "properties": {
                "url": {"type": "string"},
                "origin": {"type": "string"}
            }
        },
        "server.ErrorView": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "configure": {"type": "boolean"}
            }
        },
        "server.FieldInput": {
            "type": "object",
            "properties": {
                "value": {"type": "string"}
            }
        },
        "server.ItemInput": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "value": {"type": "string"}
            }
        },
        "sheets.Result": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Invoice Builder API",
	Description:      "Edit an invoice draft, preview its totals, export it as PDF or send it to a spreadsheet.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
