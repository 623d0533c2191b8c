// Package docs - Swagger documentation
// Run 'swag init -g cmd/app/main.go' to regenerate.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/lootbox/open": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lootbox"],
                "summary": "Open a lootbox",
                "parameters": [
                    {
                        "description": "Open request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.OpenLootboxRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Win or loss", "schema": {"$ref": "#/definitions/handler.OpenWinResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.SettlementErrorResponse"}}
                }
            }
        },
        "/api/lootbox/history/{walletAddress}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["lootbox"],
                "summary": "List past openings for a wallet",
                "parameters": [
                    {"type": "string", "description": "Wallet address", "name": "walletAddress", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HistoryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service and ledger status",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "handler.OpenLootboxRequest": {
            "type": "object",
            "required": ["walletAddress"],
            "properties": {
                "walletAddress": {"type": "string"},
                "tier": {"type": "string", "example": "DEGEN"},
                "amount": {"type": "number", "example": 0.05},
                "signature": {"type": "string"}
            }
        },
        "handler.OpenWinResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "reward": {"type": "object"},
                "transaction": {"type": "object"},
                "notice": {"type": "string"}
            }
        },
        "handler.HistoryResponse": {
            "type": "object",
            "properties": {
                "history": {"type": "array", "items": {"type": "object"}}
            }
        },
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.SettlementErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "details": {"type": "object"}
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
	Title:            "Lootbox API",
	Description:      "Opens SOL lootboxes, verifies payment on Solana and settles wins in a trending token.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
