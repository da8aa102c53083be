// Package swagger registers the OpenAPI document served at /swagger.
package swagger

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
		"/manifest": {
			"get": {
				"description": "Resolves every feature for the evaluation context built from query parameters and cookies.",
				"produces": [
					"application/json"
				],
				"tags": [
					"manifest"
				],
				"summary": "Get Manifest",
				"responses": {
					"200": {
						"description": "Manifest",
						"schema": {
							"type": "object",
							"additionalProperties": true
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/manifest/reload": {
			"post": {
				"description": "Reloads the feature definition from its source and purges cached manifests. The current definition is kept on failure.",
				"produces": [
					"application/json"
				],
				"tags": [
					"manifest"
				],
				"summary": "Reload Definition",
				"responses": {
					"200": {
						"description": "Reloaded",
						"schema": {
							"type": "object",
							"additionalProperties": true
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/manifest/archive": {
			"post": {
				"description": "Resolves the manifest and stores it as JSON in object storage under its cache key.",
				"produces": [
					"application/json"
				],
				"tags": [
					"manifest"
				],
				"summary": "Archive Manifest",
				"responses": {
					"200": {
						"description": "Archived",
						"schema": {
							"type": "object",
							"additionalProperties": true
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					},
					"503": {
						"description": "Archive not configured",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/manifest/{feature}": {
			"get": {
				"description": "Returns availability, dependencies and settings of a single feature.",
				"produces": [
					"application/json"
				],
				"tags": [
					"manifest"
				],
				"summary": "Get Feature Descriptor",
				"parameters": [
					{
						"type": "string",
						"description": "Feature identifier",
						"name": "feature",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "Descriptor",
						"schema": {
							"type": "object",
							"additionalProperties": true
						}
					},
					"404": {
						"description": "Unknown feature",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/manifest/{feature}/enabled": {
			"get": {
				"description": "Fail-safe availability check. Unknown features and resolution errors report false.",
				"produces": [
					"application/json"
				],
				"tags": [
					"manifest"
				],
				"summary": "Is Feature Enabled",
				"parameters": [
					{
						"type": "string",
						"description": "Feature identifier",
						"name": "feature",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "Availability",
						"schema": {
							"type": "object",
							"additionalProperties": true
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/integrity": {
			"get": {
				"description": "Performs every integrity check (Definition, Storage, Database). Failing checks are reported inline.",
				"produces": [
					"application/json"
				],
				"tags": [
					"integrity"
				],
				"summary": "Run All Integrity Checks",
				"responses": {
					"200": {
						"description": "Combined Report",
						"schema": {
							"type": "object",
							"additionalProperties": true
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/integrity/definition": {
			"get": {
				"description": "Reports dependency cycles and features without an availability rule.",
				"produces": [
					"application/json"
				],
				"tags": [
					"integrity"
				],
				"summary": "Check Definition",
				"responses": {
					"200": {
						"description": "Definition Report",
						"schema": {
							"$ref": "#/definitions/checks.DefinitionReport"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/integrity/storage": {
			"get": {
				"description": "Checks that the bucket, the archive folder and the definition object exist. Optionally creates the bucket and missing folders.",
				"produces": [
					"application/json"
				],
				"tags": [
					"integrity"
				],
				"summary": "Check Storage",
				"parameters": [
					{
						"type": "boolean",
						"description": "Create the bucket and missing folders",
						"name": "fix",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "Storage Report",
						"schema": {
							"type": "object",
							"additionalProperties": true
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/integrity/database": {
			"get": {
				"description": "Checks that the settings table has every expected column.",
				"produces": [
					"application/json"
				],
				"tags": [
					"integrity"
				],
				"summary": "Check Settings Table",
				"responses": {
					"200": {
						"description": "Database Report",
						"schema": {
							"$ref": "#/definitions/checks.DatabaseReport"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		}
	},
	"definitions": {
		"checks.DatabaseReport": {
			"type": "object",
			"properties": {
				"errors": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"matched": {
					"type": "boolean"
				},
				"missing_columns": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"table": {
					"type": "string"
				}
			}
		},
		"checks.DefinitionReport": {
			"type": "object",
			"properties": {
				"cycle": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"features": {
					"type": "integer"
				},
				"healthy": {
					"type": "boolean"
				},
				"missing_rules": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"rules": {
					"type": "integer"
				},
				"version": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"ApiKeyAuth": {
			"type": "apiKey",
			"name": "X-API-Key",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Feature Manifest API",
	Description:      "API for resolving feature availability manifests.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
