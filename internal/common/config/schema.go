// internal/common/config/schema.go
package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"postgen/internal/common/errors"
)

// ValidateSettings checks the raw config tree against the embedded schema
// before unmarshalling, so key typos surface as schema errors instead of
// silently ignored rules.
func ValidateSettings(settings map[string]interface{}) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	docLoader := gojsonschema.NewGoLoader(settings)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("config schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return errors.NewConfigValidationFailedError(strings.Join(details, "; "))
}

const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "app": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "name": {"type": "string"},
        "version": {"type": "string"},
        "environment": {"type": "string"}
      }
    },
    "logging": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "level": {"type": "string", "enum": ["debug", "info", "warn", "error"]},
        "format": {"type": "string", "enum": ["json", "console"]}
      }
    },
    "generate": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "spec_path": {"type": "string"},
        "collection_path": {"type": "string"},
        "output_path": {"type": "string"},
        "collection_name": {"type": "string"},
        "base_url": {"type": "string"},
        "download_timeout_seconds": {"type": "integer", "minimum": 1},
        "tests": {
          "type": "object",
          "additionalProperties": false,
          "properties": {
            "contract_tests": {"type": "array", "items": {"$ref": "#/definitions/contractTestRule"}},
            "content_tests": {"type": "array", "items": {"$ref": "#/definitions/contentTestRule"}},
            "extend_tests": {"type": "array", "items": {"$ref": "#/definitions/extendTestRule"}},
            "variation_tests": {"type": "array", "items": {"$ref": "#/definitions/variationRule"}},
            "integration_tests": {"type": "array", "items": {"$ref": "#/definitions/integrationRule"}}
          }
        },
        "overwrites": {"type": "array", "items": {"$ref": "#/definitions/overwriteRule"}},
        "assign_variables": {"type": "array", "items": {"$ref": "#/definitions/assignVariableRule"}},
        "globals": {
          "type": "object",
          "additionalProperties": false,
          "properties": {
            "strip_response_examples": {"type": "boolean"},
            "key_value_replacements": {"type": "object"},
            "value_replacements": {"type": "object", "additionalProperties": {"type": "string"}},
            "order_of_operations": {"type": "array", "items": {"type": "string"}}
          }
        }
      }
    }
  },
  "definitions": {
    "checkOptions": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "enabled": {"type": "boolean"},
        "exclude_for_operations": {"type": "array", "items": {"type": "string"}}
      }
    },
    "statusCodeCheck": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "enabled": {"type": "boolean"},
        "exclude_for_operations": {"type": "array", "items": {"type": "string"}},
        "code": {"type": "integer", "minimum": 100, "maximum": 599}
      }
    },
    "responseTimeCheck": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "enabled": {"type": "boolean"},
        "exclude_for_operations": {"type": "array", "items": {"type": "string"}},
        "max_ms": {"type": "integer", "minimum": 0}
      }
    },
    "schemaValidationCheck": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "enabled": {"type": "boolean"},
        "exclude_for_operations": {"type": "array", "items": {"type": "string"}},
        "additional_properties": {"type": "boolean"}
      }
    },
    "contractTestRule": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "openapi_operation": {"type": "string"},
        "openapi_operation_id": {"type": "string"},
        "openapi_operation_ids": {"type": "array", "items": {"type": "string"}},
        "exclude_for_operations": {"type": "array", "items": {"type": "string"}},
        "status_success": {"$ref": "#/definitions/checkOptions"},
        "status_code": {"$ref": "#/definitions/statusCodeCheck"},
        "response_time": {"$ref": "#/definitions/responseTimeCheck"},
        "content_type": {"$ref": "#/definitions/checkOptions"},
        "json_body": {"$ref": "#/definitions/checkOptions"},
        "schema_validation": {"$ref": "#/definitions/schemaValidationCheck"},
        "headers_present": {"$ref": "#/definitions/checkOptions"}
      }
    },
    "responseBodyTest": {
      "type": "object",
      "additionalProperties": false,
      "required": ["key"],
      "properties": {
        "key": {"type": "string"},
        "value": {},
        "contains": {"type": "string"},
        "length": {"type": "integer", "minimum": 0},
        "min_length": {"type": "integer", "minimum": 0},
        "max_length": {"type": "integer", "minimum": 0},
        "not_exist": {"type": "boolean"}
      }
    },
    "contentTestRule": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "openapi_operation": {"type": "string"},
        "openapi_operation_id": {"type": "string"},
        "openapi_operation_ids": {"type": "array", "items": {"type": "string"}},
        "exclude_for_operations": {"type": "array", "items": {"type": "string"}},
        "response_body_tests": {"type": "array", "items": {"$ref": "#/definitions/responseBodyTest"}}
      }
    },
    "extendTestRule": {
      "type": "object",
      "additionalProperties": false,
      "required": ["tests"],
      "properties": {
        "openapi_operation": {"type": "string"},
        "openapi_operation_id": {"type": "string"},
        "openapi_operation_ids": {"type": "array", "items": {"type": "string"}},
        "exclude_for_operations": {"type": "array", "items": {"type": "string"}},
        "tests": {"type": "array", "items": {"type": "string"}, "minItems": 1},
        "overwrite": {"type": "boolean"}
      }
    },
    "kvMutation": {
      "type": "object",
      "additionalProperties": false,
      "required": ["key"],
      "properties": {
        "key": {"type": "string"},
        "value": {"type": "string"},
        "overwrite": {"type": "boolean"},
        "remove": {"type": "boolean"},
        "insert": {"type": "boolean"}
      }
    },
    "bodyMutation": {
      "type": "object",
      "additionalProperties": false,
      "required": ["key"],
      "properties": {
        "key": {"type": "string"},
        "value": {},
        "overwrite": {"type": "boolean"},
        "remove": {"type": "boolean"}
      }
    },
    "mutations": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "query_params": {"type": "array", "items": {"$ref": "#/definitions/kvMutation"}},
        "path_variables": {"type": "array", "items": {"$ref": "#/definitions/kvMutation"}},
        "headers": {"type": "array", "items": {"$ref": "#/definitions/kvMutation"}},
        "body": {"type": "array", "items": {"$ref": "#/definitions/bodyMutation"}}
      }
    },
    "overwriteRule": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "openapi_operation": {"type": "string"},
        "openapi_operation_id": {"type": "string"},
        "openapi_operation_ids": {"type": "array", "items": {"type": "string"}},
        "exclude_for_operations": {"type": "array", "items": {"type": "string"}},
        "query_params": {"type": "array", "items": {"$ref": "#/definitions/kvMutation"}},
        "path_variables": {"type": "array", "items": {"$ref": "#/definitions/kvMutation"}},
        "headers": {"type": "array", "items": {"$ref": "#/definitions/kvMutation"}},
        "body": {"type": "array", "items": {"$ref": "#/definitions/bodyMutation"}}
      }
    },
    "collectionVariable": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "response_body_prop": {"type": "string"},
        "response_header_prop": {"type": "string"},
        "value": {"type": "string"},
        "name": {"type": "string"}
      }
    },
    "assignVariableRule": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "openapi_operation": {"type": "string"},
        "openapi_operation_id": {"type": "string"},
        "openapi_operation_ids": {"type": "array", "items": {"type": "string"}},
        "exclude_for_operations": {"type": "array", "items": {"type": "string"}},
        "collection_variables": {"type": "array", "items": {"$ref": "#/definitions/collectionVariable"}}
      }
    },
    "variationTests": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "contract_tests": {"type": "array", "items": {"$ref": "#/definitions/contractTestRule"}},
        "content_tests": {"type": "array", "items": {"$ref": "#/definitions/contentTestRule"}}
      }
    },
    "variationRule": {
      "type": "object",
      "additionalProperties": false,
      "required": ["variations"],
      "properties": {
        "openapi_operation": {"type": "string"},
        "openapi_operation_id": {"type": "string"},
        "openapi_operation_ids": {"type": "array", "items": {"type": "string"}},
        "exclude_for_operations": {"type": "array", "items": {"type": "string"}},
        "variations": {"type": "array", "items": {"$ref": "#/definitions/variationSpec"}, "minItems": 1}
      }
    },
    "variationSpec": {
      "type": "object",
      "additionalProperties": false,
      "required": ["name"],
      "properties": {
        "name": {"type": "string"},
        "openapi_response": {"type": "string"},
        "overwrites": {"type": "array", "items": {"$ref": "#/definitions/mutations"}},
        "tests": {"$ref": "#/definitions/variationTests"},
        "assign_variables": {"type": "array", "items": {"$ref": "#/definitions/collectionVariable"}},
        "extend_tests": {"type": "array", "items": {"type": "string"}}
      }
    },
    "scenarioStep": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "name": {"type": "string"},
        "openapi_operation_id": {"type": "string"},
        "openapi_operation": {"type": "string"},
        "variations": {"type": "array", "items": {"$ref": "#/definitions/variationSpec"}}
      }
    },
    "integrationRule": {
      "type": "object",
      "additionalProperties": false,
      "required": ["name", "operations"],
      "properties": {
        "name": {"type": "string"},
        "operations": {"type": "array", "items": {"$ref": "#/definitions/scenarioStep"}, "minItems": 1}
      }
    }
  }
}`
