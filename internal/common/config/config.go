// internal/common/config/config.go

// Package config loads and validates the generator configuration: input and
// output locations plus the rule sets that drive test injection, request
// variations and integration scenarios.
package config

import (
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Generate GenerateConfig `mapstructure:"generate"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GenerateConfig describes one generation run.
type GenerateConfig struct {
	SpecPath               string `mapstructure:"spec_path"`
	CollectionPath         string `mapstructure:"collection_path"`
	OutputPath             string `mapstructure:"output_path"`
	CollectionName         string `mapstructure:"collection_name"`
	BaseURL                string `mapstructure:"base_url"`
	DownloadTimeoutSeconds int    `mapstructure:"download_timeout_seconds"`

	Tests           TestsConfig           `mapstructure:"tests"`
	Overwrites      []*OverwriteRule      `mapstructure:"overwrites"`
	AssignVariables []*AssignVariableRule `mapstructure:"assign_variables"`
	Globals         GlobalsConfig         `mapstructure:"globals"`
}

// DownloadTimeout returns the remote fetch timeout as a duration.
func (g *GenerateConfig) DownloadTimeout() time.Duration {
	return time.Duration(g.DownloadTimeoutSeconds) * time.Second
}

// TestsConfig groups the rule lists that inject tests into the collection.
type TestsConfig struct {
	ContractTests    []*ContractTestRule `mapstructure:"contract_tests"`
	ContentTests     []*ContentTestRule  `mapstructure:"content_tests"`
	ExtendTests      []*ExtendTestRule   `mapstructure:"extend_tests"`
	VariationTests   []*VariationRule    `mapstructure:"variation_tests"`
	IntegrationTests []*IntegrationRule  `mapstructure:"integration_tests"`
}

// Target selects the operations a rule applies to: by path reference
// pattern, by a single operation id, or by an id list. Records matching an
// exclusion entry are filtered from the selection.
type Target struct {
	OpenAPIOperation     string   `mapstructure:"openapi_operation"`
	OpenAPIOperationID   string   `mapstructure:"openapi_operation_id"`
	OpenAPIOperationIDs  []string `mapstructure:"openapi_operation_ids"`
	ExcludeForOperations []string `mapstructure:"exclude_for_operations"`
}

// CheckOptions is shared by every contract check toggle. A check can carry
// its own exclusion list on top of the rule level one.
type CheckOptions struct {
	Enabled              bool     `mapstructure:"enabled"`
	ExcludeForOperations []string `mapstructure:"exclude_for_operations"`
}

// ContractTestRule enables structural checks derived from the API document.
// Absent check fields inject nothing.
type ContractTestRule struct {
	Target `mapstructure:",squash"`

	StatusSuccess    *StatusSuccessCheck    `mapstructure:"status_success"`
	StatusCode       *StatusCodeCheck       `mapstructure:"status_code"`
	ResponseTime     *ResponseTimeCheck     `mapstructure:"response_time"`
	ContentType      *ContentTypeCheck      `mapstructure:"content_type"`
	JSONBody         *JSONBodyCheck         `mapstructure:"json_body"`
	SchemaValidation *SchemaValidationCheck `mapstructure:"schema_validation"`
	HeadersPresent   *HeadersPresentCheck   `mapstructure:"headers_present"`
}

type StatusSuccessCheck struct {
	CheckOptions `mapstructure:",squash"`
}

// StatusCodeCheck asserts an exact status code. Code 0 means the declared
// response code is used.
type StatusCodeCheck struct {
	CheckOptions `mapstructure:",squash"`
	Code         int `mapstructure:"code"`
}

type ResponseTimeCheck struct {
	CheckOptions `mapstructure:",squash"`
	MaxMs        int `mapstructure:"max_ms"`
}

type ContentTypeCheck struct {
	CheckOptions `mapstructure:",squash"`
}

type JSONBodyCheck struct {
	CheckOptions `mapstructure:",squash"`
}

// SchemaValidationCheck embeds the declared response schema into the test
// script. AdditionalProperties, when set, overrides the schema's own
// additionalProperties flag before embedding.
type SchemaValidationCheck struct {
	CheckOptions         `mapstructure:",squash"`
	AdditionalProperties *bool `mapstructure:"additional_properties"`
}

type HeadersPresentCheck struct {
	CheckOptions `mapstructure:",squash"`
}

// Options accessors are nil safe so rule processing can treat an absent
// check and a disabled check the same way.

func (c *StatusSuccessCheck) Options() *CheckOptions {
	if c == nil {
		return nil
	}
	return &c.CheckOptions
}

func (c *StatusCodeCheck) Options() *CheckOptions {
	if c == nil {
		return nil
	}
	return &c.CheckOptions
}

func (c *ResponseTimeCheck) Options() *CheckOptions {
	if c == nil {
		return nil
	}
	return &c.CheckOptions
}

func (c *ContentTypeCheck) Options() *CheckOptions {
	if c == nil {
		return nil
	}
	return &c.CheckOptions
}

func (c *JSONBodyCheck) Options() *CheckOptions {
	if c == nil {
		return nil
	}
	return &c.CheckOptions
}

func (c *SchemaValidationCheck) Options() *CheckOptions {
	if c == nil {
		return nil
	}
	return &c.CheckOptions
}

func (c *HeadersPresentCheck) Options() *CheckOptions {
	if c == nil {
		return nil
	}
	return &c.CheckOptions
}

// ContentTestRule asserts on response body content.
type ContentTestRule struct {
	Target `mapstructure:",squash"`

	ResponseBodyTests []*ResponseBodyTest `mapstructure:"response_body_tests"`
}

// ResponseBodyTest is one assertion on a response body property addressed
// by dotted path, for example "data[0].id".
type ResponseBodyTest struct {
	Key       string      `mapstructure:"key"`
	Value     interface{} `mapstructure:"value"`
	Contains  string      `mapstructure:"contains"`
	Length    *int        `mapstructure:"length"`
	MinLength *int        `mapstructure:"min_length"`
	MaxLength *int        `mapstructure:"max_length"`
	NotExist  bool        `mapstructure:"not_exist"`
}

// ExtendTestRule appends hand written script lines to matching requests.
// With Overwrite set, the existing test script is replaced instead.
type ExtendTestRule struct {
	Target `mapstructure:",squash"`

	Tests     []string `mapstructure:"tests"`
	Overwrite bool     `mapstructure:"overwrite"`
}

// Mutations describes request mutations shared by overwrite rules,
// variations and scenario steps.
type Mutations struct {
	QueryParams   []*KVMutation   `mapstructure:"query_params"`
	PathVariables []*KVMutation   `mapstructure:"path_variables"`
	Headers       []*KVMutation   `mapstructure:"headers"`
	Body          []*BodyMutation `mapstructure:"body"`
}

// KVMutation mutates one key/value entry. Overwrite nil defaults to true
// (replace the value), false appends to the existing value. Insert nil
// defaults to true (add the key when absent).
type KVMutation struct {
	Key       string `mapstructure:"key"`
	Value     string `mapstructure:"value"`
	Overwrite *bool  `mapstructure:"overwrite"`
	Remove    bool   `mapstructure:"remove"`
	Insert    *bool  `mapstructure:"insert"`
}

// BodyMutation mutates a JSON body property addressed by dotted path.
type BodyMutation struct {
	Key       string      `mapstructure:"key"`
	Value     interface{} `mapstructure:"value"`
	Overwrite *bool       `mapstructure:"overwrite"`
	Remove    bool        `mapstructure:"remove"`
}

// OverwriteRule applies request mutations to the operations it targets.
type OverwriteRule struct {
	Target    `mapstructure:",squash"`
	Mutations `mapstructure:",squash"`
}

// VariationRule expands matching requests into one clone per named
// variation. Each variation carries its own mutations and scoped tests.
type VariationRule struct {
	Target `mapstructure:",squash"`

	Variations []*VariationSpec `mapstructure:"variations"`
}

// VariationSpec is one named request mutation set: the overwrites applied to
// the clone plus the tests re-injected afterwards. Shared between variation
// rules and integration scenario steps.
type VariationSpec struct {
	Name            string                      `mapstructure:"name"`
	OpenAPIResponse string                      `mapstructure:"openapi_response"`
	Overwrites      []*Mutations                `mapstructure:"overwrites"`
	Tests           *VariationTests             `mapstructure:"tests"`
	AssignVariables []*CollectionVariableTarget `mapstructure:"assign_variables"`
	ExtendTests     []string                    `mapstructure:"extend_tests"`
}

// VariationTests scopes test injection to a cloned request. The target part
// of the nested rules is ignored, the clone is always the target.
type VariationTests struct {
	ContractTests []*ContractTestRule `mapstructure:"contract_tests"`
	ContentTests  []*ContentTestRule  `mapstructure:"content_tests"`
}

// IntegrationRule composes an ordered multi step scenario.
type IntegrationRule struct {
	Name       string          `mapstructure:"name"`
	Operations []*ScenarioStep `mapstructure:"operations"`
}

// ScenarioStep references one operation of a scenario and the variations to
// expand for it. Every variation yields one cloned request in the scenario
// folder, in declaration order.
type ScenarioStep struct {
	Name               string           `mapstructure:"name"`
	OpenAPIOperationID string           `mapstructure:"openapi_operation_id"`
	OpenAPIOperation   string           `mapstructure:"openapi_operation"`
	Variations         []*VariationSpec `mapstructure:"variations"`
}

// AssignVariableRule captures response values into collection variables for
// the operations it targets.
type AssignVariableRule struct {
	Target `mapstructure:",squash"`

	CollectionVariables []*CollectionVariableTarget `mapstructure:"collection_variables"`
}

// CollectionVariableTarget names one collection variable and its source: a
// response body property, a response header, or a fixed value.
type CollectionVariableTarget struct {
	ResponseBodyProp   string `mapstructure:"response_body_prop"`
	ResponseHeaderProp string `mapstructure:"response_header_prop"`
	Value              string `mapstructure:"value"`
	Name               string `mapstructure:"name"`
}

// GlobalsConfig holds collection wide post processing applied after every
// rule has run.
type GlobalsConfig struct {
	StripResponseExamples bool                   `mapstructure:"strip_response_examples"`
	KeyValueReplacements  map[string]interface{} `mapstructure:"key_value_replacements"`
	ValueReplacements     map[string]string      `mapstructure:"value_replacements"`
	OrderOfOperations     []string               `mapstructure:"order_of_operations"`
}

// HasWork reports whether any global post processing is configured.
func (g *GlobalsConfig) HasWork() bool {
	return g.StripResponseExamples ||
		len(g.KeyValueReplacements) > 0 ||
		len(g.ValueReplacements) > 0 ||
		len(g.OrderOfOperations) > 0
}
