// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads the base config file ("postgen.yaml") from the usual locations,
// merges an environment specific overlay on top, applies env var overrides
// and returns the validated configuration.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("postgen")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// Enable ENV override like GENERATE_SPEC_PATH
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	// 1. Load base config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// 2. Merge environment overlay, ignore when absent
	v.SetConfigName(fmt.Sprintf("postgen.%s", env))
	_ = v.MergeInConfig()

	// 3. Expand ${VAR} placeholders
	expandEnvVars(v)

	// 4. Validate the raw tree against the config schema
	if err := ValidateSettings(v.AllSettings()); err != nil {
		return nil, err
	}

	// 5. Unmarshal final config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(v)

	if err := ValidateSettings(v.AllSettings()); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from multiple possible locations so the binary
// behaves the same when run from the repo root, a package dir or tests.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars replaces ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig fills selected fields from the environment when the
// config tree left them empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Generate.SpecPath == "" {
		if val := os.Getenv("GENERATE_SPEC_PATH"); val != "" {
			cfg.Generate.SpecPath = val
		}
	}
	if cfg.Generate.OutputPath == "" {
		if val := os.Getenv("GENERATE_OUTPUT_PATH"); val != "" {
			cfg.Generate.OutputPath = val
		}
	}
	if cfg.Generate.BaseURL == "" {
		if val := os.Getenv("GENERATE_BASE_URL"); val != "" {
			cfg.Generate.BaseURL = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "postgen"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Generate.OutputPath == "" {
		cfg.Generate.OutputPath = "./collection.postman.json"
	}
	if cfg.Generate.DownloadTimeoutSeconds == 0 {
		cfg.Generate.DownloadTimeoutSeconds = 30
	}

	// Response time checks fall back to 300ms when no budget is given.
	for _, rule := range cfg.Generate.Tests.ContractTests {
		applyContractRuleDefaults(rule)
	}
	for _, rule := range cfg.Generate.Tests.VariationTests {
		for _, variation := range rule.Variations {
			if variation.Tests == nil {
				continue
			}
			for _, nested := range variation.Tests.ContractTests {
				applyContractRuleDefaults(nested)
			}
		}
	}
	for _, integration := range cfg.Generate.Tests.IntegrationTests {
		for _, step := range integration.Operations {
			for _, variation := range step.Variations {
				if variation.Tests == nil {
					continue
				}
				for _, rule := range variation.Tests.ContractTests {
					applyContractRuleDefaults(rule)
				}
			}
		}
	}
}

func applyContractRuleDefaults(rule *ContractTestRule) {
	if rule == nil {
		return
	}
	if rule.ResponseTime != nil && rule.ResponseTime.MaxMs == 0 {
		rule.ResponseTime.MaxMs = 300
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	switch cfg.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format %q is not one of json, console", cfg.Logging.Format)
	}

	for i, rule := range cfg.Generate.Tests.ContractTests {
		if rule.ResponseTime != nil && rule.ResponseTime.MaxMs < 0 {
			return fmt.Errorf("generate.tests.contract_tests[%d].response_time.max_ms must not be negative", i)
		}
	}

	for i, rule := range cfg.Generate.Tests.ContentTests {
		for j, bt := range rule.ResponseBodyTests {
			if bt.Key == "" {
				return fmt.Errorf("generate.tests.content_tests[%d].response_body_tests[%d] is missing a key", i, j)
			}
		}
	}

	for i, rule := range cfg.Generate.Tests.ExtendTests {
		if len(rule.Tests) == 0 {
			return fmt.Errorf("generate.tests.extend_tests[%d] declares no test lines", i)
		}
	}

	for i, rule := range cfg.Generate.Tests.VariationTests {
		if len(rule.Variations) == 0 {
			return fmt.Errorf("generate.tests.variation_tests[%d] declares no variations", i)
		}
		for j, variation := range rule.Variations {
			if variation.Name == "" {
				return fmt.Errorf("generate.tests.variation_tests[%d].variations[%d] is missing a name", i, j)
			}
		}
	}

	for i, rule := range cfg.Generate.Tests.IntegrationTests {
		if rule.Name == "" {
			return fmt.Errorf("generate.tests.integration_tests[%d] is missing a name", i)
		}
		if len(rule.Operations) == 0 {
			return fmt.Errorf("generate.tests.integration_tests[%d] declares no operations", i)
		}
		for j, step := range rule.Operations {
			if step.OpenAPIOperationID == "" && step.OpenAPIOperation == "" {
				return fmt.Errorf("generate.tests.integration_tests[%d].operations[%d] references no operation", i, j)
			}
			for k, variation := range step.Variations {
				if variation.Name == "" {
					return fmt.Errorf("generate.tests.integration_tests[%d].operations[%d].variations[%d] is missing a name", i, j, k)
				}
			}
		}
	}

	for i, rule := range cfg.Generate.AssignVariables {
		for j, cv := range rule.CollectionVariables {
			if cv.ResponseBodyProp == "" && cv.ResponseHeaderProp == "" && cv.Value == "" {
				return fmt.Errorf("generate.assign_variables[%d].collection_variables[%d] needs a body prop, header prop or value", i, j)
			}
		}
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
