package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultProjectPath is where .env, pyheal.yaml and the history directory are looked up
const DefaultProjectPath = "."

// Config holds all configuration for the application
type Config struct {
	ProjectPath string

	// Model settings
	Provider      string
	Model         string
	APIKey        string
	GeminiBaseURL string
	OpenAIBaseURL string

	// Retry settings for model calls
	RetryAttempts     int
	RetryInitialDelay time.Duration
	RetryMaxDelay     time.Duration
	RetryStatusCodes  []int

	// Test execution settings
	Runner         string
	PythonPath     string
	TestFilePrefix string
	Timeout        time.Duration

	// Healing settings
	Backup bool

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string
	Verbose        bool

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	ConfigFile string
	Provider   string
	Model      string
	Runner     string
	PythonPath string
	Backup     bool
	Timeout    time.Duration
	Verbose    bool
	NameFilter string
	TestCases  bool
	Plain      bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:       DefaultProjectPath,
		Provider:          DefaultProvider,
		GeminiBaseURL:     DefaultGeminiBaseURL,
		RetryAttempts:     DefaultRetryAttempts,
		RetryInitialDelay: DefaultRetryInitialDelay,
		RetryMaxDelay:     DefaultRetryMaxDelay,
		Runner:            DefaultRunner,
		PythonPath:        DefaultPythonPath,
		TestFilePrefix:    DefaultTestFilePrefix,
		OutputJSONFile:    DefaultOutputJSONFile,
		OutputJSONDir:     DefaultOutputJSONDir,
	}
	cfg.RetryStatusCodes = slices.Clone(DefaultRetryStatusCodes)
	cfg.PathsToIgnore = slices.Clone(DefaultPathsToIgnore)
	return cfg
}

// Load builds the config for the current directory and applies flags
func Load(flags Flags) (*Config, error) {
	return LoadFrom(DefaultProjectPath, flags)
}

// LoadFrom builds the config rooted at projectPath.
// Precedence, lowest first: defaults, .env, pyheal.yaml, PYHEAL_* env, flags.
func LoadFrom(projectPath string, flags Flags) (*Config, error) {
	cfg := New()
	cfg.ProjectPath = projectPath

	// .env is optional; variables already set in the environment win
	_ = godotenv.Load(filepath.Join(projectPath, ".env"))

	v := viper.New()
	setDefaults(v, cfg)
	if flags.ConfigFile != "" {
		v.SetConfigFile(flags.ConfigFile)
	} else {
		v.AddConfigPath(projectPath)
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.Provider = strings.ToLower(v.GetString("provider"))
	cfg.Model = v.GetString("model")
	cfg.GeminiBaseURL = v.GetString("gemini_base_url")
	cfg.OpenAIBaseURL = v.GetString("openai_base_url")
	cfg.RetryAttempts = v.GetInt("retry.attempts")
	cfg.RetryInitialDelay = v.GetDuration("retry.initial_delay")
	cfg.RetryMaxDelay = v.GetDuration("retry.max_delay")
	cfg.RetryStatusCodes = v.GetIntSlice("retry.status_codes")
	cfg.Runner = strings.ToLower(v.GetString("runner"))
	cfg.PythonPath = v.GetString("python")
	cfg.TestFilePrefix = v.GetString("test_prefix")
	cfg.Timeout = v.GetDuration("timeout")
	cfg.Backup = v.GetBool("backup")

	cfg.ApplyFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.APIKey = os.Getenv(APIKeyEnv[cfg.Provider])
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("provider", cfg.Provider)
	v.SetDefault("model", "")
	v.SetDefault("gemini_base_url", cfg.GeminiBaseURL)
	v.SetDefault("openai_base_url", "")
	v.SetDefault("retry.attempts", cfg.RetryAttempts)
	v.SetDefault("retry.initial_delay", cfg.RetryInitialDelay)
	v.SetDefault("retry.max_delay", cfg.RetryMaxDelay)
	v.SetDefault("retry.status_codes", cfg.RetryStatusCodes)
	v.SetDefault("runner", cfg.Runner)
	v.SetDefault("python", cfg.PythonPath)
	v.SetDefault("test_prefix", cfg.TestFilePrefix)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("backup", false)
}

// ApplyFlags overrides settings with any flags that were set
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.Provider != "" {
		c.Provider = strings.ToLower(flags.Provider)
	}
	if flags.Model != "" {
		c.Model = flags.Model
	}
	if flags.Runner != "" {
		c.Runner = strings.ToLower(flags.Runner)
	}
	if flags.PythonPath != "" {
		c.PythonPath = flags.PythonPath
	}
	if flags.Timeout > 0 {
		c.Timeout = flags.Timeout
	}
	c.Backup = c.Backup || flags.Backup
	c.Verbose = flags.Verbose
	if c.Model == "" {
		c.Model = DefaultModel(c.Provider)
	}
}

// Validate checks the settings that cannot be fixed up later
func (c *Config) Validate() error {
	if _, ok := APIKeyEnv[c.Provider]; !ok {
		return fmt.Errorf("unknown provider %q (expected gemini or openai)", c.Provider)
	}
	if c.Runner != "unittest" && c.Runner != "pytest" {
		return fmt.Errorf("unknown runner %q (expected unittest or pytest)", c.Runner)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry.attempts must be at least 1, got %d", c.RetryAttempts)
	}
	return nil
}

// DefaultModel returns the model id used for a provider when none is configured
func DefaultModel(provider string) string {
	if provider == "openai" {
		return DefaultOpenAIModel
	}
	return DefaultGeminiModel
}

// APIKeyVar returns the environment variable the provider's key is read from
func (c *Config) APIKeyVar() string {
	return APIKeyEnv[c.Provider]
}

// GetOutputPath returns the absolute path of the session history file
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetTestPath returns the generated test path for a source file: a sibling named <prefix><basename>
func (c *Config) GetTestPath(sourcePath string) string {
	dir, base := filepath.Split(sourcePath)
	return filepath.Join(dir, c.TestFilePrefix+base)
}

// RunnerArgs returns the interpreter arguments that run a single test file
func (c *Config) RunnerArgs(testFile string) []string {
	return []string{"-m", c.Runner, testFile}
}
