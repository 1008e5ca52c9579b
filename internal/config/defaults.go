package config

import "time"

const (
	// DefaultProvider is the model backend used when none is configured
	DefaultProvider = "gemini"
	// DefaultGeminiModel is the default Gemini model id
	DefaultGeminiModel = "gemini-3-flash-preview"
	// DefaultOpenAIModel is the default OpenAI model id
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultGeminiBaseURL is the Generative Language API root
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

	// DefaultRunner is the Python test runner module
	DefaultRunner = "unittest"
	// DefaultPythonPath is the interpreter used to run tests
	DefaultPythonPath = "python3"
	// DefaultTestFilePrefix is prepended to the source basename to name the test file
	DefaultTestFilePrefix = "test_"

	// DefaultRetryAttempts is the total number of model calls per request
	DefaultRetryAttempts = 3
	// DefaultRetryInitialDelay is the wait before the first retry
	DefaultRetryInitialDelay = 2 * time.Second
	// DefaultRetryMaxDelay caps a single wait between retries
	DefaultRetryMaxDelay = 10 * time.Second

	// DefaultOutputJSONFile is the session history file name
	DefaultOutputJSONFile = "sessions.json"
	// DefaultOutputJSONDir is the session history directory
	DefaultOutputJSONDir = ".pyheal"

	// DefaultConfigName is the optional config file name (without extension)
	DefaultConfigName = "pyheal"
	// DefaultEnvPrefix prefixes environment overrides, e.g. PYHEAL_MODEL
	DefaultEnvPrefix = "PYHEAL"
)

// DefaultRetryStatusCodes are the HTTP statuses treated as transient: overloaded and rate limited
var DefaultRetryStatusCodes = []int{503, 429}

// DefaultPathsToIgnore are the directories skipped when scanning for Python sources
var DefaultPathsToIgnore = []string{
	"venv",
	".venv",
	"env",
	"__pycache__",
	"site-packages",
	"node_modules",
	"build",
	"dist",
}

// APIKeyEnv maps a provider to the environment variable holding its key
var APIKeyEnv = map[string]string{
	"gemini": "GEMINI_API_KEY",
	"openai": "OPENAI_API_KEY",
}
