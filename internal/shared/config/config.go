package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/docker/go-units"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ExtractorDocumentAI = "documentai"
	ExtractorLocal      = "local"

	ProviderVertex = "vertex"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	StoreGCS   = "gcs"
	StoreS3    = "s3"
	StoreLocal = "local"

	defaultMaxUploadBytes = 20 << 20
)

// Config holds application configuration.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	ProjectID         string
	DocAILocation     string
	DocAIProcessorID  string
	DocumentExtractor string

	SearchAppID       string
	SearchAppLocation string

	LLMProvider    string
	LLMModel       string
	VertexLocation string
	GeminiAPIKey   string
	OpenAIAPIKey   string

	ObjectStoreType string
	Bucket          string
	AWSRegion       string
	LocalStoreDir   string

	MaxUploadBytes int64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience; real env wins.
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return Config{
		Port:              v.GetString("PORT"),
		Env:               normalizeEnv(v.GetString("ENV")),
		LogLevel:          v.GetString("LOG_LEVEL"),
		ProjectID:         strings.TrimSpace(v.GetString("GCP_PROJECT_ID")),
		DocAILocation:     strings.TrimSpace(v.GetString("DOC_AI_LOCATION")),
		DocAIProcessorID:  strings.TrimSpace(v.GetString("DOC_AI_PROCESSOR_ID")),
		DocumentExtractor: normalizeChoice(v.GetString("DOCUMENT_EXTRACTOR"), ExtractorDocumentAI, ExtractorLocal),
		SearchAppID:       strings.TrimSpace(v.GetString("VERTEX_AI_RAG_APP_ID")),
		SearchAppLocation: strings.TrimSpace(v.GetString("VERTEX_AI_APP_LOCATION")),
		LLMProvider:       normalizeChoice(v.GetString("LLM_PROVIDER"), ProviderVertex, ProviderGemini, ProviderOpenAI),
		LLMModel:          strings.TrimSpace(v.GetString("LLM_MODEL")),
		VertexLocation:    strings.TrimSpace(v.GetString("VERTEX_AI_LOCATION")),
		GeminiAPIKey:      v.GetString("GEMINI_API_KEY"),
		OpenAIAPIKey:      v.GetString("OPENAI_API_KEY"),
		ObjectStoreType:   normalizeChoice(v.GetString("OBJECT_STORE"), StoreGCS, StoreS3, StoreLocal),
		Bucket:            strings.TrimSpace(v.GetString("DATASTORE_BUCKET")),
		AWSRegion:         strings.TrimSpace(v.GetString("AWS_REGION")),
		LocalStoreDir:     v.GetString("LOCAL_STORE_DIR"),
		MaxUploadBytes:    byteSizeOr(v.GetString("MAX_UPLOAD_BYTES"), defaultMaxUploadBytes),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DOC_AI_LOCATION", "us")
	v.SetDefault("DOCUMENT_EXTRACTOR", ExtractorDocumentAI)
	v.SetDefault("VERTEX_AI_APP_LOCATION", "global")
	v.SetDefault("LLM_PROVIDER", ProviderVertex)
	v.SetDefault("LLM_MODEL", "gemini-2.0-flash-lite-001")
	v.SetDefault("VERTEX_AI_LOCATION", "us-central1")
	v.SetDefault("OBJECT_STORE", StoreGCS)
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
}

// Validate reports every required setting that is missing for the selected backends.
// The upload bucket is intentionally not required; the upload endpoint reports it.
func (c Config) Validate() error {
	var errs []error
	require := func(val, key string) {
		if strings.TrimSpace(val) == "" {
			errs = append(errs, fmt.Errorf("%s is required", key))
		}
	}

	require(c.ProjectID, "GCP_PROJECT_ID")
	require(c.SearchAppID, "VERTEX_AI_RAG_APP_ID")
	require(c.SearchAppLocation, "VERTEX_AI_APP_LOCATION")
	if c.DocumentExtractor == ExtractorDocumentAI {
		require(c.DocAILocation, "DOC_AI_LOCATION")
		require(c.DocAIProcessorID, "DOC_AI_PROCESSOR_ID")
	}
	switch c.LLMProvider {
	case ProviderVertex:
		require(c.VertexLocation, "VERTEX_AI_LOCATION")
	case ProviderGemini:
		require(c.GeminiAPIKey, "GEMINI_API_KEY")
	case ProviderOpenAI:
		require(c.OpenAIAPIKey, "OPENAI_API_KEY")
	}
	require(c.LLMModel, "LLM_MODEL")
	if c.ObjectStoreType == StoreLocal {
		require(c.LocalStoreDir, "LOCAL_STORE_DIR")
	}

	return errors.Join(errs...)
}

// UploadDestination returns the identifier the upload endpoint checks before writing.
func (c Config) UploadDestination() string {
	if c.ObjectStoreType == StoreLocal {
		return c.LocalStoreDir
	}
	return c.Bucket
}

// IsPlaceholder reports whether a resource identifier is unset or still a template value.
func IsPlaceholder(id string) bool {
	trimmed := strings.TrimSpace(id)
	return trimmed == "" || strings.HasPrefix(trimmed, "REPLACE")
}

func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		// Missing files are expected outside local development.
		_ = godotenv.Load(path)
	}
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "dev"
	}
}

// normalizeChoice lowercases raw and falls back to the first allowed value when unknown.
func normalizeChoice(raw string, allowed ...string) string {
	clean := strings.ToLower(strings.TrimSpace(raw))
	for _, a := range allowed {
		if clean == a {
			return a
		}
	}
	return allowed[0]
}

// byteSizeOr parses sizes such as "20971520", "20MiB" or "512k" (binary units) and
// falls back to def for anything unparsable or non-positive.
func byteSizeOr(raw string, def int64) int64 {
	val, err := units.RAMInBytes(strings.TrimSpace(raw))
	if err != nil || val <= 0 {
		return def
	}
	return val
}
