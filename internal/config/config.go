package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	Gemini     GeminiConfig
	Upload     UploadConfig
	Generation GenerationConfig
	Artifact   ArtifactConfig

	// RecordDSN enables postgres batch history when set.
	RecordDSN string
}

type GeminiConfig struct {
	APIKey     string
	TextModel  string
	ImageModel string
	// AnalysisCacheSize bounds the LRU of memoized room analyses.
	AnalysisCacheSize int
}

type UploadConfig struct {
	Dir         string
	MaxSizeMB   int
	AllowedExts []string
}

type GenerationConfig struct {
	MaxConcurrent int
	MaxAttempts   int
	Deadline      time.Duration
	BackoffBase   time.Duration
}

type ArtifactConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8000", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	return &Config{
		Port: *port,
		Env:  env,
		Gemini: GeminiConfig{
			APIKey:            apiKey,
			TextModel:         firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_TEXT_MODEL")), "gemini-2.5-flash"),
			ImageModel:        firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_IMAGE_MODEL")), "gemini-2.5-flash-image-preview"),
			AnalysisCacheSize: envInt("ANALYSIS_CACHE_SIZE", 256),
		},
		Upload: UploadConfig{
			Dir:         firstNonEmpty(strings.TrimSpace(os.Getenv("UPLOAD_DIR")), "uploads"),
			MaxSizeMB:   envInt("MAX_UPLOAD_SIZE_MB", 10),
			AllowedExts: []string{".jpg", ".jpeg", ".png", ".webp"},
		},
		Generation: GenerationConfig{
			MaxConcurrent: envInt("GEMINI_CONCURRENT_REQUESTS", 5),
			MaxAttempts:   envInt("GEMINI_RETRY_ATTEMPTS", 3),
			Deadline:      time.Duration(envInt("BATCH_DEADLINE_SECONDS", 180)) * time.Second,
			BackoffBase:   time.Duration(envInt("RETRY_BACKOFF_BASE_MS", 1000)) * time.Millisecond,
		},
		Artifact:  loadArtifactConfig(env),
		RecordDSN: strings.TrimSpace(os.Getenv("BATCH_RECORD_PG_DSN")),
	}, nil
}

func loadArtifactConfig(env string) ArtifactConfig {
	endpoint := strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT"))
	if endpoint == "" && strings.EqualFold(env, "local") {
		endpoint = strings.TrimSpace(os.Getenv("ARTIFACT_MINIO_ENDPOINT"))
	}
	return ArtifactConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_BUCKET")), "roomstyler-artifacts"),
		UseSSL:    resolveArtifactUseSSL(env),
	}
}

func resolveArtifactUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("ARTIFACT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
