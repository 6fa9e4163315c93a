package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"CallAgent/pkg/google"
	"CallAgent/pkg/s3"
	"CallAgent/pkg/vectorindex"

	"github.com/go-playground/validator/v10"
)

const (
	defaultGreeting = "Hi! I am your virtual assistant. How can I help you today?"
	defaultVoice    = "FGY2WhTYpPnrIDTdsKH5"
)

type GeminiEnv struct {
	APIKey     string `validate:"required"`
	ModelName  string `validate:"required"`
	EmbedModel string `validate:"required"`
}

type GatewayEnv struct {
	Port         string `validate:"required,numeric"`
	PublicDomain string `validate:"required"`
	Gemini       GeminiEnv

	CredentialsFile  string `validate:"required_without=CredentialsJSON"`
	CredentialsJSON  string `validate:"required_without=CredentialsFile"`
	SpreadsheetID    string `validate:"required"`
	QASheet          string `validate:"required"`
	AppointmentSheet string `validate:"required"`

	WelcomeGreeting string `validate:"required"`
	TTSProvider     string `validate:"required"`
	Voice           string `validate:"required"`

	SessionBackend string        `validate:"oneof=memory redis"`
	SessionTTL     time.Duration `validate:"gt=0"`
	RedisAddress   string        `validate:"required_if=SessionBackend redis"`
	RedisPassword  string
	RedisDB        int `validate:"gte=0"`

	AvailabilityMode string `validate:"oneof=stub sheet"`

	RateLimit float64 `validate:"gt=0"`
	RateBurst int     `validate:"gt=0"`
}

func (e *GatewayEnv) Credentials() google.CredentialSource {
	return google.CredentialSource{File: e.CredentialsFile, JSON: e.CredentialsJSON}
}

// RelayURL is the websocket address handed to the telephony provider.
func (e *GatewayEnv) RelayURL() string {
	return fmt.Sprintf("wss://%s/ws", e.PublicDomain)
}

type IngestEnv struct {
	Gemini GeminiEnv

	VectorBackend     string `validate:"oneof=pinecone pgvector memory"`
	PineconeAPIKey    string `validate:"required_if=VectorBackend pinecone"`
	PineconeIndexName string `validate:"required_if=VectorBackend pinecone"`
	PineconeHost      string
	PineconeNamespace string
	DatabaseURL       string `validate:"required_if=VectorBackend pgvector"`

	DataDir  string `validate:"required"`
	HashFile string `validate:"required"`
	Cron     string `validate:"required,cron"`

	S3Bucket           string
	S3Prefix           string
	S3Endpoint         string
	AWSRegion          string `validate:"required_with=S3Bucket"`
	AWSAccessKeyID     string
	AWSSecretAccessKey string `validate:"required_with=AWSAccessKeyID"`

	TopK          int `validate:"gt=0"`
	ChunkTokens   int `validate:"gt=0"`
	ChunkOverlap  int `validate:"gte=0,ltfield=ChunkTokens"`
	MetadataChars int `validate:"gt=0"`
}

func (e *IngestEnv) VectorConfig() vectorindex.Config {
	return vectorindex.Config{
		Backend: e.VectorBackend,
		Pinecone: vectorindex.PineconeConfig{
			APIKey:    e.PineconeAPIKey,
			IndexName: e.PineconeIndexName,
			Host:      e.PineconeHost,
			Namespace: e.PineconeNamespace,
		},
		DatabaseURL: e.DatabaseURL,
	}
}

func (e *IngestEnv) S3Config() s3.Config {
	return s3.Config{
		Region:          e.AWSRegion,
		Bucket:          e.S3Bucket,
		AccessKeyID:     e.AWSAccessKeyID,
		SecretAccessKey: e.AWSSecretAccessKey,
		Endpoint:        e.S3Endpoint,
	}
}

func LoadGatewayEnv(v *validator.Validate) (*GatewayEnv, error) {
	env := &GatewayEnv{
		Port:         getEnv("PORT", "8080"),
		PublicDomain: publicDomain(os.Getenv("PUBLIC_DOMAIN")),
		Gemini:       loadGeminiEnv(),

		CredentialsFile:  os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		CredentialsJSON:  os.Getenv("GOOGLE_CREDENTIALS_JSON"),
		SpreadsheetID:    os.Getenv("SPREADSHEET_ID"),
		QASheet:          getEnv("QA_SHEET_NAME", "Calling_Agent_Log"),
		AppointmentSheet: getEnv("APPOINTMENT_SHEET_NAME", "Appointments"),

		WelcomeGreeting: getEnv("WELCOME_GREETING", defaultGreeting),
		TTSProvider:     getEnv("TTS_PROVIDER", "ElevenLabs"),
		Voice:           getEnv("TTS_VOICE", defaultVoice),

		SessionBackend: strings.ToLower(getEnv("SESSION_BACKEND", "memory")),
		SessionTTL:     getEnvDuration("SESSION_TTL", 2*time.Hour),
		RedisAddress:   os.Getenv("REDIS_ADDRESS"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getEnvInt("REDIS_DB", 0),

		AvailabilityMode: strings.ToLower(getEnv("AVAILABILITY_MODE", "stub")),

		RateLimit: getEnvFloat("RATE_LIMIT_RPS", 20),
		RateBurst: getEnvInt("RATE_LIMIT_BURST", 40),
	}

	if err := v.Struct(env); err != nil {
		return nil, fmt.Errorf("invalid gateway configuration: %w", err)
	}

	return env, nil
}

func LoadIngestEnv(v *validator.Validate) (*IngestEnv, error) {
	env := &IngestEnv{
		Gemini: loadGeminiEnv(),

		VectorBackend:     strings.ToLower(getEnv("VECTOR_BACKEND", "pinecone")),
		PineconeAPIKey:    os.Getenv("PINECONE_API_KEY"),
		PineconeIndexName: os.Getenv("PINECONE_INDEX_NAME"),
		PineconeHost:      os.Getenv("PINECONE_HOST"),
		PineconeNamespace: os.Getenv("PINECONE_NAMESPACE"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),

		DataDir:  getEnv("DATA_DIR", "./data"),
		HashFile: getEnv("HASH_FILE", "./ingested_hashes.json"),
		Cron:     getEnv("INGEST_CRON", "0 1 * * *"),

		S3Bucket:           os.Getenv("S3_BUCKET"),
		S3Prefix:           os.Getenv("S3_PREFIX"),
		S3Endpoint:         os.Getenv("S3_ENDPOINT"),
		AWSRegion:          os.Getenv("AWS_REGION"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),

		TopK:          getEnvInt("RAG_TOP_K", 5),
		ChunkTokens:   getEnvInt("CHUNK_TOKENS", 400),
		ChunkOverlap:  getEnvInt("CHUNK_OVERLAP", 50),
		MetadataChars: getEnvInt("METADATA_TEXT_CHARS", 8000),
	}

	if err := v.Struct(env); err != nil {
		return nil, fmt.Errorf("invalid ingest configuration: %w", err)
	}

	return env, nil
}

func loadGeminiEnv() GeminiEnv {
	key := os.Getenv("GOOGLE_API_KEY")
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}

	return GeminiEnv{
		APIKey:     key,
		ModelName:  getEnv("GEMINI_MODEL_NAME", "gemini-2.5-flash"),
		EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
	}
}

// publicDomain accepts "agent.example.com" as well as a pasted URL.
func publicDomain(raw string) string {
	d := strings.TrimSpace(raw)
	for _, prefix := range []string{"https://", "http://", "wss://", "ws://"} {
		d = strings.TrimPrefix(d, prefix)
	}
	return strings.TrimSuffix(d, "/")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}
