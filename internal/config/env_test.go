package config

import (
	"strings"
	"testing"
	"time"
)

func setGatewayEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PUBLIC_DOMAIN", "https://agent.example.com/")
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("GOOGLE_CREDENTIALS_JSON", `{"type":"service_account"}`)
	t.Setenv("GOOGLE_CREDENTIALS_FILE", "")
	t.Setenv("SPREADSHEET_ID", "sheet-1")
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("PORT", "")
}

func TestLoadGatewayEnvDefaults(t *testing.T) {
	setGatewayEnv(t)

	env, err := LoadGatewayEnv(NewValidator())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if env.Port != "8080" {
		t.Errorf("port = %s", env.Port)
	}
	if env.RelayURL() != "wss://agent.example.com/ws" {
		t.Errorf("relay url = %s", env.RelayURL())
	}
	if env.SessionBackend != "memory" || env.SessionTTL != 2*time.Hour {
		t.Errorf("session defaults = %s %s", env.SessionBackend, env.SessionTTL)
	}
	if env.AppointmentSheet != "Appointments" || env.QASheet != "Calling_Agent_Log" {
		t.Errorf("sheet defaults = %s %s", env.AppointmentSheet, env.QASheet)
	}
	if env.TTSProvider != "ElevenLabs" || env.Voice != defaultVoice {
		t.Errorf("tts defaults = %s %s", env.TTSProvider, env.Voice)
	}
}

func TestLoadGatewayEnvFallsBackToGeminiKey(t *testing.T) {
	setGatewayEnv(t)
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gem")

	env, err := LoadGatewayEnv(NewValidator())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if env.Gemini.APIKey != "gem" {
		t.Fatalf("api key = %q", env.Gemini.APIKey)
	}
}

func TestLoadGatewayEnvRejectsMissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
		field string
	}{
		{"domain", "PUBLIC_DOMAIN", "PublicDomain"},
		{"model key", "GOOGLE_API_KEY", "APIKey"},
		{"credentials", "GOOGLE_CREDENTIALS_JSON", "CredentialsFile"},
		{"spreadsheet", "SPREADSHEET_ID", "SpreadsheetID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setGatewayEnv(t)
			t.Setenv("GEMINI_API_KEY", "")
			t.Setenv(tt.unset, "")

			_, err := LoadGatewayEnv(NewValidator())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Fatalf("error %q does not name %s", err, tt.field)
			}
		})
	}
}

func TestLoadGatewayEnvRedisRequiresAddress(t *testing.T) {
	setGatewayEnv(t)
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_ADDRESS", "")

	if _, err := LoadGatewayEnv(NewValidator()); err == nil {
		t.Fatal("expected error for redis backend without address")
	}

	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	if _, err := LoadGatewayEnv(NewValidator()); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestLoadIngestEnv(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("PINECONE_API_KEY", "pc")
	t.Setenv("PINECONE_INDEX_NAME", "docs")

	env, err := LoadIngestEnv(NewValidator())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if env.Cron != "0 1 * * *" || env.TopK != 5 || env.VectorBackend != "pinecone" {
		t.Fatalf("unexpected defaults %+v", env)
	}
}

func TestLoadIngestEnvRejectsBadCron(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("VECTOR_BACKEND", "memory")
	t.Setenv("INGEST_CRON", "every day at one")

	if _, err := LoadIngestEnv(NewValidator()); err == nil {
		t.Fatal("expected cron validation error")
	}

	t.Setenv("INGEST_CRON", "@daily")
	if _, err := LoadIngestEnv(NewValidator()); err != nil {
		t.Fatalf("descriptor should be accepted: %v", err)
	}
}

func TestLoadIngestEnvPgvectorNeedsDatabase(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("VECTOR_BACKEND", "pgvector")
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadIngestEnv(NewValidator()); err == nil {
		t.Fatal("expected error")
	}
}
