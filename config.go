package main

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// config is read once at startup from the environment (and .env if present).
type config struct {
	Port          string
	DBURL         string
	SQLitePath    string
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	CORSOrigins   []string
}

func loadConfig() config {
	// A missing .env is fine for the server; real deployments set env vars directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("[loadConfig] no .env loaded: %v", err)
	}
	return config{
		Port:          envOr("PORT", "3000"),
		DBURL:         os.Getenv("DB_URL"),
		SQLitePath:    envOr("SQLITE_PATH", "data/tracker.db"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:   os.Getenv("OPENAI_MODEL"),
		CORSOrigins:   splitList(envOr("CORS_ORIGINS", "*")),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
