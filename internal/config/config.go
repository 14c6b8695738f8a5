package config

import "os"

// Env vars are loaded from .env by main (godotenv); this package just
// centralizes the lookups and defaults.

func DatabaseDSN() string {
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		return dsn
	}
	return "host=localhost user=postgres password=postgres dbname=jobtrail port=5432 sslmode=disable"
}

func ListenAddr() string {
	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}

func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func JSearchAPIKey() string {
	return os.Getenv("JSEARCH_API_KEY")
}

func JSearchBaseURL() string {
	if u := os.Getenv("JSEARCH_BASE_URL"); u != "" {
		return u
	}
	return "https://jsearch.p.rapidapi.com"
}

func GoogleCredentialsFile() string {
	if p := os.Getenv("GOOGLE_CREDENTIALS_FILE"); p != "" {
		return p
	}
	return "credential.json"
}
