package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr         string
	GinMode         string
	UpstreamBaseURL string
	UPIPayeeID      string
	UPIPayeeName    string
	CORSOrigins     []string
}

func LoadEnv() Env {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return Env{
		AppAddr:         getenv("APP_ADDR", ":8080"),
		GinMode:         strings.TrimSpace(os.Getenv("GIN_MODE")),
		UpstreamBaseURL: getenv("UPSTREAM_BASE_URL", "http://localhost:8000"),
		UPIPayeeID:      getenv("UPI_PAYEE_ID", "trivara.hotel@upi"),
		UPIPayeeName:    getenv("UPI_PAYEE_NAME", "Trivara Hotels"),
		CORSOrigins:     splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
}

func getenv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
