package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables, loading a
// local .env file first if one exists. Unset variables leave the current
// value untouched.
//
// Recognized variables:
//
//	ADDRESS, DATABASE_URL, SECRET_KEY, BCRYPT_COST,
//	ACCESS_TOKEN_EXPIRE_MINUTES, REFRESH_TOKEN_EXPIRE_MINUTES,
//	RESET_TOKEN_EXPIRE_MINUTES, RESET_ROW_EXPIRE_MINUTES,
//	OTP_LENGTH, OTP_EXPIRE_MINUTES,
//	SMTP_SERVER, SMTP_PORT, EMAIL_FROM, SMTP_PASSWORD,
//	FRONTEND_BASE_URL, ALLOWED_ORIGINS (comma-separated)
func parseEnv(config *Config) {
	// missing .env is fine, real env vars still apply
	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setMinutes := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = time.Duration(n) * time.Minute
			}
		}
	}

	setString("ADDRESS", &config.EndpointAddr)
	setString("DATABASE_URL", &config.DatabaseDSN)
	setString("SECRET_KEY", &config.SecretKey)
	setInt("BCRYPT_COST", &config.BcryptCost)
	setMinutes("ACCESS_TOKEN_EXPIRE_MINUTES", &config.AccessTokenValidity)
	setMinutes("REFRESH_TOKEN_EXPIRE_MINUTES", &config.RefreshTokenValidity)
	setMinutes("RESET_TOKEN_EXPIRE_MINUTES", &config.ResetTokenValidity)
	setMinutes("RESET_ROW_EXPIRE_MINUTES", &config.ResetRowValidity)
	setInt("OTP_LENGTH", &config.OtpLength)
	setMinutes("OTP_EXPIRE_MINUTES", &config.OtpValidity)
	setString("SMTP_SERVER", &config.SMTPHost)
	setString("SMTP_PORT", &config.SMTPPort)
	setString("EMAIL_FROM", &config.EmailFrom)
	setString("SMTP_PASSWORD", &config.SMTPPassword)
	setString("FRONTEND_BASE_URL", &config.FrontendBaseURL)

	if v, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		if len(origins) > 0 {
			config.AllowedOrigins = origins
		}
	}
}
