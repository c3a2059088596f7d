package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/passvault/passvault/internal/flagx"
	"github.com/passvault/passvault/internal/timex"
)

// JsonConfig is an intermediate DTO for reading JSON configuration files.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "5m" and integer nanoseconds. After unmarshalling,
// non-empty fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr         string         `json:"endpoint_addr"`
	DatabaseDSN          string         `json:"database_dsn"`
	SecretKey            string         `json:"secret_key"`
	BcryptCost           int            `json:"bcrypt_cost"`
	AccessTokenValidity  timex.Duration `json:"access_token_validity"`
	RefreshTokenValidity timex.Duration `json:"refresh_token_validity"`
	ResetTokenValidity   timex.Duration `json:"reset_token_validity"`
	ResetRowValidity     timex.Duration `json:"reset_row_validity"`
	OtpLength            int            `json:"otp_length"`
	OtpValidity          timex.Duration `json:"otp_validity"`
	SMTPHost             string         `json:"smtp_host"`
	SMTPPort             string         `json:"smtp_port"`
	EmailFrom            string         `json:"email_from"`
	SMTPPassword         string         `json:"smtp_password"`
	FrontendBaseURL      string         `json:"frontend_base_url"`
	AllowedOrigins       string         `json:"allowed_origins"`
}

// parseJson loads configuration values from the JSON file given via the
// -c/-config flags. When no flag is set, nothing is loaded. An unreadable
// or invalid file panics: a config file that exists but cannot be used is
// a deployment error, not something to limp past.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.AccessTokenValidity.Duration != 0 {
		config.AccessTokenValidity = c.AccessTokenValidity.Duration
	}
	if c.RefreshTokenValidity.Duration != 0 {
		config.RefreshTokenValidity = c.RefreshTokenValidity.Duration
	}
	if c.ResetTokenValidity.Duration != 0 {
		config.ResetTokenValidity = c.ResetTokenValidity.Duration
	}
	if c.ResetRowValidity.Duration != 0 {
		config.ResetRowValidity = c.ResetRowValidity.Duration
	}
	if c.OtpLength != 0 {
		config.OtpLength = c.OtpLength
	}
	if c.OtpValidity.Duration != 0 {
		config.OtpValidity = c.OtpValidity.Duration
	}
	if c.SMTPHost != "" {
		config.SMTPHost = c.SMTPHost
	}
	if c.SMTPPort != "" {
		config.SMTPPort = c.SMTPPort
	}
	if c.EmailFrom != "" {
		config.EmailFrom = c.EmailFrom
	}
	if c.SMTPPassword != "" {
		config.SMTPPassword = c.SMTPPassword
	}
	if c.FrontendBaseURL != "" {
		config.FrontendBaseURL = c.FrontendBaseURL
	}
	if c.AllowedOrigins != "" {
		config.AllowedOrigins = strings.Split(c.AllowedOrigins, ",")
	}
}
