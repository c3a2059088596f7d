package config

import (
	"flag"
	"os"
	"time"

	"github.com/passvault/passvault/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-o int      OTP validity, minutes
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-r", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidity.Minutes()), "access token validity (in minutes)")
	refreshTokenValidity := fs.Int("r", int(config.RefreshTokenValidity.Minutes()), "refresh token validity (in minutes)")
	otpValidity := fs.Int("o", int(config.OtpValidity.Minutes()), "otp validity (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidity = time.Duration(*accessTokenValidity) * time.Minute
	config.RefreshTokenValidity = time.Duration(*refreshTokenValidity) * time.Minute
	config.OtpValidity = time.Duration(*otpValidity) * time.Minute
}
