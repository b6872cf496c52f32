package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// Admin credential. The password arrives as a bcrypt hash, never as
	// a plaintext literal.
	AdminUsername     string
	AdminPasswordHash string
	AdminTokenSalt    string

	// Voter session signing secret and OTP code hashing salt.
	SessionSecret string
	OTPSalt       string

	// Optional SMTP delivery. When SMTPAddr is empty, verification codes
	// are logged instead of mailed.
	SMTPAddr string
	SMTPFrom string
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("openelect", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminUsername, "admin-user", "", "Admin username (prefer env)")
	fs.StringVar(&cfg.AdminPasswordHash, "admin-hash", "", "Admin password bcrypt hash (prefer env)")
	fs.StringVar(&cfg.AdminTokenSalt, "admin-salt", "", "Admin token salt (prefer env)")
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Voter session signing secret (prefer env)")
	fs.StringVar(&cfg.OTPSalt, "otp-salt", "", "OTP code hash salt (prefer env)")

	// Mail delivery
	fs.StringVar(&cfg.SMTPAddr, "smtp-addr", "", "SMTP host:port for code delivery (empty = log codes)")
	fs.StringVar(&cfg.SMTPFrom, "smtp-from", "", "From address for code delivery")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3415 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	// Secrets - MUST be provided
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = os.Getenv("ADMIN_USERNAME")
	}
	if cfg.AdminUsername == "" {
		return Config{}, errors.New("ADMIN_USERNAME required")
	}

	if cfg.AdminPasswordHash == "" {
		cfg.AdminPasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")
	}
	if cfg.AdminPasswordHash == "" {
		return Config{}, errors.New("ADMIN_PASSWORD_HASH required")
	}

	if cfg.AdminTokenSalt == "" {
		cfg.AdminTokenSalt = os.Getenv("ADMIN_TOKEN_SALT")
	}
	if cfg.AdminTokenSalt == "" {
		return Config{}, errors.New("ADMIN_TOKEN_SALT required")
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	if cfg.OTPSalt == "" {
		cfg.OTPSalt = os.Getenv("OTP_SALT")
	}
	if cfg.OTPSalt == "" {
		return Config{}, errors.New("OTP_SALT required")
	}

	// Mail settings are optional
	if cfg.SMTPAddr == "" {
		cfg.SMTPAddr = os.Getenv("SMTP_ADDR")
	}
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = os.Getenv("SMTP_FROM")
	}

	return cfg, nil
}
