package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration holds the static settings read once at startup.
type Configuration struct {
	Environment string `env:"GO_ENV" envDefault:"development"` // development, test, production
	Address     string `env:"ADDRESS" envDefault:"8080"`       // listen port, with or without leading ':'
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// Auth
	JwtSecret       string `env:"JWT_SECRET,required"`
	JwtExpiresHours int    `env:"JWT_EXPIRES_HOURS" envDefault:"24"`

	// MongoDB
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`

	// HTTP
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"` // comma separated, * = all
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"` // seconds
	InquiryRateLimit_Max  int    `env:"INQUIRY_RATE_LIMIT_MAX" envDefault:"5"`
	BodyLimitMB           int    `env:"BODY_LIMIT_MB" envDefault:"12"`

	// Publishing
	ContentWriteAuthRequired bool `env:"CONTENT_WRITE_AUTH_REQUIRED" envDefault:"true"`
	PublishSlotIndex         bool `env:"PUBLISH_SLOT_INDEX" envDefault:"false"`

	// Mail
	MailEnabled      bool   `env:"MAIL_ENABLED" envDefault:"true"`
	SMTPHost         string `env:"SMTP_HOST"`
	SMTPPort         int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername     string `env:"SMTP_USERNAME"`
	SMTPPassword     string `env:"SMTP_PASSWORD"`
	MailFromName     string `env:"MAIL_FROM_NAME" envDefault:"Zeniverse"`
	MailFromEmail    string `env:"MAIL_FROM_EMAIL"`
	AdminNotifyEmail string `env:"ADMIN_NOTIFY_EMAIL"`

	// Media host
	MediaCloudName   string `env:"MEDIA_CLOUD_NAME"`
	MediaAPIKey      string `env:"MEDIA_API_KEY"`
	MediaAPISecret   string `env:"MEDIA_API_SECRET"`
	MediaBaseURL     string `env:"MEDIA_BASE_URL" envDefault:"https://api.cloudinary.com"`
	MediaRootFolder  string `env:"MEDIA_ROOT_FOLDER" envDefault:"zeniverse"`
	MediaMaxUploadMB int    `env:"MEDIA_MAX_UPLOAD_MB" envDefault:"10"`

	// First-run super admin
	SuperAdminUsername string `env:"SUPER_ADMIN_USERNAME"`
	SuperAdminEmail    string `env:"SUPER_ADMIN_EMAIL"`
	SuperAdminPassword string `env:"SUPER_ADMIN_PASSWORD"`

	// TLS
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"`
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`
}

// IsProduction reports whether stack traces and debug details must be hidden.
func (c *Configuration) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// ListenAddress normalizes Address to host:port form.
func (c *Configuration) ListenAddress() string {
	if strings.Contains(c.Address, ":") {
		return c.Address
	}
	return ":" + c.Address
}

// CORSOrigins splits CORS_Origins.
func (c *Configuration) CORSOrigins() []string {
	if strings.TrimSpace(c.CORS_Origins) == "*" {
		return []string{"*"}
	}
	var origins []string
	for _, origin := range strings.Split(c.CORS_Origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// getEnvPath finds config/env/<GO_ENV>.env walking up from the working directory.
func getEnvPath() string {
	name := os.Getenv("GO_ENV")
	if name == "" {
		name = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", name))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig loads the env file for GO_ENV (when present) and parses the
// environment. Variables already exported win over the file.
func NewConfig() (*Configuration, error) {
	if envPath := getEnvPath(); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return nil, fmt.Errorf("load env file %s: %w", envPath, err)
			}
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.JwtExpiresHours <= 0 {
		cfg.JwtExpiresHours = 24
	}
	return &cfg, nil
}
