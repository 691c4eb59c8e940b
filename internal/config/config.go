package config

import "os"

// Config is built once in main and passed by reference into constructors.
// Nothing below internal/config reads the process environment directly.
type Config struct {
	Env  string // "dev" | "prod"
	Addr string

	DBDSN string

	Carrier CarrierConfig
	Mail    MailConfig
	Archive ArchiveConfig
}

// CarrierConfig holds the shipping-label provider key pair. The two keys are
// combined into an HTTP Basic credential by the shipping gateway.
type CarrierConfig struct {
	PublicKey string
	SecretKey string
}

type MailConfig struct {
	APIURL    string
	APIToken  string
	FromEmail string
	FromName  string
}

// ArchiveConfig configures where proxied return labels are archived.
// Driver is "local" or "s3".
type ArchiveConfig struct {
	Driver        string
	LocalDir      string
	S3Region      string
	S3Bucket      string
	S3Prefix      string
	PublicBaseURL string
}

func Load() Config {
	return Config{
		Env:   envOr("APP_ENV", "dev"),
		Addr:  envOr("HTTP_ADDR", ":8080"),
		DBDSN: os.Getenv("DB_DSN"),
		Carrier: CarrierConfig{
			PublicKey: os.Getenv("SENDCLOUD_PUBLIC_KEY"),
			SecretKey: os.Getenv("SENDCLOUD_SECRET_KEY"),
		},
		Mail: MailConfig{
			APIURL:    os.Getenv("MAIL_API_URL"),
			APIToken:  os.Getenv("MAIL_API_TOKEN"),
			FromEmail: envOr("EMAIL_FROM", "service@ateliernoor.nl"),
			FromName:  envOr("EMAIL_FROM_NAME", "Atelier Noor"),
		},
		Archive: ArchiveConfig{
			Driver:        envOr("LABEL_ARCHIVE_DRIVER", "local"),
			LocalDir:      envOr("LABEL_ARCHIVE_DIR", "./storage/labels"),
			S3Region:      os.Getenv("S3_REGION"),
			S3Bucket:      os.Getenv("S3_BUCKET"),
			S3Prefix:      envOr("S3_PREFIX", "labels"),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		},
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
