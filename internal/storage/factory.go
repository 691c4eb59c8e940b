package storage

import (
	"context"
	"fmt"

	appcfg "ateliernoor.nl/app/internal/config"
)

type FactoryResult struct {
	Driver  string
	Archive Archive
}

func FromConfig(ctx context.Context, cfg appcfg.ArchiveConfig) (FactoryResult, error) {
	switch cfg.Driver {
	case "local", "":
		dir := cfg.LocalDir
		if dir == "" {
			dir = "./storage/labels"
		}
		return FactoryResult{Driver: "local", Archive: NewLocal(dir, "/labels")}, nil

	case "s3":
		if cfg.S3Region == "" || cfg.S3Bucket == "" || cfg.PublicBaseURL == "" {
			return FactoryResult{}, fmt.Errorf("S3 config missing: S3_REGION, S3_BUCKET, S3_PUBLIC_BASE_URL required")
		}
		s, err := NewS3(ctx, S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			PublicBaseURL: cfg.PublicBaseURL,
		})
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: "s3", Archive: s}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown LABEL_ARCHIVE_DRIVER: %s", cfg.Driver)
	}
}
