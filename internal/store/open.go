package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
)

// Open returns the backend described by spec:
//
//	memory
//	sqlite3:<path>
//	postgres:<dsn>
//	s3://<bucket>/<prefix>
//
// The S3 backend takes credentials and region from the default AWS
// configuration chain.
func Open(ctx context.Context, spec string) (Backend, error) {
	if spec == "memory" {
		return NewMemory(), nil
	}
	if strings.HasPrefix(spec, "s3://") {
		u, err := url.Parse(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid store %q: %w", spec, err)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("invalid store %q: missing bucket", spec)
		}
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("error loading AWS config: %w", err)
		}
		return NewS3(newS3Client(cfg), u.Host, u.Path), nil
	}
	driver, dsn, ok := strings.Cut(spec, ":")
	if !ok || dsn == "" {
		return nil, fmt.Errorf("invalid store %q", spec)
	}
	return OpenSQL(ctx, driver, dsn)
}
