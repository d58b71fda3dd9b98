package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// DefaultPresignExpiry bounds how long an upload URL stays valid.
const DefaultPresignExpiry = 15 * time.Minute

// UploadService issues presigned S3 PUT URLs so product images go straight
// from the admin browser to the bucket.
type UploadService struct {
	presign *s3.PresignClient
	bucket  string
	prefix  string
}

func NewUploadService(presign *s3.PresignClient, bucket, prefix string) *UploadService {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &UploadService{presign: presign, bucket: bucket, prefix: prefix}
}

// PresignProductImage returns a presigned PUT URL and the object key for one
// product image. The key is namespaced by product id and salted so repeated
// uploads of the same filename never collide.
func (s *UploadService) PresignProductImage(ctx context.Context, productID uuid.UUID, filename, contentType string, expires time.Duration) (string, string, error) {
	if expires <= 0 || expires > DefaultPresignExpiry {
		expires = DefaultPresignExpiry
	}

	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	key := fmt.Sprintf("%s%s/%s-%s", s.prefix, productID, uuid.NewString()[:8], base)

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", "", fmt.Errorf("presign upload: %w", err)
	}
	return req.URL, key, nil
}
