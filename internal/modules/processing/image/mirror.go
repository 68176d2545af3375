package image

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/yourbuzzfeed/core/internal/config"
)

const maxMirrorBytes = 10 << 20

// S3Mirror copies remote images into a bucket so articles do not hotlink.
type S3Mirror struct {
	client    *s3.Client
	bucket    string
	publicURL string
	http      *http.Client
}

// NewS3Mirror returns nil when no bucket is configured.
func NewS3Mirror(cfg config.S3Config) (*S3Mirror, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, nil
	}
	accessKey := strings.TrimSpace(cfg.AccessKeyID)
	secretKey := strings.TrimSpace(cfg.SecretAccessKey)
	region := strings.TrimSpace(cfg.Region)
	if accessKey == "" || secretKey == "" || region == "" {
		return nil, fmt.Errorf("incomplete s3 config: region/access_key_id/secret_access_key are required")
	}

	// Flexible checksums stay off; several S3-compatible stores reject them.
	opts := s3.Options{
		Region:                     region,
		Credentials:                credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle:               cfg.UsePathStyle,
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
	}
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		opts.BaseEndpoint = aws.String(endpoint)
	}

	publicURL := strings.TrimRight(strings.TrimSpace(cfg.PublicURL), "/")
	if publicURL == "" {
		switch {
		case endpoint != "":
			publicURL = endpoint + "/" + bucket
		default:
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
		}
	}

	return &S3Mirror{
		client:    s3.New(opts),
		bucket:    bucket,
		publicURL: publicURL,
		http:      &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Mirror downloads src and uploads it under a key derived from the URL, so
// mirroring the same image twice overwrites one object.
func (m *S3Mirror) Mirror(ctx context.Context, src string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", err
	}
	resp, err := m.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: status %d", src, resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxMirrorBytes+1))
	if err != nil {
		return "", err
	}
	if len(payload) > maxMirrorBytes {
		return "", fmt.Errorf("download %s: image exceeds %d bytes", src, maxMirrorBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(payload)
	}
	key := objectKey(src, contentType)

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(payload),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(payload))),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return m.publicURL + "/" + key, nil
}

func objectKey(src, contentType string) string {
	sum := sha1.Sum([]byte(src))
	ext := ".jpg"
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "image/png":
			ext = ".png"
		case "image/webp":
			ext = ".webp"
		case "image/gif":
			ext = ".gif"
		}
	}
	return "images/" + hex.EncodeToString(sum[:]) + ext
}
