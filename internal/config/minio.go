package config

import (
	"context"
	"encoding/json"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// NewMinIOClient connects to the object store that holds property
// images and makes sure the bucket exists with anonymous read access,
// so listing pages can embed image URLs directly.
func NewMinIOClient(cfg *Config) (*minio.Client, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
		log.Printf("Created MinIO bucket: %s", cfg.MinIOBucket)
	}

	// The bucket serves images straight to browsers, so objects must be
	// publicly readable.
	if err := client.SetBucketPolicy(ctx, cfg.MinIOBucket, anonymousReadPolicy(cfg.MinIOBucket)); err != nil {
		log.Printf("Warning: Failed to set bucket policy: %v", err)
	}

	return client, nil
}

func anonymousReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    []string{"s3:GetObject"},
				"Resource":  []string{"arn:aws:s3:::" + bucket + "/*"},
			},
		},
	}
	raw, _ := json.Marshal(policy)
	return string(raw)
}
