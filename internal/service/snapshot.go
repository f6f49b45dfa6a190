package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/epicourier/backend/internal/recommend"
)

// S3API is the subset of the S3 client used for catalog snapshots.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// SnapshotCatalog serves the catalog from a JSON document in S3. The
// document is a list of recipes in the engine's JSON shape. It implements
// recommend.CatalogProvider.
type SnapshotCatalog struct {
	client S3API
	bucket string
	key    string
}

// NewSnapshotCatalog creates a catalog reader for s3://bucket/key.
func NewSnapshotCatalog(client S3API, bucket, key string) *SnapshotCatalog {
	return &SnapshotCatalog{client: client, bucket: bucket, key: key}
}

// Recipes downloads and decodes the snapshot.
func (c *SnapshotCatalog) Recipes(ctx context.Context) ([]recommend.Recipe, error) {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot s3://%s/%s: %w", c.bucket, c.key, err)
	}
	defer out.Body.Close()

	var recipes []recommend.Recipe
	if err := json.NewDecoder(out.Body).Decode(&recipes); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	for i := range recipes {
		if recipes[i].Ingredients == nil {
			recipes[i].Ingredients = []string{}
		}
		if recipes[i].Tags == nil {
			recipes[i].Tags = []string{}
		}
	}
	return recipes, nil
}

// UploadSnapshot writes recipes to the snapshot location.
func (c *SnapshotCatalog) UploadSnapshot(ctx context.Context, recipes []recommend.Recipe) error {
	body, err := json.Marshal(recipes)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	_, err = c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(c.key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot s3://%s/%s: %w", c.bucket, c.key, err)
	}
	return nil
}
