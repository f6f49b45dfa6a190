package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/epicourier/backend/internal/recommend"
)

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

func TestSnapshotCatalog(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{}}
	catalog := NewSnapshotCatalog(client, "bucket", "catalog/recipes.json")
	ctx := context.Background()

	t.Run("should fail when the snapshot is missing", func(t *testing.T) {
		_, err := catalog.Recipes(ctx)
		assert.Error(t, err)
	})

	t.Run("should round-trip an uploaded snapshot", func(t *testing.T) {
		in := []recommend.Recipe{{
			ID:            1,
			Name:          "Quinoa Bowl",
			Description:   "Complete protein with whole grains",
			Ingredients:   []string{"quinoa"},
			Tags:          []string{"vegan"},
			IngredientIDs: []int64{7},
		}}
		require.NoError(t, catalog.UploadSnapshot(ctx, in))

		out, err := catalog.Recipes(ctx)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("should default missing lists", func(t *testing.T) {
		client.objects["bucket/catalog/recipes.json"] = []byte(`[{"id":4,"name":"Water"}]`)

		out, err := catalog.Recipes(ctx)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, []string{}, out[0].Ingredients)
		assert.Equal(t, []string{}, out[0].Tags)
	})

	t.Run("should fail on malformed JSON", func(t *testing.T) {
		client.objects["bucket/catalog/recipes.json"] = []byte(`{`)

		_, err := catalog.Recipes(ctx)
		assert.Error(t, err)
	})
}
