package bronze_test

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/Hermes/internal/bronze"
	"github.com/XavierBriggs/Hermes/pkg/models"
)

// stubS3 implements the handful of S3 operations the store uses, with
// configurable page size to exercise transparent pagination.
type stubS3 struct {
	s3iface.S3API
	objects  map[string][]byte
	pageSize int
}

func newStubS3() *stubS3 {
	return &stubS3{objects: make(map[string][]byte), pageSize: 2}
}

func (f *stubS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.StringValue(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *stubS3) GetObjectWithContext(ctx aws.Context, in *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "no such key", nil)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *stubS3) ListObjectsV2PagesWithContext(ctx aws.Context, in *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, opts ...request.Option) error {
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.StringValue(in.Prefix)) {
			keys = append(keys, k)
		}
	}

	for start := 0; ; start += f.pageSize {
		end := start + f.pageSize
		if end > len(keys) {
			end = len(keys)
		}
		page := &s3.ListObjectsV2Output{}
		for _, k := range keys[start:end] {
			page.Contents = append(page.Contents, &s3.Object{Key: aws.String(k)})
		}
		last := end == len(keys)
		if !fn(page, last) || last {
			return nil
		}
	}
}

func TestPutAndGetJSON(t *testing.T) {
	ctx := context.Background()
	store := bronze.NewWithClient(newStubS3(), "football-bronze")

	key := "endpoint=competitions/dt=2024-03-02/run_id=5f0c9a4e-1df0-4c1e-9a52-6a2c9f3d8b11.json"
	require.NoError(t, store.PutJSON(ctx, key, models.Document{"competitions": []any{}}))

	var doc models.Document
	require.NoError(t, store.GetJSON(ctx, key, &doc))
	assert.Equal(t, models.Document{"competitions": []any{}}, doc)
}

func TestGetJSONMissingKey(t *testing.T) {
	store := bronze.NewWithClient(newStubS3(), "football-bronze")

	var doc models.Document
	err := store.GetJSON(context.Background(), "endpoint=matches/missing.json", &doc)
	assert.ErrorIs(t, err, bronze.ErrObjectNotFound)
}

func TestPutManifestUsesSiblingKey(t *testing.T) {
	ctx := context.Background()
	stub := newStubS3()
	store := bronze.NewWithClient(stub, "football-bronze")

	dataKey := "endpoint=matches/competition=PL/dt=2024-03-02/run_id=5f0c9a4e-1df0-4c1e-9a52-6a2c9f3d8b11.json"
	require.NoError(t, store.PutManifest(ctx, dataKey, models.Manifest{RunID: "5f0c9a4e-1df0-4c1e-9a52-6a2c9f3d8b11", DataKey: dataKey}))

	wantKey := strings.TrimSuffix(dataKey, ".json") + ".manifest.json"
	assert.Contains(t, stub.objects, wantKey)
}

func TestListPagesUntilExhaustionAndSorts(t *testing.T) {
	ctx := context.Background()
	stub := newStubS3()
	store := bronze.NewWithClient(stub, "football-bronze")

	keys := []string{
		"endpoint=matches/dt=2024-03-03/run_id=c.json",
		"endpoint=matches/dt=2024-03-01/run_id=a.json",
		"endpoint=matches/dt=2024-03-02/run_id=b.json",
		"endpoint=matches/dt=2024-03-04/run_id=d.json",
		"endpoint=matches/dt=2024-03-05/run_id=e.json",
	}
	for _, k := range keys {
		require.NoError(t, store.PutJSON(ctx, k, models.Document{}))
	}
	require.NoError(t, store.PutJSON(ctx, "endpoint=competitions/dt=2024-03-01/run_id=x.json", models.Document{}))

	got, err := store.List(ctx, "endpoint=matches/")
	require.NoError(t, err)

	// Five keys across three pages of two, lexicographically ordered.
	require.Len(t, got, 5)
	assert.True(t, sort.StringsAreSorted(got))
	for _, k := range keys {
		assert.Contains(t, got, k)
	}
}
