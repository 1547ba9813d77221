// Package bronze implements the append-only object store for raw API
// payloads. Objects are written once under a partitioned key and never
// mutated or deleted by this pipeline.
package bronze

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sort"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"

	"github.com/XavierBriggs/Hermes/internal/partition"
	"github.com/XavierBriggs/Hermes/pkg/contracts"
	"github.com/XavierBriggs/Hermes/pkg/models"
)

// ErrObjectNotFound is returned by GetJSON when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

const contentTypeJSON = "application/json"

// Config holds connection settings for the bronze bucket. Endpoint and
// path-style addressing support MinIO and other S3-compatible stores.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
}

// Store reads and writes JSON objects in the bronze bucket. Storage errors
// propagate undecorated; retry belongs to the fetch boundary, not here.
type Store struct {
	s3     s3iface.S3API
	bucket string
}

var _ contracts.ObjectStore = (*Store)(nil)

// New creates a Store backed by an S3-compatible endpoint.
func New(cfg Config) (*Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(cfg.Region),
		Endpoint:         aws.String(cfg.Endpoint),
		S3ForcePathStyle: aws.Bool(true),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating s3 session")
	}
	return &Store{s3: s3.New(sess), bucket: cfg.Bucket}, nil
}

// NewWithClient creates a Store on an existing S3 client.
func NewWithClient(client s3iface.S3API, bucket string) *Store {
	return &Store{s3: client, bucket: bucket}
}

// Bucket returns the bronze bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// PutJSON serializes payload and stores it at key.
func (s *Store) PutJSON(ctx context.Context, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "marshaling payload for %v", key)
	}

	_, err = s.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentTypeJSON),
	})
	if err != nil {
		return errors.Wrapf(err, "putting object %v", key)
	}
	return nil
}

// PutManifest writes a manifest at the sibling key of dataKey.
func (s *Store) PutManifest(ctx context.Context, dataKey string, manifest models.Manifest) error {
	return s.PutJSON(ctx, partition.ManifestKeyFor(dataKey), manifest)
}

// GetJSON fetches the object at key and unmarshals it into out.
func (s *Store) GetJSON(ctx context.Context, key string, out any) error {
	result, err := s.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchBucket, s3.ErrCodeNoSuchKey:
				return ErrObjectNotFound
			}
		}
		return errors.Wrapf(err, "fetching object %v", key)
	}
	defer result.Body.Close()

	raw, err := io.ReadAll(result.Body)
	if err != nil {
		return errors.Wrapf(err, "reading object %v", key)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "parsing object %v", key)
	}
	return nil
}

// List returns every key under prefix in lexicographic order, paging
// through the listing until exhaustion.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.s3.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			keys = append(keys, aws.StringValue(obj.Key))
		}
		return true
	})
	if err != nil {
		return nil, errors.Wrapf(err, "listing prefix %v", prefix)
	}

	sort.Strings(keys)
	return keys, nil
}
