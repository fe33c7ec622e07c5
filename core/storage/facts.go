package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"dog-inventory/core/reconcile"

	"github.com/minio/minio-go/v7"
)

const factExtension = ".json"

// FactStore keeps named fact documents as JSON objects under a prefix.
// It implements reconcile.FactSource.
type FactStore struct {
	client Client
	bucket string
	region string
	prefix string
}

// NewFactStore creates a fact store on the configured bucket and prefix.
func NewFactStore(client Client, cfg Config) *FactStore {
	return &FactStore{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}
}

// ObjectName returns the object key of a fact document.
func (s *FactStore) ObjectName(name string) string {
	return path.Join(s.prefix, name+factExtension)
}

// FetchFact implements reconcile.FactSource.
func (s *FactStore) FetchFact(ctx context.Context, name string) (*reconcile.FactDocument, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.ObjectName(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, s.readError(name, err)
	}
	defer obj.Close()

	// The object is fetched lazily, so a missing key surfaces on read
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.readError(name, err)
	}

	var doc reconcile.FactDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode fact %q: %w", name, err)
	}
	if doc.Name == "" {
		doc.Name = name
	}
	return &doc, nil
}

func (s *FactStore) readError(name string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("fact %q: %w", name, reconcile.ErrFactNotFound)
	}
	return &reconcile.SourceUnavailableError{Op: "fact", Err: err}
}

// SaveFact writes a fact document, creating the bucket if needed.
func (s *FactStore) SaveFact(ctx context.Context, doc *reconcile.FactDocument) (string, error) {
	if doc.Name == "" {
		return "", fmt.Errorf("fact document has no name")
	}
	if err := EnsureBucket(ctx, s.client, s.bucket, s.region); err != nil {
		return "", err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode fact %q: %w", doc.Name, err)
	}

	objectName := s.ObjectName(doc.Name)
	_, err = s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("failed to upload fact %q: %w", doc.Name, err)
	}
	return objectName, nil
}

// ListFacts returns the names of stored fact documents, sorted.
func (s *FactStore) ListFacts(ctx context.Context) ([]string, error) {
	prefix := s.prefix
	if prefix != "" {
		prefix += "/"
	}

	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list facts: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, factExtension) {
			continue
		}
		names = append(names, strings.TrimSuffix(strings.TrimPrefix(obj.Key, prefix), factExtension))
	}
	sort.Strings(names)
	return names, nil
}
