// Package s3store implements the remote asset store on S3. Assets live under
// a configurable namespace prefix, are named by their assigned identifier,
// and are written with overwrite disabled so an identifier collision fails
// loudly instead of clobbering an existing asset.
package s3store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"

	"github.com/fpang/portfolio-uploader/internal/media"
	"github.com/fpang/portfolio-uploader/internal/pipeline"
)

// maxDeleteBatch is the S3 DeleteObjects limit per call.
const maxDeleteBatch = 1000

// Store wraps S3 interactions for portfolio assets.
type Store struct {
	client    *s3.Client
	bucket    string
	namespace string
	baseURL   string
}

// Compile-time check: Store satisfies the pipeline's asset store contract.
var _ pipeline.AssetStore = (*Store)(nil)

// New creates a Store for the given bucket and namespace. baseURL overrides
// the public URL prefix; empty defaults to the bucket's virtual-hosted URL.
func New(client *s3.Client, bucket, namespace, baseURL string) *Store {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &Store{
		client:    client,
		bucket:    bucket,
		namespace: strings.Trim(namespace, "/"),
		baseURL:   strings.TrimSuffix(baseURL, "/"),
	}
}

// Upload stores a local image under the desired identifier, applying the
// size-limiting transformation from the constraints: an image whose longer
// side exceeds MaxDimension is downscaled preserving aspect ratio and
// re-encoded in its source format before upload; smaller images upload
// unchanged. The final dimensions and public URL are returned.
//
// Overwrite is disabled: the write is conditional on the key not existing,
// so a pre-existing asset under the same identifier fails the upload.
func (s *Store) Upload(ctx context.Context, filePath, id string, c pipeline.UploadConstraints) (*pipeline.AssetInfo, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	contentType, err := media.GetMIMEType(ext)
	if err != nil {
		return nil, err
	}

	data, width, height, resized, err := media.Downscale(filePath, c.MaxDimension)
	if err != nil {
		return nil, fmt.Errorf("transform %s: %w", filePath, err)
	}

	var body io.Reader
	if resized {
		body = bytes.NewReader(data)
	} else {
		f, err := os.Open(filePath)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", filePath, err)
		}
		defer f.Close()
		body = f
	}

	key := s.key(id, ext)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
		IfNoneMatch: aws.String("*"), // fail if the key already exists
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	info := &pipeline.AssetInfo{
		URL:    s.baseURL + "/" + key,
		Width:  width,
		Height: height,
	}

	log.Debug().
		Str("key", key).
		Str("url", info.URL).
		Int("width", width).
		Int("height", height).
		Bool("resized", resized).
		Msg("Asset uploaded")

	return info, nil
}

// DeleteAll removes every asset under the namespace prefix, paginating the
// listing until exhausted. Returns how many objects were deleted.
func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	prefix := s.namespace + "/"
	input := &s3.ListObjectsV2Input{
		Bucket: &s.bucket,
		Prefix: &prefix,
	}

	deleted := 0
	for {
		page, err := s.client.ListObjectsV2(ctx, input)
		if err != nil {
			return deleted, fmt.Errorf("list objects under %s: %w", prefix, err)
		}

		for start := 0; start < len(page.Contents); start += maxDeleteBatch {
			end := min(start+maxDeleteBatch, len(page.Contents))

			var identifiers []types.ObjectIdentifier
			for _, obj := range page.Contents[start:end] {
				identifiers = append(identifiers, types.ObjectIdentifier{Key: obj.Key})
			}

			_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
				Bucket: &s.bucket,
				Delete: &types.Delete{
					Objects: identifiers,
					Quiet:   aws.Bool(true),
				},
			})
			if err != nil {
				return deleted, fmt.Errorf("delete objects under %s: %w", prefix, err)
			}
			deleted += len(identifiers)
		}

		if page.NextContinuationToken == nil {
			break
		}
		input.ContinuationToken = page.NextContinuationToken
	}

	log.Info().Int("deleted", deleted).Str("prefix", prefix).Msg("All assets deleted")
	return deleted, nil
}

// key builds the object key for an identifier: {namespace}/{id}{ext}.
func (s *Store) key(id, ext string) string {
	return s.namespace + "/" + id + ext
}
