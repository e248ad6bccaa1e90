package snapshot

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/vango-dev/lazydom/internal/errors"
)

// S3Client is the subset of *s3.Client used by S3Store.
type S3Client interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

var _ S3Client = (*s3.Client)(nil)

// S3Store stores snapshots in an S3 bucket. Metadata travels as object
// metadata.
//
// Example usage:
//
//	client := s3.New(s3.Options{Region: "us-east-1", Credentials: creds})
//	store := snapshot.NewS3Store(client, "my-bucket", "previews/")
type S3Store struct {
	client S3Client
	bucket string
	prefix string
}

// NewS3Store creates a new S3 snapshot store.
//
// Parameters:
//   - client: S3 client from aws-sdk-go-v2
//   - bucket: S3 bucket name
//   - prefix: Key prefix for snapshots (e.g., "previews/")
func NewS3Store(client S3Client, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Put implements Store.
func (s *S3Store) Put(ctx context.Context, snap *Snapshot) error {
	if err := ValidKey(snap.Key); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + snap.Key + htmlExt),
		Body:        bytes.NewReader([]byte(snap.HTML)),
		ContentType: aws.String("text/html; charset=utf-8"),
		Metadata:    encodeMeta(snap.Meta),
	})
	if err != nil {
		return errors.New("L060").WithDetail("s3 upload failed").Wrap(err)
	}
	return nil
}

// Get implements Store.
func (s *S3Store) Get(ctx context.Context, key string) (*Snapshot, error) {
	if err := ValidKey(key); err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key + htmlExt),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if stderrors.As(err, &nsk) {
			return nil, errors.New("L061").WithDetailf("key %q", key)
		}
		return nil, errors.New("L060").Wrap(err)
	}
	defer out.Body.Close()

	html, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("L060").Wrap(err)
	}
	return &Snapshot{
		Key:  key,
		HTML: string(html),
		Meta: decodeMeta(out.Metadata),
	}, nil
}

// List implements Store.
func (s *S3Store) List(ctx context.Context) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.New("L060").Wrap(err)
		}
		for _, obj := range page.Contents {
			k := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if strings.HasSuffix(k, htmlExt) {
				keys = append(keys, strings.TrimSuffix(k, htmlExt))
			}
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func encodeMeta(m Meta) map[string]string {
	out := map[string]string{
		"frame":      strconv.Itoa(m.Frame),
		"created":    strconv.Itoa(m.Created),
		"operations": strconv.Itoa(m.Operations),
		"created-at": m.CreatedAt.UTC().Format(time.RFC3339),
	}
	if m.Scenario != "" {
		out["scenario"] = m.Scenario
	}
	return out
}

func decodeMeta(md map[string]string) Meta {
	m := Meta{Scenario: md["scenario"]}
	m.Frame, _ = strconv.Atoi(md["frame"])
	m.Created, _ = strconv.Atoi(md["created"])
	m.Operations, _ = strconv.Atoi(md["operations"])
	m.CreatedAt, _ = time.Parse(time.RFC3339, md["created-at"])
	return m
}
