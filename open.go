package gwasbetas

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/carbocation/pfx"
	"google.golang.org/api/iterator"
)

const (
	gsPrefix = "gs://"
	s3Prefix = "s3://"
)

// Opener reads files and lists folders that may live on the local disk, in
// Google Storage (gs://bucket/path) or in S3 (s3://bucket/path). A nil client
// means that kind of remote path cannot be used.
type Opener struct {
	GS *storage.Client
	S3 *s3.Client
}

// NewOpener creates only the remote clients that the given paths need, using
// default credentials for each provider.
func NewOpener(ctx context.Context, paths ...string) (Opener, error) {
	var o Opener
	for _, p := range paths {
		switch {
		case strings.HasPrefix(p, gsPrefix) && o.GS == nil:
			client, err := storage.NewClient(ctx)
			if err != nil {
				return o, pfx.Err(err)
			}
			o.GS = client
		case strings.HasPrefix(p, s3Prefix) && o.S3 == nil:
			cfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				return o, pfx.Err(err)
			}
			o.S3 = s3.NewFromConfig(cfg)
		}
	}

	return o, nil
}

// Close releases the Google Storage client, if any. The S3 client holds no
// resources that need closing.
func (o Opener) Close() error {
	if o.GS != nil {
		return o.GS.Close()
	}

	return nil
}

// IsRemote reports whether p names an object store path.
func IsRemote(p string) bool {
	return strings.HasPrefix(p, gsPrefix) || strings.HasPrefix(p, s3Prefix)
}

// JoinPath joins a folder and a file name, keeping forward slashes for remote
// paths.
func JoinPath(folder, name string) string {
	if IsRemote(folder) {
		return strings.TrimSuffix(folder, "/") + "/" + name
	}

	return filepath.Join(folder, name)
}

// Open returns a reader over the whole file at p.
func (o Opener) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(p, gsPrefix):
		if o.GS == nil {
			return nil, fmt.Errorf("%s: no google storage client configured", p)
		}
		bucket, key, err := splitBucketPath(p, gsPrefix)
		if err != nil {
			return nil, err
		}
		r, err := o.GS.Bucket(bucket).Object(key).NewReader(ctx)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %w", p, err))
		}
		return r, nil
	case strings.HasPrefix(p, s3Prefix):
		if o.S3 == nil {
			return nil, fmt.Errorf("%s: no s3 client configured", p)
		}
		bucket, key, err := splitBucketPath(p, s3Prefix)
		if err != nil {
			return nil, err
		}
		out, err := o.S3.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %w", p, err))
		}
		return out.Body, nil
	}

	f, err := os.Open(ExpandHome(p))
	if err != nil {
		return nil, pfx.Err(err)
	}

	return f, nil
}

// List returns the sorted names of the files directly inside folder. If
// pattern is non-nil, only names it matches are returned.
func (o Opener) List(ctx context.Context, folder string, pattern *regexp.Regexp) ([]string, error) {
	var names []string
	var err error

	switch {
	case strings.HasPrefix(folder, gsPrefix):
		names, err = o.listGS(ctx, folder)
	case strings.HasPrefix(folder, s3Prefix):
		names, err = o.listS3(ctx, folder)
	default:
		names, err = listLocal(ExpandHome(folder))
	}
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(names))
	for _, name := range names {
		if pattern != nil && !pattern.MatchString(name) {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)

	return out, nil
}

func listLocal(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, pfx.Err(err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}

func (o Opener) listGS(ctx context.Context, folder string) ([]string, error) {
	if o.GS == nil {
		return nil, fmt.Errorf("%s: no google storage client configured", folder)
	}
	bucket, prefix, err := splitBucketPrefix(folder, gsPrefix)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0)
	it := o.GS.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}
		if name, ok := directChild(prefix, attrs.Name); ok {
			names = append(names, name)
		}
	}

	return names, nil
}

func (o Opener) listS3(ctx context.Context, folder string) ([]string, error) {
	if o.S3 == nil {
		return nil, fmt.Errorf("%s: no s3 client configured", folder)
	}
	bucket, prefix, err := splitBucketPrefix(folder, s3Prefix)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0)
	pages := s3.NewListObjectsV2Paginator(o.S3, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, pfx.Err(err)
		}
		for _, obj := range page.Contents {
			if name, ok := directChild(prefix, aws.ToString(obj.Key)); ok {
				names = append(names, name)
			}
		}
	}

	return names, nil
}

// directChild reports the base name of key if it sits directly under prefix.
func directChild(prefix, key string) (string, bool) {
	rest := strings.TrimPrefix(key, prefix)
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}

	return path.Base(rest), true
}

func splitBucketPath(p, scheme string) (bucket, key string, err error) {
	// Detect the bucket and the path to the actual file
	pathParts := strings.SplitN(strings.TrimPrefix(p, scheme), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return "", "", fmt.Errorf("Tried to split your storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

func splitBucketPrefix(folder, scheme string) (bucket, prefix string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(folder, scheme), "/", 2)
	if pathParts[0] == "" {
		return "", "", fmt.Errorf("%s: no bucket name", folder)
	}
	bucket = pathParts[0]
	if len(pathParts) == 2 && pathParts[1] != "" {
		prefix = strings.TrimSuffix(pathParts[1], "/") + "/"
	}

	return bucket, prefix, nil
}
