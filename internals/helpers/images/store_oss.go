package images

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// OSSStore keeps objects in an Alibaba Cloud OSS bucket.
type OSSStore struct {
	Bucket *oss.Bucket
	Prefix string
}

func envTrim(k string) string { return strings.TrimSpace(os.Getenv(k)) }

func NewOSSStoreFromEnv(prefix string) (*OSSStore, error) {
	endpoint := envTrim("ALI_OSS_ENDPOINT")
	ak := envTrim("ALI_OSS_ACCESS_KEY")
	sk := envTrim("ALI_OSS_SECRET_KEY")
	sts := envTrim("ALI_OSS_SECURITY_TOKEN")
	bucketName := envTrim("ALI_OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	var (
		client *oss.Client
		err    error
	)
	if sts != "" {
		client, err = oss.New(endpoint, ak, sk, oss.SecurityToken(sts))
	} else {
		client, err = oss.New(endpoint, ak, sk)
	}
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	if loc, err := client.GetBucketLocation(bucketName); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 && se.Code == "AccessDenied" {
			log.Printf("[OSS] skip location check due to AccessDenied (bucket=%s)", bucketName)
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		log.Printf("[OSS] bucket %s location: %s", bucketName, loc)
	}

	return &OSSStore{Bucket: bkt, Prefix: strings.Trim(prefix, "/")}, nil
}

func (s *OSSStore) key(k string) string {
	k = strings.TrimLeft(k, "/")
	if s.Prefix == "" {
		return k
	}
	return s.Prefix + "/" + k
}

func (s *OSSStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	k := s.key(key)
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if contentType != "" {
		opts = append(opts, oss.ContentType(contentType))
	}
	return ioErr("put", k, s.Bucket.PutObject(k, bytes.NewReader(data), opts...))
}

func (s *OSSStore) Delete(ctx context.Context, key string) error {
	k := s.key(key)
	err := s.Bucket.DeleteObject(k, oss.WithContext(ctx))
	if isNotFound(err) {
		return nil
	}
	return ioErr("delete", k, err)
}

func (s *OSSStore) DeletePrefix(ctx context.Context, prefix string) error {
	p := strings.TrimRight(s.key(prefix), "/") + "/"
	marker := ""
	for {
		res, err := s.Bucket.ListObjects(oss.Prefix(p), oss.Marker(marker), oss.MaxKeys(1000), oss.WithContext(ctx))
		if err != nil {
			return ioErr("list", p, err)
		}
		keys := make([]string, 0, len(res.Objects))
		for _, o := range res.Objects {
			keys = append(keys, o.Key)
		}
		if len(keys) > 0 {
			if _, err := s.Bucket.DeleteObjects(keys, oss.WithContext(ctx)); err != nil {
				return ioErr("delete", p, err)
			}
		}
		if !res.IsTruncated {
			return nil
		}
		marker = res.NextMarker
	}
}

func (s *OSSStore) ListDirs(ctx context.Context, prefix string) ([]string, error) {
	p := strings.TrimRight(s.key(prefix), "/") + "/"
	var out []string
	marker := ""
	for {
		res, err := s.Bucket.ListObjects(oss.Prefix(p), oss.Delimiter("/"), oss.Marker(marker), oss.MaxKeys(1000), oss.WithContext(ctx))
		if err != nil {
			return nil, ioErr("list", p, err)
		}
		for _, cp := range res.CommonPrefixes {
			name := strings.Trim(strings.TrimPrefix(cp, p), "/")
			if name != "" {
				out = append(out, name)
			}
		}
		if !res.IsTruncated {
			return out, nil
		}
		marker = res.NextMarker
	}
}

func isNotFound(err error) bool {
	if e, ok := err.(oss.ServiceError); ok {
		return e.StatusCode == 404
	}
	return false
}
