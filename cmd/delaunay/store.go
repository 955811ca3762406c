package main

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hupe1980/delaunay/blobstore"
	"github.com/hupe1980/delaunay/blobstore/minio"
	"github.com/hupe1980/delaunay/blobstore/s3"
)

// openStore resolves a store URL. Plain paths are local directories.
func openStore(ctx context.Context, raw string) (blobstore.BlobStore, error) {
	if !strings.Contains(raw, "://") {
		return blobstore.NewLocalStore(raw), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid store URL %q: %w", raw, err)
	}

	switch u.Scheme {
	case "file":
		path := u.Path
		if u.Host != "" {
			path = u.Host + path
		}
		if path == "" {
			return nil, fmt.Errorf("store URL %q has no path", raw)
		}
		return blobstore.NewLocalStore(path), nil

	case "s3":
		if u.Host == "" {
			return nil, fmt.Errorf("store URL %q has no bucket", raw)
		}
		q := u.Query()
		store, err := s3.New(ctx, u.Host, func(o *s3.Options) {
			o.Prefix = keyPrefix(u.Path)
			o.Region = q.Get("region")
			o.Endpoint = q.Get("endpoint")
			o.UsePathStyle = q.Get("path_style") == "true"
		})
		if err != nil {
			return nil, err
		}
		return store, nil

	case "minio":
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if u.Host == "" || bucket == "" {
			return nil, fmt.Errorf("store URL %q needs host and bucket", raw)
		}

		secure := true
		if v := u.Query().Get("secure"); v != "" {
			if secure, err = strconv.ParseBool(v); err != nil {
				return nil, fmt.Errorf("store URL %q: invalid secure flag: %w", raw, err)
			}
		}

		var access, secret string
		if u.User != nil {
			access = u.User.Username()
			secret, _ = u.User.Password()
		}
		store, err := minio.New(u.Host, access, secret, bucket, func(o *minio.Options) {
			o.Prefix = keyPrefix(prefix)
			o.Secure = secure
			o.Region = u.Query().Get("region")
		})
		if err != nil {
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported store scheme %q", u.Scheme)
	}
}

// keyPrefix turns a URL path into an object key prefix ending in "/".
func keyPrefix(path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return ""
	}
	return path + "/"
}
