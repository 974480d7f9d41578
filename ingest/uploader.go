// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingest

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/groundit/core"
)

// S3API is the slice of the S3 surface the uploader uses.
// Satisfied by *s3.Client.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput,
		optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader copies local files into the knowledge base bucket.
// File uploads run concurrently on a worker pool.
type Uploader struct {
	api    S3API
	bucket string
	pool   *ants.Pool
	logger *slog.Logger
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader) error

// WithUploadPoolSize sets the worker pool size for concurrent uploads.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithUploadPoolSize(size int) UploaderOption {
	return func(u *Uploader) error {
		if size < 1 {
			size = 1
		}
		if u.pool != nil {
			u.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		u.pool = pool
		return nil
	}
}

// WithUploaderLogger sets a custom logger.
// Default is slog.Default().
func WithUploaderLogger(logger *slog.Logger) UploaderOption {
	return func(u *Uploader) error {
		if logger == nil {
			logger = slog.Default()
		}
		u.logger = logger
		return nil
	}
}

// WithS3API injects a pre-built service client, bypassing AWS configuration
// loading. Intended for tests.
func WithS3API(api S3API) UploaderOption {
	return func(u *Uploader) error {
		u.api = api
		return nil
	}
}

// NewUploader creates an uploader bound to the bucket named in the
// connection context.
func NewUploader(ctx context.Context, conn core.ConnectionContext, opts ...UploaderOption) (*Uploader, error) {
	if conn.Bucket == "" {
		return nil, ErrBucketRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	u := &Uploader{
		bucket: conn.Bucket,
		pool:   pool,
		logger: slog.Default().With("component", "ingest-upload"),
	}
	for _, opt := range opts {
		if optErr := opt(u); optErr != nil {
			u.Release()
			return nil, optErr
		}
	}

	if u.api == nil {
		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(conn.Region))
		if err != nil {
			u.Release()
			return nil, err
		}
		u.api = s3.NewFromConfig(cfg)
	}
	return u, nil
}

// Release releases the worker pool.
// The uploader should not be used after calling Release.
func (u *Uploader) Release() {
	if u.pool != nil {
		u.pool.Release()
	}
}

// UploadFile uploads a single file under the given object key.
func (u *Uploader) UploadFile(ctx context.Context, path, key string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = u.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	return err
}

// UploadDir walks dir and uploads every regular file, keyed by its
// slash-separated path relative to dir. Failed files do not stop the batch;
// all failures are collected into an UploadError. Returns the object keys
// that were uploaded successfully.
func (u *Uploader) UploadDir(ctx context.Context, dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		uploaded []string
		failures = make(map[string]error)
	)

	for _, path := range paths {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil, err
		}
		key := filepath.ToSlash(rel)

		wg.Add(1)
		submitErr := u.pool.Submit(func() {
			defer wg.Done()
			if err := u.UploadFile(ctx, path, key); err != nil {
				u.logger.Error("upload failed", "key", key, "err", err)
				mu.Lock()
				failures[key] = err
				mu.Unlock()
				return
			}
			u.logger.Debug("uploaded", "bucket", u.bucket, "key", key)
			mu.Lock()
			uploaded = append(uploaded, key)
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			failures[key] = submitErr
			mu.Unlock()
		}
	}
	wg.Wait()

	if len(failures) > 0 {
		return uploaded, &UploadError{Failures: failures}
	}
	return uploaded, nil
}
