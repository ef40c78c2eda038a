// Copyright 2024 The gorast authors
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

// Package gcs plugs Google Cloud Storage behind gorast's gs:// prefix, so
// that gorast.Open("gs://bucket/image.tif") fetches the object through the
// cloud.google.com/go/storage API with osio's block caching in between.
package gcs

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/airbusgeo/osio"
	osiogcs "github.com/airbusgeo/osio/gcs"
	"github.com/geomys/gorast"
	"google.golang.org/api/option"
)

type gcsHandler struct {
	prefix          string
	client          *storage.Client
	clientOptions   []option.ClientOption
	blockSize       string
	numCachedBlocks int
}

// Option is an option that can be passed to RegisterHandler
type Option func(o *gcsHandler)

// Prefix is the prefix that a name must have in order to be handled by this
// handler. Defaults to "gs://".
func Prefix(prefix string) Option {
	return func(o *gcsHandler) {
		o.prefix = prefix
	}
}

// Client sets the cloud.google.com/go/storage.Client that will be used by
// the handler instead of a freshly constructed one.
func Client(cl *storage.Client) Option {
	return func(o *gcsHandler) {
		o.client = cl
	}
}

// ClientOptions are passed to storage.NewClient when no Client was supplied
// (e.g. option.WithoutAuthentication for public buckets).
func ClientOptions(opts ...option.ClientOption) Option {
	return func(o *gcsHandler) {
		o.clientOptions = append(o.clientOptions, opts...)
	}
}

// BlockSize sets the size of the ranged requests that go out to the storage
// API, e.g. "512k" or "1m". Defaults to "1m".
func BlockSize(bs string) Option {
	return func(o *gcsHandler) {
		o.blockSize = bs
	}
}

// NumCachedBlocks sets the number of fetched blocks kept in memory.
// Defaults to 512.
func NumCachedBlocks(n int) Option {
	if n < 1 {
		panic("invalid num cached blocks")
	}
	return func(o *gcsHandler) {
		o.numCachedBlocks = n
	}
}

// RegisterHandler registers a gs:// handler backed by cloud storage so that
// gorast.Open can resolve bucket objects.
func RegisterHandler(ctx context.Context, opts ...Option) error {
	handler := &gcsHandler{
		prefix:          "gs://",
		blockSize:       "1m",
		numCachedBlocks: 512,
	}
	for _, o := range opts {
		o(handler)
	}
	if handler.client == nil {
		cl, err := storage.NewClient(ctx, handler.clientOptions...)
		if err != nil {
			return fmt.Errorf("storage.newclient: %w", err)
		}
		handler.client = cl
	}
	gs, err := osiogcs.Handle(ctx, osiogcs.GCSClient(handler.client))
	if err != nil {
		return fmt.Errorf("osio.gcshandle: %w", err)
	}
	gsa, err := osio.NewAdapter(gs,
		osio.BlockSize(handler.blockSize),
		osio.NumCachedBlocks(handler.numCachedBlocks))
	if err != nil {
		return fmt.Errorf("osio.newadapter: %w", err)
	}
	return gorast.RegisterVSIHandler(handler.prefix, gsa)
}
