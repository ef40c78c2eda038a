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

package gorast

import "encoding/binary"

// Engine is the set of native raster engine capabilities consumed by this
// package. It intentionally mirrors what a classical raster library exposes:
// a driver registry, dataset open/create/copy, virtual in-memory files,
// global configuration options, coordinate transforms and a last-error slot.
//
// Engine implementations own process-wide state (the virtual file registry
// and configuration options in particular); an Engine must be safe for use
// by concurrent callers operating on distinct datasets.
type Engine interface {
	// Open opens the named resource. name may be a filesystem path or a
	// virtual file previously registered with CreateVirtual. An engine may
	// return (nil, nil) when no driver recognizes the resource but no hard
	// failure occurred; callers must treat a nil dataset as absent, not as
	// an error.
	Open(name string) (EngineDataset, error)

	// Create allocates an empty dataset of the given dimensions through the
	// named driver. name may be empty for purely in-memory drivers.
	Create(driver, name string, width, height, nBands int, dtype DataType, creation []string) (EngineDataset, error)

	// HasDriver reports wether the named driver is registered.
	HasDriver(name string) bool

	// CreateCopy writes a copy of src to name through the named driver,
	// honoring the driver-specific creation options. The returned dataset
	// refers to the copy and must be released by the caller.
	CreateCopy(driver, name string, src EngineDataset, creation []string) (EngineDataset, error)

	// CreateVirtual registers data under name in the engine's virtual
	// in-memory filesystem so that it can be opened as if it were a file.
	CreateVirtual(name string, data []byte) error
	// UnlinkVirtual removes a virtual file and frees its backing memory.
	UnlinkVirtual(name string) error

	// ConfigOption returns the current value of a global engine
	// configuration option, or "" if unset.
	ConfigOption(key string) string
	SetConfigOption(key, value string)

	// NewTransform builds a coordinate transform between two projections.
	// Projection strings are engine-defined (WKT, "EPSG:xxxx", ...).
	NewTransform(srcProjection, dstProjection string) (Transform, error)

	// LastError returns the engine's most recent error diagnostic.
	LastError() (ErrorCategory, int, string)

	// ByteOrder is the byte order of pixel buffers exchanged through
	// EngineDataset.IO.
	ByteOrder() binary.ByteOrder
}

// EngineDataset is the raw handle to a native dataset. Handles are created
// by Engine.Open, Engine.Create or Engine.CreateCopy and must be released
// exactly once. Band indexes are 1-based, per raster engine convention.
type EngineDataset interface {
	Structure() DatasetStructure

	// GeoTransform returns the 6 affine coefficients mapping pixel/line
	// indexes to georeferenced coordinates, in the order
	// originX, pixelWidth, rowRotation, originY, colRotation, pixelHeight.
	GeoTransform() ([6]float64, error)
	SetGeoTransform(gt [6]float64) error

	Projection() string
	SetProjection(projection string) error

	// NoData returns band's nodata sentinel; ok is false when the band has
	// none, which is distinct from a sentinel equal to zero.
	NoData(band int) (nodata float64, ok bool)
	SetNoData(band int, nodata float64) error

	// Fill sets every pixel of band to value.
	Fill(band int, value float64) error

	// IO reads or writes the window starting at x,y spanning width,height
	// pixels, across all bands, using the supplied strides (in bytes) to
	// address buf. buf holds elements of type dtype in the engine's byte
	// order.
	IO(op IOOperation, x, y, width, height int, buf []byte, dtype DataType,
		pixelStride, lineStride, bandStride int) error

	// Files lists the files backing this dataset, virtual ones included.
	Files() []string

	// Release frees the native handle. It does not unlink virtual backing
	// files; Dataset.Close takes care of that pairing.
	Release() error
}

// Transform transforms coordinates between two projections. A Transform
// must be closed after use.
type Transform interface {
	// TransformEx transforms the points (x[i],y[i]) in place.
	TransformEx(x, y []float64) error
	Close()
}

// KeySizerReaderAt is the filesystem capability consumed when opening
// resources that do not resolve to a local path: Size probes for existence
// and ReadAt fetches the bytes. It is satisfied by osio.Adapter, which is
// the usual way of plugging object storage behind a URI prefix.
type KeySizerReaderAt interface {
	ReadAt(key string, buf []byte, off int64) (int, error)
	Size(key string) (int64, error)
}
