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

import (
	"fmt"
	"strings"
)

// Dataset wraps an EngineDataset handle together with the engine that
// created it. A Dataset must be closed exactly once; closing also unlinks
// any virtual in-memory file backing it.
type Dataset struct {
	eng    Engine
	handle EngineDataset
}

// Handle returns the raw engine handle, or nil once the dataset is closed.
func (ds *Dataset) Handle() EngineDataset {
	return ds.handle
}

// Structure returns the dataset's shape
func (ds *Dataset) Structure() DatasetStructure {
	return ds.handle.Structure()
}

// GeoTransform returns the affine transformation coefficients
func (ds *Dataset) GeoTransform() ([6]float64, error) {
	return ds.handle.GeoTransform()
}

// SetGeoTransform sets the affine transformation coefficients
func (ds *Dataset) SetGeoTransform(transform [6]float64) error {
	return ds.handle.SetGeoTransform(transform)
}

// Projection returns the projection of the dataset. May be empty.
func (ds *Dataset) Projection() string {
	return ds.handle.Projection()
}

// SetProjection sets the projection of the dataset. May be empty.
func (ds *Dataset) SetProjection(projection string) error {
	return ds.handle.SetProjection(projection)
}

// NoData returns the nodata sentinel of the given 1-based band. ok is false
// when the band carries no sentinel.
func (ds *Dataset) NoData(band int) (nodata float64, ok bool) {
	return ds.handle.NoData(band)
}

// SetNoData sets nd as the nodata sentinel on every band.
func (ds *Dataset) SetNoData(nd float64) error {
	nbands := ds.handle.Structure().NBands
	for b := 1; b <= nbands; b++ {
		if err := ds.handle.SetNoData(b, nd); err != nil {
			return fmt.Errorf("set nodata on band %d: %w", b, err)
		}
	}
	return nil
}

// Close releases the dataset and unlinks any virtual in-memory file that
// was backing it. Calling Close a second time is a caller error and is
// reported as such.
func (ds *Dataset) Close() error {
	if ds.handle == nil {
		return fmt.Errorf("close called more than once")
	}
	files := ds.handle.Files()
	err := ds.handle.Release()
	ds.handle = nil
	for _, f := range files {
		if !strings.HasPrefix(f, VSIMemPrefix) {
			continue
		}
		if uerr := ds.eng.UnlinkVirtual(f); uerr != nil && err == nil {
			err = fmt.Errorf("unlink %s: %w", f, uerr)
		}
	}
	return err
}
