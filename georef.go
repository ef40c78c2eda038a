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

import "fmt"

// WGS84 is the canonical geographic reference system used for computed
// bounds and for the geotransform assigned when persisting with explicit
// bounds.
const WGS84 = "EPSG:4326"

// Bounds returns the dataset's bounding box reprojected into
// targetProjection, usually WGS84.
//
// When no transform can be built from the dataset's projection (an empty or
// unparseable projection string), the corner coordinates are treated as
// already being in the target system. That fallback is intentional: bare
// pixel-space datasets still yield usable bounds.
//
// All four corners are transformed and the box is the min/max over them:
// a reprojection can move any corner to an extreme, so no corner can be
// assumed to stay minimal or maximal. Rotation terms of the geotransform
// are ignored.
func (ds *Dataset) Bounds(targetProjection string) (Bounds, error) {
	if ds == nil || ds.handle == nil {
		return Bounds{}, &InvalidDatasetError{Op: "bounds"}
	}
	st := ds.handle.Structure()
	gt, err := ds.handle.GeoTransform()
	if err != nil {
		return Bounds{}, fmt.Errorf("get geotransform: %w", err)
	}
	ox, oy := gt[0], gt[3]
	pw, ph := gt[1], gt[5]
	w, h := float64(st.SizeX), float64(st.SizeY)

	x := []float64{ox, ox + pw*w, ox + pw*w, ox}
	y := []float64{oy, oy + ph*h, oy, oy + ph*h}

	if trn, terr := ds.eng.NewTransform(ds.handle.Projection(), targetProjection); terr == nil {
		defer trn.Close()
		if err := trn.TransformEx(x, y); err != nil {
			return Bounds{}, fmt.Errorf("reproject bounds: %w", err)
		}
	}

	ret := Bounds{x[0], y[0], x[0], y[0]}
	for i := 1; i < 4; i++ {
		if x[i] < ret[0] {
			ret[0] = x[i]
		}
		if x[i] > ret[2] {
			ret[2] = x[i]
		}
		if y[i] < ret[1] {
			ret[1] = y[i]
		}
		if y[i] > ret[3] {
			ret[3] = y[i]
		}
	}
	return ret, nil
}
