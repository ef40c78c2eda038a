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

import "math"

// TileCoordinate addresses one tile of a global geodetic TMS quad tree:
// at zoom 1 the world (-180..180, -90..90) is covered by 2x1 tiles of
// TileSize pixels each, and every zoom level doubles the tile count per
// axis. Row 0 is the southernmost row, per TMS convention.
type TileCoordinate struct {
	Col, Row int64
	Zoom     int
	TileSize int
}

// Resolution returns the geographic width of one pixel at this tile's zoom
// level.
func (tc TileCoordinate) Resolution() float64 {
	return 180.0 / float64(tc.TileSize) / math.Pow(2, float64(tc.Zoom-1))
}

// Bounds returns the geographic extent covered by this tile.
func (tc TileCoordinate) Bounds() Bounds {
	span := tc.Resolution() * float64(tc.TileSize)
	w := -180.0 + float64(tc.Col)*span
	s := -90.0 + float64(tc.Row)*span
	return Bounds{w, s, w + span, s + span}
}
