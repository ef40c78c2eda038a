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

package memdrv

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/geomys/gorast"
)

// dataset implements gorast.EngineDataset with planar per-band storage in
// little-endian byte order.
type dataset struct {
	eng           *Engine
	width, height int
	dtype         gorast.DataType
	bands         [][]byte
	gt            [6]float64
	proj          string
	nodata        map[int]float64
	files         []string
	released      bool
}

func (ds *dataset) Structure() gorast.DatasetStructure {
	return gorast.DatasetStructure{
		SizeX:    ds.width,
		SizeY:    ds.height,
		NBands:   len(ds.bands),
		DataType: ds.dtype,
	}
}

func (ds *dataset) GeoTransform() ([6]float64, error) {
	return ds.gt, nil
}

func (ds *dataset) SetGeoTransform(gt [6]float64) error {
	if ds.released {
		return fmt.Errorf("dataset released")
	}
	ds.gt = gt
	return nil
}

func (ds *dataset) Projection() string {
	return ds.proj
}

func (ds *dataset) SetProjection(projection string) error {
	if ds.released {
		return fmt.Errorf("dataset released")
	}
	ds.proj = projection
	return nil
}

func (ds *dataset) NoData(band int) (float64, bool) {
	nd, ok := ds.nodata[band]
	return nd, ok
}

func (ds *dataset) SetNoData(band int, nodata float64) error {
	if band < 1 || band > len(ds.bands) {
		return fmt.Errorf("band %d out of range", band)
	}
	ds.nodata[band] = nodata
	return nil
}

func (ds *dataset) Fill(band int, value float64) error {
	if band < 1 || band > len(ds.bands) {
		return fmt.Errorf("band %d out of range", band)
	}
	size := ds.dtype.Size()
	var elem [8]byte
	encodeElement(elem[:size], ds.dtype, value)
	buf := ds.bands[band-1]
	for off := 0; off < len(buf); off += size {
		copy(buf[off:off+size], elem[:size])
	}
	return nil
}

func (ds *dataset) IO(op gorast.IOOperation, x, y, width, height int, buf []byte, dtype gorast.DataType,
	pixelStride, lineStride, bandStride int) error {
	if ds.released {
		return fmt.Errorf("dataset released")
	}
	if dtype != ds.dtype {
		return fmt.Errorf("buffer type %s does not match dataset type %s", dtype, ds.dtype)
	}
	if x < 0 || y < 0 || x+width > ds.width || y+height > ds.height {
		return fmt.Errorf("window %d,%d %dx%d out of %dx%d dataset", x, y, width, height, ds.width, ds.height)
	}
	size := dtype.Size()
	need := (len(ds.bands)-1)*bandStride + (height-1)*lineStride + (width-1)*pixelStride + size
	if len(buf) < need {
		return fmt.Errorf("buffer len=%d less than min=%d", len(buf), need)
	}
	for b := range ds.bands {
		band := ds.bands[b]
		for j := 0; j < height; j++ {
			srcOff := ((y+j)*ds.width + x) * size
			dstOff := b*bandStride + j*lineStride
			for i := 0; i < width; i++ {
				if op == gorast.IOWrite {
					copy(band[srcOff:srcOff+size], buf[dstOff:dstOff+size])
				} else {
					copy(buf[dstOff:dstOff+size], band[srcOff:srcOff+size])
				}
				srcOff += size
				dstOff += pixelStride
			}
		}
	}
	return nil
}

func (ds *dataset) Files() []string {
	return ds.files
}

func (ds *dataset) Release() error {
	if ds.released {
		return fmt.Errorf("dataset already released")
	}
	ds.released = true
	ds.bands = nil
	return nil
}

// encodeElement serializes one numeric value as a dtype element in the
// engine's byte order.
func encodeElement(dst []byte, dtype gorast.DataType, value float64) {
	switch dtype {
	case gorast.Byte:
		dst[0] = uint8(value)
	case gorast.Int16:
		binary.LittleEndian.PutUint16(dst, uint16(int16(value)))
	case gorast.UInt16:
		binary.LittleEndian.PutUint16(dst, uint16(value))
	case gorast.Int32:
		binary.LittleEndian.PutUint32(dst, uint32(int32(value)))
	case gorast.UInt32:
		binary.LittleEndian.PutUint32(dst, uint32(value))
	case gorast.Float32:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(value)))
	case gorast.Float64:
		binary.LittleEndian.PutUint64(dst, math.Float64bits(value))
	default:
		panic("unsupported type")
	}
}
