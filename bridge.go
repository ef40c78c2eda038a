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
	"encoding/binary"
	"fmt"
)

// bulkCopyThreshold is the image size, in bytes, above which raster pixels
// are copied into a dataset one row at a time instead of through a single
// contiguous buffer, bounding peak memory use for very large rasters.
var bulkCopyThreshold = int64(1) << 31

// memDriver is the engine driver used for empty in-memory allocations.
const memDriver = "MEM"

// FromRaster converts r into a newly allocated in-memory dataset. Pixels
// are copied, never aliased: the returned dataset does not reference r's
// buffer. Options:
//
// • NoData(v) fills every band with v and records v as each band's nodata
// sentinel before the pixel copy.
//
// The caller owns the returned dataset and must Close it, including on
// error paths of any subsequent processing.
func FromRaster(r *Raster, opts ...FromRasterOption) (*Dataset, error) {
	fro := fromRasterOpts{}
	for _, o := range opts {
		o.setFromRasterOpt(&fro)
	}
	dtype := r.PixelType.DataType()
	if dtype == Unknown {
		return nil, &UnsupportedPixelTypeError{Type: r.PixelType}
	}
	if err := r.check(); err != nil {
		return nil, err
	}
	eng, err := activeEngine()
	if err != nil {
		return nil, err
	}
	handle, err := eng.Create(memDriver, "", r.Width, r.Height, r.NBands, dtype, nil)
	if err != nil {
		return nil, fmt.Errorf("create %dx%dx%d %s dataset: %w", r.Width, r.Height, r.NBands, dtype, err)
	}
	ds := &Dataset{eng: eng, handle: handle}
	if fro.nodata != nil {
		for b := 1; b <= r.NBands; b++ {
			if err := handle.SetNoData(b, *fro.nodata); err != nil {
				ds.Close()
				return nil, fmt.Errorf("set nodata on band %d: %w", b, err)
			}
			if err := handle.Fill(b, *fro.nodata); err != nil {
				ds.Close()
				return nil, fmt.Errorf("fill band %d: %w", b, err)
			}
		}
	}
	if err := writePixels(eng, handle, r, dtype); err != nil {
		ds.Close()
		return nil, err
	}
	return ds, nil
}

// writePixels copies r's pixels into handle in band-interleaved-by-pixel
// order, either as one bulk write or row by row depending on image size.
func writePixels(eng Engine, handle EngineDataset, r *Raster, dtype DataType) error {
	size := dtype.Size()
	pixelStride := size * r.NBands
	lineStride := pixelStride * r.Width
	bandStride := size

	imageSize := int64(size) * int64(r.NBands) * int64(r.Width) * int64(r.Height)
	if imageSize < bulkCopyThreshold {
		buf := make([]byte, imageSize)
		encodePix(buf, r.Pix, 0, r.Width*r.Height*r.NBands, binary.NativeEndian)
		if !sameOrder(eng.ByteOrder(), binary.NativeEndian) {
			SwapBytes(buf, dtype)
		}
		if err := handle.IO(IOWrite, 0, 0, r.Width, r.Height, buf, dtype, pixelStride, lineStride, bandStride); err != nil {
			return fmt.Errorf("write pixels: %w", err)
		}
		return nil
	}

	rowElems := r.Width * r.NBands
	buf := make([]byte, lineStride)
	for y := 0; y < r.Height; y++ {
		encodePix(buf, r.Pix, y*rowElems, (y+1)*rowElems, binary.NativeEndian)
		if !sameOrder(eng.ByteOrder(), binary.NativeEndian) {
			SwapBytes(buf, dtype)
		}
		if err := handle.IO(IOWrite, 0, y, r.Width, 1, buf, dtype, pixelStride, lineStride, bandStride); err != nil {
			return fmt.Errorf("write row %d: %w", y, err)
		}
	}
	return nil
}

// Raster reads the whole dataset into a new Raster in band-interleaved-by-
// pixel layout. The pixel type is taken from band 1 and is assumed uniform
// across bands.
func (ds *Dataset) Raster() (*Raster, error) {
	if ds == nil || ds.handle == nil {
		return nil, &InvalidDatasetError{Op: "raster"}
	}
	st := ds.handle.Structure()
	pt := st.DataType.PixelType()
	if pt == PixelUndefined {
		return nil, &UnsupportedPixelTypeError{Type: st.DataType}
	}
	size := st.DataType.Size()
	pixelStride := size * st.NBands
	lineStride := pixelStride * st.SizeX
	bandStride := size

	buf := make([]byte, st.ImageSizeBytes())
	if err := ds.handle.IO(IORead, 0, 0, st.SizeX, st.SizeY, buf, st.DataType, pixelStride, lineStride, bandStride); err != nil {
		return nil, fmt.Errorf("read pixels: %w", err)
	}
	if !sameOrder(ds.eng.ByteOrder(), binary.NativeEndian) {
		SwapBytes(buf, st.DataType)
	}
	return &Raster{
		Width:     st.SizeX,
		Height:    st.SizeY,
		NBands:    st.NBands,
		PixelType: pt,
		Pix:       decodePix(buf, pt, st.SizeX*st.SizeY*st.NBands, binary.NativeEndian),
	}, nil
}
