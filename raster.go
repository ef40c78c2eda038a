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
	"math"
)

// Raster is an in-memory pixel grid in band-interleaved-by-pixel layout:
// all bands of one pixel are contiguous before moving on to the next pixel.
// Pix holds one of []uint8, []int16, []uint16, []int32, []float32 or
// []float64, of length Width*Height*NBands.
//
// A Raster is owned by its creator. The bridge reads from or writes into it
// and never retains a reference past the call.
type Raster struct {
	Width, Height int
	NBands        int
	PixelType     PixelType
	Pix           interface{}
}

// NewRaster allocates a zeroed raster of the given shape.
func NewRaster(width, height, nBands int, pt PixelType) (*Raster, error) {
	n := width * height * nBands
	r := &Raster{Width: width, Height: height, NBands: nBands, PixelType: pt}
	switch pt {
	case PixelByte:
		r.Pix = make([]uint8, n)
	case PixelInt16:
		r.Pix = make([]int16, n)
	case PixelUInt16:
		r.Pix = make([]uint16, n)
	case PixelInt32:
		r.Pix = make([]int32, n)
	case PixelFloat32:
		r.Pix = make([]float32, n)
	case PixelFloat64:
		r.Pix = make([]float64, n)
	default:
		return nil, &UnsupportedPixelTypeError{Type: pt}
	}
	return r, nil
}

// check validates the shape invariant and that Pix matches PixelType.
func (r *Raster) check() error {
	if bufferPixelType(r.Pix) != r.PixelType {
		return &UnsupportedPixelTypeError{Type: r.PixelType}
	}
	want := r.Width * r.Height * r.NBands
	if n := pixLen(r.Pix); n != want {
		return fmt.Errorf("pixel buffer has %d elements, want %d", n, want)
	}
	return nil
}

// bufferPixelType returns the PixelType stored in an IO buffer, or
// PixelUndefined for slice types outside the six supported kinds.
func bufferPixelType(buffer interface{}) PixelType {
	switch buffer.(type) {
	case []uint8:
		return PixelByte
	case []int16:
		return PixelInt16
	case []uint16:
		return PixelUInt16
	case []int32:
		return PixelInt32
	case []float32:
		return PixelFloat32
	case []float64:
		return PixelFloat64
	default:
		return PixelUndefined
	}
}

func pixLen(buffer interface{}) int {
	switch buf := buffer.(type) {
	case []uint8:
		return len(buf)
	case []int16:
		return len(buf)
	case []uint16:
		return len(buf)
	case []int32:
		return len(buf)
	case []float32:
		return len(buf)
	case []float64:
		return len(buf)
	default:
		return 0
	}
}

// encodePix serializes elements [lo,hi) of pix into dst using the given
// byte order. dst must hold at least (hi-lo)*elementSize bytes.
func encodePix(dst []byte, pix interface{}, lo, hi int, order binary.ByteOrder) {
	switch buf := pix.(type) {
	case []uint8:
		copy(dst, buf[lo:hi])
	case []int16:
		for i, v := range buf[lo:hi] {
			order.PutUint16(dst[i*2:], uint16(v))
		}
	case []uint16:
		for i, v := range buf[lo:hi] {
			order.PutUint16(dst[i*2:], v)
		}
	case []int32:
		for i, v := range buf[lo:hi] {
			order.PutUint32(dst[i*4:], uint32(v))
		}
	case []float32:
		for i, v := range buf[lo:hi] {
			order.PutUint32(dst[i*4:], math.Float32bits(v))
		}
	case []float64:
		for i, v := range buf[lo:hi] {
			order.PutUint64(dst[i*8:], math.Float64bits(v))
		}
	default:
		panic("unsupported type")
	}
}

// decodePix deserializes n elements of type pt from src into a freshly
// allocated typed slice.
func decodePix(src []byte, pt PixelType, n int, order binary.ByteOrder) interface{} {
	switch pt {
	case PixelByte:
		buf := make([]uint8, n)
		copy(buf, src)
		return buf
	case PixelInt16:
		buf := make([]int16, n)
		for i := range buf {
			buf[i] = int16(order.Uint16(src[i*2:]))
		}
		return buf
	case PixelUInt16:
		buf := make([]uint16, n)
		for i := range buf {
			buf[i] = order.Uint16(src[i*2:])
		}
		return buf
	case PixelInt32:
		buf := make([]int32, n)
		for i := range buf {
			buf[i] = int32(order.Uint32(src[i*4:]))
		}
		return buf
	case PixelFloat32:
		buf := make([]float32, n)
		for i := range buf {
			buf[i] = math.Float32frombits(order.Uint32(src[i*4:]))
		}
		return buf
	case PixelFloat64:
		buf := make([]float64, n)
		for i := range buf {
			buf[i] = math.Float64frombits(order.Uint64(src[i*8:]))
		}
		return buf
	default:
		panic("unsupported type")
	}
}
