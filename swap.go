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

// SwapBytes reverses the byte order of every element of buf in place, with
// the element width implied by dtype. Single-byte types are a no-op. buf
// must contain whole elements only: a length that is not a multiple of the
// element width is a programming error and panics.
func SwapBytes(buf []byte, dtype DataType) {
	w := dtype.Size()
	if len(buf)%w != 0 {
		panic(fmt.Sprintf("buffer len=%d not a multiple of element width=%d", len(buf), w))
	}
	switch w {
	case 1:
	case 2:
		for i := 0; i < len(buf); i += 2 {
			buf[i], buf[i+1] = buf[i+1], buf[i]
		}
	case 4:
		for i := 0; i < len(buf); i += 4 {
			buf[i], buf[i+3] = buf[i+3], buf[i]
			buf[i+1], buf[i+2] = buf[i+2], buf[i+1]
		}
	case 8:
		for i := 0; i < len(buf); i += 8 {
			buf[i], buf[i+7] = buf[i+7], buf[i]
			buf[i+1], buf[i+6] = buf[i+6], buf[i+1]
			buf[i+2], buf[i+5] = buf[i+5], buf[i+2]
			buf[i+3], buf[i+4] = buf[i+4], buf[i+3]
		}
	default:
		panic(fmt.Sprintf("unsupported element width %d", w))
	}
}

var orderProbe = [2]byte{0x01, 0x02}

// sameOrder compares two byte orders behaviorally: binary.NativeEndian and
// binary.LittleEndian are distinct values even when they decode identically.
func sameOrder(a, b binary.ByteOrder) bool {
	return a.Uint16(orderProbe[:]) == b.Uint16(orderProbe[:])
}
