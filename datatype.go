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

// DataType is a pixel type as enumerated by the native raster engine.
type DataType int

const (
	//Unknown / Unset Datatype
	Unknown DataType = iota
	//Byte / UInt8
	Byte
	//Int16 DataType
	Int16
	//UInt16 DataType
	UInt16
	//Int32 DataType
	Int32
	//UInt32 DataType
	UInt32
	//Float32 DataType
	Float32
	//Float64 DataType
	Float64
	//CInt16 is a complex Int16
	CInt16
	//CInt32 is a complex Int32
	CInt32
	//CFloat32 is a complex Float32
	CFloat32
	//CFloat64 is a complex Float64
	CFloat64
)

// String implements Stringer
func (dtype DataType) String() string {
	switch dtype {
	case Byte:
		return "Byte"
	case Int16:
		return "Int16"
	case UInt16:
		return "UInt16"
	case Int32:
		return "Int32"
	case UInt32:
		return "UInt32"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case CInt16:
		return "CInt16"
	case CInt32:
		return "CInt32"
	case CFloat32:
		return "CFloat32"
	case CFloat64:
		return "CFloat64"
	default:
		return "Unknown"
	}
}

// Size retruns the number of bytes needed for one instance of DataType
func (dtype DataType) Size() int {
	switch dtype {
	case Byte:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float32, CInt16:
		return 4
	case CInt32, Float64, CFloat32:
		return 8
	case CFloat64:
		return 16
	default:
		panic("unsupported type")
	}
}

// PixelType returns the engine-neutral pixel type corresponding to dtype.
// The unsigned 32 bit type maps onto PixelInt32 as the raster model carries
// no unsigned 32 bit variant. Types with no counterpart (complex types,
// Unknown) yield PixelUndefined rather than an error.
func (dtype DataType) PixelType() PixelType {
	switch dtype {
	case Byte:
		return PixelByte
	case Int16:
		return PixelInt16
	case UInt16:
		return PixelUInt16
	case Int32, UInt32:
		return PixelInt32
	case Float32:
		return PixelFloat32
	case Float64:
		return PixelFloat64
	default:
		return PixelUndefined
	}
}

// PixelType is the engine-neutral pixel type of a Raster.
type PixelType int

const (
	//PixelUndefined is the sentinel for types the raster model cannot carry
	PixelUndefined PixelType = iota
	//PixelByte / UInt8
	PixelByte
	//PixelInt16 signed 16 bit
	PixelInt16
	//PixelUInt16 unsigned 16 bit
	PixelUInt16
	//PixelInt32 signed 32 bit
	PixelInt32
	//PixelFloat32 single precision float
	PixelFloat32
	//PixelFloat64 double precision float
	PixelFloat64
)

// String implements Stringer
func (pt PixelType) String() string {
	switch pt {
	case PixelByte:
		return "Byte"
	case PixelInt16:
		return "Int16"
	case PixelUInt16:
		return "UInt16"
	case PixelInt32:
		return "Int32"
	case PixelFloat32:
		return "Float32"
	case PixelFloat64:
		return "Float64"
	default:
		return "Undefined"
	}
}

// Size retruns the number of bytes needed for one instance of PixelType
func (pt PixelType) Size() int {
	switch pt {
	case PixelByte:
		return 1
	case PixelInt16, PixelUInt16:
		return 2
	case PixelInt32, PixelFloat32:
		return 4
	case PixelFloat64:
		return 8
	default:
		panic("unsupported type")
	}
}

// DataType returns the native engine type used to store pt. It is total
// over the six defined pixel types; PixelUndefined maps to Unknown.
func (pt PixelType) DataType() DataType {
	switch pt {
	case PixelByte:
		return Byte
	case PixelInt16:
		return Int16
	case PixelUInt16:
		return UInt16
	case PixelInt32:
		return Int32
	case PixelFloat32:
		return Float32
	case PixelFloat64:
		return Float64
	default:
		return Unknown
	}
}
