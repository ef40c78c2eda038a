package gorast_test

import (
	"bytes"
	"testing"

	"github.com/geomys/gorast"
)

func TestSwapBytes(t *testing.T) {
	types := []gorast.DataType{
		gorast.Byte, gorast.Int16, gorast.UInt16,
		gorast.Int32, gorast.UInt32, gorast.Float32, gorast.Float64,
	}
	for _, dt := range types {
		for elems := 0; elems <= 5; elems++ {
			buf := make([]byte, elems*dt.Size())
			for i := range buf {
				buf[i] = byte(i * 7)
			}
			orig := append([]byte(nil), buf...)
			gorast.SwapBytes(buf, dt)
			if dt.Size() > 1 && elems > 0 && bytes.Equal(buf, orig) {
				t.Errorf("%s: swap did not change buffer", dt)
			}
			gorast.SwapBytes(buf, dt)
			if !bytes.Equal(buf, orig) {
				t.Errorf("%s: double swap is not the identity", dt)
			}
		}
	}
}

func TestSwapBytesOrder(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	gorast.SwapBytes(buf, gorast.Int16)
	if !bytes.Equal(buf, []byte{0x02, 0x01, 0x04, 0x03}) {
		t.Errorf("int16 swap: got %v", buf)
	}
	buf = []byte{0x01, 0x02, 0x03, 0x04}
	gorast.SwapBytes(buf, gorast.Int32)
	if !bytes.Equal(buf, []byte{0x04, 0x03, 0x02, 0x01}) {
		t.Errorf("int32 swap: got %v", buf)
	}
	buf = []byte{1, 2, 3, 4, 5, 6, 7, 8}
	gorast.SwapBytes(buf, gorast.Float64)
	if !bytes.Equal(buf, []byte{8, 7, 6, 5, 4, 3, 2, 1}) {
		t.Errorf("float64 swap: got %v", buf)
	}
}

func TestSwapBytesPartialElement(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("panic not raised")
		}
	}()
	gorast.SwapBytes(make([]byte, 5), gorast.Int32)
}
