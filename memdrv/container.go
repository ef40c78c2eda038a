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
	"bytes"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/geomys/gorast"
)

// Serialized dataset container. Little-endian throughout:
//
//	magic "GORAST01"
//	int32 width, height, nbands, dtype
//	6x float64 geotransform
//	uint32 projection length + bytes
//	uint8 compression (0 raw, 1 deflate)
//	per band: uint8 nodata flag + float64 nodata value
//	per band: uint32 payload length + payload
var containerMagic = []byte("GORAST01")

const (
	compressionNone    = 0
	compressionDeflate = 1
)

func hasContainerMagic(data []byte) bool {
	return bytes.HasPrefix(data, containerMagic)
}

func encodeContainer(ds *dataset, creation []string) ([]byte, error) {
	compression, zlevel := parseCompression(creation)
	var out bytes.Buffer
	out.Write(containerMagic)
	hdr := []int32{int32(ds.width), int32(ds.height), int32(len(ds.bands)), int32(ds.dtype)}
	if err := binary.Write(&out, binary.LittleEndian, hdr); err != nil {
		return nil, err
	}
	if err := binary.Write(&out, binary.LittleEndian, ds.gt); err != nil {
		return nil, err
	}
	writeBlob(&out, []byte(ds.proj))
	out.WriteByte(byte(compression))
	for b := 1; b <= len(ds.bands); b++ {
		nd, ok := ds.nodata[b]
		flag := byte(0)
		if ok {
			flag = 1
		}
		out.WriteByte(flag)
		if err := binary.Write(&out, binary.LittleEndian, nd); err != nil {
			return nil, err
		}
	}
	for _, band := range ds.bands {
		payload := band
		if compression == compressionDeflate {
			var cb bytes.Buffer
			zw, err := flate.NewWriter(&cb, zlevel)
			if err != nil {
				return nil, err
			}
			if _, err := zw.Write(band); err != nil {
				return nil, err
			}
			if err := zw.Close(); err != nil {
				return nil, err
			}
			payload = cb.Bytes()
		}
		writeBlob(&out, payload)
	}
	return out.Bytes(), nil
}

func decodeContainer(data []byte) (*dataset, error) {
	if !hasContainerMagic(data) {
		return nil, fmt.Errorf("bad magic")
	}
	r := bytes.NewReader(data[len(containerMagic):])
	var hdr [4]int32
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}
	if hdr[3] < int32(gorast.Byte) || hdr[3] > int32(gorast.CFloat64) {
		return nil, fmt.Errorf("invalid data type %d", hdr[3])
	}
	ds := &dataset{
		width:  int(hdr[0]),
		height: int(hdr[1]),
		dtype:  gorast.DataType(hdr[3]),
		nodata: make(map[int]float64),
	}
	nbands := int(hdr[2])
	if ds.width <= 0 || ds.height <= 0 || nbands <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%dx%d", ds.width, ds.height, nbands)
	}
	if err := binary.Read(r, binary.LittleEndian, &ds.gt); err != nil {
		return nil, err
	}
	proj, err := readBlob(r)
	if err != nil {
		return nil, err
	}
	ds.proj = string(proj)
	compression, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	for b := 1; b <= nbands; b++ {
		flag, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		var nd float64
		if err := binary.Read(r, binary.LittleEndian, &nd); err != nil {
			return nil, err
		}
		if flag != 0 {
			ds.nodata[b] = nd
		}
	}
	bandSize := ds.width * ds.height * ds.dtype.Size()
	ds.bands = make([][]byte, nbands)
	for b := range ds.bands {
		payload, err := readBlob(r)
		if err != nil {
			return nil, err
		}
		if compression == compressionDeflate {
			zr := flate.NewReader(bytes.NewReader(payload))
			payload, err = io.ReadAll(zr)
			zr.Close()
			if err != nil {
				return nil, err
			}
		}
		if len(payload) != bandSize {
			return nil, fmt.Errorf("band %d: got %d bytes, want %d", b+1, len(payload), bandSize)
		}
		ds.bands[b] = payload
	}
	return ds, nil
}

func parseCompression(creation []string) (compression int, zlevel int) {
	compression = compressionNone
	zlevel = flate.DefaultCompression
	for _, kv := range creation {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch strings.ToUpper(k) {
		case "COMPRESS":
			if strings.EqualFold(v, "DEFLATE") {
				compression = compressionDeflate
			}
		case "ZLEVEL":
			if n, err := strconv.Atoi(v); err == nil && n >= flate.BestSpeed && n <= flate.BestCompression {
				zlevel = n
			}
		}
	}
	return compression, zlevel
}

func writeBlob(out *bytes.Buffer, data []byte) {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(data)))
	out.Write(n[:])
	out.Write(data)
}

func readBlob(r *bytes.Reader) ([]byte, error) {
	var n [4]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return nil, err
	}
	data := make([]byte, binary.LittleEndian.Uint32(n[:]))
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}
