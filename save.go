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
	"io"
	"os"
	"strings"
	"sync"
)

// gtiffDriver is the canonical driver every tiff-flavored format alias
// resolves to.
const gtiffDriver = "GTiff"

// auxMetadataConfigKey toggles the engine's auxiliary-metadata side-file
// emission. It is forced off for the duration of a write so that saving an
// image never litters the destination with .aux side files.
const auxMetadataConfigKey = "GDAL_PAM_ENABLED"

// auxMetadataMu serializes the set/write/restore sequence around the
// auxiliary-metadata toggle, which is global engine state.
var auxMetadataMu sync.Mutex

// Save writes ds to path in the given format.
//
// format is normalized to a canonical driver name: jpg and jpeg select the
// JPEG driver, and all of tif, tiff, geotif, geotiff, gtif and gtiff select
// the tiled GTiff driver. Any other format is passed to the engine
// upper-cased.
//
// For the GTiff driver a set of default creation options is appended after
// any caller-supplied CreationOption: band-interleaved storage, deflate
// compression at level 6 with the predictor disabled, and internal tiling
// with a block size of min(rasterDimension, 2048) per axis. Other drivers
// receive only caller-supplied options.
//
// When WithBounds is supplied the dataset's geotransform is derived from the
// bounds (origin at the northwest corner, pixel size = extent divided by
// raster size) and its projection is set to WGS84 before the write.
func Save(ds *Dataset, path string, format string, opts ...SaveOption) error {
	so := saveOpts{}
	for _, o := range opts {
		o.setSaveOpt(&so)
	}
	return save(ds, path, format, &so)
}

// SaveStream writes ds to w in the given format, staging the encoded image
// in a uniquely named temporary file first: format drivers need seekable
// output. The temporary file is deleted after its content has been copied
// into w; a failed deletion is reported as a TempFileCleanupError.
func SaveStream(ds *Dataset, w io.Writer, format string, opts ...SaveOption) error {
	so := saveOpts{}
	for _, o := range opts {
		o.setSaveOpt(&so)
	}
	tmpf, err := os.CreateTemp("", "gorast-*"+formatExt(format))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpname := tmpf.Name()
	tmpf.Close()

	if err := save(ds, tmpname, format, &so); err != nil {
		os.Remove(tmpname)
		return err
	}
	tmpf, err = os.Open(tmpname)
	if err != nil {
		os.Remove(tmpname)
		return fmt.Errorf("re-open temp file %s: %w", tmpname, err)
	}
	_, cerr := io.Copy(w, tmpf)
	tmpf.Close()
	if cerr != nil {
		os.Remove(tmpname)
		return fmt.Errorf("copy temp file to stream: %w", cerr)
	}
	if f, ok := w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			os.Remove(tmpname)
			return fmt.Errorf("flush stream: %w", err)
		}
	}
	if err := os.Remove(tmpname); err != nil {
		return &TempFileCleanupError{Path: tmpname, Err: err}
	}
	return nil
}

// SaveTile writes ds to path with its geotransform derived from a TMS tile
// address. A zero tile.TileSize takes the tile size from the dataset's own
// pixel width.
func SaveTile(ds *Dataset, path string, format string, tile TileCoordinate, opts ...SaveOption) error {
	return Save(ds, path, format, append(opts, WithBounds(tileBounds(ds, tile)))...)
}

// SaveTileStream is SaveTile writing to a stream instead of a named file.
func SaveTileStream(ds *Dataset, w io.Writer, format string, tile TileCoordinate, opts ...SaveOption) error {
	return SaveStream(ds, w, format, append(opts, WithBounds(tileBounds(ds, tile)))...)
}

func tileBounds(ds *Dataset, tile TileCoordinate) Bounds {
	if tile.TileSize == 0 && ds != nil && ds.handle != nil {
		tile.TileSize = ds.handle.Structure().SizeX
	}
	return tile.Bounds()
}

func save(ds *Dataset, path string, format string, so *saveOpts) error {
	if ds == nil || ds.handle == nil {
		return &InvalidDatasetError{Op: "save"}
	}
	driver := normalizeDriver(format)
	if !ds.eng.HasDriver(driver) {
		return &RasterWriteError{Driver: driver, Dest: path, Category: CE_Failure,
			Message: fmt.Sprintf("no registered driver for format %q", format)}
	}
	st := ds.handle.Structure()
	if so.bounds != nil {
		b := *so.bounds
		gt := [6]float64{
			b.MinX(), (b.MaxX() - b.MinX()) / float64(st.SizeX), 0,
			b.MaxY(), 0, -(b.MaxY() - b.MinY()) / float64(st.SizeY),
		}
		if err := ds.handle.SetGeoTransform(gt); err != nil {
			return fmt.Errorf("set geotransform: %w", err)
		}
		if err := ds.handle.SetProjection(WGS84); err != nil {
			return fmt.Errorf("set projection: %w", err)
		}
	}
	if so.nodata != nil {
		if err := ds.SetNoData(*so.nodata); err != nil {
			return err
		}
	}
	creation := so.creation
	if driver == gtiffDriver {
		creation = append(creation, gtiffDefaultOptions(st)...)
	}

	auxMetadataMu.Lock()
	prev := ds.eng.ConfigOption(auxMetadataConfigKey)
	ds.eng.SetConfigOption(auxMetadataConfigKey, "NO")
	defer func() {
		ds.eng.SetConfigOption(auxMetadataConfigKey, prev)
		auxMetadataMu.Unlock()
	}()

	out, err := ds.eng.CreateCopy(driver, path, ds.handle, creation)
	if err != nil || out == nil {
		cat, code, msg := ds.eng.LastError()
		if msg == "" && err != nil {
			msg = err.Error()
		}
		return &RasterWriteError{Driver: driver, Dest: path, Category: cat, Code: code, Message: msg}
	}
	return out.Release()
}

func gtiffDefaultOptions(st DatasetStructure) []string {
	bx, by := st.SizeX, st.SizeY
	if bx > 2048 {
		bx = 2048
	}
	if by > 2048 {
		by = 2048
	}
	return []string{
		"INTERLEAVE=BAND",
		"COMPRESS=DEFLATE",
		"ZLEVEL=6",
		"PREDICTOR=1",
		"TILED=YES",
		fmt.Sprintf("BLOCKXSIZE=%d", bx),
		fmt.Sprintf("BLOCKYSIZE=%d", by),
	}
}

// normalizeDriver resolves user-facing format names and their common
// aliases to canonical engine driver names.
func normalizeDriver(format string) string {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return "JPEG"
	case "tif", "tiff", "geotif", "geotiff", "gtif", "gtiff":
		return gtiffDriver
	default:
		return strings.ToUpper(format)
	}
}

func formatExt(format string) string {
	switch normalizeDriver(format) {
	case "JPEG":
		return ".jpg"
	case gtiffDriver:
		return ".tif"
	default:
		return "." + strings.ToLower(format)
	}
}
