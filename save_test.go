package gorast_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/geomys/gorast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRaster(t *testing.T, width, height, nbands int) *gorast.Raster {
	t.Helper()
	r, err := gorast.NewRaster(width, height, nbands, gorast.PixelByte)
	require.NoError(t, err)
	pix := r.Pix.([]uint8)
	for i := range pix {
		pix[i] = 7
	}
	return r
}

func TestSaveFormatAliases(t *testing.T) {
	eng := testEngine(t)
	ds, err := gorast.FromRaster(testRaster(t, 16, 16, 1))
	require.NoError(t, err)
	defer ds.Close()
	tmpdir := t.TempDir()

	var tifCreation []string
	for i, format := range []string{"tif", "tiff", "geotif", "geotiff", "gtif", "gtiff", "TIFF"} {
		out := filepath.Join(tmpdir, format+".out")
		require.NoError(t, gorast.Save(ds, out, format))
		rec := eng.LastCopy()
		assert.Equal(t, "GTiff", rec.Driver, format)
		assert.Equal(t, out, rec.Name)
		if i == 0 {
			tifCreation = rec.Creation
		} else {
			// every tiff alias produces the byte-identical option list
			assert.Equal(t, tifCreation, rec.Creation, format)
		}
	}
	assert.Contains(t, tifCreation, "INTERLEAVE=BAND")
	assert.Contains(t, tifCreation, "COMPRESS=DEFLATE")
	assert.Contains(t, tifCreation, "ZLEVEL=6")
	assert.Contains(t, tifCreation, "PREDICTOR=1")
	assert.Contains(t, tifCreation, "TILED=YES")
	assert.Contains(t, tifCreation, "BLOCKXSIZE=16")
	assert.Contains(t, tifCreation, "BLOCKYSIZE=16")

	for _, format := range []string{"jpg", "jpeg", "JPG"} {
		out := filepath.Join(tmpdir, format+".out")
		require.NoError(t, gorast.Save(ds, out, format))
		rec := eng.LastCopy()
		assert.Equal(t, "JPEG", rec.Driver, format)
		// non-tiff drivers get no default creation options
		assert.Empty(t, rec.Creation, format)
	}
}

func TestSaveBlockSizeClamped(t *testing.T) {
	eng := testEngine(t)
	ds, err := gorast.FromRaster(testRaster(t, 4096, 1024, 1))
	require.NoError(t, err)
	defer ds.Close()

	out := filepath.Join(t.TempDir(), "big.tif")
	require.NoError(t, gorast.Save(ds, out, "tif"))
	rec := eng.LastCopy()
	assert.Contains(t, rec.Creation, "BLOCKXSIZE=2048")
	assert.Contains(t, rec.Creation, "BLOCKYSIZE=1024")
}

func TestSaveCreationOptionsPrecedeDefaults(t *testing.T) {
	eng := testEngine(t)
	ds, err := gorast.FromRaster(testRaster(t, 8, 8, 1))
	require.NoError(t, err)
	defer ds.Close()

	out := filepath.Join(t.TempDir(), "opt.tif")
	require.NoError(t, gorast.Save(ds, out, "tif", gorast.CreationOption("BIGTIFF=YES")))
	rec := eng.LastCopy()
	require.NotEmpty(t, rec.Creation)
	assert.Equal(t, "BIGTIFF=YES", rec.Creation[0])
	assert.Contains(t, rec.Creation, "COMPRESS=DEFLATE")
}

func TestSaveUnknownFormat(t *testing.T) {
	testEngine(t)
	ds, err := gorast.FromRaster(testRaster(t, 8, 8, 1))
	require.NoError(t, err)
	defer ds.Close()

	err = gorast.Save(ds, filepath.Join(t.TempDir(), "out.xyz"), "xyz")
	var werr *gorast.RasterWriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, "XYZ", werr.Driver)
}

func TestSaveAuxMetadataSuppressed(t *testing.T) {
	eng := testEngine(t)
	eng.SetConfigOption("GDAL_PAM_ENABLED", "YES")
	ds, err := gorast.FromRaster(testRaster(t, 8, 8, 1))
	require.NoError(t, err)
	defer ds.Close()

	out := filepath.Join(t.TempDir(), "clean.tif")
	require.NoError(t, gorast.Save(ds, out, "tif"))

	_, serr := os.Stat(out + ".aux.xml")
	assert.True(t, os.IsNotExist(serr), "side file must not be written during save")
	// the pre-existing option value survives the save
	assert.Equal(t, "YES", eng.ConfigOption("GDAL_PAM_ENABLED"))
}

func TestSaveReopenRoundTrip(t *testing.T) {
	testEngine(t)
	r := testRaster(t, 256, 256, 3)
	ds, err := gorast.FromRaster(r)
	require.NoError(t, err)
	defer ds.Close()

	out := filepath.Join(t.TempDir(), "scene.tif")
	bounds := gorast.Bounds{-10, 40, 10, 60}
	require.NoError(t, gorast.Save(ds, out, "geotiff", gorast.WithBounds(bounds), gorast.NoData(0)))

	back, err := gorast.Open(out)
	require.NoError(t, err)
	require.NotNil(t, back)
	defer back.Close()

	st := back.Structure()
	assert.Equal(t, 256, st.SizeX)
	assert.Equal(t, 256, st.SizeY)
	assert.Equal(t, 3, st.NBands)
	assert.Equal(t, gorast.Byte, st.DataType)

	gt, err := back.GeoTransform()
	require.NoError(t, err)
	assert.Equal(t, [6]float64{-10, 20.0 / 256, 0, 60, 0, -20.0 / 256}, gt)
	assert.Equal(t, gorast.WGS84, back.Projection())

	nd, ok := back.NoData(2)
	assert.True(t, ok)
	assert.Equal(t, 0.0, nd)

	rr, err := back.Raster()
	require.NoError(t, err)
	assert.Equal(t, r.Pix, rr.Pix)
}

func TestSaveStream(t *testing.T) {
	testEngine(t)
	r := testRaster(t, 32, 32, 1)
	ds, err := gorast.FromRaster(r)
	require.NoError(t, err)
	defer ds.Close()

	var buf bytes.Buffer
	require.NoError(t, gorast.SaveStream(ds, &buf, "tif"))
	require.NotZero(t, buf.Len())

	// the streamed bytes are a complete image, re-openable as-is
	back, err := gorast.OpenBytes(buf.Bytes())
	require.NoError(t, err)
	require.NotNil(t, back)
	defer back.Close()
	rr, err := back.Raster()
	require.NoError(t, err)
	assert.Equal(t, r.Pix, rr.Pix)

	// no gorast temp files survive the call
	matches, _ := filepath.Glob(filepath.Join(os.TempDir(), "gorast-*"))
	assert.Empty(t, matches)
}

func TestSaveTile(t *testing.T) {
	testEngine(t)
	ds, err := gorast.FromRaster(testRaster(t, 512, 512, 1))
	require.NoError(t, err)
	defer ds.Close()

	out := filepath.Join(t.TempDir(), "tile.tif")
	// TileSize 0 takes the tile size from the dataset width
	tile := gorast.TileCoordinate{Col: 0, Row: 0, Zoom: 1}
	require.NoError(t, gorast.SaveTile(ds, out, "tif", tile))

	back, err := gorast.Open(out)
	require.NoError(t, err)
	defer back.Close()
	b, err := back.Bounds(gorast.WGS84)
	require.NoError(t, err)
	assert.InDelta(t, -180, b.MinX(), 1e-9)
	assert.InDelta(t, -90, b.MinY(), 1e-9)
	assert.InDelta(t, 0, b.MaxX(), 1e-9)
	assert.InDelta(t, 90, b.MaxY(), 1e-9)
}
