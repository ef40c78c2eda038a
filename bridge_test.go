package gorast_test

import (
	"testing"

	"github.com/geomys/gorast"
	"github.com/geomys/gorast/memdrv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(t *testing.T, opts ...memdrv.Option) *memdrv.Engine {
	t.Helper()
	eng := memdrv.New(opts...)
	gorast.RegisterEngine(eng)
	return eng
}

func fillPix(r *gorast.Raster) {
	switch pix := r.Pix.(type) {
	case []uint8:
		for i := range pix {
			pix[i] = uint8(i * 3)
		}
	case []int16:
		for i := range pix {
			pix[i] = int16(i*7 - 1000)
		}
	case []uint16:
		for i := range pix {
			pix[i] = uint16(i * 7)
		}
	case []int32:
		for i := range pix {
			pix[i] = int32(i*131 - 70000)
		}
	case []float32:
		for i := range pix {
			pix[i] = float32(i) * 0.5
		}
	case []float64:
		for i := range pix {
			pix[i] = float64(i) * 0.25
		}
	}
}

func TestRasterRoundTrip(t *testing.T) {
	testEngine(t)
	types := []gorast.PixelType{
		gorast.PixelByte, gorast.PixelInt16, gorast.PixelUInt16,
		gorast.PixelInt32, gorast.PixelFloat32, gorast.PixelFloat64,
	}
	for _, pt := range types {
		for _, nbands := range []int{1, 3, 4} {
			r, err := gorast.NewRaster(16, 8, nbands, pt)
			require.NoError(t, err)
			fillPix(r)
			ds, err := gorast.FromRaster(r)
			require.NoError(t, err, "%s x%d", pt, nbands)
			st := ds.Structure()
			assert.Equal(t, 16, st.SizeX)
			assert.Equal(t, 8, st.SizeY)
			assert.Equal(t, nbands, st.NBands)
			assert.Equal(t, pt.DataType(), st.DataType)
			back, err := ds.Raster()
			require.NoError(t, err)
			assert.Equal(t, r.Pix, back.Pix, "%s x%d", pt, nbands)
			assert.NoError(t, ds.Close())
		}
	}
}

func TestChunkedCopyEquivalence(t *testing.T) {
	testEngine(t)
	r, err := gorast.NewRaster(32, 25, 3, gorast.PixelUInt16)
	require.NoError(t, err)
	fillPix(r)

	bulk, err := gorast.FromRaster(r)
	require.NoError(t, err)
	defer bulk.Close()
	bulkRaster, err := bulk.Raster()
	require.NoError(t, err)

	// force every image over the threshold onto the row-by-row path
	restore := gorast.SetBulkCopyThreshold(1)
	defer restore()
	chunked, err := gorast.FromRaster(r)
	require.NoError(t, err)
	defer chunked.Close()
	chunkedRaster, err := chunked.Raster()
	require.NoError(t, err)

	assert.Equal(t, bulkRaster.Pix, chunkedRaster.Pix)
}

func TestFromRasterNoData(t *testing.T) {
	testEngine(t)
	r, err := gorast.NewRaster(8, 8, 3, gorast.PixelFloat64)
	require.NoError(t, err)
	pix := r.Pix.([]float64)
	for i := range pix {
		pix[i] = 42.5
	}
	pix[10] = -9999

	ds, err := gorast.FromRaster(r, gorast.NoData(-9999))
	require.NoError(t, err)
	defer ds.Close()

	for b := 1; b <= 3; b++ {
		nd, ok := ds.NoData(b)
		assert.True(t, ok, "band %d has no nodata", b)
		assert.Equal(t, -9999.0, nd)
	}
	back, err := ds.Raster()
	require.NoError(t, err)
	// pixels equal to the sentinel in the source are not altered
	assert.Equal(t, pix, back.Pix)
}

func TestFromRasterUnsupportedType(t *testing.T) {
	testEngine(t)
	r := &gorast.Raster{Width: 4, Height: 4, NBands: 1, PixelType: gorast.PixelUndefined, Pix: make([]uint8, 16)}
	_, err := gorast.FromRaster(r)
	var uerr *gorast.UnsupportedPixelTypeError
	assert.ErrorAs(t, err, &uerr)

	// a buffer kind outside the six supported ones is refused up front
	r = &gorast.Raster{Width: 4, Height: 4, NBands: 1, PixelType: gorast.PixelInt32, Pix: make([]complex64, 16)}
	_, err = gorast.FromRaster(r)
	assert.ErrorAs(t, err, &uerr)
}

func TestRasterShapeMismatch(t *testing.T) {
	testEngine(t)
	r := &gorast.Raster{Width: 4, Height: 4, NBands: 2, PixelType: gorast.PixelByte, Pix: make([]uint8, 16)}
	_, err := gorast.FromRaster(r)
	assert.Error(t, err)
}

func TestNoEngine(t *testing.T) {
	gorast.RegisterEngine(nil)
	defer testEngine(t)
	r, err := gorast.NewRaster(2, 2, 1, gorast.PixelByte)
	require.NoError(t, err)
	_, err = gorast.FromRaster(r)
	assert.ErrorIs(t, err, gorast.ErrNoEngine)
}
