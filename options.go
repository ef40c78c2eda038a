package gorast

type fromRasterOpts struct {
	nodata *float64
}

// FromRasterOption is an option that can be passed to FromRaster()
//
// Available FromRasterOptions are:
//
// • NoData
type FromRasterOption interface {
	setFromRasterOpt(fro *fromRasterOpts)
}

type saveOpts struct {
	bounds   *Bounds
	nodata   *float64
	creation []string
}

// SaveOption is an option that can be passed to Save(), SaveStream(),
// SaveTile() and SaveTileStream()
//
// Available SaveOptions are:
//
// • NoData
//
// • WithBounds
//
// • CreationOption
type SaveOption interface {
	setSaveOpt(so *saveOpts)
}

type nodataOpt struct {
	nodata float64
}

// NoData sets nd as the nodata sentinel of every band. When passed to
// FromRaster, each band is additionally filled with nd before the pixel
// copy so that unwritten areas read back as nodata.
func NoData(nd float64) interface {
	FromRasterOption
	SaveOption
} {
	return nodataOpt{nodata: nd}
}

func (n nodataOpt) setFromRasterOpt(fro *fromRasterOpts) {
	fro.nodata = &n.nodata
}

func (n nodataOpt) setSaveOpt(so *saveOpts) {
	so.nodata = &n.nodata
}

type boundsOpt struct {
	bounds Bounds
}

// WithBounds assigns the dataset's geotransform from b before persisting:
// the origin is placed at the northwest corner and the pixel size is the
// bounds extent divided by the raster size. The dataset projection is set
// to WGS84.
func WithBounds(b Bounds) interface {
	SaveOption
} {
	return boundsOpt{bounds: b}
}

func (b boundsOpt) setSaveOpt(so *saveOpts) {
	bb := b.bounds
	so.bounds = &bb
}

type creationOpts struct {
	creation []string
}

// CreationOption are options to pass to a driver when creating the output
// dataset, in a "KEY=value" format
func CreationOption(opts ...string) interface {
	SaveOption
} {
	return creationOpts{creation: opts}
}

func (co creationOpts) setSaveOpt(so *saveOpts) {
	so.creation = append(so.creation, co.creation...)
}
