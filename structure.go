package gorast

// DatasetStructure describes the shape of a dataset: its pixel dimensions,
// band count and the (uniform) data type of its bands.
type DatasetStructure struct {
	SizeX, SizeY int
	NBands       int
	DataType     DataType
}

// ImageSizeBytes returns the byte size of the full interleaved image as a
// 64 bit quantity, so that rasters larger than 2GiB do not overflow.
func (ds DatasetStructure) ImageSizeBytes() int64 {
	return int64(ds.DataType.Size()) * int64(ds.NBands) * int64(ds.SizeX) * int64(ds.SizeY)
}
