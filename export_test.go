package gorast

// SetBulkCopyThreshold lowers the row-by-row copy threshold so that the
// chunked path can be exercised on small rasters. It returns a func
// restoring the previous value.
func SetBulkCopyThreshold(n int64) (restore func()) {
	old := bulkCopyThreshold
	bulkCopyThreshold = n
	return func() { bulkCopyThreshold = old }
}
