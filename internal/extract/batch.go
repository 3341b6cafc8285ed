package extract

// Partition splits units into consecutive batches of at most size; the last
// batch may be smaller. Batch order mirrors unit order, which downstream
// provenance depends on.
func Partition(units []string, size int) [][]string {
	if size <= 0 {
		size = 1
	}
	var batches [][]string
	for start := 0; start < len(units); start += size {
		end := start + size
		if end > len(units) {
			end = len(units)
		}
		batches = append(batches, units[start:end])
	}
	return batches
}
