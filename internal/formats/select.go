package formats

import "slices"

// Select returns the encodings worth offering for download, highest
// resolution first. An encoding is kept when it has a video stream, uses the
// target container, reports a height and reports a size. Equal heights keep
// their original relative order. The input is not modified.
func Select(md Metadata) []Encoding {
	selected := make([]Encoding, 0, len(md.Formats))
	for _, enc := range md.Formats {
		if selectable(enc) {
			selected = append(selected, enc)
		}
	}

	slices.SortStableFunc(selected, func(a, b Encoding) int {
		return *b.Height - *a.Height
	})
	return selected
}

func selectable(enc Encoding) bool {
	return enc.HasVideo() &&
		enc.Ext == TargetContainer &&
		enc.Height != nil &&
		enc.Size() > 0
}
