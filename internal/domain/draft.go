package domain

// Image is a selected attachment as declared by its source.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size is the payload length in bytes.
func (i Image) Size() int64 {
	return int64(len(i.Data))
}

// Draft is the transient state of an open composer.
type Draft struct {
	Content string
	Image   *Image
	// Preview is a local reference to the selected image, empty when none.
	Preview string
}

func (d Draft) HasImage() bool {
	return d.Image != nil
}
