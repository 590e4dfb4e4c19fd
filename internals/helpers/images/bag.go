package images

// Bag maps a size directory ("original", "300x300", ...) to a public URL.
type Bag map[string]string

func (b Bag) URL(size string) string {
	if b == nil {
		return ""
	}
	return b[size]
}

func (b Bag) Empty() bool { return len(b) == 0 }
