package images

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const OriginalDir = "original"

type Dimension struct {
	Width  int
	Height int
}

func (d Dimension) Dir() string { return fmt.Sprintf("%dx%d", d.Width, d.Height) }

// File is an uploaded image held in memory.
type File struct {
	Name string
	Data []byte
}

const MaxUploadSize = 10 << 20

func FileFromHeader(fh *multipart.FileHeader) (*File, error) {
	if fh == nil {
		return nil, nil
	}
	if fh.Size > MaxUploadSize {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrUnsupportedImage, fh.Filename, MaxUploadSize)
	}
	if !AllowedExtension(fh.Filename) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, fh.Filename)
	}
	src, err := fh.Open()
	if err != nil {
		return nil, ioErr("open", fh.Filename, err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, ioErr("read", fh.Filename, err)
	}
	return &File{Name: fh.Filename, Data: data}, nil
}

var reUnsafeName = regexp.MustCompile(`[^a-zA-Z0-9\-_]+`)

// SafeName turns a client file name into a unique storage name.
func SafeName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = strings.Trim(reUnsafeName.ReplaceAllString(base, "_"), "_")
	if base == "" {
		base = "image"
	}
	if len(base) > 64 {
		base = base[:64]
	}
	return fmt.Sprintf("%s-%s%s", strings.ToLower(base), uuid.NewString()[:8], ext)
}

// Manager stores an image under <base>/<id>/<size>/<name> for the original
// and every configured dimension.
type Manager struct {
	store   Store
	base    string
	rootURL string
	quality int
	dims    []Dimension
}

func NewManager(store Store, base, rootURL string, quality int, dims ...Dimension) *Manager {
	if quality <= 0 || quality > 100 {
		quality = 75
	}
	uniq := make([]Dimension, 0, len(dims))
	seen := map[Dimension]bool{}
	for _, d := range dims {
		if d.Width <= 0 || d.Height <= 0 || seen[d] {
			continue
		}
		seen[d] = true
		uniq = append(uniq, d)
	}
	return &Manager{
		store:   store,
		base:    strings.Trim(base, "/"),
		rootURL: strings.TrimRight(rootURL, "/"),
		quality: quality,
		dims:    uniq,
	}
}

func (m *Manager) Dimensions() []Dimension { return m.dims }

func (m *Manager) SizeDirs() []string {
	out := []string{OriginalDir}
	for _, d := range m.dims {
		out = append(out, d.Dir())
	}
	return out
}

func (m *Manager) dir(id uint) string {
	return path.Join(m.base, strconv.FormatUint(uint64(id), 10))
}

func (m *Manager) key(id uint, size, name string) string {
	return path.Join(m.dir(id), size, name)
}

// Upload writes the original and a resized copy per dimension.
func (m *Manager) Upload(ctx context.Context, id uint, name string, data []byte) error {
	img, err := decode(data, name)
	if err != nil {
		return err
	}
	ct := contentTypeOf(name)
	if err := m.store.Put(ctx, m.key(id, OriginalDir, name), data, ct); err != nil {
		return err
	}
	for _, d := range m.dims {
		resized := imaging.Fit(img, d.Width, d.Height, imaging.Lanczos)
		out, err := encode(resized, name, m.quality)
		if err != nil {
			return ioErr("encode", m.key(id, d.Dir(), name), err)
		}
		if err := m.store.Put(ctx, m.key(id, d.Dir(), name), out, ct); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes one image from every size folder present for id, or the
// whole id folder when name is empty. Size folders left over from older
// dimension settings are included.
func (m *Manager) Delete(ctx context.Context, id uint, name string) error {
	if name == "" {
		return m.store.DeletePrefix(ctx, m.dir(id))
	}
	dirs, err := m.store.ListDirs(ctx, m.dir(id))
	if err != nil {
		return err
	}
	for _, size := range dirs {
		if err := m.store.Delete(ctx, m.key(id, size, name)); err != nil {
			return err
		}
	}
	return nil
}

// ListIDs returns every numeric id folder found under the base path.
func (m *Manager) ListIDs(ctx context.Context) ([]uint, error) {
	dirs, err := m.store.ListDirs(ctx, m.base)
	if err != nil {
		return nil, err
	}
	out := make([]uint, 0, len(dirs))
	for _, d := range dirs {
		n, err := strconv.ParseUint(d, 10, 64)
		if err != nil || n == 0 {
			continue
		}
		out = append(out, uint(n))
	}
	return out, nil
}

func (m *Manager) URL(id uint, size, name string) string {
	if name == "" {
		return ""
	}
	return m.rootURL + "/" + m.key(id, size, name)
}

func (m *Manager) Bag(id uint, name string) Bag {
	b := Bag{}
	if name == "" {
		return b
	}
	for _, size := range m.SizeDirs() {
		b[size] = m.URL(id, size, name)
	}
	return b
}
