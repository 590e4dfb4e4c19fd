package images

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestManagerUploadWritesEverySize(t *testing.T) {
	root := t.TempDir()
	m := NewManager(NewLocalStore(root), "data/uploads/module/news/posts", "/static", 75,
		Dimension{Width: 300, Height: 300}, Dimension{Width: 30, Height: 30})

	require.NoError(t, m.Upload(context.Background(), 7, "cover.png", samplePNG(t, 400, 200)))

	for _, size := range []string{"original", "300x300", "30x30"} {
		p := filepath.Join(root, "data/uploads/module/news/posts/7", size, "cover.png")
		_, err := os.Stat(p)
		assert.NoError(t, err, size)
	}

	f, err := os.Open(filepath.Join(root, "data/uploads/module/news/posts/7/30x30/cover.png"))
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, 30)
	assert.LessOrEqual(t, cfg.Height, 30)
}

func TestManagerDelete(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	m := NewManager(NewLocalStore(root), "gallery", "", 75, Dimension{Width: 40, Height: 40})

	require.NoError(t, m.Upload(ctx, 3, "a.png", samplePNG(t, 50, 50)))
	require.NoError(t, m.Upload(ctx, 3, "b.png", samplePNG(t, 50, 50)))

	require.NoError(t, m.Delete(ctx, 3, "a.png"))
	_, err := os.Stat(filepath.Join(root, "gallery/3/original/a.png"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "gallery/3/original/b.png"))
	assert.NoError(t, err)

	// missing files are not an error
	require.NoError(t, m.Delete(ctx, 3, "a.png"))

	require.NoError(t, m.Delete(ctx, 3, ""))
	_, err = os.Stat(filepath.Join(root, "gallery/3"))
	assert.True(t, os.IsNotExist(err))
}

func TestManagerListIDs(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	m := NewManager(NewLocalStore(root), "posts", "", 75)

	ids, err := m.ListIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, m.Upload(ctx, 1, "x.png", samplePNG(t, 10, 10)))
	require.NoError(t, m.Upload(ctx, 12, "x.png", samplePNG(t, 10, 10)))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "posts", "tmp"), 0o755))

	ids, err = m.ListIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 12}, ids)
}

func TestManagerRejectsGarbage(t *testing.T) {
	m := NewManager(NewLocalStore(t.TempDir()), "posts", "", 75)
	err := m.Upload(context.Background(), 1, "x.png", []byte("not an image"))
	assert.True(t, errors.Is(err, ErrUnsupportedImage))
}

func TestManagerWriteFailureIsIOError(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "posts")
	require.NoError(t, os.WriteFile(blocker, []byte("file, not dir"), 0o644))

	m := NewManager(NewLocalStore(root), "posts", "", 75)
	err := m.Upload(context.Background(), 1, "x.png", samplePNG(t, 10, 10))

	var ioe *ImageIOError
	require.True(t, errors.As(err, &ioe))
	assert.Equal(t, "mkdir", ioe.Op)
}

func TestBagAndSafeName(t *testing.T) {
	m := NewManager(NewLocalStore(""), "posts", "https://cdn.example.com/", 75, Dimension{Width: 30, Height: 30})
	b := m.Bag(5, "c.jpg")
	assert.Equal(t, "https://cdn.example.com/posts/5/original/c.jpg", b.URL(OriginalDir))
	assert.Equal(t, "https://cdn.example.com/posts/5/30x30/c.jpg", b.URL("30x30"))
	assert.True(t, m.Bag(5, "").Empty())

	name := SafeName("My Photo (1).JPG")
	assert.True(t, strings.HasPrefix(name, "my_photo_1-"), name)
	assert.True(t, strings.HasSuffix(name, ".jpg"), name)
	assert.NotEqual(t, name, SafeName("My Photo (1).JPG"))
	assert.True(t, AllowedExtension(name))
	assert.False(t, AllowedExtension("evil.php"))
}

func TestManagerDeleteCoversOldSizes(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	store := NewLocalStore(root)

	before := NewManager(store, "posts", "", 75, Dimension{Width: 20, Height: 20})
	require.NoError(t, before.Upload(ctx, 9, "c.png", samplePNG(t, 40, 40)))

	after := NewManager(store, "posts", "", 75, Dimension{Width: 10, Height: 10}, Dimension{Width: 10, Height: 10})
	assert.Len(t, after.Dimensions(), 1)
	require.NoError(t, after.Delete(ctx, 9, "c.png"))

	_, err := os.Stat(filepath.Join(root, "posts/9/20x20/c.png"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "posts/9/original/c.png"))
	assert.True(t, os.IsNotExist(err))
}
