package scheduler_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	galleryService "newsroom_backend/internals/features/news/galleries/service"
	"newsroom_backend/internals/features/news/newstest"
	postService "newsroom_backend/internals/features/news/posts/service"
	"newsroom_backend/internals/helpers/images"
)

func orphanDir(t *testing.T, root, base string, id uint) string {
	t.Helper()
	dir := filepath.Join(root, base, strconv.FormatUint(uint64(id), 10))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "original"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "original", "x.png"), []byte("x"), 0o644))
	return dir
}

func TestSweepRemovesOnlyOrphans(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	cat := env.Category(t, "Tech")

	in := env.PostInput(cat, "Launch")
	id, err := env.Posts.Add(ctx, in, &images.File{Name: "cover.png", Data: newstest.PNG(t, 40, 40)})
	require.NoError(t, err)
	g, err := env.Galleries.Add(ctx, id, nil, &images.File{Name: "shot.png", Data: newstest.PNG(t, 40, 40)})
	require.NoError(t, err)

	postOrphan := orphanDir(t, env.UploadDir, postService.ImagePath, 777)
	galleryOrphan := orphanDir(t, env.UploadDir, galleryService.ImagePath, 888)

	removed, err := env.Reaper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	assert.NoDirExists(t, postOrphan)
	assert.NoDirExists(t, galleryOrphan)
	assert.DirExists(t, filepath.Join(env.UploadDir, postService.ImagePath, strconv.FormatUint(uint64(id), 10)))
	assert.DirExists(t, filepath.Join(env.UploadDir, galleryService.ImagePath, strconv.FormatUint(uint64(g.GalleryID), 10)))

	removed, err = env.Reaper.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestSweepDryRunKeepsFolders(t *testing.T) {
	env := newstest.New(t)
	dir := orphanDir(t, env.UploadDir, postService.ImagePath, 5)

	env.Reaper.DryRun = true
	removed, err := env.Reaper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.DirExists(t, dir)
}

func TestStartSchedule(t *testing.T) {
	env := newstest.New(t)

	c, err := env.Reaper.Start("")
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = env.Reaper.Start("not a schedule")
	assert.Error(t, err)

	c, err = env.Reaper.Start("@every 1h")
	require.NoError(t, err)
	require.NotNil(t, c)
	c.Stop()
}
