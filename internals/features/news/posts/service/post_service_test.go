package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"newsroom_backend/internals/features/news/newstest"
	"newsroom_backend/internals/features/news/posts/dto"
	"newsroom_backend/internals/features/news/posts/model"
	"newsroom_backend/internals/features/news/posts/repository"
	"newsroom_backend/internals/features/news/posts/service"
	"newsroom_backend/internals/helpers/images"
)

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func pinClock(env *newstest.Env, at time.Time) {
	env.Posts.Repository().Now = func() time.Time { return at }
}

func TestAddFetchRoundTripDefaultsSlugAndTitle(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	cat := env.Category(t, "Tech")

	id := env.Post(t, cat, "Launch")

	post, err := env.Posts.FetchByID(ctx, env.EnID, id, false)
	require.NoError(t, err)
	assert.Equal(t, "Launch", post.Name)
	assert.Equal(t, "Launch", post.Title)
	assert.Equal(t, "launch", post.Slug)
	assert.Equal(t, "/launch", post.URL)
	assert.Equal(t, "/module/news/post/"+itoa(id), post.PermanentURL)
	assert.Equal(t, "Tech", post.CategoryName)
	assert.Equal(t, int64(0), post.Views)
	assert.True(t, post.Images.Empty())

	inID, err := env.Posts.FetchByID(ctx, env.IdID, id, false)
	require.NoError(t, err)
	assert.Equal(t, "/id/launch", inID.URL)

	trs, err := env.Posts.FetchTranslations(ctx, id)
	require.NoError(t, err)
	require.Len(t, trs, 2)
	assert.Equal(t, env.EnID, trs[0].LangID)
	assert.Equal(t, "<p>Launch</p>", trs[0].Full)

	urls, err := env.Posts.GetSwitchURLs(ctx, id)
	require.NoError(t, err)
	require.Len(t, urls, 2)
	assert.Equal(t, "/launch", urls[0].URL)
	assert.Equal(t, "/id/launch", urls[1].URL)
}

func TestAddSanitizesPlainFields(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	cat := env.Category(t, "Tech")

	in := env.PostInput(cat, "<b>Bold</b> news")
	in.Translations[0].Full = `<p onclick="x()">safe</p><script>alert(1)</script>`
	id, err := env.Posts.Add(ctx, in, nil)
	require.NoError(t, err)

	post, err := env.Posts.FetchByID(ctx, env.EnID, id, false)
	require.NoError(t, err)
	assert.Equal(t, "Bold news", post.Name)
	assert.Equal(t, "<p>safe</p>", post.Full)
}

func TestAddFetchRoundTripKeepsPunctuation(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	cat := env.Category(t, "Tech & Science")

	name := `Tom & Jerry's "Launch"`
	id := env.Post(t, cat, name)

	post, err := env.Posts.FetchByID(ctx, env.EnID, id, false)
	require.NoError(t, err)
	assert.Equal(t, name, post.Name)
	assert.Equal(t, name, post.Title)
	assert.Equal(t, "Tech & Science", post.CategoryName)

	crumbs, err := env.Posts.GetBreadcrumbs(ctx, post)
	require.NoError(t, err)
	require.Len(t, crumbs, 2)
	assert.Equal(t, "Tech & Science", crumbs[0].Name)
	assert.Equal(t, name, crumbs[1].Name)

	categories, err := env.Categories.FetchAll(ctx, env.EnID)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Tech & Science", categories[0].Name)
}

func TestAddRejectsBadInput(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	cat := env.Category(t, "Tech")

	_, err := env.Posts.Add(ctx, env.PostInput(cat+100, "Orphan"), nil)
	assert.ErrorIs(t, err, service.ErrCategoryRequired)

	in := env.PostInput(cat, "Half")
	in.Translations = in.Translations[:1]
	_, err = env.Posts.Add(ctx, in, nil)
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "translations")

	in = env.PostInput(cat, "Linked")
	in.Attached = []uint{999}
	_, err = env.Posts.Add(ctx, in, nil)
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "attached")

	var n int64
	require.NoError(t, env.DB.Model(&model.PostModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestPublishedListingsSkipHiddenAndFuturePosts(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	pinClock(env, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	cat := env.Category(t, "Tech")

	visible := env.Post(t, cat, "Visible")

	hidden := env.PostInput(cat, "Hidden")
	hidden.Published = false
	_, err := env.Posts.Add(ctx, hidden, nil)
	require.NoError(t, err)

	future := env.PostInput(cat, "Future")
	future.Date = "12/31/2099"
	_, err = env.Posts.Add(ctx, future, nil)
	require.NoError(t, err)

	list, total, err := env.Posts.FetchAllByPage(ctx, env.EnID, repository.ListParams{Published: true, Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, visible, list[0].ID)

	recent, err := env.Posts.FetchRecent(ctx, env.EnID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	random, err := env.Posts.FetchRandomPublished(ctx, env.EnID, 10, cat)
	require.NoError(t, err)
	assert.Len(t, random, 1)

	found, n, err := env.Posts.Search(ctx, env.EnID, "e", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.Len(t, found, 1)
	assert.Equal(t, visible, found[0].ID)

	all, total, err := env.Posts.FetchAllByPage(ctx, env.EnID, repository.ListParams{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)
}

func TestSearchMatchesNameAndFullText(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	cat := env.Category(t, "Tech")

	env.Post(t, cat, "Rocket launch")
	in := env.PostInput(cat, "Weather")
	in.Translations[0].Full = "<p>Rain near the rocket site</p>"
	_, err := env.Posts.Add(ctx, in, nil)
	require.NoError(t, err)
	env.Post(t, cat, "Sports")

	found, total, err := env.Posts.Search(ctx, env.EnID, "ROCKET", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, found, 2)

	found, total, err = env.Posts.Search(ctx, env.EnID, "100%", 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, found)
}

func TestFindSequentialEdges(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	cat := env.Category(t, "Tech")

	first := env.Post(t, cat, "First")
	middle := env.Post(t, cat, "Middle")
	last := env.Post(t, cat, "Last")

	seq, err := env.Posts.FindSequential(ctx, env.EnID, first, false)
	require.NoError(t, err)
	assert.Nil(t, seq.Previous)
	require.NotNil(t, seq.Next)
	assert.Equal(t, middle, seq.Next.ID)

	seq, err = env.Posts.FindSequential(ctx, env.EnID, middle, false)
	require.NoError(t, err)
	require.NotNil(t, seq.Previous)
	require.NotNil(t, seq.Next)
	assert.Equal(t, first, seq.Previous.ID)
	assert.Equal(t, last, seq.Next.ID)

	seq, err = env.Posts.FindSequential(ctx, env.EnID, last, false)
	require.NoError(t, err)
	assert.Nil(t, seq.Next)
	assert.Equal(t, middle, seq.Previous.ID)

	require.NoError(t, env.Posts.UpdateSettings(ctx, []service.SettingsUpdate{
		{ID: middle, Columns: map[string]bool{"published": false}},
	}))
	seq, err = env.Posts.FindSequential(ctx, env.EnID, first, true)
	require.NoError(t, err)
	require.NotNil(t, seq.Next)
	assert.Equal(t, last, seq.Next.ID)
}

func TestUpdateReplacesAttachedSet(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	cat := env.Category(t, "Tech")

	a := env.Post(t, cat, "A")
	b := env.Post(t, cat, "B")

	in := env.PostInput(cat, "Main")
	in.Attached = []uint{a, b, a}
	main, err := env.Posts.Add(ctx, in, nil)
	require.NoError(t, err)

	post, err := env.Posts.FetchByID(ctx, env.EnID, main, true)
	require.NoError(t, err)
	assert.Equal(t, []uint{a, b}, post.AttachedIDs)
	assert.Len(t, post.AttachedPosts, 2)

	in.ID = main
	in.Attached = []uint{main, b}
	require.NoError(t, env.Posts.Update(ctx, in, nil))
	post, err = env.Posts.FetchByID(ctx, env.EnID, main, false)
	require.NoError(t, err)
	assert.Equal(t, []uint{b}, post.AttachedIDs)

	in.Attached = nil
	require.NoError(t, env.Posts.Update(ctx, in, nil))
	var n int64
	require.NoError(t, env.DB.Model(&model.PostAttachedModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpdateRenamesSlug(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	cat := env.Category(t, "Tech")
	env.Post(t, cat, "Taken")
	id := env.Post(t, cat, "Launch")

	in := env.PostInput(cat, "Launch")
	in.ID = id
	in.Translations[0].Slug = "taken"
	require.NoError(t, env.Posts.Update(ctx, in, nil))

	post, err := env.Posts.FetchByID(ctx, env.EnID, id, false)
	require.NoError(t, err)
	assert.Equal(t, "taken-2", post.Slug)

	in.ID = 999
	assert.ErrorIs(t, env.Posts.Update(ctx, in, nil), service.ErrNotFound)
}

func TestCoverUploadReplaceAndRemove(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	cat := env.Category(t, "Tech")

	in := env.PostInput(cat, "Pictured")
	id, err := env.Posts.Add(ctx, in, &images.File{Name: "Cover.PNG", Data: newstest.PNG(t, 60, 40)})
	require.NoError(t, err)

	post, err := env.Posts.FetchByID(ctx, env.EnID, id, false)
	require.NoError(t, err)
	require.NotEmpty(t, post.Cover)
	first := post.Cover
	dir := filepath.Join(env.UploadDir, service.ImagePath, itoa(id))
	for _, size := range []string{"original", "200x200", "300x300", "30x30"} {
		_, err := os.Stat(filepath.Join(dir, size, first))
		assert.NoError(t, err, size)
	}
	assert.Equal(t, "/static/"+service.ImagePath+"/"+itoa(id)+"/300x300/"+first, post.Images.URL("300x300"))

	in.ID = id
	require.NoError(t, env.Posts.Update(ctx, in, &images.File{Name: "next.png", Data: newstest.PNG(t, 20, 20)}))
	post, err = env.Posts.FetchByID(ctx, env.EnID, id, false)
	require.NoError(t, err)
	assert.NotEqual(t, first, post.Cover)
	_, err = os.Stat(filepath.Join(dir, "original", first))
	assert.True(t, os.IsNotExist(err))

	second := post.Cover
	in.RemoveCover = true
	require.NoError(t, env.Posts.Update(ctx, in, nil))
	post, err = env.Posts.FetchByID(ctx, env.EnID, id, false)
	require.NoError(t, err)
	assert.Empty(t, post.Cover)
	assert.True(t, post.Images.Empty())
	_, err = os.Stat(filepath.Join(dir, "original", second))
	assert.True(t, os.IsNotExist(err))
}

func TestFailedUpdateKeepsOldCover(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	cat := env.Category(t, "Tech")

	in := env.PostInput(cat, "Pictured")
	id, err := env.Posts.Add(ctx, in, &images.File{Name: "cover.png", Data: newstest.PNG(t, 40, 40)})
	require.NoError(t, err)
	post, err := env.Posts.FetchByID(ctx, env.EnID, id, false)
	require.NoError(t, err)
	old := post.Cover

	boom := errors.New("attached table unavailable")
	require.NoError(t, env.DB.Callback().Delete().Before("gorm:delete").
		Register("test:fail_attached", func(db *gorm.DB) {
			if db.Statement.Table == "news_post_attached" {
				_ = db.AddError(boom)
			}
		}))

	dir := filepath.Join(env.UploadDir, service.ImagePath, itoa(id), "original")
	in.ID = id
	err = env.Posts.Update(ctx, in, &images.File{Name: "next.png", Data: newstest.PNG(t, 20, 20)})
	require.ErrorIs(t, err, boom)

	post, err = env.Posts.FetchByID(ctx, env.EnID, id, false)
	require.NoError(t, err)
	assert.Equal(t, old, post.Cover)
	_, err = os.Stat(filepath.Join(dir, old))
	assert.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	in.RemoveCover = true
	err = env.Posts.Update(ctx, in, nil)
	require.ErrorIs(t, err, boom)
	_, err = os.Stat(filepath.Join(dir, old))
	assert.NoError(t, err)
}

func TestAddWithBrokenCoverRollsBack(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	cat := env.Category(t, "Tech")

	_, err := env.Posts.Add(ctx, env.PostInput(cat, "Broken"), &images.File{Name: "x.png", Data: []byte("nope")})
	assert.ErrorIs(t, err, images.ErrUnsupportedImage)

	var n int64
	require.NoError(t, env.DB.Model(&model.PostModel{}).Count(&n).Error)
	assert.Zero(t, n)
	_, err = env.WebPages.FetchBySlug(ctx, env.EnID, "broken")
	assert.Error(t, err)
}

func TestUpdateSettingsTogglesOnlyAllowedColumns(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	cat := env.Category(t, "Tech")
	id := env.Post(t, cat, "Toggle")
	require.NoError(t, env.Posts.IncrementViewCount(ctx, id))

	err := env.Posts.UpdateSettings(ctx, []service.SettingsUpdate{
		{ID: id, Columns: map[string]bool{"published": false}},
		{ID: id, Columns: map[string]bool{"views": true}},
	})
	assert.ErrorIs(t, err, service.ErrForbiddenColumn)
	before, err := env.Posts.Repository().FetchPost(ctx, id)
	require.NoError(t, err)
	assert.True(t, before.PostPublished)

	require.NoError(t, env.Posts.UpdateSettings(ctx, []service.SettingsUpdate{
		{ID: id, Columns: map[string]bool{"published": false, "front": false}},
	}))
	after, err := env.Posts.Repository().FetchPost(ctx, id)
	require.NoError(t, err)
	assert.False(t, after.PostPublished)
	assert.False(t, after.PostFront)
	assert.True(t, after.PostSeo)
	assert.Equal(t, before.PostViews, after.PostViews)
	assert.Equal(t, before.PostTimestamp, after.PostTimestamp)
	assert.Equal(t, before.PostCategoryID, after.PostCategoryID)

	err = env.Posts.UpdateSettings(ctx, []service.SettingsUpdate{
		{ID: 999, Columns: map[string]bool{"seo": false}},
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteByIDsIsAllOrNothing(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	cat := env.Category(t, "Tech")

	a, err := env.Posts.Add(ctx, env.PostInput(cat, "Alpha"), &images.File{Name: "a.png", Data: newstest.PNG(t, 10, 10)})
	require.NoError(t, err)
	in := env.PostInput(cat, "Beta")
	in.Attached = []uint{a}
	b, err := env.Posts.Add(ctx, in, nil)
	require.NoError(t, err)
	_, err = env.Galleries.Add(ctx, a, nil, &images.File{Name: "g.png", Data: newstest.PNG(t, 10, 10)})
	require.NoError(t, err)

	err = env.Posts.DeleteByIDs(ctx, []uint{a, 999})
	require.ErrorIs(t, err, service.ErrNotFound)
	assert.Contains(t, err.Error(), "#999")
	_, err = env.Posts.FetchByID(ctx, env.EnID, a, false)
	require.NoError(t, err)

	require.NoError(t, env.Posts.DeleteByIDs(ctx, []uint{a}))
	_, err = env.Posts.FetchByID(ctx, env.EnID, a, false)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = env.WebPages.FetchBySlug(ctx, env.EnID, "alpha")
	assert.Error(t, err)
	_, err = os.Stat(filepath.Join(env.UploadDir, service.ImagePath, itoa(a)))
	assert.True(t, os.IsNotExist(err))

	post, err := env.Posts.FetchByID(ctx, env.EnID, b, false)
	require.NoError(t, err)
	assert.Empty(t, post.AttachedIDs)
	gallery, err := env.Galleries.FetchAllByPostID(ctx, a)
	require.NoError(t, err)
	assert.Empty(t, gallery)
}

func postIDs(posts []dto.PostDTO) []uint {
	out := make([]uint, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestFetchMostlyViewedFilters(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	tech := env.Category(t, "Tech")
	sport := env.Category(t, "Sport")

	add := func(cat uint, name string, views int64, edit func(*dto.SavePostRequest)) uint {
		in := env.PostInput(cat, name)
		if edit != nil {
			edit(&in)
		}
		id, err := env.Posts.Add(ctx, in, nil)
		require.NoError(t, err)
		require.NoError(t, env.DB.Model(&model.PostModel{}).
			Where("post_id = ?", id).Update("post_views", views).Error)
		return id
	}
	visible := add(tech, "Visible", 5, nil)
	add(tech, "Hidden", 50, func(in *dto.SavePostRequest) { in.Published = false })
	add(tech, "Future", 50, func(in *dto.SavePostRequest) { in.Date = "01/01/2099" })
	back := add(tech, "Back page", 3, func(in *dto.SavePostRequest) { in.Front = false })
	other := add(sport, "Other", 4, nil)

	all, err := env.Posts.FetchMostlyViewed(ctx, env.EnID, 10, 0, false, false, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{visible, other, back}, postIDs(all))

	front, err := env.Posts.FetchMostlyViewed(ctx, env.EnID, 10, 0, false, true, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{visible, other}, postIDs(front))

	inSport, err := env.Posts.FetchMostlyViewed(ctx, env.EnID, 10, sport, false, false, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{other}, postIDs(inSport))

	above, err := env.Posts.FetchMostlyViewed(ctx, env.EnID, 10, 0, false, false, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint{visible}, postIDs(above))

	shuffled, err := env.Posts.FetchMostlyViewed(ctx, env.EnID, 10, tech, true, false, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{visible, back}, postIDs(shuffled))
}

func TestViewsAndPublicVisibility(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	cat := env.Category(t, "Tech")
	id := env.Post(t, cat, "Launch")

	require.NoError(t, env.Posts.IncrementViewCount(ctx, id))
	require.NoError(t, env.Posts.IncrementViewCount(ctx, id))
	post, err := env.Posts.FetchPublishedByID(ctx, env.EnID, id, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), post.Views)

	assert.ErrorIs(t, env.Posts.IncrementViewCount(ctx, 999), service.ErrNotFound)

	popular, err := env.Posts.FetchMostlyViewed(ctx, env.EnID, 5, 0, false, false, 1)
	require.NoError(t, err)
	assert.Len(t, popular, 1)

	require.NoError(t, env.Posts.UpdateSettings(ctx, []service.SettingsUpdate{
		{ID: id, Columns: map[string]bool{"published": false}},
	}))
	_, err = env.Posts.FetchPublishedByID(ctx, env.EnID, id, false)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestBreadcrumbsAndDummy(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	cat := env.Category(t, "Tech")
	id := env.Post(t, cat, "Launch")

	post, err := env.Posts.FetchByID(ctx, env.IdID, id, false)
	require.NoError(t, err)
	crumbs, err := env.Posts.GetBreadcrumbs(ctx, post)
	require.NoError(t, err)
	require.Len(t, crumbs, 2)
	assert.Equal(t, "Tech", crumbs[0].Name)
	assert.Equal(t, "/id/tech", crumbs[0].Link)
	assert.Equal(t, "Launch", crumbs[1].Name)
	assert.Empty(t, crumbs[1].Link)

	at := time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)
	pinClock(env, at)
	dummy, err := env.Posts.FetchDummy(ctx)
	require.NoError(t, err)
	assert.True(t, dummy.Published && dummy.Seo && dummy.Front)
	assert.Equal(t, at.Unix(), dummy.Timestamp)
	assert.Equal(t, "02/03/2024", dummy.Time.ListDate)
}

func TestFilterByNameAndSort(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	cat := env.Category(t, "Tech")
	env.Post(t, cat, "Apple")
	env.Post(t, cat, "Banana")
	env.Post(t, cat, "Apricot")

	rows, total, err := env.Posts.Filter(ctx, env.EnID, repository.FilterInput{Name: "ap"}, 1, 10, "name", false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Apple", rows[0].Name)
	assert.Equal(t, "Apricot", rows[1].Name)

	published := false
	rows, total, err = env.Posts.Filter(ctx, env.EnID, repository.FilterInput{Published: &published}, 1, 10, "bogus; DROP", true)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, rows)
}
