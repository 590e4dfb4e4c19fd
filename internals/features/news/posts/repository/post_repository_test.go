package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom_backend/internals/features/news/newstest"
	"newsroom_backend/internals/features/news/posts/repository"
)

func ids(rows []repository.PostRow) []uint {
	out := make([]uint, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.PostID)
	}
	return out
}

func TestFetchAllByPageSortOverrides(t *testing.T) {
	env := newstest.New(t)
	ctx := context.Background()
	cat := env.Category(t, "Tech")

	add := func(name, date string) uint {
		in := env.PostInput(cat, name)
		in.Date = date
		id, err := env.Posts.Add(ctx, in, nil)
		require.NoError(t, err)
		return id
	}
	middle := add("Middle", "02/01/2024")
	newest := add("Newest", "03/01/2024")
	oldest := add("Oldest", "01/01/2024")

	repo := env.Posts.Repository()
	list := func(sort string) []uint {
		rows, total, err := repo.FetchAllByPage(ctx, env.EnID, repository.ListParams{
			Published: true, Page: 1, PerPage: 10, Sort: sort,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		return ids(rows)
	}

	assert.Equal(t, []uint{newest, middle, oldest}, list(""))
	assert.Equal(t, []uint{middle, newest, oldest}, list(repository.SortAll))
	assert.Equal(t, []uint{oldest, newest, middle}, list(repository.SortLatest))
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, repository.SortAll, repository.ParseSort(" ALL "))
	assert.Equal(t, repository.SortLatest, repository.ParseSort("latest"))
	assert.Equal(t, "", repository.ParseSort("views"))
	assert.Equal(t, "", repository.ParseSort(""))
}
