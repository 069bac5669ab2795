package services_test

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyCheckAPI/services"
)

func TestUploadAllKeepsInputOrder(t *testing.T) {
	store := &fakeStore{}
	photos := photoBatch(3)

	urls, err := services.UploadAll(context.Background(), store, "group_x/민준", photos, nil)
	require.NoError(t, err)
	require.Len(t, urls, 3)
	for i, url := range urls {
		assert.Equal(t, "https://cdn.test/"+store.uploaded[i], url)
		assert.True(t, strings.Contains(url, "group_x/민준_"), "url %d: %s", i, url)
	}
}

func TestUploadAllProgressIsMonotonic(t *testing.T) {
	store := &fakeStore{}

	var pcts []int
	_, err := services.UploadAll(context.Background(), store, "p", photoBatch(7), func(pct int) {
		pcts = append(pcts, pct)
	})
	require.NoError(t, err)
	require.Len(t, pcts, 7)
	assert.True(t, sort.IntsAreSorted(pcts))
	assert.Equal(t, 100, pcts[len(pcts)-1])
	// round(i/7*100) for i=1..7
	assert.Equal(t, []int{14, 29, 43, 57, 71, 86, 100}, pcts)
}

func TestUploadAllSinglePhoto(t *testing.T) {
	store := &fakeStore{}

	var pcts []int
	urls, err := services.UploadAll(context.Background(), store, "p", photoBatch(1), func(pct int) {
		pcts = append(pcts, pct)
	})
	require.NoError(t, err)
	assert.Len(t, urls, 1)
	assert.Equal(t, []int{100}, pcts)
}

func TestUploadAllFailFast(t *testing.T) {
	store := &fakeStore{failAt: 3}

	var pcts []int
	urls, err := services.UploadAll(context.Background(), store, "p", photoBatch(5), func(pct int) {
		pcts = append(pcts, pct)
	})
	require.Error(t, err)
	assert.Nil(t, urls)
	// Two uploads landed before the failure; nothing after it ran.
	assert.Len(t, store.uploaded, 2)
	assert.Equal(t, []int{20, 40}, pcts)
}

func TestUploadAllUniquePaths(t *testing.T) {
	store := &fakeStore{}

	// Same filename repeated must not collide in the bucket.
	photos := photoBatch(4)
	for i := range photos {
		photos[i].Name = "photo.jpg"
	}
	_, err := services.UploadAll(context.Background(), store, "p", photos, nil)
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for _, path := range store.uploaded {
		assert.True(t, strings.HasSuffix(path, ".jpg"), path)
		_, dup := seen[path]
		assert.False(t, dup, "duplicate path %s", path)
		seen[path] = struct{}{}
	}
}
