package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/MrSnakeDoc/drivemark/internal/errors"
	"github.com/MrSnakeDoc/drivemark/internal/filestore"
)

var cred = filestore.Credential{AccessToken: "token"}

func TestEnsureContainerIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	first, err := s.EnsureContainer(ctx, cred, "BookmarkService")
	require.NoError(t, err)
	second, err := s.EnsureContainer(ctx, cred, "BookmarkService")
	require.NoError(t, err)
	other, err := s.EnsureContainer(ctx, cred, "Other")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}

func TestReadWriteDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	id, err := s.EnsureContainer(ctx, cred, "c")
	require.NoError(t, err)

	_, found, err := s.ReadFile(ctx, cred, "bookmarks.json", id)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.WriteFile(ctx, cred, "bookmarks.json", `{"v":1}`, id))
	require.NoError(t, s.WriteFile(ctx, cred, "bookmarks.json", `{"v":2}`, id))

	content, found, err := s.ReadFile(ctx, cred, "bookmarks.json", id)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"v":2}`, content)
	assert.Equal(t, 2, s.Writes())

	files, err := s.ListFiles(ctx, cred, id)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "bookmarks.json", files[0].Name)
	assert.Equal(t, int64(7), files[0].Size)

	require.NoError(t, s.DeleteFile(ctx, cred, "bookmarks.json", id))
	require.NoError(t, s.DeleteFile(ctx, cred, "bookmarks.json", id), "deleting a missing file is a no-op")

	files, err = s.ListFiles(ctx, cred, id)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestInvalidCredential(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.EnsureContainer(ctx, filestore.Credential{}, "c")
	assert.True(t, apperr.Is(err, apperr.ErrStoreUnavailable))

	_, _, err = s.ReadFile(ctx, filestore.Credential{AccessToken: "  "}, "f", "c")
	assert.True(t, apperr.Is(err, apperr.ErrStoreUnavailable))
}

func TestFailNext(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	id, err := s.EnsureContainer(ctx, cred, "c")
	require.NoError(t, err)

	s.FailNext(errors.New("connection reset"))
	err = s.WriteFile(ctx, cred, "f", "x", id)
	assert.True(t, apperr.Is(err, apperr.ErrRemoteCallFailed))

	require.NoError(t, s.WriteFile(ctx, cred, "f", "x", id), "failure is consumed")
}
