package qrcode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myday-qr/internal/apperr"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	qrdb "myday-qr/internal/qrcode/db"
	"myday-qr/internal/testutil"
)

func setupService(t *testing.T) (*Service, *qrdb.DB) {
	store := &qrdb.DB{Bun: testutil.NewSQLiteDB(t, (*models.QRCode)(nil))}
	return NewService(store, nil, NewRenderer("https://mydayqr.pt"), logger.NewNopLogger()), store
}

func TestCreateThenResolve(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	phrases := []string{"Amo-te", "  Feliz aniversário, mãe!  ", strings.Repeat("é", models.MaxPhraseLength)}
	for _, phrase := range phrases {
		before := time.Now().UTC().Add(-time.Second)
		qr, err := svc.Create(ctx, "owner-1", phrase)
		require.NoError(t, err)
		assert.Len(t, qr.ShortCode, ShortCodeLength)
		assert.True(t, ValidShortCode(qr.ShortCode))

		view, err := svc.Resolve(ctx, qr.ShortCode)
		require.NoError(t, err)
		assert.Equal(t, strings.TrimSpace(phrase), view.Phrase)
		assert.False(t, view.CreatedAt.Before(before))
	}
}

func TestCreateRejectsBlankAndLongPhrases(t *testing.T) {
	ctx := context.Background()
	svc, store := setupService(t)

	for _, phrase := range []string{"", "   ", "\t\n", strings.Repeat("a", models.MaxPhraseLength+1)} {
		_, err := svc.Create(ctx, "owner-1", phrase)
		assert.True(t, errors.Is(err, apperr.ErrValidation), "%q", phrase)
	}

	codes, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestRenameAndDeleteAreOwnerScoped(t *testing.T) {
	ctx := context.Background()
	svc, store := setupService(t)

	qr, err := svc.Create(ctx, "owner-b", "original")
	require.NoError(t, err)

	_, err = svc.Rename(ctx, qr.ID, "owner-a", "hijacked")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, qr.ID, "owner-a"), apperr.ErrNotFound))

	unchanged, err := store.GetByShortCode(ctx, qr.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, "original", unchanged.Phrase)

	renamed, err := svc.Rename(ctx, qr.ID, "owner-b", "  updated ")
	require.NoError(t, err)
	assert.Equal(t, "updated", renamed.Phrase)

	require.NoError(t, svc.Delete(ctx, qr.ID, "owner-b"))
	_, err = svc.Resolve(ctx, qr.ShortCode)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestMutationsNeedAnOwner(t *testing.T) {
	svc, _ := setupService(t)
	_, err := svc.Create(context.Background(), "", "hello")
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
	_, err = svc.List(context.Background(), "")
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestResolveMalformedVersusMissing(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Resolve(ctx, "doesnotexist")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.False(t, IsInvalidShortCode(err))

	for _, code := range []string{"", "bad code", "../etc", strings.Repeat("a", 33)} {
		_, err := svc.Resolve(ctx, code)
		assert.True(t, IsInvalidShortCode(err), "%q", code)
		assert.True(t, errors.Is(err, apperr.ErrValidation))
	}
}

func TestListIsNewestFirstAndPerOwner(t *testing.T) {
	ctx := context.Background()
	svc, store := setupService(t)

	base := time.Now().UTC()
	for i, owner := range []string{"owner-1", "owner-1", "owner-2"} {
		require.NoError(t, store.Create(ctx, &models.QRCode{
			ID: fmt.Sprintf("id-%d", i), UserID: owner, Phrase: fmt.Sprintf("p%d", i),
			ShortCode: fmt.Sprintf("code000%d", i), CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	codes, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.Equal(t, "id-1", codes[0].ID)
	assert.Equal(t, "id-0", codes[1].ID)
}

func TestCreateRetriesShortCodeCollision(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	codes := []string{"AAAAAAAA", "AAAAAAAA", "BBBBBBBB"}
	svc.NewCode = func() (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}

	first, err := svc.Create(ctx, "owner-1", "one")
	require.NoError(t, err)
	second, err := svc.Create(ctx, "owner-1", "two")
	require.NoError(t, err)

	assert.Equal(t, "AAAAAAAA", first.ShortCode)
	assert.Equal(t, "BBBBBBBB", second.ShortCode)
}

func TestResolveUsesAndInvalidatesRedisCache(t *testing.T) {
	ctx := context.Background()
	client, mr := testutil.NewRedis(t)
	store := &qrdb.DB{Bun: testutil.NewSQLiteDB(t, (*models.QRCode)(nil))}
	svc := NewService(store, NewRedisCache(client, time.Minute, logger.NewNopLogger()), NewRenderer("https://mydayqr.pt"), logger.NewNopLogger())

	qr, err := svc.Create(ctx, "owner-1", "cached phrase")
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, qr.ShortCode)
	require.NoError(t, err)
	assert.True(t, mr.Exists(resolveKeyPrefix+qr.ShortCode))

	_, err = svc.Rename(ctx, qr.ID, "owner-1", "fresh phrase")
	require.NoError(t, err)
	assert.False(t, mr.Exists(resolveKeyPrefix+qr.ShortCode))

	view, err := svc.Resolve(ctx, qr.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, "fresh phrase", view.Phrase)

	require.NoError(t, svc.AdminDelete(ctx, qr.ID))
	assert.False(t, mr.Exists(resolveKeyPrefix+qr.ShortCode))
	_, err = svc.Resolve(ctx, qr.ShortCode)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestRenderPNG(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	qr, err := svc.Create(ctx, "owner-1", "hello")
	require.NoError(t, err)

	png, err := svc.RenderPNG(ctx, qr.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
	assert.Equal(t, "https://mydayqr.pt/q/"+qr.ShortCode, svc.Renderer.ViewerURL(qr.ShortCode))

	_, err = svc.RenderPNG(ctx, "missing1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
