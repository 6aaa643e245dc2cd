package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/helixml/curator/domain/content"
	"github.com/helixml/curator/domain/filemanager"
	"github.com/helixml/curator/domain/repository"
	"github.com/helixml/curator/infrastructure/persistence"
	"github.com/helixml/curator/internal/database"
	"github.com/helixml/curator/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentStore_SaveAndUpdateStatus(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewContentStore(testdb.New(t))

	item := content.NewContent("topic-1", "facebook", "Hello").WithImageURL("https://cdn.example.com/a.jpg")
	_, err := store.Save(ctx, item)
	require.NoError(t, err)

	at := time.Now().UTC().Add(time.Minute).Truncate(time.Second)
	require.NoError(t, store.UpdateStatus(ctx, item.ID(), content.StatusApproved, at))

	got, err := store.FindOne(ctx, repository.WithID(item.ID()))
	require.NoError(t, err)
	assert.Equal(t, content.StatusApproved, got.Status())
	assert.Equal(t, "https://cdn.example.com/a.jpg", got.ImageURL())
	assert.True(t, got.UpdatedAt().Equal(at))
}

func TestContentStore_UpdateStatusMissing(t *testing.T) {
	store := persistence.NewContentStore(testdb.New(t))

	err := store.UpdateStatus(context.Background(), "missing", content.StatusApproved, time.Now())
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestContentStore_SaveAllAndFilter(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewContentStore(testdb.New(t))

	saved, err := store.SaveAll(ctx, []content.Content{
		content.NewContent("t1", "facebook", "a"),
		content.NewContent("t1", "twitter", "b"),
		content.NewContent("t2", "facebook", "c"),
	})
	require.NoError(t, err)
	require.Len(t, saved, 3)

	byTopic, err := store.Find(ctx, content.WithTopicID("t1"))
	require.NoError(t, err)
	assert.Len(t, byTopic, 2)

	drafts, err := store.Count(ctx, content.WithStatus(content.StatusDraft), content.WithPlatform("facebook"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), drafts)
}

func TestTopicStore_OptionalTypes(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewTopicStore(testdb.New(t))

	topic := content.NewTopic("brand-1", "Summer Sale", "Deals", "user-1").WithStatus(content.TopicStatusApproved)
	_, err := store.Save(ctx, topic)
	require.NoError(t, err)

	got, err := store.FindOne(ctx, content.WithTopicStatus(content.TopicStatusApproved))
	require.NoError(t, err)
	assert.Equal(t, "Summer Sale", got.Title())
	assert.Empty(t, got.ThemeTypeID())
}

func TestPlatformStore_UniquePerTopicAndType(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewPlatformStore(testdb.New(t))

	first := filemanager.NewAutoPlatform("ft-1", "facebook", "Summer Sale")
	_, err := store.Save(ctx, first)
	require.NoError(t, err)

	_, err = store.Save(ctx, filemanager.NewAutoPlatform("ft-1", "facebook", "Summer Sale"))
	assert.ErrorIs(t, err, database.ErrConflict)

	_, err = store.Save(ctx, filemanager.NewAutoPlatform("ft-1", "instagram", "Summer Sale"))
	require.NoError(t, err)

	count, err := store.Count(ctx, filemanager.WithTopicID("ft-1"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestPlatformStore_UpdateExisting(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewPlatformStore(testdb.New(t))

	p := filemanager.NewAutoPlatform("ft-1", "facebook", "Summer Sale")
	_, err := store.Save(ctx, p)
	require.NoError(t, err)

	renamed := filemanager.ReconstructPlatform(p.ID(), p.TopicID(), p.PlatformType(), "Renamed", p.Description())
	_, err = store.Save(ctx, renamed)
	require.NoError(t, err)

	got, err := store.FindOne(ctx, filemanager.WithTopicPlatform("ft-1", "facebook")...)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name())
}

func TestFileStore_TagsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewFileStore(testdb.New(t))

	file := filemanager.NewContentImage("p-1", "c-1", "instagram", "https://cdn.example.com/x.jpg", time.UnixMilli(1700000000000))
	_, err := store.Save(ctx, file)
	require.NoError(t, err)

	files, err := store.Find(ctx, filemanager.WithPlatformID("p-1"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, []string{"content", "instagram", "auto-generated"}, files[0].Tags())
	assert.Equal(t, "Content-c-1-1700000000000", files[0].Name())
	assert.Equal(t, "https://cdn.example.com/x.jpg", files[0].FilePath())
}

func TestFileTopicStore_FindByName(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewFileTopicStore(testdb.New(t))

	_, err := store.Save(ctx, filemanager.NewFileTopic("Summer Sale", "Deals"))
	require.NoError(t, err)

	exists, err := store.Exists(ctx, filemanager.WithName("Summer Sale"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestValidateSchema(t *testing.T) {
	require.NoError(t, persistence.ValidateSchema(testdb.New(t)))
}
