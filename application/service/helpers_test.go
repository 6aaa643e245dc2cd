package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/helixml/curator/domain/content"
	"github.com/helixml/curator/domain/filemanager"
	"github.com/helixml/curator/domain/repository"
	"github.com/helixml/curator/infrastructure/invalidation"
	"github.com/helixml/curator/infrastructure/notify"
	"github.com/helixml/curator/infrastructure/persistence"
	"github.com/helixml/curator/internal/testdb"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected failure")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// flakyContentStore fails UpdateStatus for the listed ids.
type flakyContentStore struct {
	persistence.ContentStore
	failIDs map[string]bool
	panics  map[string]bool
}

func (s flakyContentStore) UpdateStatus(ctx context.Context, id string, status content.Status, at time.Time) error {
	if s.panics[id] {
		panic("store exploded")
	}
	if s.failIDs[id] {
		return errInjected
	}
	return s.ContentStore.UpdateStatus(ctx, id, status, at)
}

// failingFileTopicStore rejects every insert.
type failingFileTopicStore struct {
	persistence.FileTopicStore
}

func (failingFileTopicStore) Save(context.Context, filemanager.FileTopic) (filemanager.FileTopic, error) {
	return filemanager.FileTopic{}, errInjected
}

type fixture struct {
	contents   persistence.ContentStore
	topics     persistence.TopicStore
	fileTopics persistence.FileTopicStore
	platforms  persistence.PlatformStore
	files      persistence.FileStore
	bus        *invalidation.Memory
	recorder   *notify.Recorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testdb.New(t)
	return fixture{
		contents:   persistence.NewContentStore(db),
		topics:     persistence.NewTopicStore(db),
		fileTopics: persistence.NewFileTopicStore(db),
		platforms:  persistence.NewPlatformStore(db),
		files:      persistence.NewFileStore(db),
		bus:        invalidation.NewMemory(),
		recorder:   notify.NewRecorder(0),
	}
}

func (f fixture) resolver() *Resolver {
	return NewResolver(f.fileTopics, f.platforms, f.files, discardLogger())
}

func (f fixture) approval(store content.ContentStore, resolver FileResolver) *Approval {
	return NewApproval(store, f.topics, resolver, f.bus, f.recorder, discardLogger())
}

func (f fixture) saveContent(t *testing.T, id, topicID, platform, imageURL string) content.Content {
	t.Helper()
	now := time.Now().UTC()
	c := content.ReconstructContent(id, topicID, platform, "copy for "+id, imageURL, content.StatusDraft, nil, now, now)
	_, err := f.contents.Save(context.Background(), c)
	require.NoError(t, err)
	return c
}

func (f fixture) saveTopic(t *testing.T, id, title string) content.Topic {
	t.Helper()
	now := time.Now().UTC()
	topic := content.ReconstructTopic(id, "brand-1", "", "", title, title+" description", content.TopicStatusApproved, "user-1", now, now)
	_, err := f.topics.Save(context.Background(), topic)
	require.NoError(t, err)
	return topic
}

// blindPlatformStore never sees existing platforms.
type blindPlatformStore struct {
	persistence.PlatformStore
}

func (blindPlatformStore) Exists(context.Context, ...repository.Option) (bool, error) {
	return false, nil
}
