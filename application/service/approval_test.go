package service

import (
	"context"
	"sync"
	"testing"

	"github.com/helixml/curator/domain/approval"
	"github.com/helixml/curator/domain/content"
	"github.com/helixml/curator/domain/filemanager"
	domaininvalidation "github.com/helixml/curator/domain/invalidation"
	"github.com/helixml/curator/domain/notify"
	"github.com/helixml/curator/domain/repository"
	"github.com/helixml/curator/infrastructure/tracking"
	"github.com/helixml/curator/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproval_ApproveContentSurvivesFileTopicFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	topic := f.saveTopic(t, "t1", "Summer Sale")
	item := f.saveContent(t, "c1", "t1", "facebook", "http://x/img.png")

	resolver := NewResolver(failingFileTopicStore{f.fileTopics}, f.platforms, f.files, discardLogger())
	svc := f.approval(f.contents, resolver)

	assert.True(t, svc.ApproveContent(ctx, item, topic))

	got, err := f.contents.FindOne(ctx, repository.WithID("c1"))
	require.NoError(t, err)
	assert.Equal(t, content.StatusApproved, got.Status())

	platforms, err := f.platforms.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, platforms)
}

func TestApproval_ApproveContentFailsOnStatusChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	topic := f.saveTopic(t, "t1", "Summer Sale")
	item := f.saveContent(t, "c1", "t1", "facebook", "")

	store := flakyContentStore{ContentStore: f.contents, failIDs: map[string]bool{"c1": true}}
	svc := f.approval(store, f.resolver())

	assert.False(t, svc.ApproveContent(ctx, item, topic))

	fileTopics, err := f.fileTopics.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, fileTopics, "no archiving after a failed status change")
	assert.Empty(t, f.recorder.All())
}

func TestApproval_ApproveReportsFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.saveTopic(t, "t1", "Summer Sale")
	f.saveContent(t, "c1", "t1", "facebook", "")

	store := flakyContentStore{ContentStore: f.contents, failIDs: map[string]bool{"c1": true}}
	err := f.approval(store, f.resolver()).Approve(ctx, "c1")
	require.ErrorIs(t, err, approval.ErrApprovalFailed)

	toasts := f.recorder.All()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.LevelError, toasts[0].Level)
	assert.Equal(t, "Approval failed", toasts[0].Title)
}

func TestApproval_ApproveContentInvalidatesViews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	topic := f.saveTopic(t, "t1", "Summer Sale")
	item := f.saveContent(t, "c1", "t1", "facebook", "")

	var got []domaininvalidation.Key
	f.bus.Subscribe(func(_ context.Context, keys []domaininvalidation.Key) { got = append(got, keys...) })

	require.True(t, f.approval(f.contents, f.resolver()).ApproveContent(ctx, item, topic))
	assert.ElementsMatch(t, domaininvalidation.ApprovalKeys(), got)
}

func TestApproval_ApproveMissingContent(t *testing.T) {
	f := newFixture(t)
	err := f.approval(f.contents, f.resolver()).Approve(context.Background(), "nope")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestApproval_ApproveMissingTopic(t *testing.T) {
	f := newFixture(t)
	f.saveContent(t, "c1", "gone", "facebook", "")

	err := f.approval(f.contents, f.resolver()).Approve(context.Background(), "c1")
	assert.ErrorIs(t, err, approval.ErrTopicNotFound)
}

func TestApproval_BatchCountersAreConsistent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	topics := []content.Topic{f.saveTopic(t, "t1", "Summer Sale")}

	items := []content.Content{
		f.saveContent(t, "ok-1", "t1", "facebook", ""),
		f.saveContent(t, "ok-2", "t1", "twitter", ""),
		f.saveContent(t, "orphan-1", "missing", "facebook", ""),
		f.saveContent(t, "orphan-2", "missing", "twitter", ""),
		f.saveContent(t, "fail-1", "t1", "linkedin", ""),
		f.saveContent(t, "panic-1", "t1", "instagram", ""),
	}
	store := flakyContentStore{
		ContentStore: f.contents,
		failIDs:      map[string]bool{"fail-1": true},
		panics:       map[string]bool{"panic-1": true},
	}

	recorder := &progressRecorder{}
	progress, err := f.approval(store, f.resolver()).ApproveBatch(ctx, items, topics, recorder)
	require.NoError(t, err)

	assert.Equal(t, 6, progress.Total())
	assert.Equal(t, 6, progress.Processed())
	assert.Equal(t, 4, progress.Failed())
	assert.Equal(t, 2, progress.Success())
	assert.Equal(t, approval.StateCompleted, progress.State())

	// Initial snapshot, one per item, then the terminal one.
	snapshots := recorder.all()
	require.Len(t, snapshots, 8)
	for i, s := range snapshots[1:7] {
		assert.Equal(t, i+1, s.Processed())
	}
}

func TestApproval_BatchToasts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	topics := []content.Topic{f.saveTopic(t, "t1", "Summer Sale")}
	items := []content.Content{
		f.saveContent(t, "c1", "t1", "facebook", ""),
		f.saveContent(t, "c2", "missing", "facebook", ""),
		f.saveContent(t, "c3", "t1", "twitter", ""),
	}
	store := flakyContentStore{ContentStore: f.contents, failIDs: map[string]bool{"c3": true}}

	_, err := f.approval(store, f.resolver()).ApproveBatch(ctx, items, topics)
	require.NoError(t, err)

	// Only the summary, never one toast per failed item.
	toasts := f.recorder.All()
	require.Len(t, toasts, 2)
	assert.Equal(t, notify.LevelSuccess, toasts[0].Level)
	assert.Equal(t, "1 item(s) approved.", toasts[0].Message)
	assert.Equal(t, notify.LevelError, toasts[1].Level)
	assert.Equal(t, "2 item(s) failed to approve.", toasts[1].Message)
}

func TestApproval_BatchRejectsReentry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	topics := []content.Topic{f.saveTopic(t, "t1", "Summer Sale")}
	items := []content.Content{f.saveContent(t, "c1", "t1", "facebook", "")}

	svc := f.approval(f.contents, f.resolver())
	entered := make(chan struct{})
	release := make(chan struct{})
	blocker := reporterFunc(func(_ context.Context, p approval.Progress) error {
		if p.Processed() == 0 {
			close(entered)
			<-release
		}
		return nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = svc.ApproveBatch(ctx, items, topics, blocker)
	}()

	<-entered
	assert.True(t, svc.Processing())
	_, err := svc.ApproveBatch(ctx, items, topics)
	assert.ErrorIs(t, err, approval.ErrBatchInProgress)
	_, err = svc.ApproveByIDs(ctx, []string{"c1"})
	assert.ErrorIs(t, err, approval.ErrBatchInProgress)

	close(release)
	wg.Wait()
	assert.False(t, svc.Processing())
}

func TestApproval_BatchIgnoresCancellation(t *testing.T) {
	f := newFixture(t)
	topics := []content.Topic{f.saveTopic(t, "t1", "Summer Sale")}
	items := []content.Content{
		f.saveContent(t, "c1", "t1", "facebook", ""),
		f.saveContent(t, "c2", "t1", "twitter", ""),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	progress, err := f.approval(f.contents, f.resolver()).ApproveBatch(ctx, items, topics)
	require.NoError(t, err)
	assert.Equal(t, 2, progress.Success())
}

func TestApproval_EndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	topics := []content.Topic{
		f.saveTopic(t, "t1", "Summer Sale"),
		f.saveTopic(t, "t2", "Product Launch"),
	}
	items := []content.Content{
		f.saveContent(t, "c1", "t1", "facebook", "http://x/img.png"),
		f.saveContent(t, "c2", "t2", "facebook", ""),
		f.saveContent(t, "c3", "missing", "facebook", ""),
	}

	latest := tracking.NewLatest()
	svc := NewApproval(f.contents, f.topics, f.resolver(), f.bus, f.recorder, discardLogger(), latest)

	progress, err := svc.ApproveBatch(ctx, items, topics)
	require.NoError(t, err)
	assert.Equal(t, 2, progress.Success())
	assert.Equal(t, 1, progress.Failed())

	snapshot, ok := latest.Progress()
	require.True(t, ok)
	assert.Equal(t, progress, snapshot)

	for id, want := range map[string]content.Status{"c1": content.StatusApproved, "c2": content.StatusApproved, "c3": content.StatusDraft} {
		got, err := f.contents.FindOne(ctx, repository.WithID(id))
		require.NoError(t, err)
		assert.Equal(t, want, got.Status(), id)
	}

	summer, err := f.fileTopics.FindOne(ctx, filemanager.WithName("Summer Sale"))
	require.NoError(t, err)
	platform, err := f.platforms.FindOne(ctx, filemanager.WithTopicPlatform(summer.ID(), "facebook")...)
	require.NoError(t, err)

	files, err := f.files.Find(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, platform.ID(), files[0].PlatformID())
	assert.Contains(t, files[0].Name(), "Content-c1-")
}

func TestApproval_ApproveByIDs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.saveTopic(t, "t1", "Summer Sale")
	f.saveContent(t, "c1", "t1", "facebook", "")

	svc := f.approval(f.contents, f.resolver())

	progress, err := svc.ApproveByIDs(ctx, []string{"c1", "unknown"})
	require.NoError(t, err)
	assert.Equal(t, 2, progress.Total())
	assert.Equal(t, 1, progress.Success())
	assert.Equal(t, 1, progress.Failed())

	_, err = svc.ApproveByIDs(ctx, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

type reporterFunc func(ctx context.Context, p approval.Progress) error

func (f reporterFunc) OnChange(ctx context.Context, p approval.Progress) error { return f(ctx, p) }

type progressRecorder struct {
	mu        sync.Mutex
	snapshots []approval.Progress
}

func (r *progressRecorder) OnChange(_ context.Context, p approval.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, p)
	return nil
}

func (r *progressRecorder) all() []approval.Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]approval.Progress(nil), r.snapshots...)
}
