package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/helixml/curator/domain/approval"
	"github.com/helixml/curator/domain/content"
	"github.com/helixml/curator/domain/invalidation"
	"github.com/helixml/curator/domain/notify"
	"github.com/helixml/curator/domain/repository"
	"github.com/helixml/curator/infrastructure/tracking"
)

// FileResolver creates the file-manager records for approved content.
type FileResolver interface {
	EnsureFileTopic(ctx context.Context, title, description string) (string, error)
	EnsurePlatform(ctx context.Context, fileTopicID, platformType, title string) error
	PlatformID(ctx context.Context, fileTopicID, platformType string) (string, error)
	CreateFileForImage(ctx context.Context, platformID, contentID, platform, imageURL string) error
}

// Approval moves content from draft to approved and archives it in the
// file manager. Only the status change is required to succeed; archiving
// is best effort.
type Approval struct {
	repository.Collection[content.Content]
	contentStore content.ContentStore
	topicStore   content.TopicStore
	resolver     FileResolver
	bus          invalidation.Bus
	notifier     notify.Notifier
	reporters    []tracking.Reporter
	logger       *slog.Logger
	processing   atomic.Bool
	now          func() time.Time
}

// NewApproval creates a new Approval service. The reporters receive the
// progress of every batch.
func NewApproval(
	contentStore content.ContentStore,
	topicStore content.TopicStore,
	resolver FileResolver,
	bus invalidation.Bus,
	notifier notify.Notifier,
	logger *slog.Logger,
	reporters ...tracking.Reporter,
) *Approval {
	return &Approval{
		Collection:   repository.NewCollection[content.Content](contentStore),
		contentStore: contentStore,
		topicStore:   topicStore,
		resolver:     resolver,
		bus:          bus,
		notifier:     notifier,
		reporters:    reporters,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Processing reports whether a batch is running.
func (a *Approval) Processing() bool {
	return a.processing.Load()
}

// ApproveContent approves c, whose topic is t. It returns false only when
// the status change failed; the file-manager steps never affect the result.
func (a *Approval) ApproveContent(ctx context.Context, c content.Content, t content.Topic) bool {
	log := a.logger.With(slog.String("content_id", c.ID()), slog.String("topic_id", t.ID()))

	if err := a.contentStore.UpdateStatus(ctx, c.ID(), content.StatusApproved, a.now()); err != nil {
		log.Error("failed to approve content", slog.String("error", err.Error()))
		return false
	}

	a.archive(ctx, log, c, t)
	a.ignoreFailure(log, "invalidate caches", a.bus.Invalidate(ctx, invalidation.ApprovalKeys()...))
	return true
}

// archive files approved content under "{topic title}/{platform}".
func (a *Approval) archive(ctx context.Context, log *slog.Logger, c content.Content, t content.Topic) {
	fileTopicID, err := a.resolver.EnsureFileTopic(ctx, t.Title(), t.Description())
	if err != nil {
		a.ignoreFailure(log, "ensure file topic", err)
		return
	}

	a.ignoreFailure(log, "ensure platform", a.resolver.EnsurePlatform(ctx, fileTopicID, c.Platform(), t.Title()))

	if !c.HasImage() {
		return
	}

	platformID, err := a.resolver.PlatformID(ctx, fileTopicID, c.Platform())
	if err != nil {
		a.ignoreFailure(log, "resolve platform", err)
		return
	}
	a.ignoreFailure(log, "archive image", a.resolver.CreateFileForImage(ctx, platformID, c.ID(), c.Platform(), c.ImageURL()))
}

// ignoreFailure logs a failed best-effort step and drops the error.
func (a *Approval) ignoreFailure(log *slog.Logger, step string, err error) {
	if err == nil {
		return
	}
	log.Warn("best-effort step failed", slog.String("step", step), slog.String("error", err.Error()))
}

// Approve approves a single stored content item by id.
func (a *Approval) Approve(ctx context.Context, contentID string) error {
	c, err := a.contentStore.FindOne(ctx, repository.WithID(contentID))
	if err != nil {
		return fmt.Errorf("find content: %w", err)
	}
	t, err := a.topicStore.FindOne(ctx, repository.WithID(c.TopicID()))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", approval.ErrTopicNotFound, c.TopicID(), err)
	}

	if !a.ApproveContent(ctx, c, t) {
		notify.Error(ctx, a.notifier, "Approval failed", fmt.Sprintf("Content %s could not be approved.", c.ID()))
		return approval.ErrApprovalFailed
	}
	notify.Success(ctx, a.notifier, "Content approved", fmt.Sprintf("%s content for %q approved.", c.Platform(), t.Title()))
	return nil
}

// ApproveBatch approves items one after another, resolving each item's
// topic from topics. Items whose topic is missing count as failed without
// being touched. The batch runs to completion even if ctx is cancelled.
// It returns approval.ErrBatchInProgress while another batch runs.
func (a *Approval) ApproveBatch(
	ctx context.Context,
	items []content.Content,
	topics []content.Topic,
	reporters ...tracking.Reporter,
) (approval.Progress, error) {
	if !a.processing.CompareAndSwap(false, true) {
		return approval.Progress{}, approval.ErrBatchInProgress
	}
	defer a.processing.Store(false)

	ctx = context.WithoutCancel(ctx)

	subscribers := make([]tracking.Reporter, 0, len(a.reporters)+len(reporters))
	subscribers = append(subscribers, a.reporters...)
	subscribers = append(subscribers, reporters...)
	tracker := tracking.NewTracker(len(items), a.logger, subscribers...)
	tracker.Notify(ctx)

	for _, item := range items {
		tracker.Record(ctx, a.approveItem(ctx, item, topics))
	}

	final := tracker.Complete(ctx)
	if final.Success() > 0 {
		notify.Success(ctx, a.notifier, "Batch approval complete", fmt.Sprintf("%d item(s) approved.", final.Success()))
	}
	if final.Failed() > 0 {
		notify.Error(ctx, a.notifier, "Batch approval incomplete", fmt.Sprintf("%d item(s) failed to approve.", final.Failed()))
	}
	return final, nil
}

func (a *Approval) approveItem(ctx context.Context, item content.Content, topics []content.Topic) (outcome approval.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("approval panicked",
				slog.String("content_id", item.ID()),
				slog.Any("panic", r),
			)
			outcome = approval.OutcomeFailed
		}
	}()

	topic, ok := content.FindTopic(topics, item.TopicID())
	if !ok {
		a.logger.Warn("skipping content",
			slog.String("content_id", item.ID()),
			slog.String("topic_id", item.TopicID()),
			slog.String("error", approval.ErrTopicNotFound.Error()),
		)
		return approval.OutcomeFailed
	}

	if a.ApproveContent(ctx, item, topic) {
		return approval.OutcomeSuccess
	}
	return approval.OutcomeFailed
}

// ApproveByIDs loads the stored content items and their topics and
// approves them as one batch, in the order given. Unknown ids count as
// failed items.
func (a *Approval) ApproveByIDs(ctx context.Context, contentIDs []string, reporters ...tracking.Reporter) (approval.Progress, error) {
	if len(contentIDs) == 0 {
		return approval.Progress{}, fmt.Errorf("%w: no content ids given", ErrValidation)
	}
	if a.Processing() {
		return approval.Progress{}, approval.ErrBatchInProgress
	}

	found, err := a.contentStore.Find(ctx, repository.WithIDIn(contentIDs))
	if err != nil {
		return approval.Progress{}, fmt.Errorf("load content: %w", err)
	}
	byID := make(map[string]content.Content, len(found))
	topicIDs := make([]string, 0, len(found))
	for _, c := range found {
		byID[c.ID()] = c
		topicIDs = append(topicIDs, c.TopicID())
	}

	topics, err := a.topicStore.Find(ctx, repository.WithIDIn(topicIDs))
	if err != nil {
		return approval.Progress{}, fmt.Errorf("load topics: %w", err)
	}

	items := make([]content.Content, len(contentIDs))
	for i, id := range contentIDs {
		c, ok := byID[id]
		if !ok {
			// No topic id, so the batch counts it as failed.
			c = content.ReconstructContent(id, "", "", "", "", content.StatusDraft, nil, time.Time{}, time.Time{})
		}
		items[i] = c
	}

	return a.ApproveBatch(ctx, items, topics, reporters...)
}
