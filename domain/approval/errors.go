package approval

import "errors"

// ErrBatchInProgress is returned when a batch is started while another one
// is still running.
var ErrBatchInProgress = errors.New("batch approval already in progress")

// ErrTopicNotFound marks a content item whose topic could not be resolved.
var ErrTopicNotFound = errors.New("topic not found for content")

// ErrApprovalFailed is returned when the status change itself failed.
var ErrApprovalFailed = errors.New("content approval failed")
