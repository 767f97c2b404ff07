package models

import "errors"

// Domain errors represent business-rule rejections. They are distinct from
// infrastructure errors (database, network) and are never retried.

var (
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrMessageNotFound indicates the referenced message does not exist.
	ErrMessageNotFound = errors.New("message not found")

	// ErrGroupNotFound indicates the referenced group does not exist.
	ErrGroupNotFound = errors.New("group not found")

	// ErrChatNotFound indicates the referenced direct message chat does not exist.
	ErrChatNotFound = errors.New("dm chat not found")

	// ErrEmptyContent indicates a message edit with empty content.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEditWindowExceeded indicates the message edit time limit has passed.
	ErrEditWindowExceeded = errors.New("message edit time limit exceeded")

	// ErrDeleteWindowExceeded indicates the message delete time limit has passed.
	ErrDeleteWindowExceeded = errors.New("message delete time limit exceeded")

	// ErrDuplicateMember indicates the member is already in the group.
	ErrDuplicateMember = errors.New("member already exists in the group")

	// ErrMemberNotFound indicates the member is not in the group.
	ErrMemberNotFound = errors.New("member does not exist in the group")

	// ErrValidation indicates a malformed or missing required field.
	ErrValidation = errors.New("validation failed")

	// ErrStorage wraps failures of the persistence collaborator.
	ErrStorage = errors.New("storage error")
)

// NotFound reports whether err is one of the not-found kinds.
func NotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrMessageNotFound) ||
		errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrChatNotFound)
}
