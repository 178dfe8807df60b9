package services

import "errors"

var (
	// ErrRepairNotFound means the targeted repair does not exist (or was
	// never created); controllers answer 404.
	ErrRepairNotFound = errors.New("repair not found")
	// ErrHistoryNotFound means a repair has no history entries yet.
	ErrHistoryNotFound = errors.New("no history for repair")
	// ErrTemplateNotFound means the filter template id does not exist.
	ErrTemplateNotFound = errors.New("filter template not found")
	// ErrEmptyUpdate means the update payload carried no fields at all;
	// controllers answer 400 and nothing is written.
	ErrEmptyUpdate = errors.New("update payload is empty")
)
