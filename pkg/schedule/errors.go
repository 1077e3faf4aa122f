package schedule

import "errors"

var (
	// ErrNotFound is returned by Update and Evaluate for an id absent from
	// the collection.
	ErrNotFound = errors.New("schedule: session not found")
	// ErrPersistence wraps failures of the persistence collaborator.
	ErrPersistence = errors.New("schedule: persistence failure")
	// ErrInvalidUpdate is returned for updates outside the grid or with a
	// blank room.
	ErrInvalidUpdate = errors.New("schedule: invalid update")
	// ErrDuplicateID is returned by Load when two records share an id.
	ErrDuplicateID = errors.New("schedule: duplicate session id")
	// ErrInvalidSession is returned by Load for a record failing validation.
	ErrInvalidSession = errors.New("schedule: invalid session")
)
