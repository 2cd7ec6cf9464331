package session

import "errors"

// ErrNoActiveSession is returned when a surface has no bound session and
// discovery finds nothing to route to
var ErrNoActiveSession = errors.New("no active database session")

// ErrNoCandidates is returned when an explicit selection is requested but
// discovery returned an empty candidate list
var ErrNoCandidates = errors.New("no sessions available to choose from")

// ErrCancelled is returned when the user aborts a selection prompt. It is a
// skip, not a failure: the caller reports it and leaves all bindings intact.
var ErrCancelled = errors.New("selection cancelled")
