package schema

import "errors"

var (
	// ErrInvalidRequest indicates a malformed request payload.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrWorkbenchNotFound indicates no workbench is open for the pod.
	ErrWorkbenchNotFound = errors.New("workbench not found")
	// ErrInvalidSlug indicates a pod slug unfit for proxy hostnames.
	ErrInvalidSlug = errors.New("invalid pod slug")
	// ErrTabNotFound indicates a requested tab could not be found.
	ErrTabNotFound = errors.New("tab not found")
	// ErrNoTabs indicates the workbench has no tabs.
	ErrNoTabs = errors.New("no tabs")
	// ErrDuplicateTab indicates a tab with the same name, service and URL
	// already exists.
	ErrDuplicateTab = errors.New("tab already exists")
	// ErrInvalidTabName indicates an empty or unusable tab name.
	ErrInvalidTabName = errors.New("invalid tab name")
	// ErrInvalidAddress indicates a navigation address that is not a
	// localhost URL.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrNotProcessTab indicates an address-bar operation on a tab that has
	// no address bar.
	ErrNotProcessTab = errors.New("tab has no address bar")
	// ErrInvalidOrder indicates a reorder request that does not permute the
	// current tab set.
	ErrInvalidOrder = errors.New("invalid tab order")
	// ErrFrameNotConnected indicates the frame's bridge socket is not
	// attached.
	ErrFrameNotConnected = errors.New("frame not connected")
	// ErrInvalidFrameToken indicates a bridge attach with a token that does
	// not match the frame's current mount.
	ErrInvalidFrameToken = errors.New("invalid frame token")
	// ErrUnknownFrameMessage indicates an unrecognized message type.
	ErrUnknownFrameMessage = errors.New("unknown frame message")
	// ErrInvalidFrameMessage indicates a message failing schema validation.
	ErrInvalidFrameMessage = errors.New("invalid frame message")
)
