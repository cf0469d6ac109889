package schema

// PodSlug identifies a pod in URLs and proxy hostnames.
type PodSlug string

// PodID identifies a pod record in the control plane.
type PodID string

// TabID identifies a workbench tab. It is a deterministic content hash of
// the tab's name, service reference and URL.
type TabID string

// TabLabel is the user-facing name of a tab.
type TabLabel string

// FrameID identifies a mounted content frame.
type FrameID string

// FrameIDFor derives the frame identifier for a tab. Frame ids track tab
// ids one to one; remounting mints a new token, not a new id.
func FrameIDFor(id TabID) FrameID {
	return FrameID("tab-" + string(id))
}

// ServiceKey identifies a service template.
type ServiceKey string

// NavAction tags the pending navigation intent for a process tab.
type NavAction string

const (
	// NavActionNone means no navigation intent is pending.
	NavActionNone NavAction = ""
	// NavActionBack means a back request was posted to the frame.
	NavActionBack NavAction = "back"
	// NavActionForward means a forward request was posted to the frame.
	NavActionForward NavAction = "forward"
	// NavActionNavigate means an address-bar navigation was posted.
	NavActionNavigate NavAction = "navigate"
)
