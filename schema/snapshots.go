package schema

// TabSnapshot is a read-only view of tab state for transports.
type TabSnapshot struct {
	ID           TabID
	Label        TabLabel
	Service      ServiceKey
	CustomURL    string
	ReturnURL    string
	Port         int
	Shortcut     string
	Icon         TabIcon
	KeepRendered bool
	Terminal     bool
	Active       bool
}

// FrameSnapshot is a read-only view of a tab's content frame.
type FrameSnapshot struct {
	ID           FrameID
	TabID        TabID
	Src          string
	Token        string
	Mounted      bool
	Visible      bool
	Connected    bool
	KeepRendered bool
}

// NavigationSnapshot is a read-only view of a process tab's address state.
// BackSteps and ForwardSteps are heuristic counters, not a history stack;
// buttons dim at values <= 0 but remain clickable.
type NavigationSnapshot struct {
	TabID        TabID
	DisplayURL   string
	CurrentPort  int
	BackSteps    int
	ForwardSteps int
	LastAction   NavAction
}

// WorkbenchSnapshot is the full read-only state of one pod's workbench.
type WorkbenchSnapshot struct {
	Slug                PodSlug
	Tabs                []TabSnapshot
	ActiveTab           TabID
	Frames              []FrameSnapshot
	Navigations         []NavigationSnapshot
	AvailableServices   []ServiceKey
	ExistingServiceTabs []ServiceKey
}
