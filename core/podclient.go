package core

import (
	"context"

	"pkt.systems/pinacle/podapi"
	"pkt.systems/pinacle/schema"
)

// PodClient is the control-plane surface the workbench engine needs: read
// the pod record, write tab layouts back, receive screenshot uploads.
// Implemented by podapi.Client.
type PodClient interface {
	GetPod(ctx context.Context, slug schema.PodSlug) (podapi.Pod, error)
	UpdateTabs(ctx context.Context, slug schema.PodSlug, entries []schema.PodTabEntry) error
	UploadScreenshot(ctx context.Context, upload podapi.ScreenshotUpload) error
}
