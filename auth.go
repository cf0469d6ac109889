package pinacle

import (
	"context"
	"time"

	"pkt.systems/pinacle/podapi"
)

// GrantAuthenticator validates platform handoff grants against the pod
// control plane. It satisfies httpapi.Authenticator.
type GrantAuthenticator struct {
	Client  *podapi.Client
	Timeout time.Duration
}

// Authenticate verifies the grant with the control plane.
func (a GrantAuthenticator) Authenticate(grant string) error {
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return a.Client.VerifyGrant(ctx, grant)
}
