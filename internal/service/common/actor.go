//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"
	"os"
	"os/user"

	"google.golang.org/grpc/metadata"

	"github.com/oshokin/brie-blaster/internal/api/grpc/monitor"
)

// Actor identifies who is watching the kiosk.
type Actor struct {
	Hostname string
	Username string
}

// String renders the actor as user@host.
func (a Actor) String() string {
	return a.Username + "@" + a.Hostname
}

// DetectActor gathers host and user information of the current process.
func DetectActor() (Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return Actor{}, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return Actor{}, fmt.Errorf("current user: %w", err)
	}

	return Actor{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}

// WithActor attaches the actor to the outgoing gRPC metadata of ctx.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return metadata.AppendToOutgoingContext(ctx, monitor.ActorMetadataKey, actor.String())
}
