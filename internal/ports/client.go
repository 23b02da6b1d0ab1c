package ports

import (
	"context"

	"github.com/relvane/botsessions/internal/domain"
)

type LoginState int

const (
	// StateOnline means the login attempt resolved and the client holds a
	// live connection.
	StateOnline LoginState = iota
	// StateSliderChallenge asks for a ticket obtained from the challenge URL.
	StateSliderChallenge
	// StateQRCodeChallenge waits for an out-of-band QR scan before resuming.
	StateQRCodeChallenge
	// StateDeviceChallenge offers SMS verification or a QR fallback URL.
	StateDeviceChallenge
)

// LoginStep is the explicit continuation returned by every login-flow call:
// either the attempt is online, or it is paused on exactly one challenge.
type LoginStep struct {
	State LoginState
	URL   string
}

// Client is the opaque protocol capability that performs the actual wire
// handshake. Connect and the challenge-submission calls all return the next
// LoginStep of the same attempt; an error from any of them fails the attempt.
type Client interface {
	domain.ClientConn

	Connect(ctx context.Context, id domain.AccountID, secret string) (LoginStep, error)
	SubmitSlider(ctx context.Context, ticket string) (LoginStep, error)
	// Resume continues the paused attempt after an out-of-band confirmation
	// (QR scan), without presenting credentials again.
	Resume(ctx context.Context) (LoginStep, error)
	SendSMSCode(ctx context.Context) error
	SubmitSMSCode(ctx context.Context, code string) (LoginStep, error)
	Close() error
}

type ClientFactory interface {
	New(ctx context.Context, settings domain.Settings) (Client, error)
}

type ClientFactoryFunc func(ctx context.Context, settings domain.Settings) (Client, error)

func (f ClientFactoryFunc) New(ctx context.Context, settings domain.Settings) (Client, error) {
	return f(ctx, settings)
}
