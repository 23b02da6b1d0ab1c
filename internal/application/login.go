package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relvane/botsessions/internal/domain"
	"github.com/relvane/botsessions/internal/ports"
)

const smsChoice = "1"

// LoginService carries one account from a freshly built client to Online or
// Failed, resolving interactive challenges through the operator prompter.
type LoginService struct {
	prompter ports.Prompter
	logger   *slog.Logger
}

func NewLoginService(prompter ports.Prompter, logger *slog.Logger) *LoginService {
	if logger == nil {
		logger = slog.Default()
	}

	return &LoginService{prompter: prompter, logger: logger}
}

// Authenticate runs the login state machine for one account. The returned
// session has status Online on success and Failed otherwise; a Failed
// session carries the error that ended the attempt. Exactly one challenge
// branch is active at a time, and each branch reads the prompter once
// (device verification reads twice when SMS is chosen).
func (s *LoginService) Authenticate(ctx context.Context, client ports.Client, account domain.Account) (domain.Session, error) {
	session := domain.Session{
		AccountID:   account.ID,
		DisplayName: account.DisplayName,
		Client:      client,
		Status:      domain.SessionConnecting,
	}

	step, err := client.Connect(ctx, account.ID, account.Secret)
	for err == nil {
		switch step.State {
		case ports.StateOnline:
			session.Status = domain.SessionOnline
			return session, nil

		case ports.StateSliderChallenge:
			session.Status = domain.SessionAwaitingSlider
			var ticket string
			ticket, err = s.prompter.Prompt(ctx, fmt.Sprintf(
				"bot %s login -> enter the ticket obtained from the slider URL to continue.\nslider URL:\n%s",
				account.ID, step.URL))
			if err == nil {
				step, err = client.SubmitSlider(ctx, ticket)
			}

		case ports.StateQRCodeChallenge:
			session.Status = domain.SessionAwaitingQRCode
			_, err = s.prompter.Prompt(ctx, fmt.Sprintf(
				"bot %s login -> press enter once the QR code is scanned:", account.ID))
			if err == nil {
				step, err = client.Resume(ctx)
			}

		case ports.StateDeviceChallenge:
			session.Status = domain.SessionAwaitingDeviceChoice
			step, err = s.resolveDeviceChallenge(ctx, client, account, step.URL, &session)

		default:
			err = fmt.Errorf("unexpected login state %d", step.State)
		}
	}

	session.Status = domain.SessionFailed
	return session, fmt.Errorf("login account %s: %w", account.ID, err)
}

func (s *LoginService) resolveDeviceChallenge(ctx context.Context, client ports.Client, account domain.Account, fallbackURL string, session *domain.Session) (ports.LoginStep, error) {
	choice, err := s.prompter.Prompt(ctx, fmt.Sprintf(
		"bot %s login -> choose a verification method (1: SMS, other: QR scan):", account.ID))
	if err != nil {
		return ports.LoginStep{}, err
	}

	if choice == smsChoice {
		session.Status = domain.SessionAwaitingSMS
		if err := client.SendSMSCode(ctx); err != nil {
			return ports.LoginStep{}, err
		}
		code, err := s.prompter.Prompt(ctx, fmt.Sprintf(
			"bot %s login -> enter the SMS verification code:", account.ID))
		if err != nil {
			return ports.LoginStep{}, err
		}
		return client.SubmitSMSCode(ctx, code)
	}

	session.Status = domain.SessionAwaitingQRCode
	if _, err := s.prompter.Prompt(ctx, fmt.Sprintf(
		"bot %s login -> press enter once the QR code is scanned:\n%s", account.ID, fallbackURL)); err != nil {
		return ports.LoginStep{}, err
	}
	return client.Resume(ctx)
}
