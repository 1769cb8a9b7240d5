package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/email-platform/internal/domain"
	"github.com/spec-kit/email-platform/internal/events"
	"github.com/spec-kit/email-platform/internal/repository"
	apperrors "github.com/spec-kit/email-platform/pkg/util"
)

// AccountService manages linked email accounts on behalf of their owners.
type AccountService struct {
	accounts   repository.EmailAccountRepository
	emails     repository.EmailRepository
	dispatcher events.Dispatcher
}

// NewAccountService builds the service.
func NewAccountService(accounts repository.EmailAccountRepository, emails repository.EmailRepository, dispatcher events.Dispatcher) *AccountService {
	return &AccountService{accounts: accounts, emails: emails, dispatcher: dispatcher}
}

// LinkAccount registers a new mailbox for the actor.
func (s *AccountService) LinkAccount(ctx context.Context, actor *domain.User, account *domain.EmailAccount) (*domain.EmailAccount, error) {
	if !account.Provider.Valid() {
		return nil, apperrors.NewValidationError("unknown provider", map[string]any{"provider": account.Provider})
	}
	account.UserID = actor.ID
	if account.ProcessIntervalMinutes <= 0 {
		account.ProcessIntervalMinutes = 15
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.publishAccountEvent(ctx, events.EventEmailAccountLinked, actor.ID, events.EmailAccountLinkedPayload{
		AccountID:    account.ID,
		EmailAddress: account.EmailAddress,
		Provider:     account.Provider,
	})
	return account, nil
}

// GetAccount returns an account the actor may view.
func (s *AccountService) GetAccount(ctx context.Context, actor *domain.User, id string) (*domain.EmailAccount, error) {
	return s.ownedAccount(ctx, actor, id)
}

// ListAccounts returns the actor's accounts.
func (s *AccountService) ListAccounts(ctx context.Context, actor *domain.User) ([]*domain.EmailAccount, error) {
	return s.accounts.ListByUser(ctx, actor.ID)
}

// UpdateAccount applies owner-editable settings.
func (s *AccountService) UpdateAccount(ctx context.Context, actor *domain.User, account *domain.EmailAccount) (*domain.EmailAccount, error) {
	existing, err := s.ownedAccount(ctx, actor, account.ID)
	if err != nil {
		return nil, err
	}

	existing.DisplayName = account.DisplayName
	existing.IMAPServer = account.IMAPServer
	existing.IMAPPort = account.IMAPPort
	existing.IMAPUsername = account.IMAPUsername
	existing.SMTPServer = account.SMTPServer
	existing.SMTPPort = account.SMTPPort
	existing.SMTPUsername = account.SMTPUsername
	existing.IsActive = account.IsActive
	existing.AutoProcess = account.AutoProcess
	if account.ProcessIntervalMinutes > 0 {
		existing.ProcessIntervalMinutes = account.ProcessIntervalMinutes
	}

	if err := s.accounts.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// UnlinkAccount removes a mailbox.
func (s *AccountService) UnlinkAccount(ctx context.Context, actor *domain.User, id string) error {
	account, err := s.ownedAccount(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, account.ID); err != nil {
		return err
	}

	s.publishAccountEvent(ctx, events.EventEmailAccountUnlinked, actor.ID, events.EmailAccountUnlinkedPayload{AccountID: account.ID})
	return nil
}

// ListEmails returns ingested messages for one of the actor's accounts.
func (s *AccountService) ListEmails(ctx context.Context, actor *domain.User, accountID string, limit, offset int) ([]*domain.Email, error) {
	if _, err := s.ownedAccount(ctx, actor, accountID); err != nil {
		return nil, err
	}
	return s.emails.ListByAccount(ctx, accountID, limit, offset)
}

func (s *AccountService) ownedAccount(ctx context.Context, actor *domain.User, id string) (*domain.EmailAccount, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("email account", nil)
		}
		return nil, err
	}
	if account.UserID != actor.ID && actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("not the account owner")
	}
	return account, nil
}

func (s *AccountService) publishAccountEvent(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
