package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/contabot-dev/contabot/internal/coa"
	"github.com/contabot-dev/contabot/internal/model"
	"github.com/contabot-dev/contabot/internal/storage"
)

// maxResolveAttempts bounds the re-resolve loop when concurrent callers
// race to create the same account. The (userID, code) unique constraint
// guarantees at most one creation wins; losers re-fetch.
const maxResolveAttempts = 3

// resolveAccount maps a free-text name and/or suggested code to a
// persisted movable account, creating one if absent.
//
// Lookup order: exact code, then case-insensitive name among movable
// accounts. Creation uses the suggested code when it parses, otherwise
// the configured miscellaneous fallback code; the derived parent must
// already exist persisted.
func (s *Service) resolveAccount(ctx context.Context, userID string, ref model.AccountRef) (model.Account, error) {
	var lastErr error
	for attempt := 0; attempt < maxResolveAttempts; attempt++ {
		if ref.Code != "" {
			acct, err := s.store.AccountByCode(ctx, userID, ref.Code)
			if err == nil {
				return acct, nil
			}
			if !errors.Is(err, storage.ErrNotFound) {
				return model.Account{}, err
			}
		}

		if ref.Name != "" {
			acct, err := s.store.AccountByName(ctx, userID, ref.Name, true)
			if err == nil {
				return acct, nil
			}
			if !errors.Is(err, storage.ErrNotFound) {
				return model.Account{}, err
			}
		}

		acct, err := s.createResolvedAccount(ctx, userID, ref)
		if errors.Is(err, storage.ErrConflict) {
			// Another request created it between our lookup and our
			// insert; loop back and re-resolve.
			lastErr = err
			continue
		}
		return acct, err
	}
	return model.Account{}, fmt.Errorf("resolving account %q: %w", ref.Name, lastErr)
}

func (s *Service) createResolvedAccount(ctx context.Context, userID string, ref model.AccountRef) (model.Account, error) {
	code, err := coa.ParseCode(ref.Code)
	if ref.Code == "" || err != nil {
		code, err = coa.ParseCode(s.fallbackCode)
		if err != nil {
			return model.Account{}, fmt.Errorf("fallback code: %w", err)
		}
	}

	parentID := ""
	if parentCode := code.ParentCode(); parentCode != "" {
		parent, err := s.store.AccountByCode(ctx, userID, parentCode)
		if errors.Is(err, storage.ErrNotFound) {
			return model.Account{}, &MissingParentAccountError{Code: code.String(), ParentCode: parentCode}
		}
		if err != nil {
			return model.Account{}, err
		}
		parentID = parent.ID
	}

	name := ref.Name
	if name == "" {
		name = code.DefaultName()
	}

	acct := model.Account{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Code:               code.String(),
		Name:               name,
		Nature:             code.Nature(),
		Type:               code.Type(),
		Level:              code.Level(),
		ParentID:           parentID,
		CanReceiveMovement: true,
	}
	if err := s.store.CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			// Lost the creation race on this code; the winner's row is
			// the canonical account.
			if existing, fetchErr := s.store.AccountByCode(ctx, userID, acct.Code); fetchErr == nil {
				return existing, nil
			}
		}
		return model.Account{}, err
	}
	return acct, nil
}
