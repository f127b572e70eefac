package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/fintrack/finance-tracker-backend/internal/apperrors"
	"github.com/fintrack/finance-tracker-backend/internal/repository"
)

// RateProviderTokenKey is the setting key holding the external exchange-rate
// provider's API token.
const RateProviderTokenKey = "rate_provider_token"

// tokenTTL bounds how old an encrypted token may be before it is considered
// stale and must be re-entered.
const tokenTTL = 365 * 24 * time.Hour

// SettingService stores and retrieves system settings. Sensitive values are
// fernet-encrypted with the configured key before they reach the database.
type SettingService struct {
	settingRepo *repository.SettingRepository
	key         *fernet.Key
}

// NewSettingService creates a new SettingService. fernetKey may be empty, in
// which case encrypted settings are unavailable and Set/Get of secret keys
// return an error.
func NewSettingService(settingRepo *repository.SettingRepository, fernetKey string) (*SettingService, error) {
	s := &SettingService{settingRepo: settingRepo}

	if fernetKey != "" {
		key, err := fernet.DecodeKey(fernetKey)
		if err != nil {
			return nil, fmt.Errorf("invalid settings key: %w", err)
		}
		s.key = key
	}
	return s, nil
}

// SetSecret encrypts and stores a sensitive value under the given key.
func (s *SettingService) SetSecret(key, value string) error {
	if s.key == nil {
		return fmt.Errorf("settings key not configured")
	}
	token, err := fernet.EncryptAndSign([]byte(value), s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt setting: %w", err)
	}
	return s.settingRepo.Set(key, string(token))
}

// GetSecret retrieves and decrypts a sensitive value.
func (s *SettingService) GetSecret(key string) (string, error) {
	if s.key == nil {
		return "", fmt.Errorf("settings key not configured")
	}
	stored, err := s.settingRepo.Get(key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperrors.ErrSettingNotFound
	}
	if err != nil {
		return "", err
	}

	plain := fernet.VerifyAndDecrypt([]byte(stored), tokenTTL, []*fernet.Key{s.key})
	if plain == nil {
		return "", fmt.Errorf("failed to decrypt setting %q", key)
	}
	return string(plain), nil
}
