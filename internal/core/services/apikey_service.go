package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eventdeskhq/eventdesk/internal/core/domain"
	"github.com/eventdeskhq/eventdesk/internal/core/ports"
)

// KeyPrefixLength is how many leading characters of the raw secret are kept
// for display after creation.
const KeyPrefixLength = 8

const rawKeyPrefix = "edk_"

type apiKeyService struct {
	repo   ports.Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewAPIKeyService creates the API-key lifecycle service.
func NewAPIKeyService(repo ports.Repository, logger *slog.Logger) ports.APIKeyService {
	return &apiKeyService{repo: repo, logger: logger, now: time.Now}
}

// HashKey returns the hex SHA-256 digest under which a raw secret is stored
// and looked up.
func HashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (s *apiKeyService) Create(ctx context.Context, userID int64, name string, expiryDays *int) (*domain.APIKey, string, error) {
	if err := domain.ValidateKeyName(name); err != nil {
		return nil, "", err
	}
	if expiryDays != nil && *expiryDays <= 0 {
		return nil, "", fmt.Errorf("%w: expiryDays must be positive", domain.ErrInvalidInput)
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, "", fmt.Errorf("generate key: %w", err)
	}
	raw := rawKeyPrefix + hex.EncodeToString(buf)

	key := &domain.APIKey{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		KeyHash:   HashKey(raw),
		KeyPrefix: raw[:KeyPrefixLength],
		Active:    true,
		CreatedAt: s.now(),
	}
	if expiryDays != nil {
		expires := s.now().AddDate(0, 0, *expiryDays)
		key.ExpiresAt = &expires
	}

	if err := s.repo.CreateAPIKey(ctx, key); err != nil {
		return nil, "", fmt.Errorf("save API key: %w", err)
	}

	s.audit(ctx, userID, "apikey.create", key.Name)
	return key, raw, nil
}

func (s *apiKeyService) List(ctx context.Context, userID int64) ([]domain.APIKey, error) {
	return s.repo.ListAPIKeys(ctx, userID)
}

// SetActive toggles a key. Setting a key to its current state is a no-op
// that still succeeds. Only the owner may toggle.
func (s *apiKeyService) SetActive(ctx context.Context, userID int64, keyID string, active bool) (*domain.APIKey, error) {
	key, err := s.owned(ctx, userID, keyID)
	if err != nil {
		return nil, err
	}

	if key.Active == active {
		return key, nil
	}

	if err := s.repo.SetAPIKeyActive(ctx, keyID, active); err != nil {
		return nil, fmt.Errorf("toggle API key: %w", err)
	}
	key.Active = active

	action := "apikey.deactivate"
	if active {
		action = "apikey.activate"
	}
	s.audit(ctx, userID, action, key.Name)
	return key, nil
}

func (s *apiKeyService) Delete(ctx context.Context, userID int64, keyID string) error {
	key, err := s.owned(ctx, userID, keyID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteAPIKey(ctx, keyID); err != nil {
		return fmt.Errorf("delete API key: %w", err)
	}
	s.audit(ctx, userID, "apikey.delete", key.Name)
	return nil
}

// owned fetches a key and enforces the owner check.
func (s *apiKeyService) owned(ctx context.Context, userID int64, keyID string) (*domain.APIKey, error) {
	key, err := s.repo.GetAPIKey(ctx, keyID)
	if err != nil {
		return nil, fmt.Errorf("lookup API key: %w", err)
	}
	if key == nil {
		return nil, domain.ErrNotFound
	}
	if key.UserID != userID {
		return nil, domain.ErrNotAuthorized
	}
	return key, nil
}

func (s *apiKeyService) audit(ctx context.Context, userID int64, action, detail string) {
	saveAudit(ctx, s.repo, s.logger, s.now(), &userID, action, detail)
}
