// Package qrcode owns short-coded QR messages: creation and editing by their
// owner, public resolution by short code, and the bitmap that links to it.
package qrcode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"myday-qr/internal/apperr"
	"myday-qr/internal/database"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
)

var ErrInvalidShortCode = apperr.Invalid("malformed short code", nil)

const createAttempts = 3

type Store interface {
	Create(ctx context.Context, qr *models.QRCode) error
	GetByShortCode(ctx context.Context, shortCode string) (*models.QRCode, error)
	UpdatePhrase(ctx context.Context, id, ownerID, phrase string) (*models.QRCode, error)
	DeleteOwned(ctx context.Context, id, ownerID string) (*models.QRCode, error)
	DeleteByID(ctx context.Context, id string) (*models.QRCode, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.QRCode, error)
	ListAll(ctx context.Context) ([]models.QRCode, error)
}

type Service struct {
	Store    Store
	Cache    Cache
	Renderer *Renderer
	Logger   *logger.Logger
	NewCode  func() (string, error)
}

func NewService(store Store, cache Cache, renderer *Renderer, log *logger.Logger) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{Store: store, Cache: cache, Renderer: renderer, Logger: log, NewCode: NewShortCode}
}

func normalizePhrase(phrase string) (string, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return "", apperr.Invalid("phrase is required", apperr.FieldErrors{"phrase": "is required"})
	}
	if utf8.RuneCountInString(phrase) > models.MaxPhraseLength {
		return "", apperr.Invalid("phrase is too long", apperr.FieldErrors{"phrase": fmt.Sprintf("must be at most %d characters", models.MaxPhraseLength)})
	}
	return phrase, nil
}

func requireOwner(ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("no owner: %w", apperr.ErrUnauthorized)
	}
	return nil
}

// Create stores a new code for ownerID. A short code collision draws a new code.
func (s *Service) Create(ctx context.Context, ownerID, phrase string) (*models.QRCode, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	phrase, err := normalizePhrase(phrase)
	if err != nil {
		return nil, err
	}

	qr := &models.QRCode{
		ID:        uuid.New().String(),
		UserID:    ownerID,
		Phrase:    phrase,
		CreatedAt: time.Now().UTC(),
	}

	for attempt := 1; ; attempt++ {
		qr.ShortCode, err = s.NewCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate short code: %w", err)
		}
		err = s.Store.Create(ctx, qr)
		if err == nil {
			break
		}
		if !database.IsUniqueViolation(err) || attempt == createAttempts {
			return nil, fmt.Errorf("failed to create qr code: %w", err)
		}
		s.Logger.Warn("QRCODE", fmt.Sprintf("Short code collision on attempt %d", attempt))
	}

	s.Logger.LogQRCode("CREATE", qr.ShortCode, fmt.Sprintf("owner %s", ownerID))
	return qr, nil
}

func (s *Service) Rename(ctx context.Context, id, ownerID, phrase string) (*models.QRCode, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	phrase, err := normalizePhrase(phrase)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperr.Invalid("id is required", apperr.FieldErrors{"id": "is required"})
	}

	qr, err := s.Store.UpdatePhrase(ctx, id, ownerID, phrase)
	if err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx, qr.ShortCode)
	s.Logger.LogQRCode("RENAME", qr.ShortCode, fmt.Sprintf("owner %s", ownerID))
	return qr, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if id == "" {
		return apperr.Invalid("id is required", apperr.FieldErrors{"id": "is required"})
	}

	qr, err := s.Store.DeleteOwned(ctx, id, ownerID)
	if err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, qr.ShortCode)
	s.Logger.LogQRCode("DELETE", qr.ShortCode, fmt.Sprintf("owner %s", ownerID))
	return nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]models.QRCode, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.Store.ListByOwner(ctx, ownerID)
}

// Resolve is the public lookup. It exposes the phrase and creation time only.
func (s *Service) Resolve(ctx context.Context, shortCode string) (*models.PublicQRCode, error) {
	if !ValidShortCode(shortCode) {
		return nil, ErrInvalidShortCode
	}

	if view, ok := s.Cache.Get(ctx, shortCode); ok {
		return view, nil
	}

	qr, err := s.Store.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	view := &models.PublicQRCode{Phrase: qr.Phrase, CreatedAt: qr.CreatedAt}
	s.Cache.Set(ctx, shortCode, view)
	return view, nil
}

// RenderPNG draws the code only when it resolves.
func (s *Service) RenderPNG(ctx context.Context, shortCode string) ([]byte, error) {
	if _, err := s.Resolve(ctx, shortCode); err != nil {
		return nil, err
	}
	return s.Renderer.PNG(shortCode)
}

func (s *Service) ListAll(ctx context.Context) ([]models.QRCode, error) {
	return s.Store.ListAll(ctx)
}

func (s *Service) AdminDelete(ctx context.Context, id string) error {
	qr, err := s.Store.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, qr.ShortCode)
	s.Logger.LogQRCode("ADMIN_DELETE", qr.ShortCode, fmt.Sprintf("owner %s", qr.UserID))
	return nil
}

func IsInvalidShortCode(err error) bool {
	return errors.Is(err, ErrInvalidShortCode)
}
