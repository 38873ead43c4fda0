// Package content holds the editable site texts and brand colours.
package content

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"myday-qr/internal/apperr"
	"myday-qr/internal/database"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/utils"
)

const defaultCategory = "custom"

var (
	keyPattern    = regexp.MustCompile(`^[a-z0-9_]{1,100}$`)
	colourPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

type Store interface {
	List(ctx context.Context) ([]models.SiteConfig, error)
	GetByKey(ctx context.Context, key string) (*models.SiteConfig, error)
	Create(ctx context.Context, row *models.SiteConfig) error
	Update(ctx context.Context, row *models.SiteConfig) error
	DeleteByID(ctx context.Context, id string) error
}

type Service struct {
	Store  Store
	Logger *logger.Logger
}

func NewService(store Store, log *logger.Logger) *Service {
	return &Service{Store: store, Logger: log}
}

// Public returns every setting as key -> value.
func (s *Service) Public(ctx context.Context) (map[string]string, error) {
	rows, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

func (s *Service) List(ctx context.Context) ([]models.SiteConfig, error) {
	return s.Store.List(ctx)
}

func validateValue(typ, value string) error {
	if typ == models.ConfigTypeColor && !colourPattern.MatchString(value) {
		return apperr.Invalid("invalid colour", apperr.FieldErrors{"value": "must be a hex colour like #e11d48"})
	}
	return nil
}

// Upsert sets key to the update. A missing key is created as a text setting
// in the custom category, labelled with its own key.
func (s *Service) Upsert(ctx context.Context, key string, update models.SiteConfigUpdate) (*models.SiteConfig, error) {
	key = strings.TrimSpace(key)
	if !keyPattern.MatchString(key) {
		return nil, apperr.Invalid("invalid key", apperr.FieldErrors{"key": "must be lowercase letters, digits or underscores"})
	}
	if err := utils.ValidateStruct(&update); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	row, err := s.Store.GetByKey(ctx, key)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		row = &models.SiteConfig{
			ID:       uuid.New().String(),
			Key:      key,
			Type:     models.ConfigTypeText,
			Category: defaultCategory,
			Label:    key,
		}
		applyUpdate(row, update, now)
		if err := validateValue(row.Type, row.Value); err != nil {
			return nil, err
		}
		if err := s.Store.Create(ctx, row); err != nil {
			if database.IsUniqueViolation(err) {
				return nil, fmt.Errorf("site config %s was created concurrently: %w", key, apperr.ErrConflict)
			}
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		applyUpdate(row, update, now)
		if err := validateValue(row.Type, row.Value); err != nil {
			return nil, err
		}
		if err := s.Store.Update(ctx, row); err != nil {
			return nil, err
		}
	}

	s.Logger.Info("CONTENT", fmt.Sprintf("Set %s", key))
	return row, nil
}

func applyUpdate(row *models.SiteConfig, update models.SiteConfigUpdate, now time.Time) {
	if update.Value != nil {
		row.Value = *update.Value
	}
	if update.Type != "" {
		row.Type = update.Type
	}
	if c := strings.TrimSpace(update.Category); c != "" {
		row.Category = c
	}
	if l := strings.TrimSpace(update.Label); l != "" {
		row.Label = l
	}
	if update.Description != "" {
		row.Description = update.Description
	}
	row.UpdatedAt = now
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Store.DeleteByID(ctx, id)
}
