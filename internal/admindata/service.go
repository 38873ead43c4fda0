// Package admindata is the generic table proxy behind the admin screens. Each
// allow-listed table is a Resource; writes go through the owning domain
// service so validation and events stay in one place.
package admindata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"myday-qr/internal/apperr"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
)

type Resource interface {
	List(ctx context.Context, q models.ListQuery) (interface{}, error)
	// Save creates a row when id is empty and updates it otherwise.
	Save(ctx context.Context, actor *models.Administrator, id string, updates map[string]interface{}) (interface{}, error)
	Delete(ctx context.Context, actor *models.Administrator, id string) error
}

// Policy says what an administrator may do with a table. Reads are always
// allowed once a table is registered.
type Policy struct {
	Write            bool
	Delete           bool
	SuperAdminWrites bool
}

var (
	ReadOnly  = Policy{}
	ReadWrite = Policy{Write: true, Delete: true}
)

type entry struct {
	resource Resource
	policy   Policy
}

type Service struct {
	tables map[string]entry
	Logger *logger.Logger
}

func NewService(log *logger.Logger) *Service {
	return &Service{tables: make(map[string]entry), Logger: log}
}

func (s *Service) Register(table string, res Resource, policy Policy) {
	s.tables[table] = entry{resource: res, policy: policy}
}

func (s *Service) Tables() []string {
	out := make([]string, 0, len(s.tables))
	for name := range s.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *Service) lookup(table string) (entry, error) {
	e, ok := s.tables[strings.TrimSpace(table)]
	if !ok {
		return entry{}, fmt.Errorf("table %q is not allowed: %w", table, apperr.ErrForbidden)
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, actor *models.Administrator, table string, q models.ListQuery) (interface{}, error) {
	e, err := s.lookup(table)
	if err != nil {
		return nil, err
	}
	return e.resource.List(ctx, q)
}

func (s *Service) Save(ctx context.Context, actor *models.Administrator, table, id string, updates map[string]interface{}) (interface{}, error) {
	e, err := s.lookup(table)
	if err != nil {
		return nil, err
	}
	if !e.policy.Write {
		return nil, fmt.Errorf("table %s is read-only: %w", table, apperr.ErrForbidden)
	}
	if e.policy.SuperAdminWrites && !actor.IsSuperAdmin() {
		return nil, fmt.Errorf("writing %s needs super_admin: %w", table, apperr.ErrForbidden)
	}
	if len(updates) == 0 {
		return nil, apperr.Invalid("updates are required", apperr.FieldErrors{"updates": "is required"})
	}

	row, err := e.resource.Save(ctx, actor, strings.TrimSpace(id), updates)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("ADMIN_DATA", fmt.Sprintf("%s saved %s row %s", actorID(actor), table, id))
	return row, nil
}

func (s *Service) Delete(ctx context.Context, actor *models.Administrator, table, id string) error {
	e, err := s.lookup(table)
	if err != nil {
		return err
	}
	if !e.policy.Delete {
		return fmt.Errorf("rows of %s cannot be deleted: %w", table, apperr.ErrForbidden)
	}
	if e.policy.SuperAdminWrites && !actor.IsSuperAdmin() {
		return fmt.Errorf("deleting from %s needs super_admin: %w", table, apperr.ErrForbidden)
	}
	if strings.TrimSpace(id) == "" {
		return apperr.Invalid("id is required", apperr.FieldErrors{"id": "is required"})
	}

	if err := e.resource.Delete(ctx, actor, id); err != nil {
		return err
	}
	s.Logger.Info("ADMIN_DATA", fmt.Sprintf("%s deleted %s row %s", actorID(actor), table, id))
	return nil
}

func actorID(a *models.Administrator) string {
	if a == nil {
		return "unknown"
	}
	return a.ID
}

// merge overlays updates onto base and decodes the result into dst. Keys that
// dst does not know are rejected.
func merge(dst interface{}, base interface{}, updates map[string]interface{}) error {
	if base != nil {
		raw, err := json.Marshal(base)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return err
		}
	}

	raw, err := json.Marshal(updates)
	if err != nil {
		return apperr.Invalid("invalid updates", nil)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Invalid(fmt.Sprintf("invalid updates: %v", err), apperr.FieldErrors{"updates": "contains an unknown or mistyped field"})
	}
	return nil
}

// only rejects updates that touch anything besides the allowed keys.
func only(updates map[string]interface{}, allowed ...string) error {
	for k := range updates {
		ok := false
		for _, a := range allowed {
			if k == a {
				ok = true
				break
			}
		}
		if !ok {
			return apperr.Invalid(fmt.Sprintf("field %q cannot be changed here", k), apperr.FieldErrors{k: "cannot be changed here"})
		}
	}
	return nil
}
