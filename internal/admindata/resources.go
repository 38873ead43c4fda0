package admindata

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"myday-qr/internal/admin"
	"myday-qr/internal/apperr"
	"myday-qr/internal/catalog"
	"myday-qr/internal/content"
	"myday-qr/internal/coupon"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/order"
	"myday-qr/internal/qrcode"
	"myday-qr/internal/utils"
)

// Deps are the domain services the proxy writes through.
type Deps struct {
	DB      *bun.DB
	Catalog *catalog.Service
	Coupons *coupon.Service
	Orders  *order.Service
	Content *content.Service
	Admins  *admin.Service
	QRCodes *qrcode.Service
	// MissingOrderColumns lists optional order columns the schema lacks.
	MissingOrderColumns func() []string
}

// Build registers every table the admin screens may touch.
func Build(d Deps, log *logger.Logger) *Service {
	s := NewService(log)
	s.Register("products", products{Table[models.Product]{DB: d.DB}, d.Catalog}, ReadWrite)
	s.Register("examples", examples{Table[models.Example]{DB: d.DB}, d.Catalog}, ReadWrite)
	s.Register("coupons", coupons{Table[models.Coupon]{DB: d.DB}, d.Coupons}, ReadWrite)
	s.Register("orders", orders{Table[models.Order]{DB: d.DB, Missing: d.MissingOrderColumns}, d.Orders}, ReadWrite)
	s.Register("site_config", siteConfig{Table[models.SiteConfig]{DB: d.DB}, d.Content}, ReadWrite)
	s.Register("admins", admins{Table[models.Administrator]{DB: d.DB}, d.Admins}, Policy{Write: true, Delete: true, SuperAdminWrites: true})
	s.Register("users", users{Table[models.User]{DB: d.DB, Hidden: []string{"password_hash"}}, readOnly{}}, ReadOnly)
	s.Register("qrcodes", qrcodes{Table[models.QRCode]{DB: d.DB}, d.QRCodes}, Policy{Delete: true})
	return s
}

type products struct {
	Table[models.Product]
	svc *catalog.Service
}

func (r products) Save(ctx context.Context, _ *models.Administrator, id string, updates map[string]interface{}) (interface{}, error) {
	var p models.Product
	if id == "" {
		if err := merge(&p, nil, updates); err != nil {
			return nil, err
		}
		return r.svc.CreateProduct(ctx, p)
	}
	existing, err := r.svc.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := merge(&p, existing, updates); err != nil {
		return nil, err
	}
	return r.svc.UpdateProduct(ctx, id, p)
}

func (r products) Delete(ctx context.Context, _ *models.Administrator, id string) error {
	return r.svc.DeleteProduct(ctx, id)
}

type examples struct {
	Table[models.Example]
	svc *catalog.Service
}

func (r examples) Save(ctx context.Context, _ *models.Administrator, id string, updates map[string]interface{}) (interface{}, error) {
	var e models.Example
	if id == "" {
		if err := merge(&e, nil, updates); err != nil {
			return nil, err
		}
		return r.svc.CreateExample(ctx, e)
	}
	existing, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := merge(&e, existing, updates); err != nil {
		return nil, err
	}
	return r.svc.UpdateExample(ctx, id, e)
}

func (r examples) Delete(ctx context.Context, _ *models.Administrator, id string) error {
	return r.svc.DeleteExample(ctx, id)
}

type coupons struct {
	Table[models.Coupon]
	svc *coupon.Service
}

func (r coupons) Save(ctx context.Context, _ *models.Administrator, id string, updates map[string]interface{}) (interface{}, error) {
	var c models.Coupon
	if id == "" {
		if err := merge(&c, nil, updates); err != nil {
			return nil, err
		}
		return r.svc.Create(ctx, c)
	}
	existing, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := merge(&c, existing, updates); err != nil {
		return nil, err
	}
	return r.svc.Update(ctx, id, c)
}

func (r coupons) Delete(ctx context.Context, _ *models.Administrator, id string) error {
	return r.svc.Delete(ctx, id)
}

// orders are created by checkout only; the proxy may move their status.
type orders struct {
	Table[models.Order]
	svc *order.Service
}

func (r orders) Save(ctx context.Context, _ *models.Administrator, id string, updates map[string]interface{}) (interface{}, error) {
	if id == "" {
		return nil, fmt.Errorf("orders are created by checkout: %w", apperr.ErrForbidden)
	}
	if err := only(updates, "status"); err != nil {
		return nil, err
	}
	status, _ := updates["status"].(string)
	return r.svc.SetStatus(ctx, id, models.OrderStatus(status))
}

func (r orders) Delete(ctx context.Context, _ *models.Administrator, id string) error {
	return r.svc.Delete(ctx, id)
}

type siteConfig struct {
	Table[models.SiteConfig]
	svc *content.Service
}

func (r siteConfig) Save(ctx context.Context, _ *models.Administrator, id string, updates map[string]interface{}) (interface{}, error) {
	rest := make(map[string]interface{}, len(updates))
	for k, v := range updates {
		rest[k] = v
	}
	key, _ := rest["key"].(string)
	delete(rest, "key")

	var base *models.SiteConfigUpdate
	if id != "" {
		row, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if key != "" && key != row.Key {
			return nil, apperr.Invalid("key cannot be changed", apperr.FieldErrors{"key": "cannot be changed"})
		}
		key = row.Key
		base = &models.SiteConfigUpdate{
			Value:       &row.Value,
			Type:        row.Type,
			Category:    row.Category,
			Label:       row.Label,
			Description: row.Description,
		}
	} else if key == "" {
		return nil, apperr.Invalid("key is required", apperr.FieldErrors{"key": "is required"})
	}

	var update models.SiteConfigUpdate
	var src interface{}
	if base != nil {
		src = base
	}
	if err := merge(&update, src, rest); err != nil {
		return nil, err
	}
	return r.svc.Upsert(ctx, key, update)
}

func (r siteConfig) Delete(ctx context.Context, _ *models.Administrator, id string) error {
	return r.svc.Delete(ctx, id)
}

type admins struct {
	Table[models.Administrator]
	svc *admin.Service
}

func (r admins) Save(ctx context.Context, actor *models.Administrator, id string, updates map[string]interface{}) (interface{}, error) {
	if id == "" {
		var req models.CreateAdminRequest
		if err := merge(&req, nil, updates); err != nil {
			return nil, err
		}
		if err := utils.ValidateStruct(&req); err != nil {
			return nil, err
		}
		return r.svc.Create(ctx, actor, req)
	}
	if err := only(updates, "role"); err != nil {
		return nil, err
	}
	role, _ := updates["role"].(string)
	return r.svc.UpdateRole(ctx, actor, id, role)
}

func (r admins) Delete(ctx context.Context, actor *models.Administrator, id string) error {
	return r.svc.Delete(ctx, actor, id)
}

// readOnly completes Resource for tables the proxy only lists.
type readOnly struct{}

func (readOnly) Save(context.Context, *models.Administrator, string, map[string]interface{}) (interface{}, error) {
	return nil, apperr.ErrForbidden
}

func (readOnly) Delete(context.Context, *models.Administrator, string) error {
	return apperr.ErrForbidden
}

type users struct {
	Table[models.User]
	readOnly
}

type qrcodes struct {
	Table[models.QRCode]
	svc *qrcode.Service
}

func (r qrcodes) Save(context.Context, *models.Administrator, string, map[string]interface{}) (interface{}, error) {
	return nil, fmt.Errorf("qr codes are edited by their owners: %w", apperr.ErrForbidden)
}

func (r qrcodes) Delete(ctx context.Context, _ *models.Administrator, id string) error {
	return r.svc.AdminDelete(ctx, id)
}
