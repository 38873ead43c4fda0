package order

import (
	"fmt"
	"strings"

	"myday-qr/internal/apperr"
	"myday-qr/internal/models"
)

var ErrInvalidTransition = fmt.Errorf("status transition not allowed: %w", apperr.ErrConflict)

// Transitions maps a status to the statuses it may move to. A status with no
// entry may move anywhere, so the zero value allows every transition.
type Transitions map[models.OrderStatus]map[models.OrderStatus]bool

// ParseTransitions reads "from:to,to;from:" rules. An empty target list makes
// the status terminal.
func ParseTransitions(raw string) (Transitions, error) {
	t := Transitions{}
	for _, rule := range strings.Split(raw, ";") {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}

		from, targets, ok := strings.Cut(rule, ":")
		if !ok {
			return nil, fmt.Errorf("transition rule %q: missing ':'", rule)
		}
		fromStatus := models.OrderStatus(strings.TrimSpace(from))
		if !fromStatus.Valid() {
			return nil, fmt.Errorf("transition rule %q: unknown status %q", rule, fromStatus)
		}

		allowed := map[models.OrderStatus]bool{}
		for _, to := range strings.Split(targets, ",") {
			to = strings.TrimSpace(to)
			if to == "" {
				continue
			}
			toStatus := models.OrderStatus(to)
			if !toStatus.Valid() {
				return nil, fmt.Errorf("transition rule %q: unknown status %q", rule, toStatus)
			}
			allowed[toStatus] = true
		}
		t[fromStatus] = allowed
	}
	return t, nil
}

func (t Transitions) Allowed(from, to models.OrderStatus) bool {
	targets, ok := t[from]
	if !ok {
		return true
	}
	return targets[to]
}

func (t Transitions) Check(from, to models.OrderStatus) error {
	if !t.Allowed(from, to) {
		return fmt.Errorf("%s -> %s: %w", from, to, ErrInvalidTransition)
	}
	return nil
}
