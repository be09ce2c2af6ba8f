// Package gate implements the purchasability gate: an ordered chain of
// checks run at three points of the purchase lifecycle — catalogue display,
// add-to-cart and checkout.
//
// The registration-status check always runs first and is independent of
// affordability: an account awaiting review cannot purchase at any balance.
// Any failure inside affordability evaluation is recovered and the action
// is allowed (fail-open), so a logic bug degrades to under-enforcing the
// points limit instead of blocking sales.
package gate

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/mhoralek/pointmarket/internal/lib/sl"
	"github.com/mhoralek/pointmarket/internal/metrics"
	"github.com/mhoralek/pointmarket/internal/models"
	"github.com/mhoralek/pointmarket/internal/points"
)

// User-facing Czech messages attached to blocking decisions.
const (
	msgAwaitingReview = "Váš účet čeká na schválení. Nakupovat budete moci po dokončení registrace."
	msgNotEnough      = "Na tento nákup nemáte dostatek bodů, chybí vám %d bodů."
	msgCartOverLimit  = "Hodnota objednávky převyšuje váš bodový zůstatek, odeberte prosím některé položky."
	msgUnavailable    = "Nedostatek bodů"
)

// Decision is the outcome of one gate evaluation. Message is set only when
// the action is blocked.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Message string `json:"message,omitempty"`
}

func allow() Decision               { return Decision{Allowed: true} }
func block(message string) Decision { return Decision{Allowed: false, Message: message} }

// UserStatuses reads the registration status of a user.
type UserStatuses interface {
	GetRegistrationStatus(ctx context.Context, userID int64) (string, error)
}

// Gate evaluates purchasability using the balance calculator.
type Gate struct {
	calc  *points.Calculator
	users UserStatuses
	log   *slog.Logger
	dedup *sl.Deduper
}

// New creates a Gate over the calculator and user store.
func New(calc *points.Calculator, users UserStatuses, log *slog.Logger) *Gate {
	return &Gate{
		calc:  calc,
		users: users,
		log:   log,
		dedup: sl.NewDeduper(sl.DefaultDedupWindow),
	}
}

// check is one link of the gate chain. Checks run in order; the first
// blocking decision wins.
type check func(ctx context.Context) Decision

// run executes the chain with fail-open recovery and records the decision.
func (g *Gate) run(ctx context.Context, name string, checks ...check) (decision Decision) {
	defer func() {
		if r := recover(); r != nil {
			metrics.GateFailOpen.Inc()
			key := fmt.Sprintf("gate %s recovered: %v", name, r)
			if g.dedup.Allow(key) {
				g.log.Error("affordability evaluation failed, allowing purchase",
					slog.String("check", name), slog.Any("panic", r))
			}
			decision = allow()
		}
		result := "allowed"
		if !decision.Allowed {
			result = "blocked"
		}
		metrics.GateDecisions.WithLabelValues(name, result).Inc()
	}()

	for _, c := range checks {
		if d := c(ctx); !d.Allowed {
			return d
		}
	}
	return allow()
}

// statusCheck blocks accounts awaiting review. A status read failure is
// treated as not-pending, matching the fail-open policy of the gate.
func (g *Gate) statusCheck(userID int64) check {
	return func(ctx context.Context) Decision {
		status, err := g.users.GetRegistrationStatus(ctx, userID)
		if err != nil {
			if g.dedup.Allow("status read failed: " + err.Error()) {
				g.log.Debug("registration status read failed", sl.Err(err))
			}
			return allow()
		}
		if status == models.StatusAwaitingReview {
			return block(msgAwaitingReview)
		}
		return allow()
	}
}

// DisplayPurchasable decides whether a product is shown as buyable. Inside
// a cart or checkout context the whole cart is evaluated instead of the
// single item, so a line already accepted into the cart is not flagged
// merely because other items pushed the total over the balance.
func (g *Gate) DisplayPurchasable(ctx context.Context, userID int64, product *models.Product, inCartContext bool) Decision {
	return g.run(ctx, "display",
		g.statusCheck(userID),
		func(ctx context.Context) Decision {
			if inCartContext {
				balance := g.calc.UserBalance(ctx, userID)
				if g.calc.CartTotal(ctx, userID, 0) > balance {
					return block(msgUnavailable)
				}
				return allow()
			}
			if !g.calc.CanAffordProduct(ctx, userID, product) {
				return block(msgUnavailable)
			}
			return allow()
		},
	)
}

// DisplayBatch evaluates purchasability for a whole product listing against
// one balance snapshot, so a page of products costs a single ledger read.
func (g *Gate) DisplayBatch(ctx context.Context, userID int64, products []models.Product) (decisions map[int64]Decision) {
	decisions = make(map[int64]Decision, len(products))

	defer func() {
		if r := recover(); r != nil {
			metrics.GateFailOpen.Inc()
			if g.dedup.Allow(fmt.Sprintf("gate display_batch recovered: %v", r)) {
				g.log.Error("affordability evaluation failed, allowing purchase",
					slog.String("check", "display_batch"), slog.Any("panic", r))
			}
			for _, p := range products {
				decisions[p.ID] = allow()
			}
		}
	}()

	whole := g.run(ctx, "display_batch", g.statusCheck(userID))
	if !whole.Allowed {
		for _, p := range products {
			decisions[p.ID] = whole
		}
		return decisions
	}

	affordable := g.calc.CanAffordProducts(ctx, userID, products)
	for _, p := range products {
		if affordable[p.ID] {
			decisions[p.ID] = allow()
		} else {
			decisions[p.ID] = block(msgUnavailable)
		}
	}
	return decisions
}

// ValidateAddToCart decides whether quantity units of the product may be
// added. A line already in the cart is excluded from the total first, so
// re-evaluating it does not count the same points twice.
func (g *Gate) ValidateAddToCart(ctx context.Context, userID int64, product *models.Product, quantity int) Decision {
	return g.run(ctx, "add_to_cart",
		g.statusCheck(userID),
		func(ctx context.Context) Decision {
			if product == nil || product.Price <= 0 {
				return allow()
			}
			cost := product.Price * float64(quantity)
			available := g.calc.AvailableAfterExcluding(ctx, userID, product.ID)
			if cost <= available {
				return allow()
			}
			shortfall := int64(math.Ceil(cost - available))
			return block(fmt.Sprintf(msgNotEnough, shortfall))
		},
	)
}

// ValidateCheckout is the final authoritative gate before payment: the
// whole cart total is re-checked against the raw balance. Equality passes.
func (g *Gate) ValidateCheckout(ctx context.Context, userID int64) Decision {
	return g.run(ctx, "checkout",
		g.statusCheck(userID),
		func(ctx context.Context) Decision {
			balance := g.calc.UserBalance(ctx, userID)
			total := g.calc.CartTotal(ctx, userID, 0)
			if total > balance {
				return block(msgCartOverLimit)
			}
			return allow()
		},
	)
}
