// Package payment turns shop products into hosted checkout sessions and
// applies the purchase when the player returns from a successful checkout.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/haythammda/Gift-Storm/internal/catalog"
)

var (
	ErrUnknownProduct = errors.New("unknown product")
	ErrNotConfigured  = errors.New("payments are not configured")
)

type CheckoutRequest struct {
	ProductID     string `json:"productId"`
	PlayerID      string `json:"playerId,omitempty"`
	PromotionCode string `json:"promotionCode,omitempty"`
}

type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Provider creates a checkout session the browser is redirected to.
type Provider interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (Session, error)
}

// HostedCheckout builds redirect URLs for an external hosted checkout page.
// It never talks to the network.
type HostedCheckout struct {
	CheckoutURL string
	PublicURL   string
	Catalog     *catalog.Catalog
}

func (h HostedCheckout) CreateCheckout(ctx context.Context, req CheckoutRequest) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(h.CheckoutURL) == "" {
		return Session{}, ErrNotConfigured
	}
	cat := h.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	p, ok := cat.Product(strings.TrimSpace(req.ProductID))
	if !ok {
		return Session{}, fmt.Errorf("%w: %q", ErrUnknownProduct, req.ProductID)
	}
	u, err := url.Parse(h.CheckoutURL)
	if err != nil {
		return Session{}, fmt.Errorf("checkout url: %w", err)
	}

	id := uuid.NewString()
	q := u.Query()
	q.Set("session", id)
	q.Set("product", p.ID)
	q.Set("name", p.Name)
	q.Set("amount", strconv.Itoa(p.AmountCents))
	q.Set("success_url", SuccessURL(h.PublicURL, p))
	q.Set("cancel_url", CancelURL(h.PublicURL))
	if req.PromotionCode != "" {
		q.Set("promotion_code", strings.ToUpper(req.PromotionCode))
	}
	if req.PlayerID != "" {
		q.Set("client_reference_id", req.PlayerID)
	}
	u.RawQuery = q.Encode()
	return Session{ID: id, URL: u.String()}, nil
}

// SuccessURL is where checkout returns after payment:
// /play?donation=success&type=<kind>[&skinId=<id>][&productId=<id>].
func SuccessURL(publicURL string, p catalog.Product) string {
	q := url.Values{}
	q.Set("donation", string(StatusSuccess))
	q.Set("type", string(p.Kind))
	switch p.Kind {
	case catalog.ProductSkin:
		q.Set("skinId", p.SkinID)
	case catalog.ProductCoins:
		q.Set("productId", p.ID)
	}
	return strings.TrimRight(publicURL, "/") + "/play?" + q.Encode()
}

func CancelURL(publicURL string) string {
	return strings.TrimRight(publicURL, "/") + "/play?donation=" + string(StatusCancelled)
}
