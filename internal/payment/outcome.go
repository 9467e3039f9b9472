package payment

import (
	"net/url"
	"strings"

	"github.com/haythammda/Gift-Storm/internal/catalog"
)

type Status string

const (
	StatusSuccess   Status = "success"
	StatusCancelled Status = "cancelled"
)

// Outcome is what the checkout return URL says happened.
type Outcome struct {
	Status    Status              `json:"status"`
	Kind      catalog.ProductKind `json:"type,omitempty"`
	SkinID    string              `json:"skinId,omitempty"`
	ProductID string              `json:"productId,omitempty"`
}

// ParseOutcome reads the return query. ok is false when the query carries
// no checkout result at all.
func ParseOutcome(q url.Values) (Outcome, bool) {
	st := Status(strings.TrimSpace(q.Get("donation")))
	if st != StatusSuccess && st != StatusCancelled {
		return Outcome{}, false
	}
	return Outcome{
		Status:    st,
		Kind:      catalog.ProductKind(strings.TrimSpace(q.Get("type"))),
		SkinID:    strings.TrimSpace(q.Get("skinId")),
		ProductID: strings.TrimSpace(q.Get("productId")),
	}, true
}

// Grantee is the profile side a purchase is applied to.
type Grantee interface {
	Catalog() *catalog.Catalog
	UnlockSeasonPass() bool
	UnlockSkin(id string) bool
	AddCoins(amount int) bool
}

// Apply grants the purchase. It reports whether the profile changed; a
// cancelled checkout or a repeat of an owned unlock changes nothing.
func (o Outcome) Apply(g Grantee) bool {
	if o.Status != StatusSuccess {
		return false
	}
	switch o.Kind {
	case catalog.ProductGamePass:
		return g.UnlockSeasonPass()
	case catalog.ProductSkin:
		return o.SkinID != "" && g.UnlockSkin(o.SkinID)
	case catalog.ProductCoins:
		p, ok := g.Catalog().Product(o.ProductID)
		if !ok || p.Kind != catalog.ProductCoins {
			return false
		}
		return g.AddCoins(p.Coins)
	default:
		return false
	}
}
