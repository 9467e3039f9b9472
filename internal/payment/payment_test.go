package payment

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haythammda/Gift-Storm/internal/catalog"
	"github.com/haythammda/Gift-Storm/internal/player"
	"github.com/haythammda/Gift-Storm/internal/telemetry"
)

func newStore(t *testing.T) *player.Store {
	t.Helper()
	st, err := player.NewStore(player.Options{Logger: log.New(io.Discard, "", 0)})
	require.NoError(t, err)
	return st
}

func hosted() HostedCheckout {
	return HostedCheckout{
		CheckoutURL: "https://pay.example.com/checkout?merchant=giftstorm",
		PublicURL:   "https://giftstorm.example.org/",
	}
}

func TestSuccessURLs(t *testing.T) {
	c := catalog.Default()
	pass, _ := c.Product("season_pass")
	skin, _ := c.Product("skin_golden")
	coins, _ := c.Product("gift_bundle")

	assert.Equal(t, "https://g.example/play?donation=success&type=gamepass", SuccessURL("https://g.example", pass))
	assert.Equal(t, "https://g.example/play?donation=success&skinId=golden&type=skin", SuccessURL("https://g.example/", skin))
	assert.Equal(t, "https://g.example/play?donation=success&productId=gift_bundle&type=coins", SuccessURL("https://g.example", coins))
	assert.Equal(t, "https://g.example/play?donation=cancelled", CancelURL("https://g.example"))
}

func TestHostedCheckout(t *testing.T) {
	sess, err := hosted().CreateCheckout(context.Background(), CheckoutRequest{ProductID: "skin_aurora", PlayerID: "p1", PromotionCode: "winter10"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)

	u, err := url.Parse(sess.URL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "pay.example.com", u.Host)
	assert.Equal(t, "giftstorm", q.Get("merchant"))
	assert.Equal(t, sess.ID, q.Get("session"))
	assert.Equal(t, "1200", q.Get("amount"))
	assert.Equal(t, "WINTER10", q.Get("promotion_code"))
	assert.Equal(t, "p1", q.Get("client_reference_id"))
	assert.Equal(t, "https://giftstorm.example.org/play?donation=success&skinId=aurora&type=skin", q.Get("success_url"))

	_, err = hosted().CreateCheckout(context.Background(), CheckoutRequest{ProductID: "nope"})
	assert.ErrorIs(t, err, ErrUnknownProduct)

	_, err = HostedCheckout{}.CreateCheckout(context.Background(), CheckoutRequest{ProductID: "season_pass"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = hosted().CreateCheckout(ctx, CheckoutRequest{ProductID: "season_pass"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseOutcome(t *testing.T) {
	_, ok := ParseOutcome(url.Values{})
	assert.False(t, ok)
	_, ok = ParseOutcome(url.Values{"donation": {"maybe"}})
	assert.False(t, ok)

	o, ok := ParseOutcome(url.Values{"donation": {"success"}, "type": {"skin"}, "skinId": {" candycane "}})
	require.True(t, ok)
	assert.Equal(t, Outcome{Status: StatusSuccess, Kind: catalog.ProductSkin, SkinID: "candycane"}, o)
}

func TestApplyOutcome(t *testing.T) {
	st := newStore(t)

	assert.False(t, Outcome{Status: StatusCancelled, Kind: catalog.ProductGamePass}.Apply(st))
	assert.False(t, st.Snapshot().HasSeasonPass)

	pass := Outcome{Status: StatusSuccess, Kind: catalog.ProductGamePass}
	assert.True(t, pass.Apply(st))
	assert.True(t, st.Snapshot().HasSeasonPass)
	assert.False(t, pass.Apply(st), "a second pass changes nothing")

	assert.True(t, Outcome{Status: StatusSuccess, Kind: catalog.ProductSkin, SkinID: "golden"}.Apply(st))
	assert.Contains(t, st.Snapshot().OwnedSkinIDs, "golden")
	assert.False(t, Outcome{Status: StatusSuccess, Kind: catalog.ProductSkin, SkinID: "neon"}.Apply(st))
	assert.False(t, Outcome{Status: StatusSuccess, Kind: catalog.ProductSkin}.Apply(st))

	before := st.Coins()
	assert.True(t, Outcome{Status: StatusSuccess, Kind: catalog.ProductCoins, ProductID: "hero_package"}.Apply(st))
	assert.Equal(t, before+3500, st.Coins())
	assert.False(t, Outcome{Status: StatusSuccess, Kind: catalog.ProductCoins, ProductID: "skin_golden"}.Apply(st))
	assert.False(t, Outcome{Status: StatusSuccess, Kind: catalog.ProductCoins}.Apply(st))
}

func TestHTTP(t *testing.T) {
	st := newStore(t)
	events := telemetry.NewMemoryRepository(nil, 0)
	h := NewHandler(hosted(), nil, log.New(io.Discard, "", 0), events)
	h.SetGranteeResolver(func(*http.Request) (Grantee, error) { return st, nil })

	rr := httptest.NewRecorder()
	h.Checkout(rr, httptest.NewRequest(http.MethodPost, "/api/create-checkout", strings.NewReader(`{"productId":"warmth_pack"}`)))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var sess Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sess))
	assert.True(t, strings.HasPrefix(sess.URL, "https://pay.example.com/checkout?"))

	rr = httptest.NewRecorder()
	h.Checkout(rr, httptest.NewRequest(http.MethodPost, "/api/create-checkout", strings.NewReader(`{"productId":"mystery"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	h.Complete(rr, httptest.NewRequest(http.MethodPost, "/api/purchase/complete?donation=success&type=coins&productId=warmth_pack", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"applied":true`)
	assert.Equal(t, 500, st.Coins())

	got, err := events.GetEvents(time.Time{}, []telemetry.EventType{telemetry.EventPurchaseApplied})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	rr = httptest.NewRecorder()
	h.Complete(rr, httptest.NewRequest(http.MethodPost, "/api/purchase/complete", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	h.Products(rr, httptest.NewRequest(http.MethodGet, "/api/shop-products", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var products []catalog.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &products))
	assert.Len(t, products, 10)
}
