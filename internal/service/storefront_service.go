package service

import (
	"errors"
	"time"

	"sweet-treats/internal/catalog"
	"sweet-treats/internal/checkout"
	"sweet-treats/internal/domain"
	"sweet-treats/internal/scheduler"
	"sweet-treats/internal/session"

	"go.uber.org/zap"
)

// ErrCatalogUnavailable is returned for cart mutations attempted before any
// catalog load has succeeded.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// CatalogView is the menu as presented to the client.
type CatalogView struct {
	Available bool             `json:"available"`
	Products  []domain.Product `json:"products"`
	LoadedAt  time.Time        `json:"loaded_at,omitempty"`
}

// CartView is the cart as presented to the client, including any
// reconciliation notices accumulated since the last read.
type CartView struct {
	Lines    []domain.CartLine        `json:"lines"`
	Totals   domain.Totals            `json:"totals"`
	Shipping *domain.ShippingZone     `json:"shipping,omitempty"`
	Notices  []domain.ReconcileNotice `json:"notices,omitempty"`
}

// Receipt is the checkout result: the text the customer copies and the chat
// address they are sent to.
type Receipt struct {
	Text         string `json:"text"`
	MessengerURL string `json:"messenger_url"`
}

// StorefrontService is the single owner of catalog, carts and checkout. The
// transport layer never touches those stores directly.
type StorefrontService interface {
	Catalog() CatalogView
	RefreshNow()
	ReportActivity(visible bool)

	AddToCart(sess *session.Session, productID, variant string) error
	ChangeQuantity(sess *session.Session, lineID string, delta int) error
	RemoveLine(sess *session.Session, lineID string) error
	SelectShipping(sess *session.Session, zone string) error
	CartView(sess *session.Session) CartView
	ShippingZones() []domain.ShippingZone

	Checkout(sess *session.Session, info domain.CustomerInfo) (*Receipt, error)
}

type storefrontService struct {
	store    *catalog.Store
	loader   *catalog.Loader
	sessions *session.Manager
	sched    *scheduler.Scheduler
	receipts *checkout.Builder
	zones    []domain.ShippingZone
	logger   *zap.Logger
}

// NewStorefrontService wires the service and hooks cart reconciliation to
// catalog replacements. sched may be nil in tests.
func NewStorefrontService(
	store *catalog.Store,
	loader *catalog.Loader,
	sessions *session.Manager,
	sched *scheduler.Scheduler,
	receipts *checkout.Builder,
	zones []domain.ShippingZone,
	logger *zap.Logger,
) StorefrontService {
	s := &storefrontService{
		store:    store,
		loader:   loader,
		sessions: sessions,
		sched:    sched,
		receipts: receipts,
		zones:    zones,
		logger:   logger,
	}
	loader.OnReplace(func(snap *catalog.Snapshot) {
		sessions.ReconcileAll(snap)
	})
	return s
}

func (s *storefrontService) Catalog() CatalogView {
	snap := s.store.Current()
	if snap == nil {
		return CatalogView{Available: false, Products: []domain.Product{}}
	}
	return CatalogView{
		Available: true,
		Products:  snap.Products,
		LoadedAt:  snap.LoadedAt,
	}
}

// RefreshNow services the storefront's manual refresh control.
func (s *storefrontService) RefreshNow() {
	s.touch()
	if s.sched != nil {
		s.sched.ForceRefresh()
	}
}

// ReportActivity feeds the client's visibility signal into the scheduler.
func (s *storefrontService) ReportActivity(visible bool) {
	if s.sched != nil {
		s.sched.SetVisible(visible)
	}
}

func (s *storefrontService) AddToCart(sess *session.Session, productID, variant string) error {
	s.touch()
	snap := s.store.Current()
	if snap == nil {
		return ErrCatalogUnavailable
	}
	return sess.Cart.Add(snap, productID, variant)
}

func (s *storefrontService) ChangeQuantity(sess *session.Session, lineID string, delta int) error {
	s.touch()
	snap := s.store.Current()
	if snap == nil {
		return ErrCatalogUnavailable
	}
	return sess.Cart.ChangeQuantity(snap, lineID, delta)
}

func (s *storefrontService) RemoveLine(sess *session.Session, lineID string) error {
	s.touch()
	return sess.Cart.Remove(lineID)
}

func (s *storefrontService) SelectShipping(sess *session.Session, zone string) error {
	s.touch()
	return sess.Cart.SetShipping(zone)
}

func (s *storefrontService) CartView(sess *session.Session) CartView {
	s.touch()
	return CartView{
		Lines:    sess.Cart.Lines(),
		Totals:   sess.Cart.Totals(),
		Shipping: sess.Cart.Shipping(),
		Notices:  sess.Cart.DrainNotices(),
	}
}

func (s *storefrontService) ShippingZones() []domain.ShippingZone {
	return s.zones
}

// Checkout builds the order summary. The cart is intentionally left intact:
// the order only becomes real once the customer pastes the receipt into
// chat, and they may come back to adjust it first.
func (s *storefrontService) Checkout(sess *session.Session, info domain.CustomerInfo) (*Receipt, error) {
	s.touch()

	text, err := s.receipts.Receipt(info, sess.Cart.Lines(), sess.Cart.Totals(), sess.Cart.Shipping())
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order receipt generated",
		zap.String("session", sess.ID.String()),
		zap.Int("items", sess.Cart.Totals().ItemCount),
		zap.Float64("total", sess.Cart.Totals().Total),
	)
	return &Receipt{Text: text, MessengerURL: s.receipts.MessengerURL()}, nil
}

// touch marks user activity for the refresh cadence.
func (s *storefrontService) touch() {
	if s.sched != nil {
		s.sched.Touch()
	}
}
