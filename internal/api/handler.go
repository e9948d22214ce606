package api

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"storefront-service/internal/checkout"
	"storefront-service/internal/entity"
	"storefront-service/internal/service"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

type CatalogService interface {
	ListProducts(ctx context.Context) ([]entity.CatalogItem, error)
	Restock(ctx context.Context, name string, stock int) (*entity.ProductStock, error)
}

type CheckoutService interface {
	Begin(ctx context.Context, productName string, quantity int) (*checkout.Session, error)
	Get(ctx context.Context, id string) (*checkout.Session, error)
	ConfirmPayment(ctx context.Context, id string) (*checkout.Session, error)
	Fulfil(ctx context.Context, id string, ch entity.Channel) (*service.Fulfilment, error)
	Cancel(ctx context.Context, id string) error
}

type StatsService interface {
	Current(ctx context.Context) (*entity.Stats, error)
	Reset(ctx context.Context, totalOrders int64, totalProfit float64) (*entity.Stats, error)
}

type FeedbackService interface {
	List(ctx context.Context) ([]entity.Feedback, error)
	Submit(ctx context.Context, name, comment string, rating int) (*entity.Feedback, error)
}

type ActivityFeed interface {
	Recent() []entity.ActivityNotice
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Services groups what the handlers call into. Activity may be nil when the
// generator is disabled.
type Services struct {
	Catalog  CatalogService
	Checkout CheckoutService
	Stats    StatsService
	Feedback FeedbackService
	Activity ActivityFeed
	Checks   map[string]Pinger
}

type StorefrontHandler struct {
	catalog  CatalogService
	checkout CheckoutService
	stats    StatsService
	feedback FeedbackService
	activity ActivityFeed
	checks   map[string]Pinger

	paymentQRURL string
}

// NewStorefrontHandler creates a new instance of StorefrontHandler
func NewStorefrontHandler(svc Services, paymentQRURL string) *StorefrontHandler {
	return &StorefrontHandler{
		catalog:      svc.Catalog,
		checkout:     svc.Checkout,
		stats:        svc.Stats,
		feedback:     svc.Feedback,
		activity:     svc.Activity,
		checks:       svc.Checks,
		paymentQRURL: paymentQRURL,
	}
}
