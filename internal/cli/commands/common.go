package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/rentalhub/rentalhub/internal/config"
	"github.com/rentalhub/rentalhub/internal/endpoints"
	"github.com/rentalhub/rentalhub/internal/gateway"
	"github.com/rentalhub/rentalhub/internal/logger"
	"github.com/rentalhub/rentalhub/internal/routes"
	"github.com/rentalhub/rentalhub/internal/session"
	"github.com/rentalhub/rentalhub/internal/storage"
)

// cliNamespace is the storage namespace holding the CLI's session flag
const cliNamespace = "cli"

var errNotSignedIn = errors.New("not signed in\nRun 'rentalhub login' first")

// API is the part of the gateway client the commands use
type API interface {
	Login(ctx context.Context, creds gateway.Credentials) (*gateway.AuthResult, error)
	Signup(ctx context.Context, req gateway.SignupRequest) (*gateway.AuthResult, error)
	ListProducts(ctx context.Context) ([]gateway.Product, error)
	GetProduct(ctx context.Context, productID string) (*gateway.Product, error)
	GetShippingInfo(ctx context.Context, orderID string) (*gateway.ShippingInfo, error)
	ConfirmOrder(ctx context.Context, orderID string) (*gateway.OrderConfirmation, error)
	Endpoints() *endpoints.Registry
}

type options struct {
	client API
	store  storage.Store
	guard  *routes.Guard
	out    io.Writer
	logger zerolog.Logger
}

// Option overrides a collaborator, mainly for tests
type Option func(*options)

// WithClient sets the gateway client
func WithClient(c API) Option {
	return func(o *options) { o.client = c }
}

// WithStore sets where the session flag is kept
func WithStore(s storage.Store) Option {
	return func(o *options) { o.store = s }
}

// WithGuard sets the route guard
func WithGuard(g *routes.Guard) Option {
	return func(o *options) { o.guard = g }
}

// WithOutput sets the writer for command output
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// newOptions applies opts and fills in production defaults for anything
// left unset
func newOptions(opts []Option) (*options, error) {
	o := &options{
		out:    os.Stdout,
		logger: logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.store == nil {
		path, err := storage.DefaultFilePath()
		if err != nil {
			return nil, err
		}
		o.store = storage.NewFileStore(path)
	}

	if o.guard == nil {
		o.guard = routes.NewGuard(routes.Default())
	}

	if o.client == nil {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		reg := endpoints.NewWithIdentity(cfg.Gateway.BaseURL, cfg.Gateway.IdentityBaseURL)
		c := gateway.New(reg, o.logger)
		c.SetHTTPClient(&http.Client{Timeout: cfg.Gateway.Timeout})
		o.client = c
	}

	return o, nil
}

func (o *options) session() *session.Session {
	return session.New(cliNamespace, o.store, o.logger)
}

// requirePage runs the guard for the page a command stands in for
func (o *options) requirePage(ctx context.Context, path string) error {
	decision, _ := o.guard.Navigate(path, "", o.session().Authenticated(ctx))
	if decision.Action == routes.Redirect && decision.Target == routes.LoginPath {
		return errNotSignedIn
	}
	return nil
}
