package application

import (
	"embed"
	"fmt"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/transmedic-it-sg/tm-case-booking/pkg/eventbus"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/types"
)

// Module is a self-contained feature unit. Register wires its services,
// controllers and schema into the application.
type Module interface {
	Name() string
	Register(app Application) error
}

// Controller registers HTTP routes on the shared router.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

type Application interface {
	Pool() *pgxpool.Pool
	Logger() *logrus.Logger
	EventPublisher() eventbus.EventBus

	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}

	RegisterControllers(controllers ...Controller)
	Controllers() []Controller

	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	Middleware() []mux.MiddlewareFunc

	RegisterSchema(fs *embed.FS)
	SchemaFS() []*embed.FS

	RegisterNavItems(items ...types.NavigationItem)
	NavItems() []types.NavigationItem
}

type ApplicationOptions struct {
	Pool     *pgxpool.Pool
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
}

func New(opts *ApplicationOptions) Application {
	return &application{
		pool:     opts.Pool,
		eventBus: opts.EventBus,
		logger:   opts.Logger,
		services: map[reflect.Type]interface{}{},
	}
}

type application struct {
	pool        *pgxpool.Pool
	eventBus    eventbus.EventBus
	logger      *logrus.Logger
	services    map[reflect.Type]interface{}
	controllers []Controller
	middleware  []mux.MiddlewareFunc
	schemaFS    []*embed.FS
	navItems    []types.NavigationItem
}

func (a *application) Pool() *pgxpool.Pool {
	return a.pool
}

func (a *application) Logger() *logrus.Logger {
	return a.logger
}

func (a *application) EventPublisher() eventbus.EventBus {
	return a.eventBus
}

func (a *application) RegisterServices(services ...interface{}) {
	for _, svc := range services {
		t := reflect.TypeOf(svc)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		a.services[t] = svc
	}
}

// Service looks up a registered service by example value, e.g.
// app.Service(services.CaseService{}).
func (a *application) Service(service interface{}) interface{} {
	t := reflect.TypeOf(service)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	svc, ok := a.services[t]
	if !ok {
		panic(fmt.Sprintf("service %s not registered", t.Name()))
	}
	return svc
}

func (a *application) RegisterControllers(controllers ...Controller) {
	a.controllers = append(a.controllers, controllers...)
}

func (a *application) Controllers() []Controller {
	return a.controllers
}

func (a *application) RegisterMiddleware(middleware ...mux.MiddlewareFunc) {
	a.middleware = append(a.middleware, middleware...)
}

func (a *application) Middleware() []mux.MiddlewareFunc {
	return a.middleware
}

func (a *application) RegisterSchema(fs *embed.FS) {
	a.schemaFS = append(a.schemaFS, fs)
}

func (a *application) SchemaFS() []*embed.FS {
	return a.schemaFS
}

func (a *application) RegisterNavItems(items ...types.NavigationItem) {
	a.navItems = append(a.navItems, items...)
}

func (a *application) NavItems() []types.NavigationItem {
	return a.navItems
}
