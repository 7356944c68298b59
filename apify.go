package apify

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"reflect"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vitalk/apify/serializer"
)

// ErrAlreadyPublished is returned when routes are registered or published
// after RegisterRoutes has run.
var ErrAlreadyPublished = errors.New("apify: routes already published")

// ViewFunc is an API view. It returns the payload to serialize: either a
// bare value or an *Envelope carrying a status code and extra headers.
// Returning an error that wraps *apierr.Error yields a translated error
// response; any other error goes to the fallback error handler.
type ViewFunc func(r *http.Request) (any, error)

// Preprocessor decorates a view right before it is invoked. It may replace
// the view or abort the request by returning an error. Preprocessors run in
// registration order, after the fixed serializer-resolution step.
type Preprocessor func(r *http.Request, view ViewFunc) (ViewFunc, error)

// Finalizer adjusts or replaces the response after it is built. Returning an
// API error discards the response built so far and renders the error
// envelope instead. Finalizers run in registration order.
type Finalizer func(r *http.Request, res *Response) (*Response, error)

// ErrorHandler receives errors the pipeline does not translate: serializer
// failures, setup problems surfacing at request time, and view errors that
// are not API errors.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Apify turns ordinary view functions into content-negotiated API endpoints.
//
// All registration methods (Route, Serializer, Preprocessor, Finalizer) are
// setup-phase only: they must complete, followed by a single RegisterRoutes
// call, before the handler starts serving requests. The registries are
// treated as read-only afterwards and are not protected by locks.
type Apify struct {
	cfg           Config
	log           *slog.Logger
	serializers   *serializer.Registry
	preprocessors []Preprocessor
	finalizers    []Finalizer
	errorHandler  ErrorHandler

	swagger      swaggerDoc
	statusChecks []StatusCheck
	probeTimeout time.Duration
	dumpTemplate *template.Template

	routes    []routeEntry
	endpoints map[uintptr]*endpoint
	handler   http.Handler
	published bool
}

type routeEntry struct {
	rule    string
	methods []string
	ep      *endpoint
}

// endpoint is a view that has been wrapped by the pipeline exactly once.
type endpoint struct {
	handler http.HandlerFunc
}

// New constructs the extension facade. Use Option values to supply the
// configuration, logger, hooks, and status checks.
func New(opts ...Option) *Apify {
	a := &Apify{
		cfg:          DefaultConfig(),
		log:          slog.Default(),
		probeTimeout: defaultProbeTimeout,
		endpoints:    make(map[uintptr]*endpoint),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	a.cfg.applyDefaults()
	a.log = a.log.With("blueprint", a.cfg.BlueprintName)
	if a.serializers == nil {
		a.serializers = serializer.NewRegistry(a.cfg.DefaultMimetype)
	}
	if a.dumpTemplate != nil {
		a.serializers.Register(serializer.MimetypeHTML, serializer.Debug(a.dumpTemplate))
	}
	if a.errorHandler == nil {
		a.errorHandler = a.defaultErrorHandler
	}
	return a
}

// Route registers a URL rule for view. Rules use chi patterns, e.g.
// "/todos/{id}". Registering the same view under several rules wraps it in
// the pipeline exactly once; requests never run the preprocessor chain
// twice. Returns ErrAlreadyPublished after RegisterRoutes has run.
func (a *Apify) Route(rule string, view ViewFunc, opts ...RouteOption) error {
	if a.published {
		return ErrAlreadyPublished
	}
	if view == nil {
		return errors.New("apify: view function is required")
	}

	settings := routeSettings{methods: []string{http.MethodGet}}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}

	a.routes = append(a.routes, routeEntry{
		rule:    rule,
		methods: settings.methods,
		ep:      a.endpointFor(view),
	})
	return nil
}

func (a *Apify) endpointFor(view ViewFunc) *endpoint {
	key := reflect.ValueOf(view).Pointer()
	if ep, ok := a.endpoints[key]; ok {
		return ep
	}
	ep := &endpoint{handler: a.wrap(view)}
	a.endpoints[key] = ep
	return ep
}

// Serializer registers fn for mimetype, overwriting any previous entry, and
// returns fn unchanged so registrations can be chained or inlined.
func (a *Apify) Serializer(mimetype string, fn serializer.Func) serializer.Func {
	a.serializers.Register(mimetype, fn)
	return fn
}

// Preprocessor appends fn to the preprocessor chain and returns it
// unchanged. The serializer-resolution step always runs first and cannot be
// removed.
func (a *Apify) Preprocessor(fn Preprocessor) Preprocessor {
	a.preprocessors = append(a.preprocessors, fn)
	return fn
}

// Finalizer appends fn to the finalizer chain and returns it unchanged.
func (a *Apify) Finalizer(fn Finalizer) Finalizer {
	a.finalizers = append(a.finalizers, fn)
	return fn
}

// RegisterRoutes publishes all accumulated rules to the router. Call it
// exactly once, after every Route registration: rules registered later are
// not served. Publishing validates the setup and fails loudly when the
// configured default mimetype has no serializer or the configured debug
// template cannot be parsed.
func (a *Apify) RegisterRoutes() error {
	if a.published {
		return ErrAlreadyPublished
	}
	if _, _, err := a.serializers.Default(); err != nil {
		return err
	}
	if err := a.applyDumpTemplateConfig(); err != nil {
		return err
	}
	if len(a.statusChecks) > 0 {
		a.routes = append(a.routes, routeEntry{
			rule:    "/status",
			methods: []string{http.MethodGet},
			ep:      &endpoint{handler: a.wrap(a.statusView)},
		})
	}

	mux := chi.NewRouter()
	for _, mw := range a.middlewareChain() {
		mux.Use(mw)
	}
	for _, rt := range a.routes {
		for _, method := range rt.methods {
			mux.Method(method, rt.rule, rt.ep.handler)
		}
	}

	var handler http.Handler = mux
	if prefix := a.cfg.URLPrefix; prefix != "" && prefix != "/" {
		outer := chi.NewRouter()
		outer.Mount(prefix, mux)
		handler = outer
	}

	a.handler = handler
	a.published = true
	return nil
}

// Handler returns the published router. It is nil until RegisterRoutes has
// run.
func (a *Apify) Handler() http.Handler {
	return a.handler
}

// Registry exposes the serializer registry, mainly for tests and
// introspection during setup.
func (a *Apify) Registry() *serializer.Registry {
	return a.serializers
}
