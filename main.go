package main

import (
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"encore/api"
	"encore/constants"
	docs "encore/doclib"
	"encore/reporting"
	"encore/routes/comments"
	"encore/routes/diaries"
	"encore/routes/events"
	"encore/routes/health"
	"encore/routes/home"
	"encore/routes/notifications"
	"encore/routes/reviews"
	"encore/routes/search"
	"encore/routes/uploads"
	"encore/routes/users"
	"encore/routes/webhooks"
	"encore/state"
	"encore/types"
	"encore/uapi"

	"github.com/cloudflare/tableflip"

	"github.com/infinitybotlist/eureka/jsonimpl"
	"github.com/infinitybotlist/eureka/zapchi"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	_ "embed"
)

//go:embed data/docs.html
var docsHTML string

var openapi []byte

// Uploads and identity webhooks are limited per client address.
var ratelimitedEndpoints = []string{"/media/upload", "/webhooks/identity"}

var routers = []uapi.APIRouter{
	events.Router{},
	reviews.Router{},
	comments.Router{},
	diaries.Router{},
	users.Router{},
	notifications.Router{},
	search.Router{},
	home.Router{},
	uploads.Router{},
	health.Router{},
	webhooks.Router{},
}

// Simple middleware to handle CORS
func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// limit body to the largest upload plus multipart overhead
			r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadParts*constants.MaxVideoSize+1<<20)

			w.Header().Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, svix-id, svix-timestamp, svix-signature")
			w.Header().Set("Access-Control-Expose-Headers", "Retry-After")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Ratelimit Middleware
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiterMiddleware struct {
	limit   rate.Limit
	burst   int
	paths   map[string]struct{}
	mu      sync.Mutex
	clients map[string]*client
	now     func() time.Time
}

const (
	maxTrackedClients = 10000
	clientIdleTimeout = 10 * time.Minute
)

func NewRateLimiterMiddleware(rateLimit rate.Limit, burst int, paths []string) *RateLimiterMiddleware {
	limitedPaths := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		limitedPaths[path] = struct{}{}
	}

	return &RateLimiterMiddleware{
		limit:   rateLimit,
		burst:   burst,
		paths:   limitedPaths,
		clients: map[string]*client{},
		now:     time.Now,
	}
}

func (rl *RateLimiterMiddleware) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	c, ok := rl.clients[key]
	if !ok {
		if len(rl.clients) >= maxTrackedClients {
			for k, old := range rl.clients {
				if now.Sub(old.lastSeen) > clientIdleTimeout {
					delete(rl.clients, k)
				}
			}
		}

		c = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = c
	}

	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// clientHost drops the port from a remote address, so reconnecting does not
// buy a client a fresh bucket.
func clientHost(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

func (rl *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, limited := rl.paths[r.URL.Path]; limited && !rl.allow(clientHost(r.RemoteAddr)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(constants.TooManyRequests))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func setupDocs() {
	docs.DocsSetupData = &docs.SetupData{
		URL:         state.Config.Server.PublicURL,
		ErrorStruct: types.ApiError{},
		Info: docs.Info{
			Title:       "Encore",
			Version:     "1.0",
			Description: "Festival and concert reviews, music diaries and the people who write them.",
			Contact: docs.Contact{
				Name: "Encore",
				URL:  state.Config.Server.PublicURL,
			},
			License: docs.License{
				Name: "AGPL-3.0",
				URL:  "https://opensource.org/licenses/AGPL-3.0",
			},
		},
	}

	docs.Setup()
	docs.AddBearerSchema(api.SessionSecurity, "Session token from the identity provider, sent as a bearer token or the __session cookie")
}

// newRouter mounts every route group. docs and api must be set up first.
func newRouter(ratelimit *RateLimiterMiddleware) *chi.Mux {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer,
		middleware.RealIP,
		middleware.CleanPath,
		middleware.Heartbeat("/ping"),
		middleware.Compress(5),
		middleware.Timeout(2*time.Minute),
		corsMiddleware(state.Config.Server.CORSOrigin),
		ratelimit.Middleware,
		zapchi.Logger(state.Logger, "api"),
	)

	for _, router := range routers {
		name, desc := router.Tag()
		if name != "" {
			docs.AddTag(name, desc)
			uapi.State.SetCurrentTag(name)
		} else {
			panic("Router tag name cannot be empty")
		}

		router.Routes(r)
	}

	r.Get("/openapi", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(openapi)
	})

	docsTempl := template.Must(template.New("docs").Parse(docsHTML))

	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		docsTempl.Execute(w, map[string]string{
			"url": "/openapi",
		})
	})

	// Load openapi here to avoid large marshalling in every request
	var err error
	openapi, err = jsonimpl.Marshal(docs.GetSchema())

	if err != nil {
		panic(err)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(constants.EndpointNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(constants.MethodNotAllowed))
	})

	return r
}

// serveUpgradable serves h on a tableflip listener so a SIGHUP swaps in a new
// binary without dropping connections.
func serveUpgradable(h http.Handler) {
	upg, err := tableflip.New(tableflip.Options{})
	if err != nil {
		state.Logger.Fatal("Failed to create upgrader", zap.Error(err))
	}
	defer upg.Stop()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGHUP)
		for range sig {
			state.Logger.Info("Received SIGHUP, upgrading server")
			if err := upg.Upgrade(); err != nil {
				state.Logger.Error("Upgrade failed", zap.Error(err))
			}
		}
	}()

	// Listen must be called before Ready
	ln, err := upg.Listen("tcp", state.Config.Server.Port)
	if err != nil {
		state.Logger.Fatal("Error binding to socket", zap.Error(err))
	}
	defer ln.Close()

	server := &http.Server{
		ReadTimeout: 5 * time.Minute,
		Handler:     h,
	}

	go func() {
		if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			state.Logger.Error("Server stopped unexpectedly", zap.Error(err))
		}
	}()

	if err := upg.Ready(); err != nil {
		state.Logger.Fatal("Error calling upg.Ready", zap.Error(err))
	}

	<-upg.Exit()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		state.Logger.Error("Failed to drain connections", zap.Error(err))
	}
}

func main() {
	state.Setup()
	defer reporting.Flush()

	setupDocs()
	api.Setup()

	r := newRouter(NewRateLimiterMiddleware(rate.Every(time.Second), 5, ratelimitedEndpoints))

	state.Logger.Info("Starting server", zap.String("port", state.Config.Server.Port), zap.String("env", state.Config.Server.Env))

	switch runtime.GOOS {
	case "linux", "darwin":
		serveUpgradable(r)
	default:
		state.Logger.Warn("Graceful upgrades are not supported on " + runtime.GOOS)
		if err := http.ListenAndServe(state.Config.Server.Port, r); err != nil {
			state.Logger.Fatal("Error binding to socket", zap.Error(err))
		}
	}
}
