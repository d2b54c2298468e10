package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/clinicore/scheduling-api/internal/handler/appointment"
	"github.com/clinicore/scheduling-api/internal/handler/availability"
	"github.com/clinicore/scheduling-api/internal/handler/health"
	promhandler "github.com/clinicore/scheduling-api/internal/handler/prometheus"
	"github.com/clinicore/scheduling-api/internal/handler/schedule"
	"github.com/clinicore/scheduling-api/internal/middleware"
	"github.com/clinicore/scheduling-api/internal/model"
)

type RouterConfig struct {
	RateLimit  rate.Limit
	RateBurst  int
	CORSConfig middleware.CORSConfig
}

func DefaultConfig() RouterConfig {
	return RouterConfig{
		RateLimit:  100,
		RateBurst:  200,
		CORSConfig: middleware.DefaultCORSConfig(),
	}
}

type Router struct {
	engine        *gin.Engine
	auth          *middleware.AuthMiddleware
	availabilityH *availability.Handler
	appointmentH  *appointment.Handler
	scheduleH     *schedule.Handler
	healthH       *health.Handler
	promH         *promhandler.Handler
	config        RouterConfig
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	availabilityH *availability.Handler,
	appointmentH *appointment.Handler,
	scheduleH *schedule.Handler,
	healthH *health.Handler,
	promH *promhandler.Handler,
	config RouterConfig,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	return &Router{
		engine:        gin.New(),
		auth:          auth,
		availabilityH: availabilityH,
		appointmentH:  appointmentH,
		scheduleH:     scheduleH,
		healthH:       healthH,
		promH:         promH,
		config:        config,
	}
}

func (r *Router) Setup() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := model.RegisterValidations(v); err != nil {
			panic(err)
		}
	}

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  r.config.RateLimit,
		Burst: r.config.RateBurst,
	})

	r.engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		middleware.CORS(r.config.CORSConfig),
		r.promH.Middleware(),
		limiter.RateLimit(),
	)

	// Unauthenticated surface
	root := r.engine.Group("")
	r.healthH.RegisterRoutes(root)
	root.GET("/metrics", r.promH.Handler())

	// The auth layer mints the tokens; this service only verifies them.
	api := r.engine.Group("/api/v1")
	api.Use(r.auth.Authenticate())

	r.availabilityH.RegisterRoutes(api)
	r.appointmentH.RegisterRoutes(api)

	// Schedule edits are doctor/admin actions.
	scheduleGroup := api.Group("")
	scheduleGroup.Use(r.auth.RequireRole("doctor", "admin"))
	r.scheduleH.RegisterRoutes(scheduleGroup)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
