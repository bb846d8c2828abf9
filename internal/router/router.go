package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Bigidan/beauty-salon-ms/internal/handler/appointment"
	"github.com/Bigidan/beauty-salon-ms/internal/handler/auth"
	"github.com/Bigidan/beauty-salon-ms/internal/handler/catalog"
	"github.com/Bigidan/beauty-salon-ms/internal/handler/client"
	"github.com/Bigidan/beauty-salon-ms/internal/handler/discount"
	"github.com/Bigidan/beauty-salon-ms/internal/handler/employee"
	"github.com/Bigidan/beauty-salon-ms/internal/handler/health"
	"github.com/Bigidan/beauty-salon-ms/internal/handler/schedule"
	"github.com/Bigidan/beauty-salon-ms/internal/handler/user"
	"github.com/Bigidan/beauty-salon-ms/internal/handler/visit"
	"github.com/Bigidan/beauty-salon-ms/internal/middleware"
)

type Config struct {
	RequestsPerSecond float64
	Burst             int
	CORS              middleware.CORSConfig
	Timeout           middleware.TimeoutConfig
}

type Handlers struct {
	Health      *health.Handler
	Auth        *auth.Handler
	Appointment *appointment.Handler
	Client      *client.Handler
	Catalog     *catalog.Handler
	Employee    *employee.Handler
	Discount    *discount.Handler
	Schedule    *schedule.Handler
	Visit       *visit.Handler
	User        *user.Handler
}

type Router struct {
	engine *gin.Engine
}

func NewRouter(authMW *middleware.AuthMiddleware, h Handlers, cfg Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.ErrorHandler(),
		middleware.CORS(cfg.CORS),
		middleware.Timeout(cfg.Timeout),
		middleware.NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst).RateLimit(),
	)

	engine.GET("/health", h.Health.Health)
	engine.GET("/ready", h.Health.Ready)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/v1")

	// Public surface: login, client self-registration, the visible catalog
	// and the booking form's availability probe.
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/clients", h.Client.Register)
	api.GET("/services", h.Catalog.ListServices)
	api.GET("/employees", h.Employee.ListEmployees)
	api.GET("/appointments/availability", h.Appointment.CheckAvailability)

	authed := api.Group("")
	authed.Use(authMW.Authenticate())
	{
		authed.POST("/appointments", h.Appointment.CreateAppointment)
		authed.GET("/appointments", h.Appointment.ListAppointments)
		authed.GET("/appointments/:id", h.Appointment.GetAppointment)
		authed.PUT("/appointments/:id", h.Appointment.UpdateAppointment)
		authed.POST("/appointments/:id/cancel", h.Appointment.CancelAppointment)

		authed.GET("/clients/:id", h.Client.GetClient)
		authed.PUT("/clients/:id", h.Client.UpdateClient)
		authed.GET("/clients/:id/appointments", h.Appointment.ListClientAppointments)
		authed.GET("/clients/:id/visits", h.Visit.ClientHistory)
		authed.GET("/clients/:id/price", h.Discount.PreviewPrice)

		authed.GET("/schedules", h.Schedule.ListSchedules)
	}

	admin := api.Group("")
	admin.Use(authMW.Authenticate(), authMW.RequireAdmin())
	{
		admin.DELETE("/appointments/:id", h.Appointment.DeleteAppointment)

		admin.GET("/clients", h.Client.ListClients)
		admin.GET("/clients/search", h.Client.SearchClients)
		admin.POST("/clients/:id/loyalty", h.Client.AddLoyaltyPoints)
		admin.POST("/clients/:id/deactivate", h.Client.DeactivateClient)
		admin.POST("/clients/:id/reactivate", h.Client.ReactivateClient)
		admin.POST("/clients/:id/discounts/:discount_id", h.Discount.AssignDiscount)

		admin.POST("/services", h.Catalog.CreateService)
		admin.GET("/services/:id", h.Catalog.GetService)
		admin.PUT("/services/:id", h.Catalog.UpdateService)
		admin.POST("/services/:id/hide", h.Catalog.HideService)
		admin.POST("/services/:id/unhide", h.Catalog.UnhideService)

		admin.POST("/employees", h.Employee.CreateEmployee)
		admin.GET("/employees/:id", h.Employee.GetEmployee)
		admin.PUT("/employees/:id", h.Employee.UpdateEmployee)
		admin.POST("/employees/:id/dismiss", h.Employee.DismissEmployee)
		admin.POST("/employees/:id/rehire", h.Employee.RehireEmployee)

		admin.POST("/discounts", h.Discount.CreateDiscount)
		admin.GET("/discounts", h.Discount.ListDiscounts)
		admin.GET("/discounts/:id", h.Discount.GetDiscount)
		admin.PUT("/discounts/:id", h.Discount.UpdateDiscount)
		admin.POST("/discounts/:id/activate", h.Discount.ActivateDiscount)
		admin.POST("/discounts/:id/deactivate", h.Discount.DeactivateDiscount)

		admin.POST("/schedules", h.Schedule.CreateSchedule)
		admin.POST("/schedules/:id/deactivate", h.Schedule.DeactivateSchedule)

		admin.POST("/visits", h.Visit.RecordVisit)
		admin.GET("/reports/financial", h.Visit.FinancialReport)

		admin.GET("/users", h.User.ListUsers)
		admin.GET("/users/search", h.User.SearchUsers)
		admin.GET("/users/:id", h.User.GetUser)
		admin.PUT("/users/:id", h.User.UpdateUser)
		admin.DELETE("/users/:id", h.User.DeleteUser)
	}

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
