package http

import (
	"net/http"

	"baby-visit-scheduler/internal/delivery/http/handler"
	"baby-visit-scheduler/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	profileHandler     *handler.ProfileHandler
	scheduleHandler    *handler.VisitScheduleHandler
	slotHandler        *handler.VisitSlotHandler
	bookingHandler     *handler.VisitBookingHandler
	publicHandler      *handler.PublicBookingHandler
	entitlementHandler *handler.EntitlementHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	recoveryMiddleware *middleware.RecoveryMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	scheduleHandler *handler.VisitScheduleHandler,
	slotHandler *handler.VisitSlotHandler,
	bookingHandler *handler.VisitBookingHandler,
	publicHandler *handler.PublicBookingHandler,
	entitlementHandler *handler.EntitlementHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	recoveryMiddleware *middleware.RecoveryMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		profileHandler:     profileHandler,
		scheduleHandler:    scheduleHandler,
		slotHandler:        slotHandler,
		bookingHandler:     bookingHandler,
		publicHandler:      publicHandler,
		entitlementHandler: entitlementHandler,
		auditLogHandler:    auditLogHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		recoveryMiddleware: recoveryMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// Preflight requests only need to reach the CORS middleware
	r.router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public sharing page
	public := r.router.PathPrefix("/api").Subrouter()
	public.HandleFunc("/bookings", r.publicHandler.Book).Methods(http.MethodPost)
	public.HandleFunc("/bookings", r.publicHandler.Cancel).Methods(http.MethodDelete)
	public.HandleFunc("/schedules/{code}", r.publicHandler.GetSchedule).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)
	auth.HandleFunc("/forgot-password", r.authHandler.ForgotPassword).Methods(http.MethodPost)
	auth.HandleFunc("/reset-password", r.authHandler.ResetPassword).Methods(http.MethodPost)

	// Offers are visible before login
	api.HandleFunc("/offers", r.entitlementHandler.GetOffers).Methods(http.MethodGet)

	// Caregiver routes (protected)
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", r.authHandler.GetCurrentCaregiver).Methods(http.MethodGet)

	protected.HandleFunc("/auth/me", r.profileHandler.UpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/baby", r.profileHandler.GetBaby).Methods(http.MethodGet)
	protected.HandleFunc("/baby", r.profileHandler.SaveBaby).Methods(http.MethodPut)

	protected.HandleFunc("/schedules", r.scheduleHandler.CreateSchedule).Methods(http.MethodPost)
	protected.HandleFunc("/schedules", r.scheduleHandler.GetAllSchedules).Methods(http.MethodGet)
	protected.HandleFunc("/schedules/{id}", r.scheduleHandler.GetSchedule).Methods(http.MethodGet)
	protected.HandleFunc("/schedules/{id}", r.scheduleHandler.UpdateSchedule).Methods(http.MethodPut)
	protected.HandleFunc("/schedules/{id}", r.scheduleHandler.DeleteSchedule).Methods(http.MethodDelete)

	protected.HandleFunc("/schedules/{id}/slots/generate", r.slotHandler.GenerateSlots).Methods(http.MethodPost)
	protected.HandleFunc("/schedules/{id}/slots", r.slotHandler.GetSlots).Methods(http.MethodGet)
	protected.HandleFunc("/slots/{id}", r.slotHandler.UpdateSlot).Methods(http.MethodPut)
	protected.HandleFunc("/slots/{id}", r.slotHandler.DeleteSlot).Methods(http.MethodDelete)

	protected.HandleFunc("/schedules/{id}/bookings", r.bookingHandler.GetScheduleBookings).Methods(http.MethodGet)
	protected.HandleFunc("/schedules/{id}/activity", r.bookingHandler.GetScheduleActivity).Methods(http.MethodGet)

	protected.HandleFunc("/entitlements", r.entitlementHandler.GetStatus).Methods(http.MethodGet)
	protected.HandleFunc("/entitlements/restore", r.entitlementHandler.Restore).Methods(http.MethodPost)
	protected.HandleFunc("/offers/{id}/purchase", r.entitlementHandler.Purchase).Methods(http.MethodPost)

	protected.HandleFunc("/activity", r.auditLogHandler.GetActivity).Methods(http.MethodGet)

	r.router.Use(r.recoveryMiddleware.Recover)
	r.router.Use(r.recoveryMiddleware.LogRequests)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
