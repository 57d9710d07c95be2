package router

import (
	"net/http"

	"coupon-service/internal/auth"
	"coupon-service/internal/handler"
	"coupon-service/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Coupons   *handler.CouponHandler
	Questions *handler.QuestionHandler
	QRCodes   *handler.QRCodeHandler
	Stats     *handler.StatsHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, tokens auth.TokenService, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// RequestID -> Recovery -> Logging -> CORS -> (JWTAuth -> RequireRole)
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	})

	admin := middleware.RequireRole(auth.RoleAdmin)
	user := middleware.RequireRole(auth.RoleUser)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.JWTAuth(tokens, logger))

		r.Route("/coupons", func(r chi.Router) {
			r.With(user).Get("/", h.Coupons.List)
			r.With(admin).Post("/", h.Coupons.Create)
			r.With(user).Post("/redeem", h.Coupons.Redeem)
			r.With(admin).Get("/business/{companyName}/stats", h.Coupons.BusinessStats)

			r.Route("/{id}", func(r chi.Router) {
				r.With(user).Get("/", h.Coupons.GetByID)
				r.With(admin).Put("/", h.Coupons.Update)
				r.With(admin).Delete("/", h.Coupons.Delete)
				r.With(user).Post("/claim", h.Coupons.Claim)
				r.With(user).Get("/qrcode", h.QRCodes.Generate)
				r.With(user).Get("/questions", h.Questions.ListByCoupon)
				r.With(admin).Post("/questions", h.Questions.Create)
			})
		})

		r.Route("/questions/{questionId}", func(r chi.Router) {
			r.With(admin).Put("/", h.Questions.Update)
			r.With(user).Post("/ratings", h.Questions.Rate)
		})

		r.With(user).Post("/qrcode/decrypt", h.QRCodes.Decrypt)

		r.Route("/stats", func(r chi.Router) {
			r.Use(admin)
			r.Get("/averages", h.Stats.Averages)
			r.Get("/totals", h.Stats.Totals)
			r.Get("/coupons/{id}/averages", h.Stats.Averages)
			r.Get("/coupons/{id}/totals", h.Stats.Totals)
		})
	})

	return r
}
