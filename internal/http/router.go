package api

import (
	"log"
	stdhttp "net/http"

	intconfig "github.com/Sadath08/Trivara-room/internal/config"
	h "github.com/Sadath08/Trivara-room/internal/http/handlers"
	"github.com/Sadath08/Trivara-room/internal/http/middleware"
	"github.com/Sadath08/Trivara-room/internal/services"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, flows *services.FlowService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	fh := h.FlowHandler{
		Flows:    flows,
		Payments: services.PaymentService{PayeeID: env.UPIPayeeID, PayeeName: env.UPIPayeeName},
		Receipts: services.ReceiptService{},
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)

		flowsGroup := api.Group("/flows")
		flowsGroup.POST("", fh.Start)
		flowsGroup.GET("/:id", fh.Get)
		flowsGroup.DELETE("/:id", fh.Discard)
		flowsGroup.PUT("/:id/dates", fh.SetDates)
		flowsGroup.POST("/:id/guests/increment", fh.IncrementGuests)
		flowsGroup.POST("/:id/guests/decrement", fh.DecrementGuests)
		flowsGroup.PUT("/:id/payment-method", fh.SelectPaymentMethod)
		flowsGroup.POST("/:id/advance", fh.Advance)
		flowsGroup.POST("/:id/back", fh.Back)
		flowsGroup.POST("/:id/submit", fh.Submit)
		flowsGroup.GET("/:id/payment-qr", fh.PaymentQR)
		flowsGroup.GET("/:id/receipt", fh.Receipt)
	}

	return r
}
