package routes

import (
	"shophub/auth"
	"shophub/cart"
	"shophub/items"
	"shophub/middleware"
	"shophub/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *auth.Handler) {
	router.POST("/api/auth/signup", rl.Limit(h.Signup))
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(h.Logout))
	router.GET("/api/auth/check-admin", middleware.Authenticate(h.CheckAdmin))
}

func AddItemRoutes(router *httprouter.Router, h *items.Handler) {
	router.GET("/api/items", h.List)
	router.GET("/api/items/filters", h.FilterOptions)
	router.GET("/api/items/all/:id", h.Get)

	router.POST("/api/items", middleware.Authenticate(h.Create))
	router.PUT("/api/items/:id", middleware.Authenticate(h.Update))
	router.DELETE("/api/items/:id", middleware.Authenticate(h.Delete))
	router.POST("/api/items/:id/image", middleware.Authenticate(h.UploadImage))
}

func AddCartRoutes(router *httprouter.Router) {
	router.GET("/api/cart", middleware.Authenticate(cart.Get))
	router.GET("/api/cart/receipt", middleware.Authenticate(cart.Receipt))
	router.POST("/api/cart/add", middleware.Authenticate(cart.SetQuantity))
	router.POST("/api/cart/increment", middleware.Authenticate(cart.Increment))
	router.POST("/api/cart/remove", middleware.Authenticate(cart.Remove))
	router.POST("/api/cart/merge", middleware.Authenticate(cart.Merge))
}
