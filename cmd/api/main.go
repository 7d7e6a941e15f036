package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"storefront-checkout/internal/core/cache"
	"storefront-checkout/internal/core/config"
	"storefront-checkout/internal/core/httpclient"
	"storefront-checkout/internal/core/logger"
	"storefront-checkout/internal/core/server"
	"storefront-checkout/internal/core/validation"
	addressadapter "storefront-checkout/internal/features/addresses/adapters"
	addresshandler "storefront-checkout/internal/features/addresses/handler"
	addressservice "storefront-checkout/internal/features/addresses/service"
	cartadapter "storefront-checkout/internal/features/cart/adapters"
	carthandler "storefront-checkout/internal/features/cart/handler"
	checkouthandler "storefront-checkout/internal/features/checkout/handler"
	checkoutservice "storefront-checkout/internal/features/checkout/service"
	couponadapter "storefront-checkout/internal/features/coupons/adapters"
	couponhandler "storefront-checkout/internal/features/coupons/handler"
	couponports "storefront-checkout/internal/features/coupons/ports"
	couponservice "storefront-checkout/internal/features/coupons/service"
	deliveryadapter "storefront-checkout/internal/features/delivery/adapters"
	deliveryhandler "storefront-checkout/internal/features/delivery/handler"
	deliveryports "storefront-checkout/internal/features/delivery/ports"
	deliveryservice "storefront-checkout/internal/features/delivery/service"
	inventoryadapter "storefront-checkout/internal/features/inventory/adapters"
	inventoryhandler "storefront-checkout/internal/features/inventory/handler"
	paymentadapter "storefront-checkout/internal/features/payments/adapters"
	pricing "storefront-checkout/internal/features/pricing/domain"
	sessionhandler "storefront-checkout/internal/features/session/handler"
	sessionservice "storefront-checkout/internal/features/session/service"

	"go.uber.org/zap"
)

// @title Storefront Checkout API
// @version 1.0
// @description Cart, coupon, delivery and checkout endpoints for the storefront.
// @contact.name API Support
// @contact.email support@storefront.local
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	client, err := httpclient.NewClient(httpclient.Options{
		Timeout:  cfg.HTTP.Timeout,
		Retry:    httpclient.RetryPolicy{MaxAttempts: cfg.HTTP.RetryAttempts, Delay: cfg.HTTP.RetryDelay},
		ProxyURL: cfg.Proxy.URL(),
	})
	if err != nil {
		l.Fatal("Failed to build HTTP client", zap.Error(err))
	}
	if cfg.Proxy.HasProxy() {
		l.Info("Collaborator calls routed through proxy", zap.String("host", cfg.Proxy.Hostname))
	}

	cartSvc := httpclient.NewService("cart", cfg.Services.CartURL, client)
	couponSvc := httpclient.NewService("coupon", cfg.Services.CouponURL, client)
	addressSvc := httpclient.NewService("address", cfg.Services.AddressURL, client).IdentityBearing()
	inventorySvc := httpclient.NewService("inventory", cfg.Services.InventoryURL, client)

	// Optional cache in front of coupon and delivery lookups
	var couponLookup couponports.CouponLookup = couponadapter.NewRESTCouponLookup(couponSvc)
	var optionsSource deliveryports.OptionsSource
	if cfg.Services.DeliveryURL != "" {
		optionsSource = deliveryadapter.NewRESTOptionsSource(httpclient.NewService("delivery", cfg.Services.DeliveryURL, client))
	}

	if cfg.Cache.RedisURL != "" {
		redisCache, err := cache.NewRedisAdapter(cfg.Cache.RedisURL, "storefront")
		if err != nil {
			l.Fatal("Failed to configure Redis", zap.Error(err))
		}
		defer redisCache.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.Timeout)
		if err := redisCache.Ping(pingCtx); err != nil {
			l.Warn("Redis unreachable, lookups will go to the services", zap.Error(err))
		} else {
			l.Info("Redis connection verified")
		}
		cancel()

		couponLookup = couponadapter.NewCachedCouponLookup(couponLookup, redisCache, cfg.Cache.CouponTTL)
		if optionsSource != nil {
			optionsSource = deliveryadapter.NewCachedOptionsSource(optionsSource, redisCache, cfg.Cache.DeliveryTTL)
		}
	}

	// Services
	engine := pricing.NewEngine(cfg.Pricing.TaxRateDecimal(), cfg.Pricing.StandardFee(), cfg.Pricing.ExpressFee())
	couponValidator := couponservice.NewValidator(couponLookup)
	deliveryService := deliveryservice.NewDeliveryService(optionsSource, cfg.Pricing.StandardFee(), cfg.Pricing.ExpressFee())
	addressService := addressservice.NewAddressService(addressadapter.NewRESTAddressGateway(addressSvc))
	processor := paymentadapter.NewSimulatedProcessor(cfg.Payment.Delay)

	flow := checkoutservice.NewFlow(couponValidator, deliveryService, addressService, engine, processor)
	registry := sessionservice.NewRegistry(cartadapter.NewRESTCartGateway(cartSvc), flow)

	// Handlers
	validate := validation.New()
	sessionHdl := sessionhandler.NewSessionHandler(registry)
	cartHdl := carthandler.NewCartHandler(sessionHdl.Cart, validate)
	checkoutHdl := checkouthandler.NewCheckoutHandler(sessionHdl.Checkout, validate)
	couponHdl := couponhandler.NewCouponHandler(couponValidator, validate)
	deliveryHdl := deliveryhandler.NewDeliveryHandler(deliveryService)
	addressHdl := addresshandler.NewAddressHandler(addressService, validate)
	inventoryHdl := inventoryhandler.NewInventoryHandler(inventoryadapter.NewRESTInventoryGateway(inventorySvc), validate)

	srv := server.New(cfg)
	srv.App.Use(sessionHdl.Middleware())

	// Register Routes
	srv.App.Post("/sessions", sessionHdl.Start)
	srv.App.Delete("/sessions", sessionHdl.End)

	srv.App.Get("/cart", cartHdl.GetCart)
	srv.App.Delete("/cart", cartHdl.Clear)
	srv.App.Post("/cart/items", cartHdl.AddItem)
	srv.App.Put("/cart/items/:productId", cartHdl.UpdateQuantity)
	srv.App.Delete("/cart/items/:productId", cartHdl.RemoveItem)
	srv.App.Post("/cart/items/:productId/increment", cartHdl.Increment)
	srv.App.Post("/cart/items/:productId/decrement", cartHdl.Decrement)

	srv.App.Post("/coupons/validate", couponHdl.ValidateCoupon)
	srv.App.Get("/delivery/options", deliveryHdl.GetOptions)

	srv.App.Get("/addresses", addressHdl.ListAddresses)
	srv.App.Post("/addresses", addressHdl.CreateAddress)
	srv.App.Put("/addresses/:id", addressHdl.UpdateAddress)
	srv.App.Delete("/addresses/:id", addressHdl.DeleteAddress)

	srv.App.Get("/inventory/:productId", inventoryHdl.GetInventory)
	srv.App.Post("/inventory", inventoryHdl.CreateInventory)
	srv.App.Put("/inventory/:productId", inventoryHdl.UpdateInventory)

	srv.App.Post("/checkout", checkoutHdl.Start)
	srv.App.Get("/checkout", checkoutHdl.Current)
	srv.App.Delete("/checkout", checkoutHdl.Abandon)
	srv.App.Put("/checkout/address", checkoutHdl.SelectAddress)
	srv.App.Put("/checkout/delivery", checkoutHdl.SelectDeliveryType)
	srv.App.Put("/checkout/date", checkoutHdl.SelectDate)
	srv.App.Put("/checkout/slot", checkoutHdl.SelectTimeSlot)
	srv.App.Post("/checkout/coupon", checkoutHdl.ApplyCoupon)
	srv.App.Delete("/checkout/coupon", checkoutHdl.RemoveCoupon)
	srv.App.Post("/checkout/proceed", checkoutHdl.ProceedToPayment)
	srv.App.Post("/checkout/back", checkoutHdl.BackToDelivery)
	srv.App.Post("/checkout/pay", checkoutHdl.Pay)
	srv.App.Get("/checkout/summary", checkoutHdl.Summary)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go registry.RunSweeper(ctx, cfg.Session.IdleTTL, cfg.Session.SweepInterval)

	go func() {
		<-ctx.Done()
		l.Info("Shutting down server")
		if err := srv.Shutdown(); err != nil {
			l.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
