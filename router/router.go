package router

import (
	"fmt"
	"net/http"

	"fusevip/controllers"
	dbpkg "fusevip/db"
	"fusevip/logger"
	"fusevip/middleware"
	"fusevip/models"
	"fusevip/web"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// Initialize wires all routes and middlewares.
// Pages resolve the session optionally and guard with ProtectedPage; the
// JSON API uses AuthRequired plus RequireRole / BusinessOnly.
func Initialize(r *gin.Engine, deps *controllers.Deps, database *gorm.DB) error {
	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.Use(gin.Recovery())
	r.Use(Logger())
	r.Use(middleware.CORSMiddleware())
	r.Use(dbpkg.SetDBtoContext(database))
	r.Use(controllers.SetDepsToContext(deps))
	r.Use(LegacyRedirects())

	r.StaticFS("/static", http.FS(web.Static()))
	r.GET("/health", controllers.Health)

	initAPI(r.Group("/api"))
	initPages(r.Group("", controllers.LoadSession()))

	r.NoRoute(controllers.LoadSession(), controllers.NotFoundPage)

	logger.Get().Info("routes initialized")
	return nil
}

func initAPI(api *gin.RouterGroup) {
	// Stripe and diagnostics (no auth)
	api.POST("/create-checkout-session", controllers.CreateCheckoutSession)
	api.POST("/webhook", controllers.StripeWebhook)
	api.GET("/schema-explorer", controllers.GetSchema)
	api.GET("/test-supabase", controllers.TestSupabase)

	// Public catalog
	api.GET("/cards/tiers", controllers.GetCardTiers)
	api.GET("/businesses", controllers.SearchBusinesses)
	api.GET("/businesses/featured", controllers.FeaturedBusinesses)
	api.GET("/industry", controllers.IndustryBusinesses)
	api.GET("/xrp-price", controllers.XRPPrice)

	// Auth
	api.POST("/auth/register", controllers.Register)
	api.POST("/auth/login", controllers.Login)
	api.POST("/auth/refresh", controllers.Refresh)
	api.POST("/auth/logout", controllers.Logout)

	// Wallet sign-in may start anonymously; linking needs a session
	wallet := api.Group("/wallet", controllers.LoadSession())
	wallet.POST("/connect", controllers.ConnectWallet)
	wallet.GET("/status/:uuid", controllers.WalletStatus)

	// Authenticated routes
	auth := api.Group("", controllers.AuthRequired())
	auth.GET("/auth/session", controllers.CurrentSession)
	auth.POST("/wallet/disconnect", controllers.DisconnectWallet)
	auth.GET("/cards", controllers.GetMyCards)
	auth.GET("/cards/:id", controllers.GetMyCard)
	auth.POST("/businesses", controllers.CreateBusiness)
	auth.GET("/businesses/mine", controllers.GetMyBusiness)
	auth.PUT("/businesses/mine", controllers.UpdateMyBusiness)
	auth.GET("/onboarding", controllers.GetOnboarding)
	auth.PUT("/onboarding", controllers.UpdateOnboarding)
	auth.POST("/onboarding/complete", controllers.CompleteOnboarding)
	auth.POST("/onboarding/skip", controllers.SkipOnboarding)

	// Business owners
	owner := auth.Group("/businesses/mine", BusinessOnly())
	owner.GET("/purchases", controllers.MyBusinessPurchases)
	owner.GET("/referrals", controllers.MyBusinessReferrals)
	owner.GET("/feature-application", controllers.GetFeatureApplicationStatus)
	owner.POST("/feature-application", controllers.ApplyForFeature)

	// Admin routes
	admin := auth.Group("/admin", RequireRole(models.ROLE_ADMIN))
	admin.GET("/overview", controllers.GetAdminOverview)
	admin.GET("/applications", controllers.ListAdminApplications)
	admin.POST("/applications/:id/approve", controllers.ApproveAdminApplication)
	admin.POST("/applications/:id/reject", controllers.RejectAdminApplication)
	admin.GET("/businesses", controllers.ListBusinessesForReview)
	admin.POST("/businesses/:id/approve", controllers.ApproveBusiness)
	admin.POST("/businesses/:id/reject", controllers.RejectBusiness)
	admin.GET("/feature-applications", controllers.ListFeatureApplications)
	admin.POST("/feature-applications/:id/approve", controllers.ApproveFeatureApplication)
	admin.POST("/feature-applications/:id/reject", controllers.RejectFeatureApplication)
}

func initPages(pages *gin.RouterGroup) {
	pages.GET("/", controllers.HomePage)
	for _, slug := range []string{"about-us", "resources", "reviews", "solutions", "fuse", "fuse-advantage", "book-call"} {
		pages.GET("/"+slug, controllers.StaticPage(slug))
	}
	pages.GET("/industry", controllers.IndustryPage)
	pages.GET("/upgrade", controllers.UpgradePage)
	pages.GET("/checkout-success", controllers.CheckoutSuccessPage)
	pages.GET("/wallet", controllers.WalletPage)
	pages.GET("/schema-explorer", controllers.SchemaExplorerPage)

	pages.GET("/login", controllers.LoginPage)
	pages.POST("/login", controllers.LoginSubmit)
	pages.GET("/register", controllers.RegisterPage)
	pages.POST("/register", controllers.RegisterSubmit)
	pages.GET("/logout", controllers.LogoutPage)

	protected := pages.Group("", ProtectedPage("", false))
	protected.GET("/dashboard", controllers.DashboardPage)
	protected.GET("/dashboard/cards/:id", controllers.CardPage)
	protected.GET("/onboarding", controllers.OnboardingPage)
	protected.GET("/register-business", controllers.RegisterBusinessPage)
	protected.POST("/register-business", controllers.RegisterBusinessSubmit)

	pages.GET("/dashboard/business", ProtectedPage("", true), controllers.BusinessDashboardPage)

	admin := pages.Group("/admin", ProtectedPage(models.ROLE_ADMIN, false))
	admin.GET("", controllers.AdminPage)
	admin.GET("/businesses", controllers.AdminBusinessesPage)
}
