package controllers

import (
	"net/http"
	"strings"
	"time"

	dbpkg "fusevip/db"
	"fusevip/logger"
	"fusevip/models"

	"github.com/gin-gonic/gin"
)

// PageData is handed to every HTML template.
type PageData struct {
	Title   string
	Path    string
	Session *Session
	Error   string
	Notice  string
	Data    any
	Year    int
}

func renderPage(c *gin.Context, code int, name, title string, data any) {
	pd := PageData{
		Title: title,
		Path:  c.Request.URL.Path,
		Data:  data,
		Year:  time.Now().Year(),
	}
	if s, ok := GetSession(c); ok {
		pd.Session = &s
	}
	if v, ok := data.(formState); ok {
		pd.Error = v.Error
		pd.Notice = v.Notice
	}
	c.HTML(code, name, pd)
}

// formState carries the submitted values back into a form.
type formState struct {
	Error    string
	Notice   string
	Redirect string
	Values   map[string]string
}

// safeRedirect only follows local paths.
func safeRedirect(target, fallback string) string {
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") && !strings.HasPrefix(target, "/\\") {
		return target
	}
	return fallback
}

/************************************************
/**** MARK: PUBLIC PAGES ****/
/************************************************/

type homeData struct {
	Featured []models.Business
	Tiers    []models.CardTier
}

func HomePage(c *gin.Context) {
	data := homeData{Featured: []models.Business{}, Tiers: models.CardTiers}
	if db := dbpkg.DBInstance(c); db != nil {
		if err := db.Where("is_featured = ?", true).Limit(3).Find(&data.Featured).Error; err != nil {
			logger.Get().Error("home: featured businesses", "error", err)
		}
	}
	renderPage(c, http.StatusOK, "home.html", "Fuse.Vip", data)
}

// StaticPage renders one of the marketing pages from content.go.
func StaticPage(slug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		content, ok := staticPages[slug]
		if !ok {
			NotFoundPage(c)
			return
		}
		renderPage(c, http.StatusOK, "static.html", content.Title, content)
	}
}

type industryData struct {
	Businesses []models.Business
	Categories []string
	Category   string
	Query      string
}

func IndustryPage(c *gin.Context) {
	category := c.DefaultQuery("category", "spotlight")
	data := industryData{Category: category, Query: c.Query("q"), Businesses: []models.Business{}}

	if db := dbpkg.DBInstance(c); db != nil {
		data.Businesses = listIndustry(db, category, data.Query)

		var cats []string
		if err := db.Model(&models.Business{}).Where("category <> ''").Order("category asc").Pluck("DISTINCT category", &cats).Error; err != nil {
			logger.Get().Warn("industry: categories", "error", err)
		}
		data.Categories = append([]string{"spotlight", "all"}, cats...)
	}
	renderPage(c, http.StatusOK, "industry.html", "Industry", data)
}

func UpgradePage(c *gin.Context) {
	renderPage(c, http.StatusOK, "upgrade.html", "Upgrade", models.CardTiers)
}

type checkoutSuccessData struct {
	SessionID string
	Guest     bool
	Email     string
}

func CheckoutSuccessPage(c *gin.Context) {
	renderPage(c, http.StatusOK, "checkout_success.html", "Thank you", checkoutSuccessData{
		SessionID: c.Query("session_id"),
		Guest:     c.Query("guest") == "true",
		Email:     c.Query("email"),
	})
}

type walletData struct {
	Quote   PriceQuote
	Address string
}

func WalletPage(c *gin.Context) {
	data := walletData{Quote: currentPrice(DepsInstance(c).Prices)}
	if s, ok := GetSession(c); ok && s.Profile != nil {
		data.Address = s.Profile.WalletAddress
	}
	renderPage(c, http.StatusOK, "wallet.html", "Wallet", data)
}

func SchemaExplorerPage(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		renderPage(c, http.StatusInternalServerError, "schema.html", "Schema Explorer", formState{Error: "database not configured"})
		return
	}
	tables, err := ExploreSchema(db)
	if err != nil {
		logger.Get().Error("schema page", "error", err)
		renderPage(c, http.StatusInternalServerError, "schema.html", "Schema Explorer", formState{Error: err.Error()})
		return
	}
	renderPage(c, http.StatusOK, "schema.html", "Schema Explorer", tables)
}

func NotFoundPage(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		RespondError(c, "not found", http.StatusNotFound)
		return
	}
	renderPage(c, http.StatusNotFound, "not_found.html", "Not found", nil)
}

/************************************************
/**** MARK: AUTH FORMS ****/
/************************************************/

func LoginPage(c *gin.Context) {
	if _, ok := GetSession(c); ok {
		c.Redirect(http.StatusFound, safeRedirect(c.Query("redirect"), "/dashboard"))
		return
	}
	renderPage(c, http.StatusOK, "login.html", "Sign in", formState{Redirect: c.Query("redirect")})
}

func LoginSubmit(c *gin.Context) {
	req := LoginRequest{Email: c.PostForm("email"), Password: c.PostForm("password")}
	redirect := c.PostForm("redirect")

	s, code, err := signIn(c, req)
	if err != nil {
		renderPage(c, code, "login.html", "Sign in", formState{
			Error:    err.Error(),
			Redirect: redirect,
			Values:   map[string]string{"email": req.Email},
		})
		return
	}

	setSessionCookies(c, s)
	c.Redirect(http.StatusFound, safeRedirect(redirect, "/dashboard"))
}

func RegisterPage(c *gin.Context) {
	renderPage(c, http.StatusOK, "register.html", "Create account", formState{})
}

func RegisterSubmit(c *gin.Context) {
	req := RegisterRequest{
		Email:     c.PostForm("email"),
		Password:  c.PostForm("password"),
		FirstName: c.PostForm("first_name"),
		LastName:  c.PostForm("last_name"),
		Phone:     c.PostForm("phone"),
	}
	values := map[string]string{
		"email": req.Email, "first_name": req.FirstName, "last_name": req.LastName, "phone": req.Phone,
	}

	s, _, code, err := registerUser(c, req)
	if err != nil {
		renderPage(c, code, "register.html", "Create account", formState{Error: err.Error(), Values: values})
		return
	}
	if s.AccessToken == "" {
		renderPage(c, http.StatusOK, "register.html", "Create account", formState{
			Notice: "Check your email to confirm your account, then sign in.",
		})
		return
	}

	setSessionCookies(c, s)
	c.Redirect(http.StatusFound, "/onboarding")
}

func LogoutPage(c *gin.Context) {
	signOut(c)
	c.Redirect(http.StatusFound, "/")
}

/************************************************
/**** MARK: PORTAL PAGES ****/
/************************************************/

type dashboardData struct {
	Cards []models.UserCard
	Quote PriceQuote
}

func DashboardPage(c *gin.Context) {
	session, _ := GetSession(c)
	data := dashboardData{Cards: []models.UserCard{}, Quote: currentPrice(DepsInstance(c).Prices)}
	if db := dbpkg.DBInstance(c); db != nil {
		data.Cards = userCards(db, session.User.ID)
	}
	renderPage(c, http.StatusOK, "dashboard.html", "Dashboard", data)
}

func CardPage(c *gin.Context) {
	session, _ := GetSession(c)
	db := dbpkg.DBInstance(c)

	var card models.UserCard
	if db == nil || db.Where("id = ? AND user_id = ?", c.Param("id"), session.User.ID).First(&card).Error != nil {
		NotFoundPage(c)
		return
	}
	tier, _ := models.FindCardTier(card.CardType)
	renderPage(c, http.StatusOK, "card.html", card.CardType, gin.H{"Card": card, "Tier": tier})
}

func OnboardingPage(c *gin.Context) {
	session, _ := GetSession(c)
	state := onboardingState(models.OnboardingProgress{Step: models.ONBOARDING_STEP_WELCOME})
	if db := dbpkg.DBInstance(c); db != nil {
		state = onboardingState(loadOnboarding(db, session.User.ID))
	}
	renderPage(c, http.StatusOK, "onboarding.html", "Welcome", gin.H{"State": state, "Steps": models.OnboardingSteps})
}

func RegisterBusinessPage(c *gin.Context) {
	session, _ := GetSession(c)
	if session.IsBusinessOwner {
		c.Redirect(http.StatusFound, "/dashboard/business")
		return
	}
	renderPage(c, http.StatusOK, "register_business.html", "Register your business", formState{})
}

func RegisterBusinessSubmit(c *gin.Context) {
	session, _ := GetSession(c)
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var input models.Business
	if err := c.ShouldBind(&input); err != nil {
		renderPage(c, http.StatusBadRequest, "register_business.html", "Register your business", formState{Error: err.Error()})
		return
	}
	if _, code, err := submitBusiness(db, session, input); err != nil {
		renderPage(c, code, "register_business.html", "Register your business", formState{
			Error: err.Error(),
			Values: map[string]string{
				"name": input.Name, "category": input.Category, "description": input.Description,
				"website": input.Website, "contact_email": input.ContactEmail,
			},
		})
		return
	}
	c.Redirect(http.StatusFound, "/dashboard/business")
}

type businessDashboardData struct {
	Business  models.Business
	Purchases []models.Purchase
	Referrals []models.Referral
	Feature   FeatureStatus
}

func BusinessDashboardPage(c *gin.Context) {
	session, _ := GetSession(c)
	db := dbpkg.DBInstance(c)
	data := businessDashboardData{Purchases: []models.Purchase{}, Referrals: []models.Referral{}}

	if db != nil {
		log := logger.Get().With("business_id", session.BusinessID)
		if err := db.Where("id = ?", session.BusinessID).First(&data.Business).Error; err != nil {
			log.Error("business dashboard: load business", "error", err)
		}
		if err := db.Where("business_id = ?", session.BusinessID).Order("created_at desc").Find(&data.Purchases).Error; err != nil {
			log.Error("business dashboard: purchases", "error", err)
		}
		if err := db.Where("business_id = ?", session.BusinessID).Order("created_at desc").Find(&data.Referrals).Error; err != nil {
			log.Error("business dashboard: referrals", "error", err)
		}
		data.Feature = featureStatus(db, session.BusinessID)
	}
	renderPage(c, http.StatusOK, "business_dashboard.html", "Business dashboard", data)
}

func AdminPage(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}
	renderPage(c, http.StatusOK, "admin.html", "Admin", adminOverview(db))
}

func AdminBusinessesPage(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}
	status := c.DefaultQuery("status", models.BUSINESS_STATUS_PENDING)
	renderPage(c, http.StatusOK, "admin_businesses.html", "Business applications", gin.H{
		"Status":     status,
		"Businesses": adminBusinesses(db, status),
	})
}
