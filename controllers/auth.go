package controllers

import (
	"errors"
	"net/http"
	"strings"

	dbpkg "fusevip/db"
	"fusevip/logger"
	"fusevip/models"
	"fusevip/tools"
	"fusevip/workers"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Email     string           `json:"email" form:"email"`
	Password  string           `json:"password" form:"password"`
	FirstName string           `json:"first_name" form:"first_name"`
	LastName  string           `json:"last_name" form:"last_name"`
	Phone     string           `json:"phone" form:"phone"`
	Business  *models.Business `json:"business"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type AuthResponse struct {
	AccessToken          string           `json:"access_token,omitempty"`
	RefreshToken         string           `json:"refresh_token,omitempty"`
	ExpiresIn            int              `json:"expires_in,omitempty"`
	AwaitingConfirmation bool             `json:"awaiting_confirmation"`
	Session              Session          `json:"session"`
	Business             *models.Business `json:"business,omitempty"`
}

// authFailure maps an auth service error to a status and message.
func authFailure(err error) (int, string) {
	var apiErr *tools.APIError
	switch {
	case errors.Is(err, tools.ErrNotConfigured):
		return http.StatusServiceUnavailable, "authentication is not configured"
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		return http.StatusUnauthorized, apiErr.Message
	default:
		return http.StatusInternalServerError, "authentication service unavailable"
	}
}

func setSessionCookies(c *gin.Context, s *tools.AuthSession) {
	if s == nil || s.AccessToken == "" {
		return
	}
	secure := c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	maxAge := s.ExpiresIn
	if maxAge <= 0 {
		maxAge = 3600
	}
	c.SetCookie(AccessTokenCookie, s.AccessToken, maxAge, "/", "", secure, true)
	if s.RefreshToken != "" {
		c.SetCookie(RefreshTokenCookie, s.RefreshToken, 60*60*24*30, "/", "", secure, true)
	}
}

func clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", c.Request.TLS != nil, true)
}

// registerUser signs the user up, stores the profile and, when given, a
// pending business application. Guest purchases made with the same email
// are claimed straight away.
func registerUser(c *gin.Context, req RegisterRequest) (*tools.AuthSession, *models.Business, int, error) {
	req.Email = strings.TrimSpace(req.Email)
	if !tools.ValidateEmail(req.Email) {
		return nil, nil, http.StatusBadRequest, errors.New("invalid email")
	}
	if field := tools.CheckPassword(req.Password); field != "" {
		return nil, nil, http.StatusBadRequest, errors.New("password must have at least 6 characters")
	}
	if req.Business != nil && req.Business.Name != "" {
		if missing := req.Business.MissingFields(); missing != "" {
			return nil, nil, http.StatusBadRequest, errors.New("missing business field " + missing)
		}
	}

	deps := DepsInstance(c)
	if deps.Auth == nil {
		return nil, nil, http.StatusServiceUnavailable, errors.New("authentication is not configured")
	}

	authSession, err := deps.Auth.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		code, msg := authFailure(err)
		if code == http.StatusUnauthorized {
			code = http.StatusBadRequest
		}
		return nil, nil, code, errors.New(msg)
	}

	db := dbpkg.DBInstance(c)
	if db == nil || authSession.User.ID == "" {
		return authSession, nil, http.StatusOK, nil
	}
	log := logger.Get().With("user_id", authSession.User.ID)

	// the hosted backend may already have created the row on sign-up
	var profile models.Profile
	err = db.Where(models.Profile{ID: authSession.User.ID}).
		Assign(models.Profile{
			Email:     req.Email,
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
			Phone:     strings.TrimSpace(req.Phone),
		}).
		FirstOrCreate(&profile).Error
	if err != nil {
		log.Error("register: save profile", "error", err)
		return authSession, nil, http.StatusInternalServerError, errors.New("could not save profile")
	}

	var business *models.Business
	if req.Business != nil && req.Business.Name != "" {
		b := *req.Business
		b.ID = ""
		b.UserID = profile.ID
		b.Status = models.BUSINESS_STATUS_PENDING
		b.IsFeatured = false
		b.ApprovedBy, b.ApprovedAt = nil, nil
		if b.ContactEmail == "" {
			b.ContactEmail = req.Email
		}
		if err := db.Create(&b).Error; err != nil {
			log.Error("register: create business", "error", err)
		} else {
			business = &b
		}
	}

	if n, err := workers.ClaimGuestPurchasesFor(db, profile); err != nil {
		log.Warn("register: claim guest purchases", "error", err)
	} else if n > 0 {
		log.Info("register: claimed guest purchases", "count", n)
	}

	return authSession, business, http.StatusOK, nil
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, "invalid request body", http.StatusBadRequest)
		return
	}

	authSession, business, code, err := registerUser(c, req)
	if err != nil {
		RespondError(c, err.Error(), code)
		return
	}

	setSessionCookies(c, authSession)
	RespondCreated(c, AuthResponse{
		AccessToken:          authSession.AccessToken,
		RefreshToken:         authSession.RefreshToken,
		ExpiresIn:            authSession.ExpiresIn,
		AwaitingConfirmation: authSession.AccessToken == "",
		Session:              ResolveSession(dbpkg.DBInstance(c), authSession.User),
		Business:             business,
	})
}

func signIn(c *gin.Context, req LoginRequest) (*tools.AuthSession, int, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, http.StatusBadRequest, errors.New("email and password are required")
	}
	deps := DepsInstance(c)
	if deps.Auth == nil {
		return nil, http.StatusServiceUnavailable, errors.New("authentication is not configured")
	}
	s, err := deps.Auth.SignIn(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		code, msg := authFailure(err)
		logger.Get().Info("login failed", "email", req.Email, "error", err)
		return nil, code, errors.New(msg)
	}
	return s, http.StatusOK, nil
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	s, code, err := signIn(c, req)
	if err != nil {
		RespondError(c, err.Error(), code)
		return
	}

	setSessionCookies(c, s)
	RespondSuccess(c, AuthResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
		Session:      ResolveSession(dbpkg.DBInstance(c), s.User),
	})
}

// POST /api/auth/refresh
func Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(RefreshTokenCookie)
	}
	if req.RefreshToken == "" {
		RespondError(c, "refresh_token is required", http.StatusBadRequest)
		return
	}

	deps := DepsInstance(c)
	if deps.Auth == nil {
		RespondError(c, "authentication is not configured", http.StatusServiceUnavailable)
		return
	}

	s, err := deps.Auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		code, msg := authFailure(err)
		RespondError(c, msg, code)
		return
	}

	setSessionCookies(c, s)
	RespondSuccess(c, AuthResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
		Session:      ResolveSession(dbpkg.DBInstance(c), s.User),
	})
}

// signOut revokes the token at the auth service when possible and always
// clears the cookies.
func signOut(c *gin.Context) {
	if token := AccessToken(c); token != "" {
		if deps := DepsInstance(c); deps.Auth != nil {
			if err := deps.Auth.SignOut(c.Request.Context(), token); err != nil {
				logger.Get().Warn("logout: revoke token", "error", err)
			}
		}
	}
	clearSessionCookies(c)
}

// POST /api/auth/logout
func Logout(c *gin.Context) {
	signOut(c)
	RespondSuccess(c, gin.H{"success": true})
}

// GET /api/auth/session
func CurrentSession(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}
	RespondSuccess(c, session)
}
