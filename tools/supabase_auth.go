package tools

import (
	"context"
	"net/http"
	"net/url"
)

type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthSession is the token pair returned by the auth provider.
// AccessToken is empty when sign-up still awaits email confirmation.
type AuthSession struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	ExpiresAt    int64    `json:"expires_at"`
	RefreshToken string   `json:"refresh_token"`
	User         AuthUser `json:"user"`
}

// AuthClient is the subset of the hosted auth API the portal uses.
type AuthClient interface {
	SignUp(ctx context.Context, email, password string) (*AuthSession, error)
	SignIn(ctx context.Context, email, password string) (*AuthSession, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*AuthUser, error)
	Health(ctx context.Context) error
}

// SupabaseAuth talks to the GoTrue REST endpoints under <url>/auth/v1.
type SupabaseAuth struct {
	baseURL string
	anonKey string
	client  *http.Client
}

func NewSupabaseAuth(baseURL, anonKey string) *SupabaseAuth {
	return &SupabaseAuth{baseURL: baseURL, anonKey: anonKey, client: newHTTPClient()}
}

func (s *SupabaseAuth) configured() bool {
	return s.baseURL != "" && s.anonKey != ""
}

func (s *SupabaseAuth) headers(bearer string) map[string]string {
	if bearer == "" {
		bearer = s.anonKey
	}
	return map[string]string{
		"apikey":        s.anonKey,
		"Authorization": "Bearer " + bearer,
	}
}

func (s *SupabaseAuth) endpoint(path string, query url.Values) string {
	u := s.baseURL + "/auth/v1" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (s *SupabaseAuth) SignUp(ctx context.Context, email, password string) (*AuthSession, error) {
	if !s.configured() {
		return nil, ErrNotConfigured
	}

	// Without auto-confirm the endpoint answers with the bare user object.
	var out struct {
		AuthSession
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := doJSON(ctx, s.client, "supabase auth", http.MethodPost, s.endpoint("/signup", nil), s.headers(""), body, &out); err != nil {
		return nil, err
	}

	session := out.AuthSession
	if session.User.ID == "" {
		session.User = AuthUser{ID: out.ID, Email: out.Email}
	}
	return &session, nil
}

func (s *SupabaseAuth) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	return s.token(ctx, "password", map[string]string{"email": email, "password": password})
}

func (s *SupabaseAuth) Refresh(ctx context.Context, refreshToken string) (*AuthSession, error) {
	return s.token(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

func (s *SupabaseAuth) token(ctx context.Context, grant string, body map[string]string) (*AuthSession, error) {
	if !s.configured() {
		return nil, ErrNotConfigured
	}
	var session AuthSession
	u := s.endpoint("/token", url.Values{"grant_type": {grant}})
	if err := doJSON(ctx, s.client, "supabase auth", http.MethodPost, u, s.headers(""), body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SupabaseAuth) SignOut(ctx context.Context, accessToken string) error {
	if !s.configured() {
		return ErrNotConfigured
	}
	return doJSON(ctx, s.client, "supabase auth", http.MethodPost, s.endpoint("/logout", nil), s.headers(accessToken), nil, nil)
}

func (s *SupabaseAuth) GetUser(ctx context.Context, accessToken string) (*AuthUser, error) {
	if !s.configured() {
		return nil, ErrNotConfigured
	}
	var user AuthUser
	if err := doJSON(ctx, s.client, "supabase auth", http.MethodGet, s.endpoint("/user", nil), s.headers(accessToken), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *SupabaseAuth) Health(ctx context.Context) error {
	if !s.configured() {
		return ErrNotConfigured
	}
	return doJSON(ctx, s.client, "supabase auth", http.MethodGet, s.endpoint("/health", nil), s.headers(""), nil, nil)
}
