package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"handnotes-backend/internal/shared/auth"
	"handnotes-backend/internal/shared/server/respond"
	"handnotes-backend/internal/shared/telemetry"
	"handnotes-backend/internal/users"
)

var userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleService handles the Google OAuth login and the session cookie.
type GoogleService struct {
	oauthConfig  *oauth2.Config
	sessions     *auth.Sessions
	users        *users.Service
	uiRedirect   string
	secureCookie bool
	stateTTL     time.Duration
	stateStore   *stateStore
}

// GoogleOptions configures NewGoogleService.
type GoogleOptions struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	UIRedirect   string
	SecureCookie bool
}

// NewGoogleService builds a GoogleService.
func NewGoogleService(opts GoogleOptions, sessions *auth.Sessions, userSvc *users.Service) *GoogleService {
	return &GoogleService{
		oauthConfig: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		sessions:     sessions,
		users:        userSvc,
		uiRedirect:   opts.UIRedirect,
		secureCookie: opts.SecureCookie,
		stateTTL:     5 * time.Minute,
		stateStore:   newStateStore(),
	}
}

// RegisterRoutes attaches the public auth routes.
func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
	rg.POST("/auth/logout", s.logout)
}

func (s *GoogleService) start(c *gin.Context) {
	if s.oauthConfig.ClientID == "" || s.oauthConfig.ClientSecret == "" || s.oauthConfig.RedirectURL == "" {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google auth not configured", nil)
		return
	}

	state := uuid.NewString()
	s.stateStore.put(state, time.Now().Add(s.stateTTL))

	c.Redirect(http.StatusFound, s.oauthConfig.AuthCodeURL(state))
}

func (s *GoogleService) callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}
	if !s.stateStore.consume(state) {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile", nil)
		return
	}
	if info.Sub == "" {
		respond.Error(c, http.StatusBadGateway, "auth_failed", "invalid user profile", nil)
		return
	}

	if err := s.login(c, users.User{
		ID:        "google:" + info.Sub,
		Email:     info.Email,
		Name:      info.Name,
		AvatarURL: info.Picture,
	}); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to sign in", nil)
		return
	}
	c.Redirect(http.StatusFound, s.uiRedirect)
}

// login records the user and sets the session cookie.
func (s *GoogleService) login(c *gin.Context, u users.User) error {
	if s.users != nil {
		if _, err := s.users.UpsertFromAuth(c.Request.Context(), u); err != nil {
			telemetry.Error("auth.user_upsert_failed", map[string]any{"user_id": u.ID, "error": err.Error()})
			return err
		}
	}
	token, err := s.sessions.Sign(auth.Identity{UserID: u.ID, Email: u.Email, Name: u.Name, Picture: u.AvatarURL})
	if err != nil {
		return err
	}
	s.setCookie(c, token, int(s.sessions.TTL().Seconds()))
	telemetry.Info("auth.login", map[string]any{"user_id": u.ID})
	return nil
}

func (s *GoogleService) logout(c *gin.Context) {
	s.setCookie(c, "", -1)
	respond.OK(c, gin.H{"success": true})
}

func (s *GoogleService) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, value, maxAge, "/", "", s.secureCookie, true)
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get(userInfoURL)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}

	// v2 userinfo answers with "id" rather than "sub".
	if info.Sub == "" {
		info.Sub = info.ID
	}
	return info, nil
}

type stateStore struct {
	items map[string]time.Time
	mu    sync.Mutex
}

func newStateStore() *stateStore {
	return &stateStore{items: make(map[string]time.Time)}
}

func (s *stateStore) put(state string, exp time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for k, v := range s.items {
		if now.After(v) {
			delete(s.items, k)
		}
	}
	s.items[state] = exp
}

func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	exp, ok := s.items[state]
	if ok {
		delete(s.items, state)
	}
	s.mu.Unlock()
	return ok && !time.Now().After(exp)
}
