package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Bonattii/secrets-auth-project/internal/infra/config"
	"github.com/Bonattii/secrets-auth-project/internal/infra/security"
	"github.com/Bonattii/secrets-auth-project/internal/transport/http/middleware"
	"github.com/Bonattii/secrets-auth-project/internal/usecase"
)

const (
	providerGoogle   = "google"
	stateCookie      = "oauth_state"
	stateCookieTTL   = 600
	googleUserinfo   = "https://www.googleapis.com/oauth2/v3/userinfo"
	oauthScopeEmail  = "https://www.googleapis.com/auth/userinfo.email"
	oauthScopeOpenID = "openid"
)

// OAuthHandler drives the Google consent redirect and hands the verified
// subject to the federation linker. Token exchange and signature checks are
// the provider library's business.
type OAuthHandler struct {
	federation  *usecase.FederationService
	sessions    *security.SessionManager
	oauth       *oauth2.Config
	userinfoURL string
	log         *zap.Logger
}

// NewOAuthHandler constructs OAuthHandler from the Google settings.
func NewOAuthHandler(federation *usecase.FederationService, sessions *security.SessionManager, cfg config.GoogleSettings, log *zap.Logger) *OAuthHandler {
	if log == nil {
		log = zap.NewNop()
	}

	return &OAuthHandler{
		federation: federation,
		sessions:   sessions,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{oauthScopeOpenID, oauthScopeEmail},
			Endpoint:     google.Endpoint,
		},
		userinfoURL: googleUserinfo,
		log:         log,
	}
}

// RegisterRoutes binds the federated login routes.
func (h *OAuthHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/auth/google", h.begin)
	r.GET("/auth/google/callback", h.callback)
}

func (h *OAuthHandler) begin(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		h.log.Error("generate oauth state", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"Error": "Could not start Google sign-in. Please try again.",
		})
		return
	}

	c.SetCookie(stateCookie, state, stateCookieTTL, "/", "", false, true)
	c.Redirect(http.StatusFound, h.oauth.AuthCodeURL(state))
}

func (h *OAuthHandler) callback(c *gin.Context) {
	expected, err := c.Cookie(stateCookie)
	if err != nil || expected == "" || c.Query("state") != expected {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		// User denied consent or the provider errored.
		c.Redirect(http.StatusFound, "/login")
		return
	}

	token, err := h.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		h.log.Error("oauth code exchange", zap.Error(err))
		c.Redirect(http.StatusFound, "/login")
		return
	}

	subject, email, err := h.fetchIdentity(c, token)
	if err != nil {
		h.log.Error("fetch oauth identity", zap.Error(err))
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := h.federation.LinkOrCreate(c.Request.Context(), providerGoogle, subject, email)
	if err != nil {
		h.log.Error("link federated user", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"Error": "Something went wrong on our side. Please try again.",
		})
		return
	}

	sessionToken, err := h.sessions.Issue(user.ID)
	if err != nil {
		h.log.Error("issue session", zap.Error(err))
		c.Redirect(http.StatusFound, "/login")
		return
	}

	maxAge := int(h.sessions.TTL().Seconds())
	c.SetCookie(middleware.SessionCookie, sessionToken, maxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, "/secrets")
}

func (h *OAuthHandler) fetchIdentity(c *gin.Context, token *oauth2.Token) (subject, email string, err error) {
	client := h.oauth.Client(c.Request.Context(), token)

	resp, err := client.Get(h.userinfoURL)
	if err != nil {
		return "", "", fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", "", fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Sub == "" {
		return "", "", fmt.Errorf("userinfo missing subject")
	}

	return info.Sub, info.Email, nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
