package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"artfolio/config"
	"artfolio/database"
	"artfolio/internal/domain/users"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     config.GOOGLE_CLIENT_ID,
		ClientSecret: config.GOOGLE_CLIENT_SECRET,
		RedirectURL:  config.GOOGLE_REDIRECT_URL,
		Scopes: []string{
			"openid",
			"email",
			"profile",
		},
		Endpoint: google.Endpoint,
	}
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /api/auth/google
func GoogleStart(c *gin.Context) {
	if config.GOOGLE_CLIENT_ID == "" {
		c.JSON(http.StatusNotFound, gin.H{"message": "Google sign-in not configured"})
		return
	}

	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to generate state"})
		return
	}

	// state rides in an HttpOnly cookie for the callback check
	c.SetCookie(
		"oauth_state",
		state,
		300, // 5 minutes
		"/",
		"",
		false,
		true,
	)

	url := googleOAuthConfig().AuthCodeURL(state, oauth2.AccessTypeOnline)
	c.Redirect(http.StatusFound, url)
}

// GET /api/auth/google/callback
func GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing code/state"})
		return
	}

	cookieState, err := c.Cookie("oauth_state")
	if err != nil || cookieState != state {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid oauth state"})
		return
	}

	tok, err := googleOAuthConfig().Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "failed to exchange code"})
		return
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing id_token"})
		return
	}

	claims, err := verifyGoogleIDToken(c, rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
		return
	}

	// Single-admin backoffice: only the configured admin may sign in here.
	if claims.Email != config.ADMIN_EMAIL {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	user, err := linkGoogleAdmin(claims)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to link account"})
		return
	}

	tokenString, err := issueSessionToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not create session"})
		return
	}
	setSessionCookie(c, tokenString)

	if config.ADMIN_REDIRECT_URL == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": true, "email": user.Email})
		return
	}
	c.Redirect(http.StatusFound, config.ADMIN_REDIRECT_URL)
}

/* ---------------- helpers ---------------- */

type googleIDClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

func verifyGoogleIDToken(c *gin.Context, rawIDToken string) (*googleIDClaims, error) {
	ctx := c.Request.Context()

	provider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, errors.New("failed to init google oidc provider")
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: config.GOOGLE_CLIENT_ID,
	})

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.New("invalid id_token")
	}

	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.New("failed to decode token claims")
	}

	if claims.Email == "" || claims.Sub == "" {
		return nil, errors.New("token missing required claims")
	}

	return &claims, nil
}

func linkGoogleAdmin(gc *googleIDClaims) (users.User, error) {
	var user users.User
	if err := database.DB.Where("email = ?", gc.Email).First(&user).Error; err != nil {
		return users.User{}, err
	}

	if user.GoogleSub == nil {
		sub := gc.Sub
		user.GoogleSub = &sub
		user.AuthProvider = "google"
		if err := database.DB.Save(&user).Error; err != nil {
			return users.User{}, err
		}
	}
	return user, nil
}
