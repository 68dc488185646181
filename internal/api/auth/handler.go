package auth

import (
	"net/http"
	"time"

	"artfolio/config"
	"artfolio/database"
	"artfolio/internal/app/http/middleware"
	"artfolio/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 24 * time.Hour

// POST /api/auth/login
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var user users.User
	err := database.DB.Where("email = ?", input.Email).First(&user).Error
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	if user.Password == nil || *user.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "This account uses Google sign-in"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	tokenString, err := issueSessionToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create session"})
		return
	}

	setSessionCookie(c, tokenString)
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "email": user.Email})
}

// POST /api/auth/logout
func Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}

// GET /api/auth/me
//
// The boolean auth probe the admin panel renders against. Always 200 so an
// anonymous caller learns nothing beyond "not signed in".
func Me(c *gin.Context) {
	cookie, err := c.Cookie(middleware.SessionCookie)
	if err != nil || cookie == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	claims, err := middleware.ParseSession(cookie, []byte(config.SESSION_SECRET))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	if role, _ := claims["role"].(string); role != "admin" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	email, _ := claims["email"].(string)
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "email": email})
}

func issueSessionToken(user users.User) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(sessionTTL).Unix(),
	})
	return t.SignedString([]byte(config.SESSION_SECRET))
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(
		middleware.SessionCookie,
		token,
		int(sessionTTL.Seconds()),
		"/",
		"",    // domain (set in prod)
		false, // secure (true in prod HTTPS)
		true,  // httpOnly
	)
}
