package auth

import (
	"log/slog"
	"net/http"

	"github.com/bridgeapp/bridge/internal/apperr"
	"github.com/bridgeapp/bridge/internal/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
)

type signupRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	SecurityQuestion string `json:"securityQuestion"`
	SecurityAnswer   string `json:"securityAnswer"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type recoverRequest struct {
	Email  string `json:"email"`
	Answer string `json:"answer"`
}

type resetRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// HandleSignup creates an account and logs the new user in.
func HandleSignup(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		user, err := svc.Signup(req.Name, req.Email, req.Password, req.SecurityQuestion, req.SecurityAnswer)
		if err != nil {
			writeError(c, err)
			return
		}

		if err := establishSession(c, user.ID); err != nil {
			slog.Error("Session save error", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to establish session"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// HandleLogin authenticates email/password and establishes a session.
func HandleLogin(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		user, err := svc.Login(req.Email, req.Password)
		if err != nil {
			writeError(c, err)
			return
		}

		if err := establishSession(c, user.ID); err != nil {
			slog.Error("Session save error", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to establish session"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// HandleRecover serves both recovery steps: without an answer it returns the
// stored security question, with one it verifies the answer.
func HandleRecover(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req recoverRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		if req.Answer == "" {
			question, err := svc.RecoveryQuestion(req.Email)
			if err != nil {
				writeError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"question": question})
			return
		}

		if err := svc.VerifyRecovery(req.Email, req.Answer); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"verified": true})
	}
}

// HandleReset overwrites the account password.
func HandleReset(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		if err := svc.ResetPassword(req.Email, req.NewPassword); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// HandleGoogleLogin initiates the Google OAuth flow
func HandleGoogleLogin(c *gin.Context) {
	// Gothic requires the "provider" query parameter
	q := c.Request.URL.Query()
	q.Add("provider", "google")
	c.Request.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// HandleGoogleCallback completes the OAuth flow, upserts the user, and
// establishes a session before redirecting to the frontend dashboard.
func HandleGoogleCallback(svc *Service, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Gothic requires the "provider" query parameter
		q := c.Request.URL.Query()
		q.Add("provider", "google")
		c.Request.URL.RawQuery = q.Encode()

		gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
		if err != nil {
			slog.Error("Auth error", "error", err)
			c.Redirect(http.StatusFound, cfg.FrontendURL+"/login?error=auth_failed")
			return
		}

		user, err := svc.UpsertGoogleUser(gothUser)
		if err != nil {
			slog.Error("User upsert error", "error", err)
			c.Redirect(http.StatusFound, cfg.FrontendURL+"/login?error=auth_failed")
			return
		}

		if err := establishSession(c, user.ID); err != nil {
			slog.Error("Session save error", "error", err)
			c.Redirect(http.StatusFound, cfg.FrontendURL+"/login?error=session_failed")
			return
		}

		slog.Info("User authenticated", "name", user.DisplayName, "email", user.Email)
		c.Redirect(http.StatusFound, cfg.FrontendURL+"/dashboard")
	}
}

// HandleLogout clears the session and redirects to the root.
func HandleLogout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})

	if err := session.Save(); err != nil {
		slog.Error("Session clear error", "error", err)
	}

	c.Redirect(http.StatusFound, "/")
}

// HandleCurrentUser returns the session's user, or an empty body when the
// request carries no valid session.
func HandleCurrentUser(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			c.Status(http.StatusOK)
			return
		}

		user, err := svc.FindByID(userID)
		if err != nil {
			// Stale cookie referencing a removed account reads as logged out.
			c.Status(http.StatusOK)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func establishSession(c *gin.Context, userID uint) error {
	session := sessions.Default(c)
	session.Set(SessionKeyUserID, userID)
	return session.Save()
}

func writeError(c *gin.Context, err error) {
	status := apperr.StatusCode(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": apperr.ClientMessage(err)})
}
