package handler

import (
	"net/http"

	"accessibilityhire/internal/apperr"
	"accessibilityhire/internal/model"
	"accessibilityhire/internal/service"
	"accessibilityhire/pkg/util"

	"github.com/gin-gonic/gin"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 300
)

// AuthHandler serves sign-up, sign-in and the profile
type AuthHandler struct {
	auth         *service.AuthService
	secureCookie bool
}

func NewAuthHandler(auth *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookie: secureCookie}
}

type googleCallbackRequest struct {
	Code  string `json:"code" binding:"required"`
	State string `json:"state" binding:"required"`
}

// SignUp handles POST /auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req model.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email and password are required", err.Error())
		return
	}
	res, err := h.auth.SignUpWithEmail(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Account created", res))
}

// SignIn handles POST /auth/signin
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req model.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email and password are required", err.Error())
		return
	}
	res, err := h.auth.SignInWithEmail(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Signed in", res))
}

// SignOut handles POST /auth/signout
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.auth.LogOut(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Signed out", nil))
}

// GoogleLogin handles GET /auth/google/login. The state is kept in a short
// lived cookie and checked by the callback.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state, err := util.GenerateState()
	if err != nil {
		respondError(c, apperr.Provider(apperr.CodeAuthProvider, err))
		return
	}
	url, err := h.auth.GoogleLoginURL(state)
	if err != nil {
		respondError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, model.NewSuccessResponse("Redirect to Google", gin.H{"url": url, "state": state}))
}

// GoogleCallback handles POST /auth/google/callback
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	var req googleCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "code and state are required", err.Error())
		return
	}
	stored, err := c.Cookie(oauthStateCookie)
	if err != nil || stored != req.State {
		c.JSON(http.StatusBadRequest, model.NewCodedErrorResponse(apperr.CodeOAuthFailed, "OAuth state mismatch", ""))
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secureCookie, true)

	res, err := h.auth.SignInWithGoogle(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Signed in", res))
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.CurrentUser(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", user))
}

// UpdateProfile handles PATCH /auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req model.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid profile", err.Error())
		return
	}
	user, err := h.auth.UpdateUserProfile(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Profile updated", user))
}

// UploadProfileImage handles POST /auth/profile/image (multipart field "file")
func (h *AuthHandler) UploadProfileImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required", err.Error())
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, "Unable to read file", err.Error())
		return
	}
	defer f.Close()

	user, err := h.auth.UploadProfileImage(c.Request.Context(), model.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      f,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Profile image uploaded", gin.H{
		"url":  user.PhotoURL,
		"user": user,
	}))
}
