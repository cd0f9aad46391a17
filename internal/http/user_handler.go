package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"accounthub/internal/domain"
	"accounthub/internal/service"
)

// UserHandler mantiene dependencias para endpoints de usuarios.
type UserHandler struct {
	logger    *zap.Logger
	userServ  *service.UserService
	tokenServ *service.TokenService
	cookieTTL time.Duration
}

// NewUserHandler crea una instancia de UserHandler con dependencias necesarias.
func NewUserHandler(logger *zap.Logger, userServ *service.UserService, tokenServ *service.TokenService, cookieTTL time.Duration) *UserHandler {
	if cookieTTL <= 0 {
		cookieTTL = 48 * time.Hour
	}
	return &UserHandler{
		logger:    logger,
		userServ:  userServ,
		tokenServ: tokenServ,
		cookieTTL: cookieTTL,
	}
}

// Register maneja POST /user/register (formulario multipart con avatar).
func (h *UserHandler) Register(c *gin.Context) {
	avatarBytes, err := readFormFile(c, "avatar")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No avatar uploaded")
		return
	}

	isPrivate, _ := strconv.ParseBool(c.PostForm("is_private"))
	user, err := h.userServ.Register(c.Request.Context(), service.RegisterInput{
		Name:      c.PostForm("name"),
		Email:     c.PostForm("email"),
		Password:  c.PostForm("password"),
		Mobile:    c.PostForm("mobile"),
		Bio:       c.PostForm("bio"),
		IsPrivate: isPrivate,
		Avatar:    avatarBytes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingAvatar):
			respondError(c, http.StatusBadRequest, "No avatar uploaded")
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, http.StatusBadRequest, "invalid email")
		default:
			h.logger.Error("register user failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "could not register user")
		}
		return
	}

	h.sendToken(c, user)
}

// Login maneja POST /user/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Please enter both email and password")
		return
	}

	user, err := h.userServ.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not login")
		return
	}

	h.sendToken(c, user)
}

// Logout maneja GET /user/logout limpiando la cookie con fecha vencida.
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetCookie(tokenCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged Out"})
}

// GetUser maneja GET /user/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userServ.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("get user failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not fetch user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User profile Details", "data": user})
}

// UpdatePassword maneja PUT /user/password/update/:id. La contraseña
// vieja se compara contra el usuario autenticado; el id de la ruta no
// se consulta.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	var req struct {
		OldPassword     string `json:"oldPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	actor, ok := GetAuthUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Please login to access this resource")
		return
	}

	user, err := h.userServ.UpdatePassword(c.Request.Context(), actor.ID, req.OldPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongOldPassword):
			respondError(c, http.StatusBadRequest, "Old password is incorrect")
		case errors.Is(err, service.ErrPasswordMismatch):
			respondError(c, http.StatusBadRequest, "Passwords do not match")
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "User not found")
		default:
			h.logger.Error("update password failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "could not update password")
		}
		return
	}

	h.sendToken(c, user)
}

// UpdateProfile maneja PUT /user/update/:id. El archivo de avatar es
// opcional: sin archivo el avatar existente queda como esta.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	input := service.ProfileInput{}
	if v, ok := c.GetPostForm("name"); ok {
		input.Name = &v
	}
	if v, ok := c.GetPostForm("email"); ok {
		input.Email = &v
	}
	if v, ok := c.GetPostForm("mobile"); ok {
		input.Mobile = &v
	}
	if v, ok := c.GetPostForm("bio"); ok {
		input.Bio = &v
	}
	if v, ok := c.GetPostForm("is_private"); ok {
		isPrivate, err := strconv.ParseBool(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid is_private value")
			return
		}
		input.IsPrivate = &isPrivate
	}

	// Sin archivo adjunto el avatar queda como esta; un adjunto que no
	// se puede leer si es un error del request.
	avatarBytes, err := readFormFile(c, "avatar")
	if err != nil && !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		respondError(c, http.StatusBadRequest, "invalid avatar upload")
		return
	}
	input.Avatar = avatarBytes

	user, err := h.userServ.UpdateProfile(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "User not found")
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, http.StatusBadRequest, "invalid email")
		default:
			h.logger.Error("update profile failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "could not update profile")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User profile updated successfully", "data": user})
}

// ListPublic maneja GET /public_users.
func (h *UserHandler) ListPublic(c *gin.Context) {
	users, err := h.userServ.ListPublicUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("list public users failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not fetch public users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Public Users", "data": users})
}

// ListAll maneja GET /admin/get_all_users.
func (h *UserHandler) ListAll(c *gin.Context) {
	users, err := h.userServ.ListAllUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("list all users failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not fetch users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All Users Details", "data": users})
}

// sendToken emite el token de sesion, lo fija como cookie HTTP-only y
// responde con el usuario y el token en el cuerpo.
func (h *UserHandler) sendToken(c *gin.Context, user domain.User) {
	token, err := h.tokenServ.Issue(user.ID)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not issue token")
		return
	}

	c.SetCookie(tokenCookieName, token, int(h.cookieTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user, "token": token})
}

func readFormFile(c *gin.Context, field string) ([]byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	return readMultipartFile(fileHeader)
}

func readMultipartFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
