package handler

import (
	"errors"
	"net/http"
	"strings"

	"gachaactu/backend/internal/auth"
	"gachaactu/backend/internal/config"
	"gachaactu/backend/internal/database"
	"gachaactu/backend/internal/models"
	"gachaactu/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Name     string `json:"name" binding:"required,min=3,max=50,excludes=@" example:"testuser"`
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Login    string `json:"login" binding:"required" example:"testuser"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse is the account as seen by its owner and by admins.
type UserResponse struct {
	ID    uint   `json:"id" example:"1"`
	Name  string `json:"name" example:"testuser"`
	Email string `json:"email" example:"test@example.com"`
	Role  string `json:"role" example:"editor"`
}

// RoleInput changes the role of a user.
type RoleInput struct {
	Role string `json:"role" binding:"required,oneof=user editor admin" example:"editor"`
}

func newUserResponse(u models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// endregion

// region --- Auth Handlers ---

// issueSession signs a token for user and stores it in the session cookie.
func issueSession(c *gin.Context, user models.User) (string, error) {
	token, err := jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, token, int(config.AppConfig.JWTTTL.Seconds()), "/", "", config.AppConfig.CookieSecure, true)
	return token, nil
}

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new account with the user role and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var existing int64
	if err := database.DB.Model(&models.User{}).Where("name = ? OR email = ?", name, email).Count(&existing).Error; err != nil {
		internalError(c, err, "Failed to create user")
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Name or email already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		internalError(c, err, "Failed to hash password")
		return
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleUser,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Name or email already exists"})
			return
		}
		internalError(c, err, "Failed to create user")
		return
	}

	token, err := issueSession(c, user)
	if err != nil {
		internalError(c, err, "Failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, TokenResponse{Token: token, User: newUserResponse(user)})
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with name or email and password, sets the session cookie and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	login := strings.TrimSpace(input.Login)
	query := database.DB.Where("name = ?", login)
	if strings.Contains(login, "@") {
		query = database.DB.Where("email = ?", strings.ToLower(login))
	}

	var user models.User
	err := query.First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		internalError(c, err, "Failed to load user")
		return
	}
	// Unknown users and wrong passwords get the same answer.
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := issueSession(c, user)
	if err != nil {
		internalError(c, err, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token, User: newUserResponse(user)})
}

// LogoutUser godoc
// @Summary      Log out
// @Description  Clears the session cookie. Bearer tokens stay valid until they expire.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  MessageResponse
// @Router       /auth/logout [post]
func LogoutUser(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", config.AppConfig.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetMe godoc
// @Summary      Get current user's info
// @Description  Retrieves the profile of the currently authenticated user.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /auth/me [get]
func GetMe(c *gin.Context) {
	var user models.User
	if err := database.DB.First(&user, auth.UserID(c)).Error; err != nil {
		lookupError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

// endregion

// region --- Admin Handlers ---

// ListUsers godoc
// @Summary      List users
// @Description  Lists accounts with pagination. q matches the name or email.
// @Tags         admin-users
// @Produce      json
// @Security     BearerAuth
// @Param        q     query     string  false  "Search query"
// @Param        role  query     string  false  "Role filter"
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(12)
// @Success      200   {object}  PaginatedResponse[UserResponse]
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /admin/users [get]
func ListUsers(c *gin.Context) {
	page, limit, offset := pageParams(c)

	filter := func(db *gorm.DB) *gorm.DB {
		db = search(db, c.Query("q"), "name", "email")
		if role := c.Query("role"); role != "" {
			db = db.Where("role = ?", role)
		}
		return db
	}

	var totalItems int64
	if err := database.DB.Model(&models.User{}).Scopes(filter).Count(&totalItems).Error; err != nil {
		internalError(c, err, "Failed to count users")
		return
	}

	var users []models.User
	if err := database.DB.Scopes(filter).Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		internalError(c, err, "Failed to retrieve users")
		return
	}

	data := make([]UserResponse, 0, len(users))
	for _, u := range users {
		data = append(data, newUserResponse(u))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(data, totalItems, page, limit))
}

// UpdateUserRole godoc
// @Summary      Change a user's role
// @Description  Admins cannot demote themselves.
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int        true  "User ID"
// @Param        input body  RoleInput  true  "New role"
// @Success      200   {object}  UserResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /admin/users/{id}/role [put]
func UpdateUserRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input RoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if id == auth.UserID(c) && input.Role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot demote yourself"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		lookupError(c, err, "User not found")
		return
	}

	if err := database.DB.Model(&user).Update("role", input.Role).Error; err != nil {
		internalError(c, err, "Failed to update role")
		return
	}
	user.Role = input.Role

	c.JSON(http.StatusOK, newUserResponse(user))
}

// endregion
