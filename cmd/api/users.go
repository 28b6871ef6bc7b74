package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dineat/restaurant-api/internal/httpx"
	"github.com/dineat/restaurant-api/internal/user"
)

type registerRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phone_number"`
}

// registerHandler provisions a customer profile. The identity provider in
// front of the service issues the session; this only stores the profile row.
func registerHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		hash, err := user.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		u := &user.User{
			ID:           uuid.NewString(),
			Username:     strings.TrimSpace(req.Username),
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			PasswordHash: hash,
			Role:         user.RoleCustomer,
			PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		}
		if err := users.Create(c.Request.Context(), u); err != nil {
			if errors.Is(err, user.ErrAlreadyExist) {
				c.JSON(http.StatusConflict, gin.H{"error": "username or email already taken"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

func profileHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cur, _ := httpx.CurrentUser(c)
		u, err := users.GetByID(c.Request.Context(), cur.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

type updateProfileRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// updateProfileHandler patches the caller's own profile. Blank fields keep
// their stored values; role changes are not accepted here.
func updateProfileHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cur, _ := httpx.CurrentUser(c)
		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		u := &user.User{
			ID:          cur.ID,
			Username:    strings.TrimSpace(req.Username),
			Email:       strings.ToLower(strings.TrimSpace(req.Email)),
			PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		}
		withPassword := req.Password != ""
		if withPassword {
			if len(req.Password) < 8 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
				return
			}
			hash, err := user.HashPassword(req.Password)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
			u.PasswordHash = hash
		}
		if err := users.Update(c.Request.Context(), u, withPassword); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		out, err := users.GetByID(c.Request.Context(), cur.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
