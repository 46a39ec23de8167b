package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annel0/world-graph/internal/auth"
)

type regenerateRequest struct {
	Seed int64 `json:"seed"`
}

func (rs *RestServer) handleRegenerate(c *gin.Context) {
	var req regenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Seed == 0 {
		req.Seed = rs.service.Seed()
	}

	if err := rs.service.Regenerate(c.Request.Context(), req.Seed); err != nil {
		rs.logger.Error("❌ regenerate: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	graph := rs.service.Graph()
	c.JSON(http.StatusOK, gin.H{
		"seed":     req.Seed,
		"chunks":   graph.ChunkCount(),
		"passages": graph.PassageCount(),
	})
}

func (rs *RestServer) handleSave(c *gin.Context) {
	if err := rs.service.Save(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func (rs *RestServer) handleListUsers(c *gin.Context) {
	users, err := rs.users.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=viewer editor admin"`
}

func (rs *RestServer) handleCreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, password (8+ chars) and valid role required"})
		return
	}

	user, err := auth.NewUser(req.Username, req.Password, auth.Role(req.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := rs.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "username taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (rs *RestServer) handleDeleteUser(c *gin.Context) {
	id := c.Param("id")

	claims := currentClaims(c)
	if claims != nil && claims.UserID == id {
		c.JSON(http.StatusConflict, gin.H{"error": "cannot delete yourself"})
		return
	}

	if err := rs.users.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
