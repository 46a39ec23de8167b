package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annel0/world-graph/internal/world"
)

func (rs *RestServer) handleLoadedChunks(c *gin.Context) {
	tracker := rs.service.Tracker()
	loaded := tracker.LoadedChunks()
	c.JSON(http.StatusOK, gin.H{
		"loaded":  loaded,
		"count":   len(loaded),
		"players": tracker.Players(),
	})
}

func (rs *RestServer) handleChunkJuice(c *gin.Context) {
	id, ok := chunkIDParam(c, "id")
	if !ok {
		return
	}
	if _, exists := rs.service.Graph().Chunk(id); !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "chunk not found"})
		return
	}

	tracker := rs.service.Tracker()
	c.JSON(http.StatusOK, gin.H{
		"chunk_id": id,
		"juice":    tracker.JuiceAt(id),
		"loaded":   tracker.IsLoaded(id),
	})
}

type movePlayerRequest struct {
	ChunkID world.ChunkID `json:"chunk_id" binding:"required"`
}

func (rs *RestServer) handleMovePlayer(c *gin.Context) {
	playerID := c.Param("id")

	var req movePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chunk_id required"})
		return
	}

	if err := rs.service.Tracker().SetPlayerPosition(playerID, req.ChunkID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": playerID, "chunk_id": req.ChunkID})
}

func (rs *RestServer) handleRemovePlayer(c *gin.Context) {
	playerID := c.Param("id")
	rs.service.Tracker().RemovePlayer(playerID)
	c.JSON(http.StatusOK, gin.H{"removed": playerID})
}
