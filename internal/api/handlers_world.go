package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/annel0/world-graph/internal/world"
)

func (rs *RestServer) handleWorldSummary(c *gin.Context) {
	graph := rs.service.Graph()
	c.JSON(http.StatusOK, gin.H{
		"seed":      rs.service.Seed(),
		"chunks":    graph.ChunkCount(),
		"passages":  graph.PassageCount(),
		"connected": graph.IsConnected(),
	})
}

type chunkSummary struct {
	ID         world.ChunkID `json:"id"`
	X          int           `json:"x"`
	Y          int           `json:"y"`
	Neighbours int           `json:"neighbours"`
}

func (rs *RestServer) handleListChunks(c *gin.Context) {
	graph := rs.service.Graph()
	chunks := graph.Chunks()

	result := make([]chunkSummary, 0, len(chunks))
	for _, chunk := range chunks {
		result = append(result, chunkSummary{
			ID:         chunk.ID,
			X:          chunk.Pos.X,
			Y:          chunk.Pos.Y,
			Neighbours: len(graph.Neighbours(chunk.ID)),
		})
	}
	c.JSON(http.StatusOK, gin.H{"chunks": result})
}

func (rs *RestServer) handleGetChunk(c *gin.Context) {
	id, ok := chunkIDParam(c, "id")
	if !ok {
		return
	}

	cs, err := rs.service.ChunkSnapshot(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cs)
}

func (rs *RestServer) handleChunkPassages(c *gin.Context) {
	id, ok := chunkIDParam(c, "id")
	if !ok {
		return
	}
	graph := rs.service.Graph()
	if _, exists := graph.Chunk(id); !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "chunk not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"outgoing": passageViews(graph.PassagesFrom(id)),
		"incoming": passageViews(graph.PassagesTo(id)),
	})
}

type passageView struct {
	From   world.ChunkID `json:"from"`
	To     world.ChunkID `json:"to"`
	Kind   string        `json:"kind"`
	Length float64       `json:"length"`
}

func passageViews(passages []*world.Passage) []passageView {
	result := make([]passageView, 0, len(passages))
	for _, p := range passages {
		result = append(result, passageView{
			From:   p.From,
			To:     p.To,
			Kind:   p.Kind.String(),
			Length: p.Length,
		})
	}
	return result
}

func (rs *RestServer) handlePath(c *gin.Context) {
	from, ok := chunkIDQuery(c, "from")
	if !ok {
		return
	}
	to, ok := chunkIDQuery(c, "to")
	if !ok {
		return
	}

	path, total, err := rs.service.Graph().ShortestPath(from, to)
	switch {
	case errors.Is(err, world.ErrChunkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, world.ErrNoPath):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"path": path, "length": total, "hops": len(path) - 1})
	}
}

func (rs *RestServer) handleSetChunkMetadata(c *gin.Context) {
	id, ok := chunkIDParam(c, "id")
	if !ok {
		return
	}

	var values map[string]interface{}
	if err := c.ShouldBindJSON(&values); err != nil || len(values) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "metadata object required"})
		return
	}

	if err := rs.service.SetChunkMetadata(c.Request.Context(), id, values); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": id})
}

func (rs *RestServer) handleRemoveChunk(c *gin.Context) {
	id, ok := chunkIDParam(c, "id")
	if !ok {
		return
	}
	if err := rs.service.RemoveChunk(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": id})
}

type createPassageRequest struct {
	From world.ChunkID `json:"from" binding:"required"`
	To   world.ChunkID `json:"to" binding:"required"`
	Kind string        `json:"kind"`
	Both bool          `json:"both"`
}

func (rs *RestServer) handleCreatePassage(c *gin.Context) {
	var req createPassageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to required"})
		return
	}

	kind := world.PassageRoad
	if req.Kind == "river" {
		kind = world.PassageRiver
	}

	graph := rs.service.Graph()
	var err error
	if req.Both {
		err = graph.ConnectBoth(req.From, req.To, kind)
	} else {
		_, err = graph.Connect(req.From, req.To, kind)
	}

	switch {
	case errors.Is(err, world.ErrChunkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, world.ErrPassageExists), errors.Is(err, world.ErrSelfPassage):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, gin.H{"from": req.From, "to": req.To, "both": req.Both})
	}
}

func (rs *RestServer) handleRemovePassage(c *gin.Context) {
	from, ok := chunkIDParam(c, "from")
	if !ok {
		return
	}
	to, ok := chunkIDParam(c, "to")
	if !ok {
		return
	}

	if err := rs.service.Graph().Disconnect(from, to); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": gin.H{"from": from, "to": to}})
}

func chunkIDParam(c *gin.Context, name string) (world.ChunkID, bool) {
	return parseChunkID(c, c.Param(name))
}

func chunkIDQuery(c *gin.Context, name string) (world.ChunkID, bool) {
	return parseChunkID(c, c.Query(name))
}

func parseChunkID(c *gin.Context, raw string) (world.ChunkID, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chunk id"})
		return 0, false
	}
	return world.ChunkID(id), true
}
