package relations

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/archidiocese/priestdb/internal/models"
	"github.com/archidiocese/priestdb/pkg/logger"
)

// Handler exposes the relation registry routes.
type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Register routes under /api/relations
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	rels, err := h.repo.List(c.Request.Context(), c.Query("priestId"))
	if err != nil {
		logger.Errorf("listing relations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch relations"})
		return
	}
	c.JSON(http.StatusOK, rels)
}

func (h *Handler) create(c *gin.Context) {
	var rel models.Relation
	if err := c.ShouldBindJSON(&rel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if rel.Serial == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Serial is required"})
		return
	}
	if err := h.repo.Insert(c.Request.Context(), &rel); err != nil {
		logger.Errorf("creating relation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating relation"})
		return
	}
	c.JSON(http.StatusCreated, rel)
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	// malformed record ids are skipped, never treated as client errors
	if len(id) != 24 {
		logger.Warnf("skipping invalid relation ID: %s", id)
		c.JSON(http.StatusOK, gin.H{"message": "Invalid ID, skipped"})
		return
	}

	var fields bson.M
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	delete(fields, "_id")

	updated, err := h.repo.Update(c.Request.Context(), id, fields)
	if err == ErrNotFound {
		logger.Warnf("relation not found or already deleted: %s", id)
		c.JSON(http.StatusOK, gin.H{"message": "Relation not found, skipped"})
		return
	}
	if err != nil {
		logger.Errorf("updating relation %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating relation"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) remove(c *gin.Context) {
	id := c.Param("id")
	if len(id) != 24 {
		logger.Warnf("skipping invalid or missing relation ID: %s", id)
		c.JSON(http.StatusOK, gin.H{"message": "Invalid ID, skipped"})
		return
	}

	err := h.repo.Delete(c.Request.Context(), id)
	if err == ErrNotFound {
		logger.Warnf("relation not found or already deleted: %s", id)
		c.JSON(http.StatusOK, gin.H{"message": "Relation not found or already deleted"})
		return
	}
	if err != nil {
		logger.Errorf("deleting relation %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting relation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Relation deleted successfully", "id": id})
}
