package homeaddress

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/archidiocese/priestdb/internal/models"
	"github.com/archidiocese/priestdb/pkg/logger"
)

// Handler exposes the home address routes. Exactly one address record exists
// per priestId, maintained by upsert.
type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Register routes under /api/homeAddress
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/:priestId", h.get)
	rg.PUT("/:priestId", h.upsert)
	rg.DELETE("/:priestId", h.remove)
}

func (h *Handler) get(c *gin.Context) {
	priestID := c.Param("priestId")
	addr, err := h.repo.Get(c.Request.Context(), priestID)
	if err == ErrNotFound {
		logger.Debugf("no address found for priestId %s", priestID)
		c.JSON(http.StatusNotFound, gin.H{"message": "Address not found"})
		return
	}
	if err != nil {
		logger.Errorf("fetching address for %s: %v", priestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while fetching address"})
		return
	}
	c.JSON(http.StatusOK, addr)
}

func (h *Handler) upsert(c *gin.Context) {
	priestID := c.Param("priestId")

	// zero-valued struct is the six-field empty template; absent body fields
	// stay "", and the path parameter wins over any priestId in the body
	var addr models.HomeAddress
	if err := c.ShouldBindJSON(&addr); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	addr.PriestID = priestID

	updated, err := h.repo.Upsert(c.Request.Context(), &addr)
	if err != nil {
		logger.Errorf("saving address for %s: %v", priestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while saving address"})
		return
	}
	logger.Infof("address upserted for priestId %s", priestID)
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) remove(c *gin.Context) {
	priestID := c.Param("priestId")
	err := h.repo.Delete(c.Request.Context(), priestID)
	if err == ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"message": "Address not found"})
		return
	}
	if err != nil {
		logger.Errorf("deleting address for %s: %v", priestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting address"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address deleted successfully"})
}
