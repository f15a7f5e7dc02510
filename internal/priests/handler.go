package priests

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/archidiocese/priestdb/internal/homeaddress"
	"github.com/archidiocese/priestdb/internal/models"
	"github.com/archidiocese/priestdb/pkg/logger"
)

// AddressSource is the slice of the home address registry the directory's
// convenience lookup needs.
type AddressSource interface {
	GetFold(ctx context.Context, priestID string) (*models.HomeAddress, error)
}

// Handler exposes the priest directory routes, including the legacy nested
// create endpoints for child records.
type Handler struct {
	svc       *Service
	addresses AddressSource
}

func NewHandler(svc *Service, addresses AddressSource) *Handler {
	return &Handler{svc: svc, addresses: addresses}
}

// Register routes under /api/priests. All wildcard segments share the :id
// name; static siblings (homeaddress, update-name, formations, ...) take
// priority over the wildcard.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/:id", h.detail)
	rg.GET("/homeaddress/:id", h.homeAddress)
	rg.POST("", h.create)
	rg.POST("/:id/photo", h.uploadPhoto)
	rg.DELETE("/:id/photo", h.deletePhoto)
	rg.POST("/formations", h.createFormation)
	rg.POST("/appointments", h.createAppointment)
	rg.POST("/relations", h.createRelation)
	rg.PUT("/update-name/:id", h.updateName)
	rg.PUT("/:id", h.update)
}

func (h *Handler) list(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		logger.Errorf("listing priests: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch priests"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) detail(c *gin.Context) {
	d, err := h.svc.Detail(c.Request.Context(), c.Param("id"))
	if err == ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Priest not found"})
		return
	}
	if err != nil {
		logger.Errorf("fetching priest %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching priest"})
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) homeAddress(c *gin.Context) {
	addr, err := h.addresses.GetFold(c.Request.Context(), c.Param("id"))
	if err == homeaddress.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"message": "No home address found"})
		return
	}
	if err != nil {
		logger.Errorf("fetching home address for %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error fetching home address"})
		return
	}
	c.JSON(http.StatusOK, addr)
}

func (h *Handler) create(c *gin.Context) {
	var p models.Priest
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if p.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	if err := h.svc.Create(c.Request.Context(), &p); err != nil {
		if err == ErrDuplicateID {
			c.JSON(http.StatusConflict, gin.H{"error": "priestId was assigned concurrently, retry"})
			return
		}
		logger.Errorf("creating priest: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while creating priest"})
		return
	}
	logger.Infof("new priest created: %s", p.PriestID)
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) update(c *gin.Context) {
	var fields bson.M
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), fields)
	if err == ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"message": "Priest not found"})
		return
	}
	if err != nil {
		logger.Errorf("updating priest %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while updating priest"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) updateName(c *gin.Context) {
	priestID := c.Param("id")
	var body struct {
		NewName string `json:"newName"`
	}
	_ = c.ShouldBindJSON(&body)
	if body.NewName == "" || priestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Priest ID and new name are required"})
		return
	}

	p, cascade, err := h.svc.RenameEverywhere(c.Request.Context(), priestID, body.NewName)
	if err == ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"message": "Priest not found"})
		return
	}
	if err != nil {
		logger.Errorf("updating priest name across collections: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while updating priest name"})
		return
	}
	msg := "Priest name updated across all collections"
	if cascade.Partial {
		msg = "Priest name updated; some collections could not be updated"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       msg,
		"updatedPriest": p,
		"cascade":       cascade,
	})
}

func (h *Handler) uploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	src, err := file.Open()
	if err != nil {
		logger.Errorf("opening upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading photo"})
		return
	}
	defer src.Close()

	priestID := c.Param("id")
	p, filename, err := h.svc.AttachPhoto(c.Request.Context(), priestID,
		SanitizedOriginal(file.Filename), src, file.Size, file.Header.Get("Content-Type"))
	if err == ErrNotFound {
		logger.Warnf("priest not found for photo upload: %s", priestID)
		c.JSON(http.StatusNotFound, gin.H{"error": "Priest not found"})
		return
	}
	if err != nil {
		logger.Errorf("uploading photo for %s: %v", priestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading photo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Photo uploaded", "filename": filename, "priest": p})
}

func (h *Handler) deletePhoto(c *gin.Context) {
	priestID := c.Param("id")
	p, err := h.svc.RemovePhoto(c.Request.Context(), priestID)
	if err == ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Priest not found"})
		return
	}
	if err != nil {
		logger.Errorf("deleting photo for %s: %v", priestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting photo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted", "priest": p})
}

// Legacy nested create endpoints. The formations route answers 200 with the
// raw document while its siblings answer 201; clients depend on the
// difference, so it stays.

func (h *Handler) createFormation(c *gin.Context) {
	var f models.Formation
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := h.svc.formations.Insert(c.Request.Context(), &f); err != nil {
		logger.Errorf("creating formation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating formation"})
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) createAppointment(c *gin.Context) {
	var a models.Appointment
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := h.svc.appointments.Insert(c.Request.Context(), &a); err != nil {
		logger.Errorf("creating appointment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating appointment"})
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) createRelation(c *gin.Context) {
	var r models.Relation
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := h.svc.relations.Insert(c.Request.Context(), &r); err != nil {
		logger.Errorf("creating relation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating relation"})
		return
	}
	c.JSON(http.StatusCreated, r)
}
