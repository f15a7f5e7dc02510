package print

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/archidiocese/priestdb/internal/models"
	"github.com/archidiocese/priestdb/internal/priests"
	"github.com/archidiocese/priestdb/pkg/logger"
)

// The print dossier reads across all four collections but never writes.
// It consumes each registry through the narrowest interface it needs.

type PriestSource interface {
	FindByObjectID(ctx context.Context, hex string) (*models.Priest, error)
}

type FormationSource interface {
	FindBySerial(ctx context.Context, serial string) ([]models.Formation, error)
}

type AppointmentSource interface {
	FindBySerial(ctx context.Context, serial string) ([]models.Appointment, error)
}

type RelationSource interface {
	FindBySerial(ctx context.Context, serial string) ([]models.Relation, error)
}

type Handler struct {
	priests      PriestSource
	formations   FormationSource
	appointments AppointmentSource
	relations    RelationSource
}

func NewHandler(p PriestSource, f FormationSource, a AppointmentSource, r RelationSource) *Handler {
	return &Handler{priests: p, formations: f, appointments: a, relations: r}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/priests/:id/full", h.fullDossier)
}

// Dossier is the complete printable record for one priest.
type Dossier struct {
	Priest       models.Priest        `json:"priest"`
	Relations    []models.Relation    `json:"relations"`
	Formations   []models.Formation   `json:"formations"`
	Appointments []models.Appointment `json:"appointments"`
}

// joinKey picks the field the child collections were keyed under when this
// record was imported: Serial when the legacy import wrote one, otherwise
// priestId, otherwise the raw hex id.
func joinKey(p *models.Priest, hex string) string {
	if p.Serial != "" {
		return p.Serial
	}
	if p.PriestID != "" {
		return p.PriestID
	}
	return hex
}

// fullDossier looks the priest up by internal ObjectID. A malformed hex id and
// a well-formed id that matches nothing both answer 404; the three child
// queries run in parallel and any failure fails the whole read.
func (h *Handler) fullDossier(c *gin.Context) {
	hex := c.Param("id")
	p, err := h.priests.FindByObjectID(c.Request.Context(), hex)
	if err == priests.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Priest not found"})
		return
	}
	if err != nil {
		logger.Errorf("fetching priest %s for print: %v", hex, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating print data"})
		return
	}

	d := Dossier{Priest: *p}
	key := joinKey(p, hex)
	g, gctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		d.Relations, err = h.relations.FindBySerial(gctx, key)
		return err
	})
	g.Go(func() error {
		var err error
		d.Formations, err = h.formations.FindBySerial(gctx, key)
		return err
	})
	g.Go(func() error {
		var err error
		d.Appointments, err = h.appointments.FindBySerial(gctx, key)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Errorf("fetching print children for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating print data"})
		return
	}
	c.JSON(http.StatusOK, d)
}
