package print

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/archidiocese/priestdb/internal/appointments"
	"github.com/archidiocese/priestdb/internal/formations"
	"github.com/archidiocese/priestdb/internal/models"
	"github.com/archidiocese/priestdb/internal/priests"
	"github.com/archidiocese/priestdb/internal/relations"
)

func setupRouter(t *testing.T) (*gin.Engine, *priests.MemoryRepository, *formations.MemoryRepository, *appointments.MemoryRepository, *relations.MemoryRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	p := priests.NewMemoryRepository()
	f := formations.NewMemoryRepository()
	a := appointments.NewMemoryRepository()
	rel := relations.NewMemoryRepository()

	r := gin.New()
	NewHandler(p, f, a, rel).Register(r.Group("/api/print"))
	return r, p, f, a, rel
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFullDossier(t *testing.T) {
	r, p, f, a, rel := setupRouter(t)
	ctx := context.Background()

	priest := &models.Priest{PriestID: "P001", Name: "John"}
	require.NoError(t, p.Insert(ctx, priest))
	require.NoError(t, f.Insert(ctx, &models.Formation{Serial: "P001", Formation: "Theology"}))
	require.NoError(t, a.Insert(ctx, &models.Appointment{Serial: "P001", Appointment: "Vicar"}))
	require.NoError(t, rel.Insert(ctx, &models.Relation{Serial: "P001", SiblingName: "Anna"}))
	// records under another key stay out of the dossier
	require.NoError(t, f.Insert(ctx, &models.Formation{Serial: "P002", Formation: "Philosophy"}))

	w := get(r, "/api/print/priests/"+priest.ID.Hex()+"/full")
	require.Equal(t, http.StatusOK, w.Code)

	var d Dossier
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	require.Equal(t, "P001", d.Priest.PriestID)
	require.Len(t, d.Formations, 1)
	require.Len(t, d.Appointments, 1)
	require.Len(t, d.Relations, 1)
}

func TestFullDossierJoinsBySerialWhenPresent(t *testing.T) {
	r, p, f, _, _ := setupRouter(t)
	ctx := context.Background()

	// imported records carry a legacy Serial distinct from priestId
	priest := &models.Priest{PriestID: "P001", Serial: "L-42", Name: "John"}
	require.NoError(t, p.Insert(ctx, priest))
	require.NoError(t, f.Insert(ctx, &models.Formation{Serial: "L-42", Formation: "Theology"}))
	require.NoError(t, f.Insert(ctx, &models.Formation{Serial: "P001", Formation: "Philosophy"}))

	w := get(r, "/api/print/priests/"+priest.ID.Hex()+"/full")
	require.Equal(t, http.StatusOK, w.Code)

	var d Dossier
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	require.Len(t, d.Formations, 1)
	require.Equal(t, "Theology", d.Formations[0].Formation)
}

func TestFullDossierNotFound(t *testing.T) {
	r, _, _, _, _ := setupRouter(t)

	// well-formed hex with no match
	w := get(r, "/api/print/priests/64b000000000000000000000/full")
	require.Equal(t, http.StatusNotFound, w.Code)

	// malformed hex answers 404 too, not 500
	w = get(r, "/api/print/priests/not-a-hex-id/full")
	require.Equal(t, http.StatusNotFound, w.Code)
}
