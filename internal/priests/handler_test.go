package priests

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/archidiocese/priestdb/internal/homeaddress"
	"github.com/archidiocese/priestdb/internal/models"
)

func setupRouter(t *testing.T) (*gin.Engine, *MemoryRepository, *Service, *homeaddress.MemoryRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, repo, _, _, _, _ := newTestService()
	addresses := homeaddress.NewMemoryRepository()

	r := gin.New()
	NewHandler(svc, addresses).Register(r.Group("/api/priests"))
	return r, repo, svc, addresses
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreatePriestSequence(t *testing.T) {
	r, _, _, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/priests", gin.H{"Name": "John"})
	require.Equal(t, http.StatusCreated, w.Code)
	var first models.Priest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	require.Equal(t, "P001", first.PriestID)

	w = doJSON(r, http.MethodPost, "/api/priests", gin.H{"Name": "Paul"})
	require.Equal(t, http.StatusCreated, w.Code)
	var second models.Priest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	require.Equal(t, "P002", second.PriestID)
}

func TestCreatePriestRequiresName(t *testing.T) {
	r, _, _, _ := setupRouter(t)
	w := doJSON(r, http.MethodPost, "/api/priests", gin.H{"Diocese": "Ranchi"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Name is required")
}

func TestListSortsLexicographically(t *testing.T) {
	r, repo, _, _ := setupRouter(t)
	ctx := context.Background()
	for _, id := range []string{"P999", "P002", "P1000"} {
		require.NoError(t, repo.Insert(ctx, &models.Priest{PriestID: id, Name: "X " + id}))
	}

	w := doJSON(r, http.MethodGet, "/api/priests", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out []models.Priest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	ids := make([]string, len(out))
	for i, p := range out {
		ids[i] = p.PriestID
	}
	// string order, so P1000 sorts before P999
	require.Equal(t, []string{"P002", "P1000", "P999"}, ids)
}

func TestDetail(t *testing.T) {
	r, repo, svc, _ := setupRouter(t)
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, &models.Priest{PriestID: "P001", Name: "John"}))
	require.NoError(t, svc.formations.Insert(ctx, &models.Formation{Serial: "P001", Formation: "Novitiate"}))
	require.NoError(t, svc.relations.Insert(ctx, &models.Relation{Serial: "P001", SiblingName: "Anna"}))

	w := doJSON(r, http.MethodGet, "/api/priests/p001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var d Detail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	require.Equal(t, "P001", d.Priest.PriestID)
	require.Len(t, d.Formations, 1)
	require.Len(t, d.Relations, 1)
	require.Empty(t, d.Appointments)

	w = doJSON(r, http.MethodGet, "/api/priests/P404", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Priest not found")
}

func TestUpdateMergesAndProtectsID(t *testing.T) {
	r, repo, _, _ := setupRouter(t)
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, &models.Priest{PriestID: "P001", Name: "John", Diocese: "Ranchi"}))

	w := doJSON(r, http.MethodPut, "/api/priests/P001", gin.H{"Name": "Johnny", "priestId": "P999"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Priest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, "Johnny", updated.Name)
	require.Equal(t, "P001", updated.PriestID)
	require.Equal(t, "Ranchi", updated.Diocese) // untouched fields survive

	w = doJSON(r, http.MethodPut, "/api/priests/P404", gin.H{"Name": "Nobody"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateName(t *testing.T) {
	r, repo, svc, _ := setupRouter(t)
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, &models.Priest{PriestID: "P001", Name: "John"}))
	require.NoError(t, svc.appointments.Insert(ctx, &models.Appointment{Serial: "P001", Name: "John"}))

	w := doJSON(r, http.MethodPut, "/api/priests/update-name/P001", gin.H{"newName": "Fr. John"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Message       string        `json:"message"`
		UpdatedPriest models.Priest `json:"updatedPriest"`
		Cascade       CascadeResult `json:"cascade"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Priest name updated across all collections", resp.Message)
	require.Equal(t, "Fr. John", resp.UpdatedPriest.Name)
	require.False(t, resp.Cascade.Partial)
	require.Len(t, resp.Cascade.Steps, 3)

	as, _ := svc.appointments.FindBySerial(ctx, "P001")
	require.Equal(t, "Fr. John", as[0].Name)
}

func TestUpdateNameRejectsEmpty(t *testing.T) {
	r, repo, _, _ := setupRouter(t)
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, &models.Priest{PriestID: "P001", Name: "John"}))

	// missing body and empty newName both answer 400 without mutating
	for _, body := range []interface{}{nil, gin.H{"newName": ""}} {
		w := doJSON(r, http.MethodPut, "/api/priests/update-name/P001", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
	}
	p, err := repo.FindByPriestID(ctx, "P001")
	require.NoError(t, err)
	require.Equal(t, "John", p.Name)
}

func TestNestedCreateStatusCodes(t *testing.T) {
	r, _, svc, _ := setupRouter(t)
	ctx := context.Background()

	// formations answers 200 with the raw document
	w := doJSON(r, http.MethodPost, "/api/priests/formations", gin.H{"Serial": "P001", "Formation": "Theology"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/priests/appointments", gin.H{"Serial": "P001", "Appointment": "Vicar"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/priests/relations", gin.H{"Serial": "P001", "siblingName": "Anna"})
	require.Equal(t, http.StatusCreated, w.Code)

	fs, _ := svc.formations.FindBySerial(ctx, "P001")
	require.Len(t, fs, 1)
	as, _ := svc.appointments.FindBySerial(ctx, "P001")
	require.Len(t, as, 1)
	rs, _ := svc.relations.FindBySerial(ctx, "P001")
	require.Len(t, rs, 1)
}

func TestHomeAddressLookup(t *testing.T) {
	r, _, _, addresses := setupRouter(t)
	ctx := context.Background()

	w := doJSON(r, http.MethodGet, "/api/priests/homeaddress/P001", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "No home address found")

	_, err := addresses.Upsert(ctx, &models.HomeAddress{PriestID: "P001", Name: "John", HomeAdd1: "St. Mary's Lane"})
	require.NoError(t, err)

	// lookup is case-insensitive
	w = doJSON(r, http.MethodGet, "/api/priests/homeaddress/p001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "St. Mary's Lane")
}

func multipartPhoto(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadPhoto(t *testing.T) {
	r, repo, _, _ := setupRouter(t)
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, &models.Priest{PriestID: "P001", Name: "John"}))

	body, contentType := multipartPhoto(t, "photo", "portrait 2024.jpg", "jpegdata")
	req := httptest.NewRequest(http.MethodPost, "/api/priests/P001/photo", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Message  string        `json:"message"`
		Filename string        `json:"filename"`
		Priest   models.Priest `json:"priest"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Photo uploaded", resp.Message)
	require.True(t, strings.HasSuffix(resp.Filename, "-portrait_2024.jpg"), resp.Filename)
	require.Equal(t, resp.Filename, resp.Priest.ProfilePic)
}

func TestUploadPhotoNoFile(t *testing.T) {
	r, _, _, _ := setupRouter(t)
	w := doJSON(r, http.MethodPost, "/api/priests/P001/photo", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "No file uploaded")
}

func TestUploadPhotoUnknownPriest(t *testing.T) {
	r, _, _, _ := setupRouter(t)
	body, contentType := multipartPhoto(t, "photo", "face.jpg", "jpegdata")
	req := httptest.NewRequest(http.MethodPost, "/api/priests/P404/photo", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePhoto(t *testing.T) {
	r, repo, _, _ := setupRouter(t)
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, &models.Priest{PriestID: "P001", Name: "John", ProfilePic: "1-face.jpg"}))

	w := doJSON(r, http.MethodDelete, "/api/priests/P001/photo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Photo deleted")

	p, err := repo.FindByPriestID(ctx, "P001")
	require.NoError(t, err)
	require.Empty(t, p.ProfilePic)

	// deleting again is still a success, there is just nothing to remove
	w = doJSON(r, http.MethodDelete, "/api/priests/P001/photo", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/priests/P404/photo", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
