package priests

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/archidiocese/priestdb/internal/appointments"
	"github.com/archidiocese/priestdb/internal/formations"
	"github.com/archidiocese/priestdb/internal/models"
	"github.com/archidiocese/priestdb/internal/relations"
)

// recordingStore implements storage.Store and records calls.
type recordingStore struct {
	saved   map[string]string
	removed []string
}

func newRecordingStore() *recordingStore {
	return &recordingStore{saved: map[string]string{}}
}

func (s *recordingStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.saved[name] = string(data)
	return nil
}

func (s *recordingStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	data, ok := s.saved[name]
	if !ok {
		return nil, errors.New("missing")
	}
	return io.NopCloser(strings.NewReader(data)), nil
}

func (s *recordingStore) Remove(ctx context.Context, name string) error {
	s.removed = append(s.removed, name)
	delete(s.saved, name)
	return nil
}

func newTestService() (*Service, *MemoryRepository, *formations.MemoryRepository, *appointments.MemoryRepository, *relations.MemoryRepository, *recordingStore) {
	repo := NewMemoryRepository()
	f := formations.NewMemoryRepository()
	a := appointments.NewMemoryRepository()
	r := relations.NewMemoryRepository()
	store := newRecordingStore()
	return NewService(repo, f, a, r, store), repo, f, a, r, store
}

func TestNextPriestID(t *testing.T) {
	cases := []struct{ max, want string }{
		{"", "P001"},
		{"P001", "P002"},
		{"p009", "P010"},
		{"P099", "P100"},
		{"P999", "P1000"},
		{"P1000", "P1001"},
		{"Pbogus", "P001"}, // unparsable digits default to zero
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, nextPriestID(tc.max), "max=%q", tc.max)
	}
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	ctx := context.Background()

	john := &models.Priest{Name: "John"}
	require.NoError(t, svc.Create(ctx, john))
	require.Equal(t, "P001", john.PriestID)

	// a caller-supplied priestId is discarded
	paul := &models.Priest{Name: "Paul", PriestID: "P777"}
	require.NoError(t, svc.Create(ctx, paul))
	require.Equal(t, "P002", paul.PriestID)
}

func TestDetailJoinsChildrenBySerial(t *testing.T) {
	svc, repo, f, a, r, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &models.Priest{PriestID: "P001", Name: "John"}))
	require.NoError(t, f.Insert(ctx, &models.Formation{Serial: "P001", Formation: "Theology"}))
	require.NoError(t, a.Insert(ctx, &models.Appointment{Serial: "P001", Appointment: "Vicar"}))
	require.NoError(t, r.Insert(ctx, &models.Relation{Serial: "P001", SiblingName: "Anna"}))
	// an orphaned record under another Serial stays out of the join
	require.NoError(t, f.Insert(ctx, &models.Formation{Serial: "P999", Formation: "Philosophy"}))

	d, err := svc.Detail(ctx, "p001") // case-insensitive match
	require.NoError(t, err)
	require.Equal(t, "P001", d.Priest.PriestID)
	require.Len(t, d.Formations, 1)
	require.Len(t, d.Appointments, 1)
	require.Len(t, d.Relations, 1)

	_, err = svc.Detail(ctx, "P404")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRenameEverywhere(t *testing.T) {
	svc, repo, f, a, r, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &models.Priest{PriestID: "P001", Name: "John"}))
	require.NoError(t, f.Insert(ctx, &models.Formation{Serial: "P001", Name: "John"}))
	require.NoError(t, f.Insert(ctx, &models.Formation{Serial: "P001", Name: "John"}))
	require.NoError(t, a.Insert(ctx, &models.Appointment{Serial: "P001", Name: "John"}))
	require.NoError(t, r.Insert(ctx, &models.Relation{Serial: "P001", PriestName: "John"}))

	p, cascade, err := svc.RenameEverywhere(ctx, "P001", "Fr. John Paul")
	require.NoError(t, err)
	require.Equal(t, "Fr. John Paul", p.Name)
	require.False(t, cascade.Partial)
	require.Len(t, cascade.Steps, 3)

	byCollection := map[string]CascadeStep{}
	for _, s := range cascade.Steps {
		byCollection[s.Collection] = s
	}
	require.Equal(t, int64(2), byCollection["formations"].Modified)
	require.Equal(t, int64(1), byCollection["appointments"].Modified)
	require.Equal(t, int64(1), byCollection["relations"].Modified)
	require.Equal(t, "priestName", byCollection["relations"].Field)

	fs, _ := f.FindBySerial(ctx, "P001")
	for _, rec := range fs {
		require.Equal(t, "Fr. John Paul", rec.Name)
	}
	rs, _ := r.FindBySerial(ctx, "P001")
	require.Equal(t, "Fr. John Paul", rs[0].PriestName)
}

type failingRelations struct{ relations.Repository }

func (f failingRelations) RenamePriest(ctx context.Context, serial, name string) (int64, int64, error) {
	return 0, 0, errors.New("write concern timeout")
}

func TestRenameEverywherePartialFailure(t *testing.T) {
	repo := NewMemoryRepository()
	f := formations.NewMemoryRepository()
	a := appointments.NewMemoryRepository()
	r := failingRelations{relations.NewMemoryRepository()}
	svc := NewService(repo, f, a, r, newRecordingStore())
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &models.Priest{PriestID: "P001", Name: "John"}))
	require.NoError(t, f.Insert(ctx, &models.Formation{Serial: "P001", Name: "John"}))

	p, cascade, err := svc.RenameEverywhere(ctx, "P001", "Mark")
	require.NoError(t, err) // the priest update itself succeeded
	require.Equal(t, "Mark", p.Name)
	require.True(t, cascade.Partial)

	for _, step := range cascade.Steps {
		if step.Collection == "relations" {
			require.NotEmpty(t, step.Error)
		} else {
			require.Empty(t, step.Error)
		}
	}
	// the sibling write still landed
	fs, _ := f.FindBySerial(ctx, "P001")
	require.Equal(t, "Mark", fs[0].Name)
}

func TestRenameEverywhereUnknownPriest(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	_, _, err := svc.RenameEverywhere(context.Background(), "P404", "Anyone")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAttachPhotoNaming(t *testing.T) {
	svc, repo, _, _, _, store := newTestService()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, &models.Priest{PriestID: "P001", Name: "John"}))

	p, filename, err := svc.AttachPhoto(ctx, "P001", "my portrait photo.jpg", strings.NewReader("img"), 3, "image/jpeg")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(filename, "-my_portrait_photo.jpg"), filename)
	require.Equal(t, filename, p.ProfilePic)
	require.Contains(t, store.saved, filename)
}

func TestRemovePhoto(t *testing.T) {
	svc, repo, _, _, _, store := newTestService()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, &models.Priest{PriestID: "P001", Name: "John", ProfilePic: "123-face.jpg"}))
	store.saved["123-face.jpg"] = "img"

	p, err := svc.RemovePhoto(ctx, "P001")
	require.NoError(t, err)
	require.Empty(t, p.ProfilePic)
	require.Equal(t, []string{"123-face.jpg"}, store.removed)
}

func TestRemovePhotoWithoutPhotoTouchesNothing(t *testing.T) {
	svc, repo, _, _, _, store := newTestService()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, &models.Priest{PriestID: "P001", Name: "John"}))

	p, err := svc.RemovePhoto(ctx, "P001")
	require.NoError(t, err)
	require.Empty(t, p.ProfilePic)
	require.Empty(t, store.removed)
}
