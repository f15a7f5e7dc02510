package priests

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"

	"github.com/archidiocese/priestdb/internal/models"
	"github.com/archidiocese/priestdb/internal/storage"
)

// The directory fans out to the three child registries for joined reads and
// the name cascade. It consumes them through narrow interfaces so tests can
// swap in memory-backed registries.

type FormationSource interface {
	Insert(ctx context.Context, f *models.Formation) error
	FindBySerial(ctx context.Context, serial string) ([]models.Formation, error)
	RenamePriest(ctx context.Context, serial, name string) (matched, modified int64, err error)
}

type AppointmentSource interface {
	Insert(ctx context.Context, a *models.Appointment) error
	FindBySerial(ctx context.Context, serial string) ([]models.Appointment, error)
	RenamePriest(ctx context.Context, serial, name string) (matched, modified int64, err error)
}

type RelationSource interface {
	Insert(ctx context.Context, r *models.Relation) error
	FindBySerial(ctx context.Context, serial string) ([]models.Relation, error)
	RenamePriest(ctx context.Context, serial, name string) (matched, modified int64, err error)
}

// Service encapsulates priest directory logic: id assignment, joined reads,
// the name cascade and photo handling.
type Service struct {
	repo         Repository
	formations   FormationSource
	appointments AppointmentSource
	relations    RelationSource
	photos       storage.Store
}

func NewService(repo Repository, f FormationSource, a AppointmentSource, r RelationSource, photos storage.Store) *Service {
	return &Service{repo: repo, formations: f, appointments: a, relations: r, photos: photos}
}

// Detail is a priest record joined with everything referencing its priestId.
type Detail struct {
	Priest       models.Priest        `json:"priest"`
	Formations   []models.Formation   `json:"formations"`
	Appointments []models.Appointment `json:"appointments"`
	Relations    []models.Relation    `json:"relations"`
}

func (s *Service) List(ctx context.Context) ([]models.Priest, error) {
	return s.repo.List(ctx)
}

// Detail finds the priest case-insensitively and fetches the three child sets
// in parallel. Any child query failure fails the whole read.
func (s *Service) Detail(ctx context.Context, id string) (*Detail, error) {
	p, err := s.repo.FindByPriestIDFold(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &Detail{Priest: *p}
	pid := p.PriestID
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Formations, err = s.formations.FindBySerial(gctx, pid)
		return err
	})
	g.Go(func() error {
		var err error
		d.Appointments, err = s.appointments.FindBySerial(gctx, pid)
		return err
	})
	g.Go(func() error {
		var err error
		d.Relations, err = s.relations.FindBySerial(gctx, pid)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

// nextPriestID derives the successor of the current maximum identifier:
// strip a leading P (either case), parse the rest as an integer (0 when it
// does not parse), increment and re-pad to three digits.
func nextPriestID(max string) string {
	n := 0
	if max != "" {
		digits := max
		if len(digits) > 0 && (digits[0] == 'P' || digits[0] == 'p') {
			digits = digits[1:]
		}
		if v, err := strconv.Atoi(digits); err == nil {
			n = v
		}
	}
	return fmt.Sprintf("P%03d", n+1)
}

// Create assigns the next priestId, discarding any caller-supplied value. The
// max-then-increment read is not serialized against concurrent creates; the
// unique index turns a double assignment into ErrDuplicateID instead of a
// silent duplicate.
func (s *Service) Create(ctx context.Context, p *models.Priest) error {
	max, err := s.repo.MaxPriestID(ctx)
	if err != nil {
		return err
	}
	p.PriestID = nextPriestID(max)
	return s.repo.Insert(ctx, p)
}

// Update merge-updates the priest matched by priestId. The identifier fields
// are stripped so priestId can never be reassigned through this path.
func (s *Service) Update(ctx context.Context, priestID string, fields bson.M) (*models.Priest, error) {
	delete(fields, "_id")
	delete(fields, "priestId")
	return s.repo.Update(ctx, priestID, fields)
}

// CascadeStep reports one fan-out write of the name cascade.
type CascadeStep struct {
	Collection string `json:"collection"`
	Field      string `json:"field"`
	Matched    int64  `json:"matched"`
	Modified   int64  `json:"modified"`
	Error      string `json:"error,omitempty"`
}

// CascadeResult aggregates the three fan-out writes. Partial is true when at
// least one step failed; nothing is rolled back.
type CascadeResult struct {
	Steps   []CascadeStep `json:"steps"`
	Partial bool          `json:"partial"`
}

// RenameEverywhere updates the priest's Name, then propagates the new name to
// the three child collections keyed by Serial. The child writes run
// concurrently and each failure is recorded per step rather than aborting the
// others; there is no transaction across the four collections.
func (s *Service) RenameEverywhere(ctx context.Context, priestID, newName string) (*models.Priest, *CascadeResult, error) {
	p, err := s.repo.SetName(ctx, priestID, newName)
	if err != nil {
		return nil, nil, err
	}

	result := &CascadeResult{Steps: make([]CascadeStep, 3)}
	type renamer func(context.Context, string, string) (int64, int64, error)
	run := func(i int, collection, field string, fn renamer) {
		step := CascadeStep{Collection: collection, Field: field}
		matched, modified, err := fn(ctx, priestID, newName)
		if err != nil {
			step.Error = err.Error()
		}
		step.Matched, step.Modified = matched, modified
		result.Steps[i] = step
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); run(0, "formations", "Name", s.formations.RenamePriest) }()
	go func() { defer wg.Done(); run(1, "appointments", "Name", s.appointments.RenamePriest) }()
	go func() { defer wg.Done(); run(2, "relations", "priestName", s.relations.RenamePriest) }()
	wg.Wait()

	for _, step := range result.Steps {
		if step.Error != "" {
			result.Partial = true
		}
	}
	return p, result, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// photoFilename builds the stored name: upload time in unix millis, a dash,
// and the original filename with whitespace collapsed to underscores.
func photoFilename(original string) string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), whitespace.ReplaceAllString(original, "_"))
}

// AttachPhoto stores the uploaded file and points the priest's profilePic at
// it. The file is written before the priest lookup, so an upload against an
// unknown priestId leaves the file behind, as the registry always has.
func (s *Service) AttachPhoto(ctx context.Context, priestID, original string, r io.Reader, size int64, contentType string) (*models.Priest, string, error) {
	filename := photoFilename(original)
	if err := s.photos.Save(ctx, filename, r, size, contentType); err != nil {
		return nil, "", err
	}
	p, err := s.repo.SetProfilePic(ctx, priestID, filename)
	if err != nil {
		return nil, "", err
	}
	return p, filename, nil
}

// RemovePhoto clears profilePic and deletes the stored file when one is set.
// A priest without a photo still resolves to success; a file already gone
// from storage is tolerated.
func (s *Service) RemovePhoto(ctx context.Context, priestID string) (*models.Priest, error) {
	p, err := s.repo.FindByPriestID(ctx, priestID)
	if err != nil {
		return nil, err
	}
	if p.ProfilePic == "" {
		return p, nil
	}
	if err := s.photos.Remove(ctx, p.ProfilePic); err != nil {
		return nil, err
	}
	return s.repo.SetProfilePic(ctx, priestID, "")
}

// SanitizedOriginal trims path separators a client might sneak into the
// multipart filename.
func SanitizedOriginal(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
