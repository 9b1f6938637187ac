// Package loader implements the startup loader (spec §5, "Startup"): a
// two-phase, concurrently-scanned ingestion of the on-disk JSON
// snapshot into a store.Store. Phase 1 (users, locations) must fully
// complete before phase 2 (visits) starts, since visit ingestion reads
// back the users/locations phase 1 wrote.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/travels-app/travels/internal/store"
	tlog "github.com/travels-app/travels/log"
)

var (
	usersFileRE     = regexp.MustCompile(`users_\d+\.json$`)
	locationsFileRE = regexp.MustCompile(`locations_\d+\.json$`)
	visitsFileRE    = regexp.MustCompile(`visits_\d+\.json$`)
)

type usersFile struct {
	Users []wireUser `json:"users"`
}

type locationsFile struct {
	Locations []wireLocation `json:"locations"`
}

type visitsFile struct {
	Visits []wireVisit `json:"visits"`
}

// wire* mirror store.User/Location/Visit exactly; the loader decodes
// into these rather than the store types directly so a malformed
// snapshot file can't silently depend on json.Unmarshal's zero-value
// behavior for fields the store types don't expose on the wire (none
// today, but keeps the loader decoupled from store's json tags).
type wireUser struct {
	ID        int32  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	BirthDate int64  `json:"birth_date"`
	Email     string `json:"email"`
}

type wireLocation struct {
	ID       int32  `json:"id"`
	Distance int32  `json:"distance"`
	City     string `json:"city"`
	Place    string `json:"place"`
	Country  string `json:"country"`
}

type wireVisit struct {
	ID        int32 `json:"id"`
	User      int32 `json:"user"`
	Location  int32 `json:"location"`
	VisitedAt int64 `json:"visited_at"`
	Mark      int8  `json:"mark"`
}

// Load scans dataPath for users_*.json/locations_*.json/visits_*.json
// and ingests them into s using a worker pool of the given size,
// observing the phase-1/phase-2 barrier required by spec §5.
// Serving may begin before Load returns; the store is safe for
// concurrent use throughout.
func Load(ctx context.Context, s *store.Store, dataPath string, workers int) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := tlog.FromContext(ctx)

	entries, err := os.ReadDir(dataPath)
	if err != nil {
		return fmt.Errorf("reading data path: %w", err)
	}

	var userFiles, locationFiles, visitFiles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case usersFileRE.MatchString(name):
			userFiles = append(userFiles, name)
		case locationsFileRE.MatchString(name):
			locationFiles = append(locationFiles, name)
		case visitsFileRE.MatchString(name):
			visitFiles = append(visitFiles, name)
		}
	}

	var memBefore runtime.MemStats
	runtime.ReadMemStats(&memBefore)
	logger.Info("starting load",
		"users_files", len(userFiles),
		"location_files", len(locationFiles),
		"visit_files", len(visitFiles),
		"workers", workers,
		"heap_alloc", humanize.Bytes(memBefore.HeapAlloc),
	)

	// Phase 1: users and locations. Both populate C1 and initialize
	// their C2 counterpart to an empty list, independent of each
	// other, so they share one worker pool and one barrier.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, name := range userFiles {
		name := name
		g.Go(func() error { return loadUsers(gctx, s, dataPath, name) })
	}
	for _, name := range locationFiles {
		name := name
		g.Go(func() error { return loadLocations(gctx, s, dataPath, name) })
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("phase 1 (users/locations): %w", err)
	}

	// Phase 2: visits. Each visit append reads the User/Location that
	// phase 1 guarantees is already present.
	g2, gctx2 := errgroup.WithContext(ctx)
	g2.SetLimit(workers)
	for _, name := range visitFiles {
		name := name
		g2.Go(func() error { return loadVisits(gctx2, s, dataPath, name) })
	}
	if err := g2.Wait(); err != nil {
		return fmt.Errorf("phase 2 (visits): %w", err)
	}

	var memAfter runtime.MemStats
	runtime.ReadMemStats(&memAfter)
	logger.Info("load complete",
		"heap_alloc", humanize.Bytes(memAfter.HeapAlloc),
		"heap_grew", humanize.Bytes(memAfter.HeapAlloc-memBefore.HeapAlloc),
	)

	return nil
}

func readSnapshotFile(dataPath, name string, out any) error {
	path, err := securejoin.SecureJoin(dataPath, name)
	if err != nil {
		return fmt.Errorf("joining %s: %w", name, err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

func loadUsers(ctx context.Context, s *store.Store, dataPath, name string) error {
	var f usersFile
	if err := readSnapshotFile(dataPath, name, &f); err != nil {
		return err
	}
	for _, u := range f.Users {
		s.LoadRawUser(store.User{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Gender:    u.Gender,
			BirthDate: u.BirthDate,
			Email:     u.Email,
		})
	}
	return nil
}

func loadLocations(ctx context.Context, s *store.Store, dataPath, name string) error {
	var f locationsFile
	if err := readSnapshotFile(dataPath, name, &f); err != nil {
		return err
	}
	for _, l := range f.Locations {
		s.LoadRawLocation(store.Location{
			ID:       l.ID,
			Distance: l.Distance,
			City:     l.City,
			Place:    l.Place,
			Country:  l.Country,
		})
	}
	return nil
}

func loadVisits(ctx context.Context, s *store.Store, dataPath, name string) error {
	var f visitsFile
	if err := readSnapshotFile(dataPath, name, &f); err != nil {
		return err
	}
	for _, v := range f.Visits {
		s.LoadRawVisit(store.Visit{
			ID:        v.ID,
			User:      v.User,
			Location:  v.Location,
			VisitedAt: v.VisitedAt,
			Mark:      v.Mark,
		})
	}
	return nil
}
