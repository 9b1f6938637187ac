package store

// Store is the concurrency envelope (C5) over the five primary and
// derived tables. Every exported method acquires only the locks its
// own operation needs; cross-map sequences (e.g. a fan-out update
// touching both user_visits and location_marks) are not atomic as a
// whole, by design (§5: "the contract is per-map atomicity, not
// cross-map atomicity").
type Store struct {
	users         *table[User]
	locations     *table[Location]
	visits        *table[Visit]
	userVisits    *userVisitTable
	locationMarks *locationMarkTable
}

// New returns an empty Store with no Users, Locations, or Visits.
func New() *Store {
	return &Store{
		users:         newTable[User](),
		locations:     newTable[Location](),
		visits:        newTable[Visit](),
		userVisits:    newTable[[]UserVisitEntry](),
		locationMarks: newTable[[]LocationMarkEntry](),
	}
}

// ExistsUser reports whether a User with the given id has been created.
func (s *Store) ExistsUser(id int32) bool { return s.users.exists(id) }

// ExistsLocation reports whether a Location with the given id has been created.
func (s *Store) ExistsLocation(id int32) bool { return s.locations.exists(id) }

// LoadUser returns the current User by id.
func (s *Store) LoadUser(id int32) (User, bool) { return s.users.load(id) }

// LoadLocation returns the current Location by id.
func (s *Store) LoadLocation(id int32) (Location, bool) { return s.locations.load(id) }

// LoadVisit returns the current Visit by id.
func (s *Store) LoadVisit(id int32) (Visit, bool) { return s.visits.load(id) }

// ExistsVisit reports whether a Visit with the given id has been created.
func (s *Store) ExistsVisit(id int32) bool { return s.visits.exists(id) }

// UserVisits returns the time-ordered UserVisitEntry list for a user,
// and whether that user's index exists at all (invariant 3).
func (s *Store) UserVisits(id int32) ([]UserVisitEntry, bool) { return s.userVisits.load(id) }

// LocationMarks returns the LocationMarkEntry list for a location, and
// whether that location's index exists at all (invariant 3).
func (s *Store) LocationMarks(id int32) ([]LocationMarkEntry, bool) { return s.locationMarks.load(id) }
