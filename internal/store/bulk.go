package store

// This file is the startup-loader entry point into C1/C2: unlike the
// HTTP-facing Create* methods in protocol.go, these skip presence
// validation and duplicate-id checks since a snapshot file is trusted
// input, but they preserve the same derived-index invariants (§3).

// LoadRawUser installs a User from the startup snapshot and
// initializes its UserVisitList to empty (spec §5 phase 1).
func (s *Store) LoadRawUser(u User) {
	s.userVisits.save(u.ID, []UserVisitEntry{})
	s.users.save(u.ID, u)
}

// LoadRawLocation installs a Location from the startup snapshot and
// initializes its LocationMarkList to empty (spec §5 phase 1).
func (s *Store) LoadRawLocation(l Location) {
	s.locationMarks.save(l.ID, []LocationMarkEntry{})
	s.locations.save(l.ID, l)
}

// LoadRawVisit installs a Visit from the startup snapshot and appends
// its derived rows to both indices (spec §5 phase 2). The referenced
// User/Location are assumed present by the phase-1/phase-2 barrier; a
// visit referencing a missing id is silently skipped rather than
// failing the whole load, since a snapshot inconsistency shouldn't
// take the server down.
func (s *Store) LoadRawVisit(v Visit) {
	user, ok := s.LoadUser(v.User)
	if !ok {
		return
	}
	loc, ok := s.LoadLocation(v.Location)
	if !ok {
		return
	}

	uv, _ := s.userVisits.load(v.User)
	s.userVisits.save(v.User, insertSorted(uv, userVisitEntryFrom(v, loc)))

	lm, _ := s.locationMarks.load(v.Location)
	s.locationMarks.save(v.Location, append(lm, locationMarkEntryFrom(v, user)))

	s.visits.save(v.ID, v)
}
