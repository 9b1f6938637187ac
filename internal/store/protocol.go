package store

// This file is the integrity protocol (C3): the rules that keep the
// derived user_visits/location_marks indices coherent with the
// primary tables across create/update. See spec §4.3 and the
// invariants in spec §3.

// CreateUser implements POST /users/new (spec §4.3.1).
func (s *Store) CreateUser(body []byte) error {
	var b userBody
	if err := decodeBody(body, &b); err != nil {
		return err
	}
	id, err := b.ID.require()
	if err != nil {
		return err
	}
	firstName, err := b.FirstName.require()
	if err != nil {
		return err
	}
	lastName, err := b.LastName.require()
	if err != nil {
		return err
	}
	gender, err := b.Gender.require()
	if err != nil {
		return err
	}
	birthDate, err := b.BirthDate.require()
	if err != nil {
		return err
	}
	email, err := b.Email.require()
	if err != nil {
		return err
	}

	if s.ExistsUser(id) {
		return ErrDuplicateID
	}

	s.userVisits.save(id, []UserVisitEntry{})
	s.users.save(id, User{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Gender:    gender,
		BirthDate: birthDate,
		Email:     email,
	})
	return nil
}

// CreateLocation implements POST /locations/new (spec §4.3.2).
func (s *Store) CreateLocation(body []byte) error {
	var b locationBody
	if err := decodeBody(body, &b); err != nil {
		return err
	}
	id, err := b.ID.require()
	if err != nil {
		return err
	}
	distance, err := b.Distance.require()
	if err != nil {
		return err
	}
	city, err := b.City.require()
	if err != nil {
		return err
	}
	place, err := b.Place.require()
	if err != nil {
		return err
	}
	country, err := b.Country.require()
	if err != nil {
		return err
	}

	if s.ExistsLocation(id) {
		return ErrDuplicateID
	}

	s.locationMarks.save(id, []LocationMarkEntry{})
	s.locations.save(id, Location{
		ID:       id,
		Distance: distance,
		City:     city,
		Place:    place,
		Country:  country,
	})
	return nil
}

// CreateVisit implements POST /visits/new (spec §4.3.3).
func (s *Store) CreateVisit(body []byte) error {
	var b visitBody
	if err := decodeBody(body, &b); err != nil {
		return err
	}
	id, err := b.ID.require()
	if err != nil {
		return err
	}
	userID, err := b.User.require()
	if err != nil {
		return err
	}
	locationID, err := b.Location.require()
	if err != nil {
		return err
	}
	visitedAt, err := b.VisitedAt.require()
	if err != nil {
		return err
	}
	mark, err := b.Mark.require()
	if err != nil {
		return err
	}

	if s.ExistsVisit(id) {
		return ErrDuplicateID
	}

	user, ok := s.LoadUser(userID)
	if !ok {
		return ErrFKMissing
	}
	loc, ok := s.LoadLocation(locationID)
	if !ok {
		return ErrFKMissing
	}

	v := Visit{ID: id, User: userID, Location: locationID, VisitedAt: visitedAt, Mark: mark}

	uv, _ := s.userVisits.load(userID)
	s.userVisits.save(userID, insertSorted(uv, userVisitEntryFrom(v, loc)))

	lm, _ := s.locationMarks.load(locationID)
	s.locationMarks.save(locationID, append(lm, locationMarkEntryFrom(v, user)))

	s.visits.save(id, v)
	return nil
}

// UpdateUser implements POST /users/<id> (spec §4.3.4).
func (s *Store) UpdateUser(id int32, body []byte) error {
	var b userBody
	if err := decodeBody(body, &b); err != nil {
		return err
	}

	user, ok := s.LoadUser(id)
	if !ok {
		return ErrNotFound
	}

	overlayString(b.FirstName, &user.FirstName)
	overlayString(b.LastName, &user.LastName)
	overlayString(b.Gender, &user.Gender)
	overlayInt64(b.BirthDate, &user.BirthDate)
	overlayString(b.Email, &user.Email)

	// fan-out: every location this user has a visit to gets its
	// matching mark entries refreshed with the new gender/birth_date.
	if uv, ok := s.userVisits.load(id); ok {
		locations := distinctLocationIDs(uv)
		for _, locID := range locations {
			lm, ok := s.locationMarks.load(locID)
			if !ok {
				continue
			}
			changed := false
			for i := range lm {
				if lm[i].UserID == id {
					lm[i].Gender = GenderFromWire(user.Gender)
					lm[i].BirthDate = user.BirthDate
					changed = true
				}
			}
			if changed {
				s.locationMarks.save(locID, lm)
			}
		}
	}

	s.users.save(id, user)
	return nil
}

// UpdateLocation implements POST /locations/<id> (spec §4.3.5).
func (s *Store) UpdateLocation(id int32, body []byte) error {
	var b locationBody
	if err := decodeBody(body, &b); err != nil {
		return err
	}

	loc, ok := s.LoadLocation(id)
	if !ok {
		return ErrNotFound
	}

	overlayInt32(b.Distance, &loc.Distance)
	overlayString(b.City, &loc.City)
	overlayString(b.Place, &loc.Place)
	overlayString(b.Country, &loc.Country)

	// fan-out: every user with a visit to this location gets its
	// matching UserVisitEntry refreshed with the new distance/country/place.
	if lm, ok := s.locationMarks.load(id); ok {
		users := distinctUserIDs(lm)
		for _, userID := range users {
			uv, ok := s.userVisits.load(userID)
			if !ok {
				continue
			}
			changed := false
			for i := range uv {
				if uv[i].LocationID == id {
					uv[i].Distance = loc.Distance
					uv[i].Country = loc.Country
					uv[i].Place = loc.Place
					changed = true
				}
			}
			if changed {
				s.userVisits.save(userID, uv)
			}
		}
	}

	s.locations.save(id, loc)
	return nil
}

// UpdateVisit implements POST /visits/<id> (spec §4.3.6). The two
// derived rows are kept correct by field-freshness, not by the
// presence/absence of the user/location FK change alone: the
// LocationMarkEntry's gender/birth_date is re-synced to the visit's
// (possibly unchanged) user whenever that entry isn't being replaced
// wholesale by a location move, and symmetrically for the
// UserVisitEntry's distance/country/place. This is what makes
// scenario (e) in spec §8 hold (a user-only FK change still refreshes
// the mark entry's demographic fields) without requiring the location
// to have moved too.
func (s *Store) UpdateVisit(id int32, body []byte) error {
	var b visitBody
	if err := decodeBody(body, &b); err != nil {
		return err
	}

	if b.User.set {
		if !s.ExistsUser(b.User.val) {
			return ErrFKMissing
		}
	}
	if b.Location.set {
		if !s.ExistsLocation(b.Location.val) {
			return ErrFKMissing
		}
	}

	v0, ok := s.LoadVisit(id)
	if !ok {
		return ErrNotFound
	}

	v1 := v0
	if b.User.set {
		v1.User = b.User.val
	}
	if b.Location.set {
		v1.Location = b.Location.val
	}
	if b.VisitedAt.set {
		v1.VisitedAt = b.VisitedAt.val
	}
	if b.Mark.set {
		v1.Mark = b.Mark.val
	}

	userChanged := b.User.set && v1.User != v0.User
	locationChanged := b.Location.set && v1.Location != v0.Location
	visitedAtChanged := b.VisitedAt.set && v1.VisitedAt != v0.VisitedAt

	newUser, _ := s.LoadUser(v1.User)
	newLoc, _ := s.LoadLocation(v1.Location)

	// UserVisitEntry side.
	if userChanged {
		if uv, ok := s.userVisits.load(v0.User); ok {
			uv = removeByVisitID(uv, id)
			sortByVisitedAt(uv)
			s.userVisits.save(v0.User, uv)
		}
		uv, _ := s.userVisits.load(v1.User)
		uv = insertSorted(uv, userVisitEntryFrom(v1, newLoc))
		s.userVisits.save(v1.User, uv)
	} else {
		if uv, ok := s.userVisits.load(v1.User); ok {
			changed := false
			for i := range uv {
				if uv[i].VisitID == id {
					uv[i].VisitedAt = v1.VisitedAt
					uv[i].Mark = v1.Mark
					uv[i].LocationID = v1.Location
					uv[i].Distance = newLoc.Distance
					uv[i].Country = newLoc.Country
					uv[i].Place = newLoc.Place
					changed = true
				}
			}
			if changed {
				if visitedAtChanged {
					sortByVisitedAt(uv)
				}
				s.userVisits.save(v1.User, uv)
			}
		}
	}

	// LocationMarkEntry side.
	if locationChanged {
		if lm, ok := s.locationMarks.load(v0.Location); ok {
			lm = removeMarkByVisitID(lm, id)
			s.locationMarks.save(v0.Location, lm)
		}
		lm, _ := s.locationMarks.load(v1.Location)
		lm = append(lm, locationMarkEntryFrom(v1, newUser))
		s.locationMarks.save(v1.Location, lm)
	} else {
		if lm, ok := s.locationMarks.load(v1.Location); ok {
			changed := false
			for i := range lm {
				if lm[i].VisitID == id {
					lm[i].VisitedAt = v1.VisitedAt
					lm[i].Mark = v1.Mark
					lm[i].UserID = v1.User
					lm[i].Gender = GenderFromWire(newUser.Gender)
					lm[i].BirthDate = newUser.BirthDate
					changed = true
				}
			}
			if changed {
				s.locationMarks.save(v1.Location, lm)
			}
		}
	}

	s.visits.save(id, v1)
	return nil
}

func userVisitEntryFrom(v Visit, loc Location) UserVisitEntry {
	return UserVisitEntry{
		VisitID:    v.ID,
		LocationID: loc.ID,
		Distance:   loc.Distance,
		Country:    loc.Country,
		VisitedAt:  v.VisitedAt,
		Mark:       v.Mark,
		Place:      loc.Place,
	}
}

func locationMarkEntryFrom(v Visit, u User) LocationMarkEntry {
	return LocationMarkEntry{
		VisitID:   v.ID,
		UserID:    u.ID,
		Gender:    GenderFromWire(u.Gender),
		BirthDate: u.BirthDate,
		VisitedAt: v.VisitedAt,
		Mark:      v.Mark,
	}
}

func removeByVisitID(list []UserVisitEntry, visitID int32) []UserVisitEntry {
	for i, e := range list {
		if e.VisitID == visitID {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func removeMarkByVisitID(list []LocationMarkEntry, visitID int32) []LocationMarkEntry {
	for i, e := range list {
		if e.VisitID == visitID {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func distinctLocationIDs(list []UserVisitEntry) []int32 {
	seen := make(map[int32]struct{}, len(list))
	out := make([]int32, 0, len(list))
	for _, e := range list {
		if _, ok := seen[e.LocationID]; !ok {
			seen[e.LocationID] = struct{}{}
			out = append(out, e.LocationID)
		}
	}
	return out
}

func distinctUserIDs(list []LocationMarkEntry) []int32 {
	seen := make(map[int32]struct{}, len(list))
	out := make([]int32, 0, len(list))
	for _, e := range list {
		if _, ok := seen[e.UserID]; !ok {
			seen[e.UserID] = struct{}{}
			out = append(out, e.UserID)
		}
	}
	return out
}
