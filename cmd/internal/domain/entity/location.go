package entity

type LocationKind string

const (
	LocationCenter    LocationKind = "center"
	LocationHomeVisit LocationKind = "home_visit"
)

// Location is where a doctor sees patients: a registered center,
// or the doctor's own home-visit service.
type Location struct {
	Kind     LocationKind
	CenterID string
}

func CenterLocation(centerID string) Location {
	return Location{Kind: LocationCenter, CenterID: centerID}
}

func HomeVisitLocation() Location {
	return Location{Kind: LocationHomeVisit}
}

func (l Location) IsHomeVisit() bool {
	return l.Kind == LocationHomeVisit
}

// Key identifies the location for grouping schedule entries.
func (l Location) Key() string {
	if l.IsHomeVisit() {
		return string(LocationHomeVisit)
	}
	return string(LocationCenter) + ":" + l.CenterID
}

// columns maps a location onto the (location_kind, center_id) pair stored in the database.
func (l Location) columns() (LocationKind, *string) {
	if l.IsHomeVisit() {
		return LocationHomeVisit, nil
	}
	id := l.CenterID
	return LocationCenter, &id
}

func locationFromColumns(kind LocationKind, centerID *string) Location {
	if kind == LocationHomeVisit {
		return HomeVisitLocation()
	}
	if centerID == nil {
		return CenterLocation("")
	}
	return CenterLocation(*centerID)
}
