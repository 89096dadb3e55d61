package model

// ScreeningRoom is a physical auditorium with a fixed seat capacity.  The
// room owns its seats logically (seats carry the room id as a foreign key,
// they are not embedded here).
//
// Fields:
//  ID         – document id.
//  Name       – display name ("Room 1", "IMAX A", ...).
//  Capacity   – number of seats; provisioning creates exactly this many.
//  ScreenType – e.g. "2D", "3D", "IMAX".
//  Location   – free-form floor/wing description.
type ScreeningRoom struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Capacity   int    `json:"capacity"`
	ScreenType string `json:"screenType"`
	Location   string `json:"location"`
}
