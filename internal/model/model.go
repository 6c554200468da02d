package model

// Weekday is a named day of the week as it appears in schedule documents
// ("Monday".."Sunday"). Indices follow time.Weekday (Sunday=0..Saturday=6)
// so that cyclic day-offset arithmetic lines up with the standard library.
type Weekday string

const (
	Sunday    Weekday = "Sunday"
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
)

var weekdayIndex = map[Weekday]int{
	Sunday:    0,
	Monday:    1,
	Tuesday:   2,
	Wednesday: 3,
	Thursday:  4,
	Friday:    5,
	Saturday:  6,
}

// Index returns the Sunday-based index of the weekday (Sunday=0..Saturday=6).
// ok is false for names outside Monday..Sunday.
func (d Weekday) Index() (int, bool) {
	i, ok := weekdayIndex[d]
	return i, ok
}

// Valid reports whether d is one of the seven recognized weekday names.
func (d Weekday) Valid() bool {
	_, ok := weekdayIndex[d]
	return ok
}

// WeekOrder is the display order of a weekly layout: Monday first, Sunday
// last. This is a layout contract, independent of the Sunday-based indices
// used for offset arithmetic.
var WeekOrder = [7]Weekday{
	Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday,
}

// Session is one recurring weekly interruption window for a suburb.
//
// StartTime/EndTime are naive 24-hour wall-clock strings ("HH:MM", no
// timezone); EndTime is exclusive. A session's window never crosses
// midnight: StartTime < EndTime within its named day.
type Session struct {
	// ID is the identifier of the owning schedule document. It is not
	// unique per session; every session of a document shares it.
	ID string `json:"id"`

	Day       Weekday `json:"day"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`

	// Level is the severity stage, observed range 1..4. It is carried
	// through unchanged; severity banding is a display concern.
	Level int `json:"level"`

	SuburbID string `json:"suburbId"`
}

// Suburb is the location a schedule belongs to. The engine only uses it as
// a lookup key; name and region are owned by the feed.
type Suburb struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RegionID string `json:"regionId"`
}

// UpcomingSession pairs a session with its lead time relative to the
// instant it was computed at. It is a derived snapshot, never stored.
type UpcomingSession struct {
	Session Session `json:"session"`

	// LeadMinutes is the whole number of minutes from the reference
	// instant to the session's next start.
	LeadMinutes int `json:"leadMinutes"`

	// LeadTime is the human-readable form ("2h 15m", "1d 3h").
	LeadTime string `json:"leadTime"`
}

// PositionedSession is a session placed on a 24-hour timeline. TopOffset
// and Height are linear minute offsets (0..1440); pixel scaling belongs to
// the rendering tier.
type PositionedSession struct {
	Session   Session `json:"session"`
	TopOffset int     `json:"topOffset"`
	Height    int     `json:"height"`
}

// DaySchedule is one day's column of a weekly layout, sessions sorted
// ascending by start time. Days without sessions carry an empty slice.
type DaySchedule struct {
	Day      Weekday             `json:"day"`
	Sessions []PositionedSession `json:"sessions"`
}

// ScheduleDoc is the document envelope the feed supplies: one schedule
// record per suburb with its session windows nested inside.
type ScheduleDoc struct {
	ID       string    `json:"id"`
	SuburbID string    `json:"suburbId"`
	Sessions []Session `json:"sessions"`
}
