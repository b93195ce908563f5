package dto

// CalendarEntry feeds the external calendar view. End is exclusive, one day
// after the last charged night, matching the booking range itself.
type CalendarEntry struct {
	Title     string `json:"title"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Color     string `json:"color"`
	TextColor string `json:"textColor"`
}
