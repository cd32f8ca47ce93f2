package views

import (
	"regexp"
	"time"

	"autotrip/models"
)

// Export alerts.
const (
	PDFExportFailed      = "Failed to download PDF. Please try again."
	CalendarExportFailed = "Failed to download calendar file. Please try again."
)

// ItineraryView is everything the itinerary page shows.
type ItineraryView struct {
	Itinerary    *models.Itinerary `json:"itinerary"`
	Heading      string            `json:"heading"`
	DisplayTotal float64           `json:"display_total"`
	ShowTotal    bool              `json:"show_total"`
	Breakdown    BudgetBreakdown   `json:"breakdown"`
	Tiles        []BudgetTile      `json:"tiles"`
	Days         []TimelineDay     `json:"days"`
}

func BuildItineraryView(it *models.Itinerary) ItineraryView {
	b := Budget(it)
	total := DisplayTotal(it, b)
	return ItineraryView{
		Itinerary:    it,
		Heading:      Heading(it),
		DisplayTotal: total,
		ShowTotal:    total > 0,
		Breakdown:    b,
		Tiles:        b.Tiles(),
		Days:         Timeline(it),
	}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ExportFilename is itinerary_<location>_<YYYY-MM-DD>.<ext>, with every
// whitespace run in the location replaced by one underscore.
func ExportFilename(location, ext string, now time.Time) string {
	return "itinerary_" + whitespaceRun.ReplaceAllString(location, "_") + "_" + now.Format(models.DateLayout) + "." + ext
}

// StepState is one entry of the wizard progress bar.
type StepState struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Active    bool   `json:"active"`
	Completed bool   `json:"completed"`
}

var stepTitles = []string{"Trip Details", "Recommendations", "Itinerary"}

// Steps marks every step up to current as active and those before it as
// completed.
func Steps(current int) []StepState {
	steps := make([]StepState, len(stepTitles))
	for i, title := range stepTitles {
		id := i + 1
		steps[i] = StepState{
			ID:        id,
			Title:     title,
			Active:    current >= id,
			Completed: current > id,
		}
	}
	return steps
}
