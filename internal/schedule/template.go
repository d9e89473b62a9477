package schedule

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"channel-radio/internal/models"
)

// GridTemplate is the station's default weekly grid, loaded from YAML.
// It exists so an empty station boots with a populated calendar; the shows
// it materializes are ordinary shows afterwards.
type GridTemplate struct {
	Week map[string][]TemplateSlot `yaml:"week"`
}

// TemplateSlot is one recurring show of the template grid.
// EndHour at or below StartHour means the show runs overnight into the
// next day.
type TemplateSlot struct {
	Name      string  `yaml:"name"`
	StartHour float64 `yaml:"start_hour"`
	EndHour   float64 `yaml:"end_hour"`
	Kind      string  `yaml:"kind"` // "venue" or "remote"
	DJ        string  `yaml:"dj"`
}

// LoadTemplate reads a weekly grid template from a YAML file.
func LoadTemplate(path string) (*GridTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t GridTemplate
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	for day := range t.Week {
		if weekdayIndex(day) < 0 {
			return nil, fmt.Errorf("template: unknown weekday %q", day)
		}
	}
	return &t, nil
}

// Materialize turns the template into concrete shows for one visible week.
func (t *GridTemplate) Materialize(week Week) []models.Show {
	var shows []models.Show
	for day, slots := range t.Week {
		idx := weekdayIndex(day)
		if idx < 0 {
			continue
		}
		for _, ts := range slots {
			start := week.DayAt(idx, ts.StartHour)
			end := week.DayAt(idx, ts.EndHour)
			if !end.After(start) {
				end = end.AddDate(0, 0, 1) // overnight
			}
			kind := models.KindVenue
			if ts.Kind == string(models.KindRemote) {
				kind = models.KindRemote
			}
			shows = append(shows, models.Show{
				Name:      ts.Name,
				Kind:      kind,
				Status:    models.StatusScheduled,
				StartTime: start,
				EndTime:   end,
				DJName:    ts.DJ,
			})
		}
	}
	sort.Slice(shows, func(i, j int) bool {
		return shows[i].StartTime.Before(shows[j].StartTime)
	})
	return shows
}

// weekdayIndex maps a lowercase weekday name onto the Monday-first week.
func weekdayIndex(day string) int {
	names := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	day = strings.ToLower(strings.TrimSpace(day))
	for i, n := range names {
		if n == day {
			return i
		}
	}
	return -1
}
