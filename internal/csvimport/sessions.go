package csvimport

import (
	"fmt"
	"io"
	"time"

	"github.com/saeid-a/EvalAdminBack/internal/models"
)

const (
	defaultSessionMinutes = 60
	maxWaveNumber         = 1000
)

var SessionHeaders = []string{"name", "cohort", "wave_number", "date", "start_time", "duration_minutes", "location"}

type SessionRecord struct {
	Line            int       `json:"line"`
	CohortID        int64     `json:"cohort_id"`
	Name            string    `json:"name"`
	WaveNumber      int       `json:"wave_number"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Location        *string   `json:"location"`
}

type SessionReport struct {
	TotalRows  int             `json:"total_rows"`
	Rows       []SessionRecord `json:"rows"`
	Issues     []Issue         `json:"issues"`
	Duplicates []Duplicate     `json:"duplicates"`
}

func sessionKey(cohortID int64, name string) string {
	return fmt.Sprintf("%d|%s", cohortID, lookupKey(name))
}

// ParseSessions validates a session CSV against the association's cohorts
// and existing schedule.
func ParseSessions(src io.Reader, cohorts []models.Cohort, existing []models.Session, opts Options) (*SessionReport, error) {
	opts = opts.withDefaults()

	rows, err := readRows(src, SessionHeaders, opts.MaxRows)
	if err != nil {
		return nil, err
	}

	cohortIDs := make(map[string]int64, len(cohorts))
	for _, cohort := range cohorts {
		cohortIDs[lookupKey(cohort.Name)] = cohort.ID
	}

	seen := make(map[string]int, len(existing)+len(rows))
	for _, session := range existing {
		seen[sessionKey(session.CohortID, session.Name)] = 0
	}

	report := &SessionReport{
		TotalRows:  len(rows),
		Rows:       make([]SessionRecord, 0, len(rows)),
		Issues:     make([]Issue, 0),
		Duplicates: make([]Duplicate, 0),
	}

	for _, r := range rows {
		record := SessionRecord{
			Line:            r.line,
			Name:            r.get("name"),
			DurationMinutes: defaultSessionMinutes,
		}
		issues := make([]Issue, 0)
		fail := func(column, message string) {
			issues = append(issues, Issue{Line: r.line, Column: column, Message: message})
		}

		if record.Name == "" {
			fail("name", "is required")
		}

		cohortName := r.get("cohort")
		if cohortName == "" {
			fail("cohort", "is required")
		} else if cohortID, ok := cohortIDs[lookupKey(cohortName)]; !ok {
			fail("cohort", fmt.Sprintf("cohort %q does not exist", cohortName))
		} else {
			record.CohortID = cohortID
		}

		if raw := r.get("wave_number"); raw == "" {
			fail("wave_number", "is required")
		} else if wave, err := parseIntInRange(raw, 1, maxWaveNumber); err != nil {
			fail("wave_number", fmt.Sprintf("must be a whole number from 1 to %d", maxWaveNumber))
		} else {
			record.WaveNumber = wave
		}

		var hour, minute int
		if raw := r.get("start_time"); raw != "" {
			h, m, err := parseClock(raw)
			if err != nil {
				fail("start_time", fmt.Sprintf("%q is not a valid time", raw))
			}
			hour, minute = h, m
		}

		if raw := r.get("date"); raw == "" {
			fail("date", "is required")
		} else if day, err := parseDate(raw, opts.Location); err != nil {
			fail("date", fmt.Sprintf("%q is not a valid date", raw))
		} else {
			record.ScheduledAt = time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, opts.Location)
		}

		if raw := r.get("duration_minutes"); raw != "" {
			minutes, err := parseIntInRange(raw, 1, 24*60)
			if err != nil {
				fail("duration_minutes", "must be a whole number of minutes between 1 and 1440")
			} else {
				record.DurationMinutes = minutes
			}
		}

		if location := r.get("location"); location != "" {
			record.Location = &location
		}

		if len(issues) > 0 {
			report.Issues = append(report.Issues, issues...)
			continue
		}

		key := sessionKey(record.CohortID, record.Name)
		if firstLine, dup := seen[key]; dup {
			report.Duplicates = append(report.Duplicates, Duplicate{
				Line:   r.line,
				Key:    fmt.Sprintf("%s / %s", cohortName, record.Name),
				Reason: duplicateReason(firstLine),
			})
			continue
		}
		seen[key] = r.line
		report.Rows = append(report.Rows, record)
	}

	return report, nil
}
