package csvimport

import (
	"fmt"
	"io"
	"time"

	"github.com/saeid-a/EvalAdminBack/internal/models"
)

var PlayerHeaders = []string{"first_name", "last_name", "birth_date", "position", "jersey_number", "cohort"}

type PlayerRecord struct {
	Line         int       `json:"line"`
	CohortID     int64     `json:"cohort_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	BirthDate    time.Time `json:"birth_date"`
	Position     string    `json:"position"`
	JerseyNumber *int      `json:"jersey_number"`
}

type PlayerReport struct {
	TotalRows  int            `json:"total_rows"`
	Rows       []PlayerRecord `json:"rows"`
	Issues     []Issue        `json:"issues"`
	Duplicates []Duplicate    `json:"duplicates"`
}

func playerKey(firstName, lastName string, birthDate time.Time) string {
	return fmt.Sprintf("%s|%s|%s", lookupKey(firstName), lookupKey(lastName), birthDate.Format("2006-01-02"))
}

// ParsePlayers validates a player CSV against the association's cohorts and
// current roster.
func ParsePlayers(src io.Reader, cohorts []models.Cohort, existing []models.Player, opts Options) (*PlayerReport, error) {
	opts = opts.withDefaults()

	rows, err := readRows(src, PlayerHeaders, opts.MaxRows)
	if err != nil {
		return nil, err
	}

	cohortIDs := make(map[string]int64, len(cohorts))
	for _, cohort := range cohorts {
		cohortIDs[lookupKey(cohort.Name)] = cohort.ID
	}

	seen := make(map[string]int, len(existing)+len(rows))
	for _, player := range existing {
		seen[playerKey(player.FirstName, player.LastName, player.BirthDate)] = 0
	}

	today := opts.Now().In(opts.Location)
	report := &PlayerReport{
		TotalRows:  len(rows),
		Rows:       make([]PlayerRecord, 0, len(rows)),
		Issues:     make([]Issue, 0),
		Duplicates: make([]Duplicate, 0),
	}

	for _, r := range rows {
		record := PlayerRecord{
			Line:      r.line,
			FirstName: r.get("first_name"),
			LastName:  r.get("last_name"),
		}
		issues := make([]Issue, 0)
		fail := func(column, message string) {
			issues = append(issues, Issue{Line: r.line, Column: column, Message: message})
		}

		if record.FirstName == "" {
			fail("first_name", "is required")
		}
		if record.LastName == "" {
			fail("last_name", "is required")
		}

		if raw := r.get("birth_date"); raw == "" {
			fail("birth_date", "is required")
		} else if birthDate, err := parseDate(raw, opts.Location); err != nil {
			fail("birth_date", fmt.Sprintf("%q is not a valid date", raw))
		} else if birthDate.After(today) {
			fail("birth_date", "must not be in the future")
		} else {
			record.BirthDate = birthDate
		}

		if raw := r.get("position"); raw == "" {
			fail("position", "is required")
		} else if position, ok := models.NormalizePosition(raw); !ok {
			fail("position", fmt.Sprintf("%q is not a known position", raw))
		} else {
			record.Position = position
		}

		if raw := r.get("jersey_number"); raw != "" {
			number, err := parseIntInRange(raw, 0, 99)
			if err != nil {
				fail("jersey_number", "must be a whole number between 0 and 99")
			} else {
				record.JerseyNumber = &number
			}
		}

		if raw := r.get("cohort"); raw == "" {
			fail("cohort", "is required")
		} else if cohortID, ok := cohortIDs[lookupKey(raw)]; !ok {
			fail("cohort", fmt.Sprintf("cohort %q does not exist", raw))
		} else {
			record.CohortID = cohortID
		}

		if len(issues) > 0 {
			report.Issues = append(report.Issues, issues...)
			continue
		}

		key := playerKey(record.FirstName, record.LastName, record.BirthDate)
		if firstLine, dup := seen[key]; dup {
			report.Duplicates = append(report.Duplicates, Duplicate{
				Line:   r.line,
				Key:    fmt.Sprintf("%s %s (%s)", record.FirstName, record.LastName, record.BirthDate.Format("2006-01-02")),
				Reason: duplicateReason(firstLine),
			})
			continue
		}
		seen[key] = r.line
		report.Rows = append(report.Rows, record)
	}

	return report, nil
}

func duplicateReason(firstLine int) string {
	if firstLine == 0 {
		return "already exists"
	}
	return fmt.Sprintf("duplicate of line %d", firstLine)
}
