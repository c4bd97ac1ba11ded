package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/saeid-a/EvalAdminBack/internal/models"
)

func WriteTemplate(w io.Writer, kind string) error {
	var headers []string
	switch kind {
	case models.ImportKindPlayers:
		headers = PlayerHeaders
	case models.ImportKindSessions:
		headers = SessionHeaders
	default:
		return fmt.Errorf("unknown template %q", kind)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WritePlayers emits rows in the import template layout so an export can be
// edited and re-imported.
func WritePlayers(w io.Writer, players []models.Player, cohortNames map[int64]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(PlayerHeaders); err != nil {
		return err
	}

	for _, player := range players {
		jersey := ""
		if player.JerseyNumber != nil {
			jersey = strconv.Itoa(*player.JerseyNumber)
		}
		if err := writer.Write([]string{
			player.FirstName,
			player.LastName,
			player.BirthDate.Format("2006-01-02"),
			player.Position,
			jersey,
			cohortNames[player.CohortID],
		}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func WriteSessions(w io.Writer, sessions []models.Session, cohortNames map[int64]string, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(SessionHeaders); err != nil {
		return err
	}

	for _, session := range sessions {
		location := ""
		if session.Location != nil {
			location = *session.Location
		}
		local := session.ScheduledAt.In(loc)
		if err := writer.Write([]string{
			session.Name,
			cohortNames[session.CohortID],
			strconv.Itoa(session.WaveNumber),
			local.Format("2006-01-02"),
			local.Format("15:04"),
			strconv.Itoa(session.DurationMinutes),
			location,
		}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
