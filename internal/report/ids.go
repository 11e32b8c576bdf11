package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sadopc/pmdesk/internal/apperr"
	"github.com/sadopc/pmdesk/internal/store"
)

// FinalReportID is the only id a project's final report may carry.
func FinalReportID(projectID string) string {
	return "FR" + projectID
}

// WeeklyReportID formats the id of the seq-th weekly report.
func WeeklyReportID(projectID string, seq int) string {
	return fmt.Sprintf("WR%s_W%02d", projectID, seq)
}

func weeklyIDPattern(projectID string) *regexp.Regexp {
	return regexp.MustCompile(`^WR` + regexp.QuoteMeta(projectID) + `_W(\d{2})$`)
}

func ValidateFinalID(projectID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.Validation("report id is required")
	}
	if want := FinalReportID(projectID); id != want {
		return apperr.Validation("final report id must be %s", want)
	}
	return nil
}

func ValidateWeeklyID(projectID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.Validation("report id is required")
	}
	if !weeklyIDPattern(projectID).MatchString(id) {
		return apperr.Validation("weekly report id must look like %s", WeeklyReportID(projectID, 1))
	}
	return nil
}

// maxWeeklySeq is the last sequence number the two-digit suffix can carry.
const maxWeeklySeq = 99

// NextWeeklyID suggests the id after the highest sequence already used.
func NextWeeklyID(projectID string, existing []store.WeeklyReport) (string, error) {
	re := weeklyIDPattern(projectID)
	highest := 0
	for _, r := range existing {
		m := re.FindStringSubmatch(r.ID)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	if highest >= maxWeeklySeq {
		return "", apperr.Validation("project %s has no weekly sequence numbers left", projectID)
	}
	return WeeklyReportID(projectID, highest+1), nil
}
