package advisor

import (
	"fmt"
	"strings"
)

const (
	noScheduleNotice = "등록된 항차 스케줄이 없습니다."

	// maxScheduleEntries caps how many voyages a summary lists.
	maxScheduleEntries = 3
)

// SummarizeSchedule renders the first three voyages in input order.
// Further voyages are dropped silently.
func SummarizeSchedule(schedule []VoyageRecord) string {
	if len(schedule) == 0 {
		return noScheduleNotice
	}
	if len(schedule) > maxScheduleEntries {
		schedule = schedule[:maxScheduleEntries]
	}

	var sb strings.Builder
	for i, v := range schedule {
		id := orDefault(v.ID, fmt.Sprintf("항차%d", i+1))
		sb.WriteString(fmt.Sprintf("**%s 항차:** %s 화물\n", id, orDefault(v.Cargo, "N/A")))
		sb.WriteString(fmt.Sprintf("  - 출항: %s\n", orDefault(v.ETD, "N/A")))
		sb.WriteString(fmt.Sprintf("  - 입항: %s\n", orDefault(v.ETA, "N/A")))
		sb.WriteString(fmt.Sprintf("  - 상태: %s\n\n", orDefault(v.Status, "Scheduled")))
	}
	return strings.TrimSpace(sb.String())
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
