package models

// ScheduleEntry — пункт распорядка дня группы, время в формате "HH:MM".
type ScheduleEntry struct {
	ID        int64  `db:"id" json:"id"`
	GroupID   int64  `db:"group_id" json:"group_id"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
	Action    string `db:"action" json:"action"`
}
