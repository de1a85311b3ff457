package api

import (
	"net/http"
	"time"

	"github.com/Spok95/kindergarten/internal/aggregate"
	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/auth"
	"github.com/Spok95/kindergarten/internal/db"
	"github.com/Spok95/kindergarten/internal/export"
	"github.com/Spok95/kindergarten/internal/models"
)

type markRequest struct {
	ChildID int64  `json:"child_id" validate:"required,gt=0"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Present *bool  `json:"present" validate:"required"`
}

type bulkRequest struct {
	Marks []markRequest `json:"marks" validate:"required,min=1,max=500,dive"`
}

func (m markRequest) mark() (db.AttendanceMark, error) {
	d, err := time.Parse(time.DateOnly, m.Date)
	if err != nil {
		return db.AttendanceMark{}, apperr.Validation("validation failed", "date: expected YYYY-MM-DD")
	}
	return db.AttendanceMark{ChildID: m.ChildID, Date: d, Present: *m.Present}, nil
}

func (s *Server) markAttendance(w http.ResponseWriter, r *http.Request) error {
	var req markRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	m, err := req.mark()
	if err != nil {
		return err
	}
	if err := s.mayMark(r, m.ChildID); err != nil {
		return err
	}
	a := models.Attendance{ChildID: m.ChildID, Date: m.Date, Present: m.Present}
	if err := s.Store.MarkAttendance(r.Context(), &a); err != nil {
		return err
	}
	return ok(w, a)
}

func (s *Server) bulkAttendance(w http.ResponseWriter, r *http.Request) error {
	var req bulkRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	marks := make([]db.AttendanceMark, 0, len(req.Marks))
	checked := make(map[int64]bool)
	for _, mr := range req.Marks {
		m, err := mr.mark()
		if err != nil {
			return err
		}
		if !checked[m.ChildID] {
			if err := s.mayMark(r, m.ChildID); err != nil {
				return err
			}
			checked[m.ChildID] = true
		}
		marks = append(marks, m)
	}
	out, err := s.Store.MarkAttendanceBulk(r.Context(), marks)
	if err != nil {
		return err
	}
	return ok(w, out)
}

func (s *Server) mayMark(r *http.Request, childID int64) error {
	uid, role := auth.Identity(r)
	c, err := s.Store.GetChild(r.Context(), childID)
	if err != nil {
		return err
	}
	return s.canTeach(r.Context(), uid, role, c)
}

func (s *Server) attendanceSheet(r *http.Request) (aggregate.AttendanceSheet, *models.Group, error) {
	groupID, err := requiredQueryID(r, "group_id")
	if err != nil {
		return aggregate.AttendanceSheet{}, nil, err
	}
	month, err := s.queryMonth(r)
	if err != nil {
		return aggregate.AttendanceSheet{}, nil, err
	}
	g, err := s.Store.GetGroup(r.Context(), groupID)
	if err != nil {
		return aggregate.AttendanceSheet{}, nil, err
	}
	children, err := s.Store.ListChildren(r.Context(), db.ChildFilter{GroupID: &groupID})
	if err != nil {
		return aggregate.AttendanceSheet{}, nil, err
	}
	from, to := aggregate.MonthBounds(month)
	recs, err := s.Store.ListGroupAttendance(r.Context(), groupID, from, to)
	if err != nil {
		return aggregate.AttendanceSheet{}, nil, err
	}
	return aggregate.BuildAttendanceSheet(month, children, recs), g, nil
}

// groupAttendance — табель группы за месяц.
func (s *Server) groupAttendance(w http.ResponseWriter, r *http.Request) error {
	sheet, _, err := s.attendanceSheet(r)
	if err != nil {
		return err
	}
	return ok(w, sheet)
}

func (s *Server) exportAttendance(w http.ResponseWriter, r *http.Request) error {
	sheet, g, err := s.attendanceSheet(r)
	if err != nil {
		return err
	}
	f, err := export.AttendanceWorkbook(g.Name, sheet)
	if err != nil {
		return err
	}
	return sendWorkbook(w, export.BuildAttendanceFilename(g.Name, sheet.Month), f)
}

type childAttendanceResponse struct {
	ChildID      int64               `json:"child_id"`
	Month        string              `json:"month"`
	Records      []models.Attendance `json:"records"`
	BillableDays int                 `json:"billable_days"`
}

func (s *Server) childAttendance(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	uid, role := auth.Identity(r)
	if _, err := s.childFor(r.Context(), uid, role, id); err != nil {
		return err
	}
	month, err := s.queryMonth(r)
	if err != nil {
		return err
	}
	from, to := aggregate.MonthBounds(month)
	recs, err := s.Store.ListChildAttendance(r.Context(), id, from, to)
	if err != nil {
		return err
	}
	return ok(w, childAttendanceResponse{
		ChildID:      id,
		Month:        from.Format("2006-01"),
		Records:      recs,
		BillableDays: aggregate.CountBillableDays(recs),
	})
}
