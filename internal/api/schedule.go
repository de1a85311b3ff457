package api

import (
	"net/http"

	"github.com/Spok95/kindergarten/internal/aggregate"
	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/auth"
	"github.com/Spok95/kindergarten/internal/models"
)

type scheduleRequest struct {
	GroupID   int64  `json:"group_id" validate:"required,gt=0"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
	Action    string `json:"action" validate:"required,max=200"`
}

// entry: "HH:MM" сравнивается строкой, поэтому порядок проверяем так же, как CHECK в БД.
func (req scheduleRequest) entry(id int64) (*models.ScheduleEntry, error) {
	if req.StartTime >= req.EndTime {
		return nil, apperr.Validation("validation failed", "end_time: must be after start_time")
	}
	return &models.ScheduleEntry{ID: id, GroupID: req.GroupID, StartTime: req.StartTime, EndTime: req.EndTime, Action: req.Action}, nil
}

func (s *Server) listSchedule(w http.ResponseWriter, r *http.Request) error {
	groupID, err := requiredQueryID(r, "group_id")
	if err != nil {
		return err
	}
	out, err := s.Store.ListSchedule(r.Context(), groupID)
	if err != nil {
		return err
	}
	aggregate.SortSchedule(out)
	return ok(w, out)
}

func (s *Server) createSchedule(w http.ResponseWriter, r *http.Request) error {
	var req scheduleRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	e, err := req.entry(0)
	if err != nil {
		return err
	}
	uid, role := auth.Identity(r)
	if err := s.canTeachGroup(r.Context(), uid, role, e.GroupID); err != nil {
		return err
	}
	if err := s.Store.CreateScheduleEntry(r.Context(), e); err != nil {
		return err
	}
	return created(w, e)
}

func (s *Server) updateSchedule(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req scheduleRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	e, err := req.entry(id)
	if err != nil {
		return err
	}
	if err := s.mayEditSchedule(r, id, e.GroupID); err != nil {
		return err
	}
	if err := s.Store.UpdateScheduleEntry(r.Context(), e); err != nil {
		return err
	}
	return ok(w, e)
}

func (s *Server) deleteSchedule(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if err := s.mayEditSchedule(r, id, 0); err != nil {
		return err
	}
	if err := s.Store.DeleteScheduleEntry(r.Context(), id); err != nil {
		return err
	}
	return noContent(w)
}

// mayEditSchedule — воспитатель правит только распорядок своих групп (старой и новой).
func (s *Server) mayEditSchedule(r *http.Request, id, newGroupID int64) error {
	uid, role := auth.Identity(r)
	if role == models.Admin {
		return nil
	}
	cur, err := s.Store.GetScheduleEntry(r.Context(), id)
	if err != nil {
		return err
	}
	if err := s.canTeachGroup(r.Context(), uid, role, cur.GroupID); err != nil {
		return err
	}
	if newGroupID != 0 && newGroupID != cur.GroupID {
		return s.canTeachGroup(r.Context(), uid, role, newGroupID)
	}
	return nil
}
