package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Spok95/kindergarten/internal/auth"
	"github.com/Spok95/kindergarten/internal/metrics"
	"github.com/Spok95/kindergarten/internal/models"
)

var (
	staff       = []models.Role{models.Admin, models.Teacher, models.Psychologist}
	educators   = []models.Role{models.Admin, models.Teacher}
	adminOnly   = []models.Role{models.Admin}
	everyone    = []models.Role{models.Admin, models.Teacher, models.Psychologist, models.Parent}
	adminParent = []models.Role{models.Admin, models.Parent}
)

// only — обработчик с проверкой роли.
func (s *Server) only(fn handlerFunc, roles []models.Role) http.Handler {
	return auth.RequireRoles(s.writeError, roles...)(s.handle(fn))
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(requestID, s.observe, s.recoverer)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Message: "route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Message: "method not allowed"})
	})

	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	if s.Photos != nil {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", s.Photos.Handler())).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()

	// без токена
	login := s.Limiter.Middleware(s.writeError)
	api.Handle("/auth/login", login(s.handle(s.login))).Methods(http.MethodPost)
	api.Handle("/auth/register", login(s.handle(s.register))).Methods(http.MethodPost)
	api.Handle("/contacts", s.handle(s.listContacts)).Methods(http.MethodGet)

	a := api.NewRoute().Subrouter()
	a.Use(s.Tokens.Authenticate(s.writeError))

	a.Handle("/auth/me", s.handle(s.me)).Methods(http.MethodGet)

	a.Handle("/users/me", s.handle(s.me)).Methods(http.MethodGet)
	a.Handle("/users/me", s.handle(s.updateMe)).Methods(http.MethodPut)
	a.Handle("/users/me/password", s.handle(s.changePassword)).Methods(http.MethodPut)
	a.Handle("/users", s.only(s.listUsers, adminOnly)).Methods(http.MethodGet)
	a.Handle("/users", s.only(s.createUser, adminOnly)).Methods(http.MethodPost)
	a.Handle("/users/{id:[0-9]+}", s.only(s.getUser, adminOnly)).Methods(http.MethodGet)
	a.Handle("/users/{id:[0-9]+}", s.only(s.updateUser, adminOnly)).Methods(http.MethodPut)
	a.Handle("/users/{id:[0-9]+}", s.only(s.deleteUser, adminOnly)).Methods(http.MethodDelete)

	a.Handle("/children", s.only(s.listChildren, everyone)).Methods(http.MethodGet)
	a.Handle("/children", s.only(s.createChild, adminOnly)).Methods(http.MethodPost)
	a.Handle("/children/{id:[0-9]+}", s.only(s.getChild, everyone)).Methods(http.MethodGet)
	a.Handle("/children/{id:[0-9]+}", s.only(s.updateChild, adminOnly)).Methods(http.MethodPut)
	a.Handle("/children/{id:[0-9]+}", s.only(s.deleteChild, adminOnly)).Methods(http.MethodDelete)
	a.Handle("/children/{id:[0-9]+}/photo", s.only(s.uploadPhoto, adminParent)).Methods(http.MethodPost)

	a.Handle("/groups", s.only(s.listGroups, everyone)).Methods(http.MethodGet)
	a.Handle("/groups", s.only(s.createGroup, adminOnly)).Methods(http.MethodPost)
	a.Handle("/groups/{id:[0-9]+}", s.only(s.getGroup, everyone)).Methods(http.MethodGet)
	a.Handle("/groups/{id:[0-9]+}", s.only(s.updateGroup, adminOnly)).Methods(http.MethodPut)
	a.Handle("/groups/{id:[0-9]+}", s.only(s.deleteGroup, adminOnly)).Methods(http.MethodDelete)
	a.Handle("/groups/{id:[0-9]+}/teachers", s.only(s.setGroupTeachers, adminOnly)).Methods(http.MethodPut)

	a.Handle("/attendance/mark", s.only(s.markAttendance, educators)).Methods(http.MethodPost)
	a.Handle("/attendance/bulk", s.only(s.bulkAttendance, educators)).Methods(http.MethodPost)
	a.Handle("/attendance", s.only(s.groupAttendance, staff)).Methods(http.MethodGet)
	a.Handle("/attendance/export", s.only(s.exportAttendance, staff)).Methods(http.MethodGet)
	a.Handle("/attendance/child/{id:[0-9]+}", s.only(s.childAttendance, everyone)).Methods(http.MethodGet)

	a.Handle("/schedule", s.only(s.listSchedule, everyone)).Methods(http.MethodGet)
	a.Handle("/schedule", s.only(s.createSchedule, educators)).Methods(http.MethodPost)
	a.Handle("/schedule/{id:[0-9]+}", s.only(s.updateSchedule, educators)).Methods(http.MethodPut)
	a.Handle("/schedule/{id:[0-9]+}", s.only(s.deleteSchedule, educators)).Methods(http.MethodDelete)

	a.Handle("/progress/child/{id:[0-9]+}", s.only(s.childProgress, everyone)).Methods(http.MethodGet)
	a.Handle("/progress", s.only(s.createProgress, staff)).Methods(http.MethodPost)
	a.Handle("/progress/{id:[0-9]+}", s.only(s.getProgress, everyone)).Methods(http.MethodGet)
	a.Handle("/progress/{id:[0-9]+}", s.only(s.updateProgress, staff)).Methods(http.MethodPut)
	a.Handle("/progress/{id:[0-9]+}", s.only(s.deleteProgress, staff)).Methods(http.MethodDelete)

	a.Handle("/services", s.only(s.listServices, everyone)).Methods(http.MethodGet)
	a.Handle("/services", s.only(s.createService, adminOnly)).Methods(http.MethodPost)
	a.Handle("/services/{id:[0-9]+}", s.only(s.updateService, adminOnly)).Methods(http.MethodPut)
	a.Handle("/services/{id:[0-9]+}", s.only(s.deleteService, adminOnly)).Methods(http.MethodDelete)
	a.Handle("/services/applications", s.only(s.listApplications, everyone)).Methods(http.MethodGet)
	a.Handle("/services/applications", s.only(s.createApplication, adminParent)).Methods(http.MethodPost)
	a.Handle("/services/applications/{id:[0-9]+}/approve", s.only(s.approveApplication, adminOnly)).Methods(http.MethodPost)
	a.Handle("/services/applications/{id:[0-9]+}/reject", s.only(s.rejectApplication, adminOnly)).Methods(http.MethodPost)
	a.Handle("/services/applications/{id:[0-9]+}", s.only(s.deleteApplication, adminParent)).Methods(http.MethodDelete)

	a.Handle("/finance/monthly", s.only(s.monthlyFinance, adminParent)).Methods(http.MethodGet)
	a.Handle("/finance/monthly/export", s.only(s.exportFinance, adminOnly)).Methods(http.MethodGet)
	a.Handle("/finance/discounts", s.only(s.listDiscounts, adminOnly)).Methods(http.MethodGet)
	a.Handle("/finance/discounts", s.only(s.createDiscount, adminOnly)).Methods(http.MethodPost)
	a.Handle("/finance/discounts/{id:[0-9]+}", s.only(s.updateDiscount, adminOnly)).Methods(http.MethodPut)
	a.Handle("/finance/discounts/{id:[0-9]+}", s.only(s.deleteDiscount, adminOnly)).Methods(http.MethodDelete)
	a.Handle("/finance/usage", s.only(s.listUsage, educators)).Methods(http.MethodGet)
	a.Handle("/finance/usage", s.only(s.upsertUsage, educators)).Methods(http.MethodPut)

	a.Handle("/recommendations", s.only(s.listRecommendations, everyone)).Methods(http.MethodGet)
	a.Handle("/recommendations/tree", s.only(s.recommendationTree, staff)).Methods(http.MethodGet)
	a.Handle("/recommendations", s.only(s.createRecommendation, staff)).Methods(http.MethodPost)
	a.Handle("/recommendations/{id:[0-9]+}", s.only(s.updateRecommendation, staff)).Methods(http.MethodPut)
	a.Handle("/recommendations/{id:[0-9]+}", s.only(s.deleteRecommendation, staff)).Methods(http.MethodDelete)
	a.Handle("/recommendations/{id:[0-9]+}/send", s.only(s.sendRecommendation, staff)).Methods(http.MethodPost)

	a.Handle("/menu/dishes", s.only(s.listDishes, everyone)).Methods(http.MethodGet)
	a.Handle("/menu/dishes", s.only(s.createDish, adminOnly)).Methods(http.MethodPost)
	a.Handle("/menu/dishes/{id:[0-9]+}", s.only(s.updateDish, adminOnly)).Methods(http.MethodPut)
	a.Handle("/menu/dishes/{id:[0-9]+}", s.only(s.deleteDish, adminOnly)).Methods(http.MethodDelete)
	a.Handle("/menu/weekly", s.only(s.weeklyMenu, everyone)).Methods(http.MethodGet)
	a.Handle("/menu/weekly/placements", s.only(s.createPlacement, adminOnly)).Methods(http.MethodPost)
	a.Handle("/menu/weekly/placements/{id:[0-9]+}", s.only(s.updatePlacement, adminOnly)).Methods(http.MethodPut)
	a.Handle("/menu/weekly/placements/{id:[0-9]+}", s.only(s.deletePlacement, adminOnly)).Methods(http.MethodDelete)

	a.Handle("/contacts", s.only(s.createContact, adminOnly)).Methods(http.MethodPost)
	a.Handle("/contacts/{id:[0-9]+}", s.only(s.updateContact, adminOnly)).Methods(http.MethodPut)
	a.Handle("/contacts/{id:[0-9]+}", s.only(s.deleteContact, adminOnly)).Methods(http.MethodDelete)

	return r
}
