package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/kindergarten/internal/auth"
	"github.com/Spok95/kindergarten/internal/config"
	"github.com/Spok95/kindergarten/internal/db"
	"github.com/Spok95/kindergarten/internal/models"
)

type testEnv struct {
	handler http.Handler
	mock    sqlmock.Sqlmock
	tokens  *auth.Tokens
}

func newTestEnv(t *testing.T, opts ...func(*Deps)) *testEnv {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })

	tokens := auth.NewTokens("test-secret", time.Hour)
	deps := Deps{
		Store:   db.New(sqlx.NewDb(raw, "sqlmock")),
		Tokens:  tokens,
		Limiter: auth.NewLoginLimiter(100, 100),
		Config:  &config.Config{Env: "dev", Location: time.UTC, DailyRate: 100},
	}
	for _, o := range opts {
		o(&deps)
	}
	srv := New(deps)
	return &testEnv{handler: srv.Router(), mock: mock, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, uid int64, role models.Role) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, _, err := e.tokens.Issue(uid, role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

var childColumns = []string{"id", "full_name", "birth_date", "parent_id", "group_id",
	"allergies", "photo_path", "created_at", "updated_at", "service_ids"}

func childRow(id, parentID int64, groupID any) *sqlmock.Rows {
	now := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(childColumns).
		AddRow(id, "Иванов Петя", time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), parentID, groupID,
			"{}", nil, now, now, "{}")
}

func TestRouter_AuthRequired(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/children", nil, 0, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, decodeError(t, rec).Message)
}

func TestRouter_RoleForbidden(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/children", map[string]any{"full_name": "x"}, 3, models.Parent)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestRouter_UnknownRouteIsJSON(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/nope", nil, 0, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "route not found", decodeError(t, rec).Message)
}

func TestContacts_PublicList(t *testing.T) {
	e := newTestEnv(t)
	e.mock.ExpectQuery(`FROM contacts ORDER BY sort_order, id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "person", "phone", "email", "address", "sort_order"}).
			AddRow(int64(1), "Заведующая", "Смирнова А.В.", "+7 900 000-00-00", nil, nil, 0))

	rec := e.do(t, http.MethodGet, "/api/contacts", nil, 0, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got []models.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Заведующая", got[0].Title)
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestCreateContact_ValidationDetails(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/contacts", map[string]any{"email": "not-an-email"}, 1, models.Admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeError(t, rec)
	assert.Contains(t, body.Details, "title: is required")
	assert.Len(t, body.Details, 2)
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestGetChild_NotFound(t *testing.T) {
	e := newTestEnv(t)
	e.mock.ExpectQuery(`FROM children c WHERE c.id = \$1`).WithArgs(int64(7)).WillReturnError(sql.ErrNoRows)

	rec := e.do(t, http.MethodGet, "/api/children/7", nil, 1, models.Admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestGetChild_ParentSeesOnlyOwn(t *testing.T) {
	e := newTestEnv(t)
	e.mock.ExpectQuery(`FROM children c WHERE c.id = \$1`).WithArgs(int64(7)).WillReturnRows(childRow(7, 42, nil))

	rec := e.do(t, http.MethodGet, "/api/children/7", nil, 3, models.Parent)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestRegister_DuplicateEmailIsConflict(t *testing.T) {
	e := newTestEnv(t)
	e.mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	rec := e.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email": "mama@example.com", "password": "secret-password", "full_name": "Иванова Мария",
	}, 0, "")
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"users_email_key"}, decodeError(t, rec).Details)
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	e := newTestEnv(t)
	hash, err := auth.HashPassword("right-password")
	require.NoError(t, err)
	now := time.Now()
	e.mock.ExpectQuery(`FROM users WHERE email = \$1`).WithArgs("mama@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "full_name", "phone", "role",
			"telegram_chat_id", "created_at", "updated_at"}).
			AddRow(int64(3), "mama@example.com", hash, "Иванова Мария", nil, "parent", nil, now, now))

	rec := e.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email": "Mama@Example.com", "password": "wrong-password",
	}, 0, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestMarkAttendance_AdminUpserts(t *testing.T) {
	e := newTestEnv(t)
	e.mock.ExpectQuery(`FROM children c WHERE c.id = \$1`).WithArgs(int64(5)).WillReturnRows(childRow(5, 42, int64(2)))
	e.mock.ExpectQuery(`INSERT INTO attendance .* ON CONFLICT \(child_id, date\)`).
		WithArgs(int64(5), time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	rec := e.do(t, http.MethodPost, "/api/attendance/mark", map[string]any{
		"child_id": 5, "date": "2024-03-04", "present": false,
	}, 1, models.Admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got models.Attendance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(11), got.ID)
	assert.False(t, got.Present)
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestMarkAttendance_TeacherOfOtherGroup(t *testing.T) {
	e := newTestEnv(t)
	e.mock.ExpectQuery(`FROM children c WHERE c.id = \$1`).WithArgs(int64(5)).WillReturnRows(childRow(5, 42, int64(2)))
	e.mock.ExpectQuery(`FROM group_teachers WHERE group_id = \$1 AND teacher_id = \$2`).
		WithArgs(int64(2), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	rec := e.do(t, http.MethodPost, "/api/attendance/mark", map[string]any{
		"child_id": 5, "date": "2024-03-04", "present": true,
	}, 9, models.Teacher)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, e.mock.ExpectationsWereMet())
}

func TestMarkAttendance_PresentRequired(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/attendance/mark", map[string]any{
		"child_id": 5, "date": "04.03.2024",
	}, 1, models.Admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, decodeError(t, rec).Details, 2)
}

func TestWeeklyMenu_WeekOutOfRange(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/menu/weekly?group_id=1&week=54", nil, 3, models.Parent)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
