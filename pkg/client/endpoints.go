package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Spok95/kindergarten/internal/aggregate"
	"github.com/Spok95/kindergarten/internal/models"
)

type tokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Login получает токен и запоминает его для следующих запросов.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var out tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return out.User, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListChildren — дети, видимые текущему пользователю; groupID 0 — все группы.
func (c *Client) ListChildren(ctx context.Context, groupID int64) ([]models.Child, error) {
	path := "/api/children"
	if groupID > 0 {
		path += "?group_id=" + strconv.FormatInt(groupID, 10)
	}
	var out []models.Child
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetChild(ctx context.Context, id int64) (*models.Child, error) {
	var out models.Child
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/children/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListGroups(ctx context.Context) ([]models.Group, error) {
	var out []models.Group
	if err := c.do(ctx, http.MethodGet, "/api/groups", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MarkAttendance(ctx context.Context, childID int64, date time.Time, present bool) (*models.Attendance, error) {
	var out models.Attendance
	err := c.do(ctx, http.MethodPost, "/api/attendance/mark", map[string]any{
		"child_id": childID,
		"date":     date.Format(time.DateOnly),
		"present":  present,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MonthlyFinance(ctx context.Context, month time.Time, groupID int64) (*aggregate.MonthlySummary, error) {
	q := url.Values{"month": {month.Format("2006-01")}}
	if groupID > 0 {
		q.Set("group_id", strconv.FormatInt(groupID, 10))
	}
	var out aggregate.MonthlySummary
	if err := c.do(ctx, http.MethodGet, "/api/finance/monthly?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportFinance пишет xlsx-книгу оплаты за месяц в w.
func (c *Client) ExportFinance(ctx context.Context, month time.Time, w io.Writer) error {
	return c.do(ctx, http.MethodGet, "/api/finance/monthly/export?month="+month.Format("2006-01"), nil, w)
}

func (c *Client) ListRecommendations(ctx context.Context) ([]models.Recommendation, error) {
	var out []models.Recommendation
	if err := c.do(ctx, http.MethodGet, "/api/recommendations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SendRecommendation(ctx context.Context, id int64) (*models.Recommendation, error) {
	var out models.Recommendation
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/recommendations/%d/send", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) WeeklyMenu(ctx context.Context, groupID int64, week int) (*aggregate.MenuGrid, error) {
	var out aggregate.MenuGrid
	path := fmt.Sprintf("/api/menu/weekly?group_id=%d&week=%d", groupID, week)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListContacts(ctx context.Context) ([]models.Contact, error) {
	var out []models.Contact
	if err := c.do(ctx, http.MethodGet, "/api/contacts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteChild(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/children/%d", id), nil, nil)
}
