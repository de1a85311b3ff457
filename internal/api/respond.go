package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/ctxutil"
	"github.com/Spok95/kindergarten/internal/export"
	"github.com/Spok95/kindergarten/internal/metrics"
	"github.com/Spok95/kindergarten/internal/observability"
)

const maxBodyBytes = 1 << 20

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

type errorBody struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// handle — единственная точка, где ошибка обработчика превращается в HTTP-ответ.
func (s *Server) handle(fn handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.writeError(w, r, err)
		}
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := apperr.From(err)
	status := e.Status()
	metrics.HandlerErrors.WithLabelValues(e.Kind.String()).Inc()

	body := errorBody{Message: e.Message, Details: e.Details}
	fields := []zap.Field{
		zap.String("request_id", ctxutil.RequestID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		s.Log.Error("handler failed", fields...)
		observability.CaptureRequestErr(r, ctxutil.UserID(r.Context()), err)
		if !s.Config.IsProd() {
			body.Message = e.Error()
		}
	} else {
		s.Log.Debug("request rejected", fields...)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func ok(w http.ResponseWriter, v any) error {
	writeJSON(w, http.StatusOK, v)
	return nil
}

func created(w http.ResponseWriter, v any) error {
	writeJSON(w, http.StatusCreated, v)
	return nil
}

func noContent(w http.ResponseWriter) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// sendWorkbook отдаёт книгу как вложение; кириллица в имени кодируется по RFC 2231.
func sendWorkbook(w http.ResponseWriter, filename string, f *excelize.File) error {
	defer func() { _ = f.Close() }()
	data, err := export.Bytes(f)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	return nil
}

// decode читает JSON-тело и прогоняет его через валидатор.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is empty")
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.Validation("request body is too large")
		}
		return apperr.Validation("malformed JSON", err.Error())
	}
	return s.check(dst)
}

func (s *Server) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid path parameter", name+": must be a positive integer")
	}
	return id, nil
}

// queryID — необязательный числовой параметр; 0, если не задан.
func queryID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid query parameter", name+": must be a positive integer")
	}
	return id, nil
}

func requiredQueryID(r *http.Request, name string) (int64, error) {
	id, err := queryID(r, name)
	if err == nil && id == 0 {
		return 0, apperr.Validation("missing query parameter", name+": is required")
	}
	return id, err
}

// queryMonth разбирает month=YYYY-MM; без параметра — текущий месяц.
func (s *Server) queryMonth(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		now := time.Now().In(s.loc())
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	m, err := time.Parse("2006-01", raw)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid query parameter", "month: expected YYYY-MM")
	}
	return m, nil
}
