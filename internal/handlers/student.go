package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/crucial707/student-records/internal/auth"
	"github.com/crucial707/student-records/internal/metrics"
	"github.com/crucial707/student-records/internal/middleware"
	"github.com/crucial707/student-records/internal/models"
	"github.com/crucial707/student-records/internal/repo"
	"github.com/crucial707/student-records/internal/validate"
	"github.com/crucial707/student-records/internal/views"
)

// ==========================
// StudentHandler
// ==========================
type StudentHandler struct {
	Repo      *repo.StudentRepo
	AuditRepo *repo.AuditRepo
	Sessions  *auth.Sessions
	Views     *views.Renderer
}

// ==========================
// Index (list + add form)
// ==========================
func (h *StudentHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderIndex(w, r, http.StatusOK, views.StudentForm{}, "")
}

func (h *StudentHandler) renderIndex(w http.ResponseWriter, r *http.Request, status int, form views.StudentForm, msg string) {
	students, err := h.Repo.List(r.Context())
	if err != nil {
		serverError(w, r, h.Views, "list students", err)
		return
	}
	data := page(w, r, h.Sessions, "Students")
	data.Students = students
	data.Form = form
	data.Error = msg
	h.Views.Render(w, status, views.Index, data)
}

// ==========================
// Add Student
// ==========================
func (h *StudentHandler) Add(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseForm(w, r)
	if !ok {
		h.renderIndex(w, r, http.StatusBadRequest, form, MsgBadForm)
		return
	}

	s, err := validate.Student(toValidateForm(form))
	if err != nil {
		h.renderIndex(w, r, http.StatusBadRequest, form, validationMessage(err))
		return
	}

	created, err := h.Repo.Create(r.Context(), s.Name, s.Age, s.Grade)
	if err != nil {
		serverError(w, r, h.Views, "create student", err)
		return
	}
	h.recordMutation(r.Context(), models.AuditCreate, created)
	http.Redirect(w, r, "/", http.StatusFound)
}

// ==========================
// Edit Form
// ==========================
func (h *StudentHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.Views.RenderError(w, http.StatusNotFound, views.Data{})
		return
	}

	s, err := h.Repo.GetByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		h.Views.RenderError(w, http.StatusNotFound, views.Data{Error: "Student not found."})
		return
	}
	if err != nil {
		serverError(w, r, h.Views, "get student", err)
		return
	}

	data := page(w, r, h.Sessions, "Edit student")
	data.Student = s
	data.Form = views.StudentForm{Name: s.Name, Age: strconv.Itoa(s.Age), Grade: s.Grade}
	h.Views.Render(w, http.StatusOK, views.Edit, data)
}

// ==========================
// Update Student
// ==========================
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	form, ok := h.parseForm(w, r)
	if !ok {
		h.renderEdit(w, r, id, form, MsgBadForm)
		return
	}

	s, err := validate.Student(toValidateForm(form))
	if err != nil {
		h.renderEdit(w, r, id, form, validationMessage(err))
		return
	}

	s.ID = id
	err = h.Repo.Update(r.Context(), id, s.Name, s.Age, s.Grade)
	if errors.Is(err, repo.ErrNotFound) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err != nil {
		serverError(w, r, h.Views, "update student", err)
		return
	}
	h.recordMutation(r.Context(), models.AuditUpdate, s)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *StudentHandler) renderEdit(w http.ResponseWriter, r *http.Request, id int, form views.StudentForm, msg string) {
	data := page(w, r, h.Sessions, "Edit student")
	data.Student = models.Student{ID: id}
	data.Form = form
	data.Error = msg
	h.Views.Render(w, http.StatusBadRequest, views.Edit, data)
}

// ==========================
// Delete Student
// ==========================
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		// Not an id any row can have.
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	err = h.Repo.Delete(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err != nil {
		serverError(w, r, h.Views, "delete student", err)
		return
	}
	h.recordMutation(r.Context(), models.AuditDelete, models.Student{ID: id})
	http.Redirect(w, r, "/", http.StatusFound)
}

// parseForm reads name, age and grade. ok is false when the body could not be parsed.
func (h *StudentHandler) parseForm(w http.ResponseWriter, r *http.Request) (views.StudentForm, bool) {
	if err := r.ParseForm(); err != nil {
		slog.Warn("parse student form", "path", r.URL.Path, "error", err)
		return views.StudentForm{}, false
	}
	return views.StudentForm{
		Name:  r.PostFormValue("name"),
		Age:   r.PostFormValue("age"),
		Grade: r.PostFormValue("grade"),
	}, true
}

// recordMutation counts the change and writes an audit entry. A failed audit
// write is logged; the mutation itself already succeeded.
func (h *StudentHandler) recordMutation(ctx context.Context, action string, s models.Student) {
	metrics.IncStudentMutation(action)

	userID, _ := middleware.GetUserID(ctx)
	details := ""
	if action != models.AuditDelete {
		details = fmt.Sprintf("name=%s age=%d grade=%s", s.Name, s.Age, s.Grade)
	}
	slog.Info("student changed", "action", action, "student_id", s.ID, "user_id", userID)
	if h.AuditRepo == nil {
		return
	}
	if err := h.AuditRepo.Log(ctx, userID, action, models.ResourceStudent, s.ID, details); err != nil {
		slog.Error("write audit entry", "action", action, "student_id", s.ID, "error", err)
	}
}

func toValidateForm(f views.StudentForm) validate.StudentForm {
	return validate.StudentForm{Name: f.Name, Age: f.Age, Grade: f.Grade}
}

func validationMessage(err error) string {
	var verr *validate.Error
	if errors.As(err, &verr) {
		return verr.Message
	}
	return validate.MsgInvalidFormat
}
