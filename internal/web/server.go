package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"git.sr.ht/~jakintosh/today/internal/domain"
	"git.sr.ht/~jakintosh/today/internal/logging"
)

type ServerOptions struct {
	Logger *log.Logger
}

type Server struct {
	store        domain.Store
	router       *http.ServeMux
	presentation *Presentation
	logger       *log.Logger
}

func NewServer(store domain.Store, opts ServerOptions) (*Server, error) {
	pres, err := NewPresentation()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		store:        store,
		router:       http.NewServeMux(),
		presentation: pres,
		logger:       logger,
	}
	s.routes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rc := parseRequestContext(r)
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.router.ServeHTTP(rec, r)
	s.logger.Debug("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"htmx", rc.IsHTMX,
		"trigger", rc.TriggerID,
		"target", rc.TargetID,
		"duration", time.Since(start),
	)
}

func (s *Server) routes() {
	// Page Routes
	s.router.HandleFunc("GET /{$}", s.handleIndex)

	// API/HTMX Routes
	s.router.HandleFunc("POST /adding/toggle", s.handleToggleAdding)
	s.router.HandleFunc("POST /tasks", s.handleCreateTask)
	s.router.HandleFunc("PATCH /tasks/{id}/completed", s.handleToggleCompleted)
	s.router.HandleFunc("PATCH /tasks/{id}/priority", s.handleTogglePriority)
	s.router.HandleFunc("DELETE /tasks/{id}", s.handleDeleteTask)
	s.router.HandleFunc("POST /tasks/delete", s.handleDeleteTasks)
	s.router.HandleFunc("POST /tasks/{id}/edit", s.handleBeginEdit)
	s.router.HandleFunc("PATCH /edit", s.handleUpdateEdit)
	s.router.HandleFunc("POST /edit/save", s.handleSaveEdit)
	s.router.HandleFunc("POST /edit/cancel", s.handleCancelEdit)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := NewScreenView(s.store.Snapshot())
	if err := s.presentation.RenderIndex(w, view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// respond finishes every mutation: HTMX gets the re-rendered screen,
// everything else is sent back to the page.
func (s *Server) respond(w http.ResponseWriter, r *http.Request) {
	ctx := parseRequestContext(r)
	if !ctx.WantsFragment() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	view := NewScreenView(s.store.Snapshot())
	if err := s.presentation.RenderScreen(w, view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleToggleAdding(w http.ResponseWriter, r *http.Request) {
	s.store.ToggleAdding()
	s.respond(w, r)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// A posted title is added in one store call so concurrent submits
	// cannot read each other's draft.
	if _, ok := r.Form["title"]; ok {
		title := r.FormValue("title")
		if title == "" {
			s.store.SetDraft("")
		}
		s.store.AddTask(title)
	} else {
		s.store.SubmitDraft()
	}
	s.respond(w, r)
}

func (s *Server) handleToggleCompleted(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathTaskID(r); ok {
		s.store.ToggleCompleted(id)
	}
	s.respond(w, r)
}

func (s *Server) handleTogglePriority(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathTaskID(r); ok {
		s.store.TogglePriority(id)
	}
	s.respond(w, r)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathTaskID(r); ok {
		s.store.DeleteTask(id)
	}
	s.respond(w, r)
}

func (s *Server) handleDeleteTasks(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	raw := r.Form["position"]
	positions := make([]int, 0, len(raw))
	for _, p := range raw {
		n, err := strconv.Atoi(p)
		if err != nil {
			http.Error(w, "Invalid position", http.StatusBadRequest)
			return
		}
		positions = append(positions, n)
	}

	s.store.DeleteTasks(positions)
	s.respond(w, r)
}

func (s *Server) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathTaskID(r); ok {
		s.store.BeginEdit(id)
	}
	s.respond(w, r)
}

func (s *Server) handleUpdateEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.applyEditForm(r)
	s.respond(w, r)
}

func (s *Server) handleSaveEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.applyEditForm(r)
	s.store.SaveEdit()
	s.respond(w, r)
}

func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	s.store.CancelEdit()
	s.respond(w, r)
}

// applyEditForm copies the edit form into the store's edit snapshot. The
// priority checkbox is only meaningful alongside the title field, since an
// unchecked box is simply absent from the form.
func (s *Server) applyEditForm(r *http.Request) {
	if _, ok := r.Form["title"]; !ok {
		return
	}
	s.store.SetEditTitle(r.FormValue("title"))
	s.store.SetEditPriority(parseCheckbox(r.FormValue("high_priority")))
}

func pathTaskID(r *http.Request) (domain.TaskID, bool) {
	id, err := domain.ParseTaskID(r.PathValue("id"))
	if err != nil {
		return domain.TaskID{}, false
	}
	return id, true
}

func parseCheckbox(v string) bool {
	switch v {
	case "on", "true", "1":
		return true
	}
	return false
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
