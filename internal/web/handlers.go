package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arthur-debert/nanotasks/internal/validation"
	"github.com/arthur-debert/nanotasks/nanotasks/form"
	"github.com/arthur-debert/nanotasks/nanotasks/search"
	"github.com/arthur-debert/nanotasks/types"
)

// Web handlers

type priorityOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Fields      form.Fields
	Editing     bool
	EditingID   types.ID
	SubmitLabel string
	Message     string
	SaveError   string
	Priorities  []priorityOption
	Pending     []types.Task
	Completed   []types.Task
}

func (s *Server) handleIndex(c *gin.Context) {
	lists := s.app.View.Partition()

	s.mu.Lock()
	fields := s.app.Form.Fields()
	id, editing := s.app.Form.Editing()
	data := pageData{
		Fields:      fields,
		Editing:     editing,
		EditingID:   id,
		SubmitLabel: s.app.Form.SubmitLabel(),
		Message:     s.message,
		Pending:     lists.Pending,
		Completed:   lists.Completed,
	}
	s.mu.Unlock()

	if err := s.app.Store.LastSaveError(); err != nil {
		data.SaveError = err.Error()
	}
	for _, p := range types.Priorities {
		data.Priorities = append(data.Priorities, priorityOption{
			Value:    p.String(),
			Label:    p.Label(),
			Selected: p == fields.Priority,
		})
	}

	c.HTML(http.StatusOK, "index.html", data)
}

// formInput is the posted task form.
type formInput struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Date        string `form:"date"`
	Priority    string `form:"priority"`
}

func (s *Server) handleSubmit(c *gin.Context) {
	var in formInput
	if err := c.ShouldBind(&in); err != nil {
		s.setMessage(err.Error())
		s.redirectHome(c)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	priority, err := types.ParsePriority(in.Priority)
	s.app.Form.Stage(form.Fields{
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Priority:    priority,
	})
	if err != nil {
		s.message = err.Error()
		s.redirectHome(c)
		return
	}

	task, err := s.app.Form.Submit()
	if err != nil {
		s.message = formMessage(err)
		s.redirectHome(c)
		return
	}
	s.message = ""
	s.logger.Info("task saved", "id", task.ID, "request_id", c.GetString("request_id"))
	s.redirectHome(c)
}

func (s *Server) handleEdit(c *gin.Context) {
	if id, ok := taskID(c); ok {
		s.mu.Lock()
		if s.app.BeginEdit(id) {
			s.message = ""
		}
		s.mu.Unlock()
	}
	s.redirectHome(c)
}

func (s *Server) handleCancel(c *gin.Context) {
	s.mu.Lock()
	s.app.Form.Cancel()
	s.message = ""
	s.mu.Unlock()
	s.redirectHome(c)
}

// Unknown ids are ignored by toggle and delete

func (s *Server) handleToggle(c *gin.Context) {
	if id, ok := taskID(c); ok {
		s.mu.Lock()
		s.app.Store.ToggleCompleted(id)
		s.mu.Unlock()
	}
	s.redirectHome(c)
}

func (s *Server) handleDelete(c *gin.Context) {
	if id, ok := taskID(c); ok {
		s.mu.Lock()
		s.app.Store.Remove(id)
		s.mu.Unlock()
	}
	s.redirectHome(c)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"tasks":  s.app.Store.Len(),
	})
}

func (s *Server) setMessage(msg string) {
	s.mu.Lock()
	s.message = msg
	s.mu.Unlock()
}

func (s *Server) redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

func taskID(c *gin.Context) (types.ID, bool) {
	id, err := types.ParseID(c.Param("id"))
	return id, err == nil
}

// formMessage joins field messages into one line.
func formMessage(err error) string {
	fields := validation.Fields(err)
	msgs := make([]string, 0, len(fields))
	for _, name := range []string{"title", "date", "priority", "_"} {
		if msg, ok := fields[name]; ok {
			msgs = append(msgs, msg)
		}
	}
	return strings.Join(msgs, "; ")
}

// API handlers

// taskInput is the JSON body of create and update requests.
type taskInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Date        string         `json:"date"`
	Priority    types.Priority `json:"priority"`
}

func (in taskInput) fields() form.Fields {
	return form.Fields{
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Priority:    in.Priority,
	}
}

func (s *Server) handleAPIList(c *gin.Context) {
	status := c.DefaultQuery("status", "all")
	if q := c.Query("q"); q != "" {
		s.handleAPISearch(c, q, status)
		return
	}

	switch status {
	case "all":
		c.JSON(http.StatusOK, s.app.View.Partition())
	case string(types.StatusPending):
		c.JSON(http.StatusOK, s.app.View.Pending())
	case string(types.StatusCompleted):
		c.JSON(http.StatusOK, s.app.View.CompletedList())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending, completed or all"})
	}
}

func (s *Server) handleAPISearch(c *gin.Context, q, status string) {
	opts := search.Options{Query: q, Highlight: c.Query("highlight") == "true"}
	switch status {
	case "all":
	case string(types.StatusPending), string(types.StatusCompleted):
		opts.Status = types.Status(status)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending, completed or all"})
		return
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		opts.Limit = n
	}
	c.JSON(http.StatusOK, s.app.Search.Search(opts))
}

func (s *Server) handleAPICreate(c *gin.Context) {
	var in taskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// API requests get their own form so they never disturb the page form
	f := form.New(s.app.Store)
	f.Stage(in.fields())
	task, err := f.Submit()
	if err != nil {
		validationFailed(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleAPIUpdate(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	var in taskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// the lookup and the write must not interleave with a delete
	s.mu.Lock()
	defer s.mu.Unlock()

	current, found := s.app.Store.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	f := form.New(s.app.Store)
	f.BeginEdit(current)
	f.Stage(in.fields())
	task, err := f.Submit()
	if err != nil {
		validationFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleAPIToggle(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	s.mu.Lock()
	task, found := s.app.Store.ToggleCompleted(id)
	s.mu.Unlock()
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleAPIDelete(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	s.mu.Lock()
	removed := s.app.Store.Remove(id)
	s.mu.Unlock()
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func validationFailed(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":  formMessage(err),
		"fields": validation.Fields(err),
	})
}
