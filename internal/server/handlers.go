package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"todo/internal/service"
	"todo/internal/task"
)

func (s *Server) handleList(c *gin.Context) {
	tasks, err := s.repo.ListTasks(c.Request.Context())
	if err != nil {
		s.internalError(c, err)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleCreate(c *gin.Context) {
	var nt task.NewTask
	if err := c.ShouldBindJSON(&nt); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	nt.Title = strings.TrimSpace(nt.Title)
	if nt.Title == "" {
		badRequest(c, "title is required")
		return
	}
	deadline, err := normalizeDeadline(nt.Deadline)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	nt.Deadline = deadline

	created, err := s.repo.CreateTask(c.Request.Context(), nt)
	if err != nil {
		s.internalError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/%d", strings.TrimRight(c.Request.URL.Path, "/"), created.ID))
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleGet(g Getter) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		t, err := g.GetTask(c.Request.Context(), id)
		if err != nil {
			s.repoError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func (s *Server) handleUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var t task.Task
	if err := c.ShouldBindJSON(&t); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if t.ID != id {
		badRequest(c, "id mismatch")
		return
	}
	deadline, err := normalizeDeadline(t.Deadline)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	t.Deadline = deadline

	if err := s.repo.UpdateTask(c.Request.Context(), t); err != nil {
		s.repoError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := s.repo.DeleteTask(c.Request.Context(), id); err != nil {
		s.repoError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid task id")
		return 0, false
	}
	return id, true
}

// normalizeDeadline rewrites a deadline to YYYY-MM-DDTHH:mm. Blank means none.
func normalizeDeadline(d *string) (*string, error) {
	if d == nil || strings.TrimSpace(*d) == "" {
		return nil, nil
	}
	norm, err := task.NormalizeDeadline(strings.TrimSpace(*d))
	if err != nil {
		return nil, fmt.Errorf("invalid deadline %q", *d)
	}
	return &norm, nil
}

func (s *Server) repoError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	s.internalError(c, err)
}

func (s *Server) internalError(c *gin.Context, err error) {
	s.logger.Error("handling request", "path", c.Request.URL.Path, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
