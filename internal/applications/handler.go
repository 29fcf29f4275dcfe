package applications

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
	"jobboard-backend/internal/status"
	"jobboard-backend/internal/users"
)

const maxResumeBytes = 10 << 20

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/:id/apply", h.apply)
	rg.GET("/applications", h.listMine)
	rg.GET("/applications/:id", h.get)

	employer := rg.Group("", middleware.RequireRole(users.RoleEmployer))
	employer.GET("/jobs/:id/applications", h.listForJob)
	employer.PUT("/applications/:id/status", h.updateStatus)
}

func (h *Handler) apply(c *gin.Context) {
	in := ApplyInput{
		JobID:  c.Param("id"),
		UserID: middleware.UserIDFromContext(c),
	}

	contentType := c.GetHeader("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		in.FullName = c.PostForm("fullName")
		in.Email = c.PostForm("email")
		in.CoverLetter = c.PostForm("coverLetter")

		if file, err := c.FormFile("resume"); err == nil {
			if file.Size > maxResumeBytes {
				respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "resume exceeds the 10MB limit", nil)
				return
			}
			f, err := file.Open()
			if err != nil {
				respond.Error(c, http.StatusBadRequest, "invalid_request", "could not read resume", nil)
				return
			}
			data, err := io.ReadAll(io.LimitReader(f, maxResumeBytes+1))
			f.Close()
			if err != nil || int64(len(data)) > maxResumeBytes {
				respond.Error(c, http.StatusBadRequest, "invalid_request", "could not read resume", nil)
				return
			}
			in.ResumeFileName = file.Filename
			in.ResumeMime = file.Header.Get("Content-Type")
			in.ResumeData = data
		}
	} else {
		var req struct {
			FullName    string `json:"fullName"`
			Email       string `json:"email"`
			CoverLetter string `json:"coverLetter"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid JSON body", nil)
			return
		}
		in.FullName = req.FullName
		in.Email = req.Email
		in.CoverLetter = req.CoverLetter
	}
	if in.Email == "" {
		in.Email = middleware.UserEmailFromContext(c)
	}
	if in.FullName == "" {
		in.FullName = middleware.UserNameFromContext(c)
	}

	app, err := h.Svc.Apply(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, jobs.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		case errors.Is(err, ErrDuplicate):
			respond.Error(c, http.StatusConflict, "duplicate_application", "you already applied to this job", nil)
		default:
			respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, toView(app))
}

func (h *Handler) listMine(c *gin.Context) {
	items, err := h.Svc.ListByUser(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"items": toViews(items)})
}

func (h *Handler) get(c *gin.Context) {
	app, err := h.Svc.Get(c.Request.Context(), c.Param("id"), middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load application", nil)
		return
	}
	respond.JSON(c, http.StatusOK, toView(app))
}

func (h *Handler) listForJob(c *gin.Context) {
	items, err := h.Svc.ListForJob(c.Request.Context(), c.Param("id"), middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"items": toViews(items)})
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid JSON body", nil)
		return
	}
	to, err := status.Parse(req.Status)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_status", err.Error(), nil)
		return
	}

	app, err := h.Svc.TransitionStatus(c.Request.Context(), c.Param("id"), middleware.UserIDFromContext(c), to)
	if err != nil {
		var te *status.TransitionError
		switch {
		case errors.As(err, &te):
			allowed := make([]string, len(te.Allowed))
			for i, s := range te.Allowed {
				allowed[i] = string(s)
			}
			respond.Error(c, http.StatusConflict, "invalid_transition", te.Error(), gin.H{
				"from":    string(te.From),
				"to":      string(te.To),
				"allowed": allowed,
			})
		case errors.Is(err, status.ErrUnknownStatus):
			respond.Error(c, http.StatusBadRequest, "invalid_status", err.Error(), nil)
		case errors.Is(err, ErrNotFound), errors.Is(err, jobs.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update status", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, toView(app))
}
