package ui

import (
	stderrors "errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"datadash/domain/dataset"
	"datadash/internal"
	"datadash/internal/errors"
	"datadash/ui/middleware"

	"github.com/gin-gonic/gin"
)

type plotRequest struct {
	X    string `json:"x" binding:"required"`
	Y    string `json:"y" binding:"required"`
	Kind string `json:"kind" binding:"required"`
}

type askRequest struct {
	Question string `json:"question"`
}

// respondError converts err to the JSON error body and its status. Every
// error leaves the session usable.
func respondError(c *gin.Context, err error) {
	appErr := errors.FromDomain(err)
	status := errors.HTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		internal.DefaultLogger.Error("[API] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	} else {
		internal.DefaultLogger.Debug("[API] %s %s rejected: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": appErr.Message, "code": appErr.Code})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, "index.html", gin.H{
		"Title":            "Dynamic Data Analysis Dashboard",
		"PlotKinds":        dataset.PlotKinds,
		"QuestionsEnabled": s.dashboard.QuestionsEnabled(),
		"MaxUploadMB":      s.options.MaxUploadBytes / (1024 * 1024),
	})
}

func (s *Server) handleUpload(c *gin.Context) {
	if s.options.MaxUploadBytes > 0 {
		if c.Request.ContentLength > s.options.MaxUploadBytes {
			respondError(c, errors.PayloadTooLarge())
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.options.MaxUploadBytes)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			respondError(c, errors.PayloadTooLarge())
			return
		}
		respondError(c, errors.InvalidInput("multipart field \"file\" is required"))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, errors.Wrap(err, "failed to open upload"))
		return
	}
	defer file.Close()

	overview, err := s.dashboard.Upload(c.Request.Context(), middleware.SessionID(c), filepath.Base(header.Filename), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (s *Server) handleReset(c *gin.Context) {
	if err := s.dashboard.Reset(c.Request.Context(), middleware.SessionID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleOverview(c *gin.Context) {
	overview, err := s.dashboard.Overview(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (s *Server) handlePlot(c *gin.Context) {
	var req plotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("plot request needs x, y and kind"))
		return
	}

	fig, err := s.dashboard.Plot(c.Request.Context(), middleware.SessionID(c), dataset.PlotRequest{
		X:    req.X,
		Y:    req.Y,
		Kind: dataset.PlotKind(req.Kind),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fig)
}

// handleValueCounts takes the column as a query parameter; names may contain "/"
func (s *Server) handleValueCounts(c *gin.Context) {
	column, ok := c.GetQuery("column")
	if !ok || column == "" {
		respondError(c, errors.InvalidInput("column query parameter is required"))
		return
	}
	counts, err := s.dashboard.ValueCounts(c.Request.Context(), middleware.SessionID(c), column)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"column": counts.Column,
		"counts": counts.Counts,
		"total":  counts.Total(),
	})
}

func (s *Server) handleCorrelation(c *gin.Context) {
	view, err := s.dashboard.Correlation(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("request body must be JSON with a question"))
		return
	}

	answer, err := s.dashboard.Ask(c.Request.Context(), middleware.SessionID(c), req.Question)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"question":    answer.Question,
		"answer":      answer.Text,
		"answer_html": renderMarkdown(strings.TrimSpace(answer.Text)),
		"model":       answer.Model,
	})
}

func (s *Server) handleQuestions(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	entries, err := s.dashboard.RecentQuestions(c.Request.Context(), middleware.SessionID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"questions": entries,
		"count":     len(entries),
	})
}
