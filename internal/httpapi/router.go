// Package httpapi exposes the query pipeline over HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"AgriQuery/internal/datagov"
	"AgriQuery/internal/domain"
	"AgriQuery/internal/ports"
)

// QueryAnswerer runs the full question-to-answer pipeline.
type QueryAnswerer interface {
	Answer(ctx context.Context, text string) (domain.ResultEnvelope, error)
}

// Server holds the collaborators behind the HTTP routes.
type Server struct {
	processor QueryAnswerer
	data      ports.DataSource
	parser    ports.QueryParser
	logger    *slog.Logger
}

func NewServer(processor QueryAnswerer, data ports.DataSource, parser ports.QueryParser, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{processor: processor, data: data, parser: parser, logger: logger}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLog())
	r.Use(cors())

	api := r.Group("/api")
	api.POST("/query", s.handleQuery)
	api.GET("/health", s.handleHealth)
	api.GET("/sample-questions", s.handleSampleQuestions)
	return r
}

type queryRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Invalid Request", "Request body must be JSON with a query field."))
		return
	}
	if isBlank(req.Query) {
		c.JSON(http.StatusBadRequest, errorBody("Invalid Request", "Query must not be empty."))
		return
	}

	env, err := s.processor.Answer(c.Request.Context(), req.Query)
	if err != nil {
		s.logger.Error("query processing failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorBody("Server Error", err.Error()))
		return
	}
	c.JSON(http.StatusOK, env)
}

// handleHealth probes each collaborator with a cheap call and reports the
// aggregate as healthy or degraded.
func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	components := map[string]string{
		"data_api":        "unknown",
		"llm_api":         "unknown",
		"query_processor": "unknown",
	}

	if s.processor != nil {
		components["query_processor"] = "ready"
	} else {
		components["query_processor"] = "not_ready"
	}

	if s.data != nil {
		if _, err := s.data.FetchCropProduction(ctx, datagov.CropQuery{Limit: 1}); err != nil {
			s.logger.Warn("data API health check failed", "error", err)
			components["data_api"] = "error"
		} else {
			components["data_api"] = "connected"
		}
	}

	if s.parser != nil {
		if _, err := s.parser.ParseQuery(ctx, "health check"); err != nil {
			s.logger.Warn("LLM health check failed", "error", err)
			components["llm_api"] = "error"
		} else {
			components["llm_api"] = "connected"
		}
	}

	status := "healthy"
	for _, v := range components {
		if v != "connected" && v != "ready" {
			status = "degraded"
			break
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     status,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"components": components,
	})
}

func (s *Server) handleSampleQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, []string{
		"Compare the average annual rainfall in Maharashtra and Gujarat for the last 5 years. In parallel, list the top 5 most produced cereals by volume in each state during the same period.",
		"Identify the district in Punjab with the highest wheat production in 2023 and compare that with the district with the lowest wheat production in Haryana.",
		"Analyze the rice production trend in West Bengal over the last decade. Correlate this trend with the corresponding rainfall data for the same period.",
		"A policy advisor is proposing a scheme to promote millets over rice in Karnataka. Based on historical data from the last 10 years, what are the three most compelling data-backed arguments to support this policy?",
	})
}

func errorBody(kind, message string) gin.H {
	return gin.H{
		"error":     kind,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
