package server

import (
	"fmt"
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cinesub/SubsceneProxy/internal/client"
	"github.com/cinesub/SubsceneProxy/internal/config"
	"github.com/cinesub/SubsceneProxy/internal/models"
)

// Server exposes the scraping client as a JSON API.
type Server struct {
	client client.Client
	logger zerolog.Logger
}

// NewServer creates a new REST server instance
func NewServer(c client.Client) *Server {
	return &Server{
		client: c,
		logger: config.GetLogger(),
	}
}

// NewRouter builds a gin engine with panic recovery, the Sentry middleware,
// and all API routes attached.
func NewRouter(c client.Client) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Repanic lets gin.Recovery answer the request after Sentry has seen the panic.
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))

	NewServer(c).RegisterRoutes(r)
	return r
}

// RegisterRoutes attaches the API endpoints to the engine.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", s.Health)

	api := r.Group("/api")
	{
		api.GET("/search", s.Search)
		api.GET("/subtitles/:id", s.GetSubtitle)
		api.POST("/subtitles/find", s.FindSubtitle)
		api.GET("/subtitles/:id/download", s.DownloadSubtitle)
		api.GET("/language-filter", s.GetLanguageFilter)
		api.PUT("/language-filter", s.SetLanguageFilter)
	}
}

// Health reports liveness for orchestration probes.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Search handles GET /api/search?q=<query>.
func (s *Server) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter 'q'"})
		return
	}

	s.logger.Debug().Str("query", query).Msg("Search called")

	resultSet, err := s.client.Search(c.Request.Context(), query)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("Failed to search subtitles")
		respondError(c, err)
		return
	}

	s.logger.Debug().Str("query", query).Int("count", resultSet.Total).Msg("Search completed")
	c.JSON(http.StatusOK, resultSet)
}

// GetSubtitle handles GET /api/subtitles/:id using the site's canonical ID path.
func (s *Server) GetSubtitle(c *gin.Context) {
	id := c.Param("id")
	s.logger.Debug().Str("subtitle_id", id).Msg("GetSubtitle called")

	subtitle, err := s.client.FindByID(c.Request.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Str("subtitle_id", id).Msg("Failed to fetch subtitle")
		respondError(c, err)
		return
	}

	s.logger.Debug().Str("subtitle_id", id).Msg("GetSubtitle completed")
	c.JSON(http.StatusOK, subtitle)
}

// findRequest is the body of POST /api/subtitles/find.
type findRequest struct {
	ID  string `json:"id" binding:"required"`
	URL string `json:"url" binding:"required"`
}

// FindSubtitle handles POST /api/subtitles/find, fetching a detail page whose
// URL the caller already knows, usually from a search result.
func (s *Server) FindSubtitle(c *gin.Context) {
	var req findRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.logger.Debug().Str("subtitle_id", req.ID).Str("url", req.URL).Msg("FindSubtitle called")

	subtitle, err := s.client.FindByURL(c.Request.Context(), req.ID, req.URL)
	if err != nil {
		s.logger.Error().Err(err).Str("subtitle_id", req.ID).Msg("Failed to fetch subtitle page")
		respondError(c, err)
		return
	}

	s.logger.Debug().Str("subtitle_id", req.ID).Msg("FindSubtitle completed")
	c.JSON(http.StatusOK, subtitle)
}

// DownloadSubtitle handles GET /api/subtitles/:id/download. The optional url
// query parameter names the detail page to go through; without it the
// canonical ID path is used. The response body is the subtitle file itself.
func (s *Server) DownloadSubtitle(c *gin.Context) {
	id := c.Param("id")
	pageURL := c.Query("url")

	s.logger.Debug().Str("subtitle_id", id).Str("url", pageURL).Msg("DownloadSubtitle called")

	var subtitle *models.Subtitle
	var err error
	if pageURL != "" {
		subtitle, err = s.client.FindByURL(c.Request.Context(), id, pageURL)
	} else {
		subtitle, err = s.client.FindByID(c.Request.Context(), id)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("subtitle_id", id).Msg("Failed to fetch subtitle page")
		respondError(c, err)
		return
	}

	result, err := s.client.Download(c.Request.Context(), subtitle)
	if err != nil {
		s.logger.Error().Err(err).Str("subtitle_id", id).Msg("Failed to download subtitle")
		respondError(c, err)
		return
	}

	s.logger.Debug().
		Str("subtitle_id", id).
		Str("filename", result.Filename).
		Int("size", len(result.Content)).
		Msg("DownloadSubtitle completed")

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

// GetLanguageFilter handles GET /api/language-filter, returning the encoded
// cookie value currently in effect.
func (s *Server) GetLanguageFilter(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"filter": s.client.LanguageFilter()})
}

// filterRequest is the body of PUT /api/language-filter. Callers send either
// language names or numeric ids; ids win when both are present.
type filterRequest struct {
	Languages string `json:"languages"`
	IDs       []int  `json:"ids"`
}

// SetLanguageFilter handles PUT /api/language-filter. An empty ids array or
// an empty languages string clears the filter.
func (s *Server) SetLanguageFilter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.IDs != nil {
		s.client.SetLanguageFilterID(req.IDs...)
	} else {
		s.client.SetLanguageFilter(req.Languages)
	}

	filter := s.client.LanguageFilter()
	s.logger.Debug().Str("filter", filter).Msg("Language filter updated")
	c.JSON(http.StatusOK, gin.H{"filter": filter})
}
