package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quantmind-br/repotxt/internal/domain"
	"github.com/quantmind-br/repotxt/internal/repourl"
	"github.com/quantmind-br/repotxt/internal/utils"
	"github.com/quantmind-br/repotxt/internal/wiki"
)

// Mirror is the wiki mirror the handlers serve from
type Mirror interface {
	Sync(ctx context.Context, owner, repo, token string) (wiki.SyncResult, error)
	ListPages(owner, repo string) ([]string, error)
	ReadPage(owner, repo, page string) (string, error)
}

// Handler translates wiki service requests into mirror operations
type Handler struct {
	mirror Mirror
	logger *utils.Logger
}

// RegisterRoutes mounts the wiki service API onto the given Gin engine
func RegisterRoutes(r *gin.Engine, mirror Mirror, logger *utils.Logger) {
	h := &Handler{mirror: mirror, logger: logger}

	r.POST("/clone-wiki", h.CloneWiki)
	r.GET("/wiki-pages", h.ListPages)
	r.GET("/wiki-pages/:pageName", h.GetPage)
}

type cloneRequest struct {
	RepoURL string `json:"repoUrl"`
}

// CloneWiki handles POST /clone-wiki: clones the wiki or pulls an existing mirror
func (h *Handler) CloneWiki(c *gin.Context) {
	var req cloneRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RepoURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing repoUrl in request body"})
		return
	}

	owner, repo, ok := h.parseRepoURL(c, req.RepoURL)
	if !ok {
		return
	}

	result, err := h.mirror.Sync(c.Request.Context(), owner, repo, bearerToken(c))
	if err != nil {
		h.logger.Error().Err(err).Str("owner", owner).Str("repo", repo).Msg("Wiki sync failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to clone/update wiki repository",
			"details": details(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": result.Message()})
}

// ListPages handles GET /wiki-pages: lists the markdown pages of a mirror
func (h *Handler) ListPages(c *gin.Context) {
	repoURL := c.Query("repoUrl")
	if repoURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing repoUrl query parameter"})
		return
	}

	owner, repo, ok := h.parseRepoURL(c, repoURL)
	if !ok {
		return
	}

	pages, err := h.mirror.ListPages(owner, repo)
	if err != nil {
		h.logger.Error().Err(err).Str("owner", owner).Str("repo", repo).Msg("Listing wiki pages failed")
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Wiki repository not found or not accessible",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

// GetPage handles GET /wiki-pages/:pageName: returns the content of one page
func (h *Handler) GetPage(c *gin.Context) {
	repoURL := c.Query("repoUrl")
	pageName := c.Param("pageName")
	if repoURL == "" || pageName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing repoUrl query parameter or pageName path parameter"})
		return
	}

	owner, repo, ok := h.parseRepoURL(c, repoURL)
	if !ok {
		return
	}

	content, err := h.mirror.ReadPage(owner, repo, pageName)
	if err != nil {
		h.logger.Error().Err(err).Str("page", pageName).Msg("Reading wiki page failed")
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Wiki page not found or not accessible",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": content})
}

func (h *Handler) parseRepoURL(c *gin.Context, raw string) (owner, repo string, ok bool) {
	owner, repo, err := repourl.ParseRepoURL(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid GitHub repository URL format"})
		return "", "", false
	}
	return owner, repo, true
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// details returns the underlying cause of a clone failure
func details(err error) string {
	var cloneErr *domain.CloneError
	if errors.As(err, &cloneErr) && cloneErr.Details != "" {
		return cloneErr.Details
	}
	return err.Error()
}
