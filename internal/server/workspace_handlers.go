package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maximbilan/promptrelay/internal/workspace"
	"github.com/rs/zerolog/log"
)

type saveScreenshotRequest struct {
	ImageData string `json:"imageData"`
}

type writeFileRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func workspaceStatus(err error) int {
	switch {
	case errors.Is(err, workspace.ErrNoImageData),
		errors.Is(err, workspace.ErrInvalidImage),
		errors.Is(err, workspace.ErrMissingFields),
		errors.Is(err, workspace.ErrOutsideRoot):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// bindStatus tells an oversized body apart from malformed JSON.
func bindStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func workspaceFailure(c *gin.Context, status int, msg string, err error) {
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(msg)
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": fmt.Sprintf("%s: %v", msg, err),
	})
}

func (s *Server) handleWorkspaceTest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Backend server is running"})
}

func (s *Server) handleSaveScreenshot(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodyBytes)
	var req saveScreenshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		workspaceFailure(c, bindStatus(err), "Failed to save screenshot", err)
		return
	}
	shot, err := s.workspace.SaveScreenshot(req.ImageData)
	if err != nil {
		workspaceFailure(c, workspaceStatus(err), "Failed to save screenshot", err)
		return
	}
	log.Info().Str("file", shot.Path).Msg("screenshot saved")
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Screenshot saved successfully",
		"filename": shot.Filename,
		"path":     shot.Path,
	})
}

func (s *Server) handleWriteFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodyBytes)
	var req writeFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		workspaceFailure(c, bindStatus(err), "Failed to write file", err)
		return
	}
	target, err := s.workspace.WriteFile(req.Path, req.Content)
	if err != nil {
		workspaceFailure(c, workspaceStatus(err), "Failed to write file", err)
		return
	}
	log.Info().Str("file", target).Msg("file written")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File updated successfully",
	})
}
