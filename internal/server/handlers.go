package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello World"})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requireQuery returns the named query parameter. A parameter that is present but empty
// is valid; a missing one aborts the request with 400.
func requireQuery(c *gin.Context, name string) (string, bool) {
	v, ok := c.GetQuery(name)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"detail": fmt.Sprintf("missing required query parameter %q", name),
		})
		return "", false
	}
	return v, true
}

func (s *Server) handleScreenTestCases(c *gin.Context) {
	prompt, ok := requireQuery(c, "prompt")
	if !ok {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	text, err := s.relay.ScreenTestCases(ctx, prompt)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": text})
}

func (s *Server) handleReactCode(c *gin.Context) {
	prompt, ok := requireQuery(c, "prompt")
	if !ok {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	text, err := s.relay.ReactCode(ctx, prompt)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": text})
}

func (s *Server) handleEvaluateImage(c *gin.Context) {
	prompt, ok := requireQuery(c, "prompt")
	if !ok {
		return
	}
	imagePath, ok := requireQuery(c, "image_path")
	if !ok {
		return
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	text, err := s.relay.EvaluateImage(ctx, prompt, imagePath)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": text})
}
