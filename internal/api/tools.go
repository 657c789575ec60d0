package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/toximcp/toximcp/internal/service/tools"
	"github.com/toximcp/toximcp/pkg/types"
)

func (s *Server) listToolsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := s.toolService.ListTools()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func (s *Server) getToolHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query("name")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'name' query parameter"})
			return
		}

		t, err := s.toolService.GetTool(name)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// invokeToolHandler runs a tool directly.
// A tool that reports a failure still answers 200, the failure is carried by the result itself.
func (s *Server) invokeToolHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input types.ToolInvokeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		res, err := s.toolService.InvokeTool(c, input.Name, input.Arguments)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, &types.ToolInvokeResult{
			IsError: res.IsError,
			Text:    tools.ResultText(res),
		})
	}
}

func statusFor(err error) int {
	if errors.Is(err, tools.ErrToolNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
