package server

import (
	"net/http"
	"strings"

	cashclosingdomain "github.com/cashdeskhq/cashdesk/internal/cashclosing/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) PostCashClosing(c *gin.Context) {
	var req cashclosingdomain.OpenCashClosingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	closing, err := s.cashClosingSvc.Open(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, closing)
}

func (s *Server) PostCashClosingApprove(c *gin.Context) {
	var req cashclosingdomain.ApproveCashClosingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = c.Param("id")
	req.IdempotencyKey = strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))

	result, err := s.cashClosingSvc.Approve(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeCoordinatorResult(c, http.StatusOK, result)
}

func (s *Server) GetCashClosing(c *gin.Context) {
	closing, err := s.cashClosingSvc.GetByID(c.Request.Context(), cashclosingdomain.GetCashClosingRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, closing)
}
