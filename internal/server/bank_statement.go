package server

import (
	"net/http"

	bankstatementdomain "github.com/cashdeskhq/cashdesk/internal/bankstatement/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) PostBankStatementImport(c *gin.Context) {
	var req bankstatementdomain.ImportStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.bankStatementSvc.Import(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeCoordinatorResult(c, http.StatusCreated, result)
}
