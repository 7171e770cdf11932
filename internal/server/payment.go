package server

import (
	"net/http"
	"strings"

	idemdomain "github.com/cashdeskhq/cashdesk/internal/idempotency/domain"
	paymentdomain "github.com/cashdeskhq/cashdesk/internal/payment/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) PostPayment(c *gin.Context) {
	var req paymentdomain.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.IdempotencyKey = strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))

	result, err := s.paymentSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeCoordinatorResult(c, http.StatusCreated, result)
}

func (s *Server) GetPayment(c *gin.Context) {
	payment, err := s.paymentSvc.GetByID(c.Request.Context(), paymentdomain.GetPaymentRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

func (s *Server) ListPayments(c *gin.Context) {
	var req paymentdomain.ListPaymentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.paymentSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// writeCoordinatorResult sends the coordinator-owned response bytes. Replays
// are byte-identical to the original response; only the header differs.
func writeCoordinatorResult(c *gin.Context, status int, result idemdomain.Result) {
	if result.Replayed {
		c.Header(HeaderReplayed, "true")
	} else {
		c.Header(HeaderReplayed, "false")
	}
	c.Data(status, "application/json", result.Response)
}
