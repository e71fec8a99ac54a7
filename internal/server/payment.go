package server

import (
	"github.com/gin-gonic/gin"
	paymentdomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/domain"
)

// @Summary      Record payment
// @Description  Adds an amount paid to the stay's payment. Retries with the same Idempotency-Key return the first result.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                              false  "Idempotency key"
// @Param        request          body    paymentdomain.RecordPaymentRequest  true   "Payment"
// @Success      200  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/payments [post]
func (s *Server) RecordPayment(c *gin.Context) {
	var req paymentdomain.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.IdempotencyKey = idempotencyKeyFromHeader(c)

	payment, err := s.paymentSvc.RecordPayment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, payment)
}

// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Success      200  {object}  DataResponse
// @Router       /v1/payments [get]
func (s *Server) ListPayments(c *gin.Context) {
	payments, err := s.paymentSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, payments)
}

type applyCreditRequest struct {
	Note string `json:"note"`
}

// @Summary      Apply credit to future stays
// @Description  Marks the payment's overpayment as carried forward so it is not returned to earlier stays
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id       path  string              true   "Payment ID"
// @Param        request  body  applyCreditRequest  false  "Note"
// @Success      200  {object}  DataResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/payments/{id}/apply-credit [post]
func (s *Server) ApplyCredit(c *gin.Context) {
	var req applyCreditRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	payment, err := s.paymentSvc.ApplyCreditToFuture(c.Request.Context(), paymentdomain.ApplyCreditRequest{
		PaymentID: c.Param("id"),
		Note:      req.Note,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, payment)
}

// @Summary      Split stay cost
// @Description  Moves part of a stay's occupancy to another family group and creates the recipient's derived payment
// @Tags         splits
// @Accept       json
// @Produce      json
// @Param        request  body  paymentdomain.CreateSplitRequest  true  "Split"
// @Success      201  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /v1/splits [post]
func (s *Server) CreateSplit(c *gin.Context) {
	var req paymentdomain.CreateSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.paymentSvc.CreateSplit(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondCreated(c, result)
}
