package client

import (
	"context"
	"net/http"
	"time"

	"github.com/CMSgov/healthcare-facade/facade/constants"
	"github.com/CMSgov/healthcare-facade/facade/models"
)

type PaymentAPI interface {
	SubmitPayment(ctx context.Context, payment models.PaymentRequest) (models.ReservationStatus, error)
}

type PaymentClient struct {
	*backendClient
}

func NewPaymentClient(baseURL string, timeout time.Duration) *PaymentClient {
	return &PaymentClient{newBackendClient(constants.PaymentBackend, baseURL, timeout)}
}

func (c *PaymentClient) SubmitPayment(ctx context.Context, payment models.PaymentRequest) (models.ReservationStatus, error) {
	var status models.ReservationStatus
	err := c.call(ctx, http.MethodPost, "/", payment, &status)
	return status, err
}
