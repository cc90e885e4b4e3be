package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/CMSgov/healthcare-facade/facade/models"
)

// ReservationAPI is a hospital backend the router forwards reservations to.
type ReservationAPI interface {
	ForwardReservation(ctx context.Context, category string, reservation models.HospitalReservation) (models.Appointment, error)
}

// ForwardClient talks to one hospital's own reservation service. Its base URL
// already points at the hospital's categories root.
type ForwardClient struct {
	*backendClient
}

func NewForwardClient(name, baseURL string, timeout time.Duration) *ForwardClient {
	return &ForwardClient{newBackendClient(name, baseURL, timeout)}
}

func (c *ForwardClient) ForwardReservation(ctx context.Context, category string,
	reservation models.HospitalReservation) (models.Appointment, error) {

	var appt models.Appointment
	err := c.call(ctx, http.MethodPost, fmt.Sprintf("/%s/reserve", url.PathEscape(category)), reservation, &appt)
	return appt, err
}
