package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/CMSgov/healthcare-facade/facade/constants"
	"github.com/CMSgov/healthcare-facade/facade/models"
)

// HospitalAPI is the hospital service used by the reservation orchestrator.
type HospitalAPI interface {
	ReserveAppointment(ctx context.Context, hospitalID, category string, reservation models.HospitalReservation) (models.Appointment, error)
	GetFee(ctx context.Context, hospitalID string, appointmentNumber int) (models.Fee, error)
}

type HospitalClient struct {
	*backendClient
}

func NewHospitalClient(baseURL string, timeout time.Duration) *HospitalClient {
	return &HospitalClient{newBackendClient(constants.HospitalBackend, baseURL, timeout)}
}

func (c *HospitalClient) ReserveAppointment(ctx context.Context, hospitalID, category string,
	reservation models.HospitalReservation) (models.Appointment, error) {

	var appt models.Appointment
	path := fmt.Sprintf("/%s/categories/%s/reserve", url.PathEscape(hospitalID), url.PathEscape(category))
	err := c.call(ctx, http.MethodPost, path, reservation, &appt)
	return appt, err
}

func (c *HospitalClient) GetFee(ctx context.Context, hospitalID string, appointmentNumber int) (models.Fee, error) {
	var fee models.Fee
	path := fmt.Sprintf("/%s/categories/appointments/%d/fee", url.PathEscape(hospitalID), appointmentNumber)
	err := c.call(ctx, http.MethodGet, path, nil, &fee)
	return fee, err
}
