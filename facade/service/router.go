package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/CMSgov/healthcare-facade/facade/client"
	"github.com/CMSgov/healthcare-facade/facade/constants"
	facadeErrors "github.com/CMSgov/healthcare-facade/facade/errors"
	"github.com/CMSgov/healthcare-facade/facade/mapper"
	"github.com/CMSgov/healthcare-facade/facade/models"
	"github.com/CMSgov/healthcare-facade/log"
)

// Backends holds one reservation client per hospital the router knows about.
type Backends struct {
	GrandOak   client.ReservationAPI
	Clemency   client.ReservationAPI
	PineValley client.ReservationAPI
}

// SelectBackend matches the hospital id exactly. Anything unrecognised goes to
// Pine Valley.
func (b Backends) SelectBackend(hospitalID string) (string, client.ReservationAPI) {
	switch hospitalID {
	case constants.GrandOakID:
		return constants.GrandOakBackend, b.GrandOak
	case constants.ClemencyID:
		return constants.ClemencyBackend, b.Clemency
	default:
		return constants.PineValleyBackend, b.PineValley
	}
}

// RoutingService forwards a reservation to the hospital named in the request.
type RoutingService struct {
	backends Backends
}

func NewRoutingService(backends Backends) *RoutingService {
	return &RoutingService{backends: backends}
}

func (s *RoutingService) Route(ctx context.Context, category string, req models.ReservationRequest) (models.Appointment, error) {
	name, backend := s.backends.SelectBackend(req.HospitalID)
	fields := logrus.Fields{
		"category": category,
		"doctor":   req.Doctor,
		"patient":  req.Patient.Name,
		"hospital": req.HospitalID,
		"backend":  name,
	}

	appt, err := backend.ForwardReservation(ctx, category, mapper.HospitalReservation(req))
	if err != nil {
		return models.Appointment{}, stepFailed(ctx, facadeErrors.StepForward, err, fields)
	}
	fields["appointment_number"] = appt.AppointmentNumber
	log.WriteInfoWithFields(ctx, "reservation forwarded", fields)

	return appt, nil
}
