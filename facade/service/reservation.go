package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/CMSgov/healthcare-facade/facade/client"
	facadeErrors "github.com/CMSgov/healthcare-facade/facade/errors"
	"github.com/CMSgov/healthcare-facade/facade/mapper"
	"github.com/CMSgov/healthcare-facade/facade/models"
	"github.com/CMSgov/healthcare-facade/log"
)

// ReservationService books an appointment and settles its payment. Each step
// depends on the previous one, so the first failure ends the flow.
type ReservationService struct {
	hospital client.HospitalAPI
	payment  client.PaymentAPI
}

func NewReservationService(hospital client.HospitalAPI, payment client.PaymentAPI) *ReservationService {
	return &ReservationService{hospital: hospital, payment: payment}
}

func (s *ReservationService) Reserve(ctx context.Context, category string,
	req models.ReservationRequest) (models.ReservationStatus, error) {

	fields := logrus.Fields{
		"category": category,
		"doctor":   req.Doctor,
		"patient":  req.Patient.Name,
		"hospital": req.HospitalID,
	}

	appt, err := s.hospital.ReserveAppointment(ctx, req.HospitalID, category, mapper.HospitalReservation(req))
	if err != nil {
		return models.ReservationStatus{}, stepFailed(ctx, facadeErrors.StepReserve, err, fields)
	}
	fields["appointment_number"] = appt.AppointmentNumber
	ctx = trace(ctx, "appointment reserved", fields)

	fee, err := s.hospital.GetFee(ctx, req.HospitalID, appt.AppointmentNumber)
	if err != nil {
		return models.ReservationStatus{}, stepFailed(ctx, facadeErrors.StepFee, err, fields)
	}
	ctx = trace(ctx, "fee retrieved", fields)

	amount, err := mapper.ParseFee(fee)
	if err != nil {
		return models.ReservationStatus{}, stepFailed(ctx, facadeErrors.StepFee, err, fields)
	}

	status, err := s.payment.SubmitPayment(ctx, mapper.PaymentRequest(appt, amount, req.Patient.CardNo))
	if err != nil {
		return models.ReservationStatus{}, stepFailed(ctx, facadeErrors.StepPayment, err, fields)
	}
	trace(ctx, "payment settled", fields)

	return status, nil
}

// trace records a completed step. The fields stay on the request logger, so
// the access log line for the request carries them too.
func trace(ctx context.Context, msg string, fields logrus.Fields) context.Context {
	ctx, _ = log.WriteDebugWithFields(ctx, msg, fields)
	return ctx
}

func stepFailed(ctx context.Context, step string, err error, fields logrus.Fields) error {
	failed := logrus.Fields{"step": step, logrus.ErrorKey: err}
	for k, v := range fields {
		failed[k] = v
	}
	log.WriteErrorWithFields(ctx, "reservation step failed", failed)
	return &facadeErrors.StepError{Step: step, Err: errors.WithStack(err)}
}
