// Package mapper builds the downstream request bodies out of an inbound reservation.
package mapper

import (
	"strings"

	"github.com/shopspring/decimal"

	facadeErrors "github.com/CMSgov/healthcare-facade/facade/errors"
	"github.com/CMSgov/healthcare-facade/facade/models"
)

// HospitalReservation strips the card number from the inbound request.
func HospitalReservation(req models.ReservationRequest) models.HospitalReservation {
	return models.HospitalReservation{
		Patient:         req.Patient.Patient,
		Doctor:          req.Doctor,
		Hospital:        req.Hospital,
		AppointmentDate: req.AppointmentDate,
	}
}

// ParseFee reads the decimal amount out of a fee lookup.
func ParseFee(fee models.Fee) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(fee.ActualFee))
	if err != nil {
		return decimal.Decimal{}, &facadeErrors.FeeParseError{Value: fee.ActualFee, Err: err}
	}
	return amount, nil
}

// PaymentRequest is always sent unconfirmed; the payment service settles it.
func PaymentRequest(appt models.Appointment, fee decimal.Decimal, cardNo string) models.PaymentRequest {
	return models.PaymentRequest{
		AppointmentNumber: appt.AppointmentNumber,
		Doctor:            appt.Doctor,
		Patient:           appt.Patient,
		Fee:               fee,
		Confirmed:         false,
		CardNumber:        cardNo,
	}
}
