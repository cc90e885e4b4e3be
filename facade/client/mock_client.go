package client

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/CMSgov/healthcare-facade/facade/models"
)

type MockHospitalClient struct {
	mock.Mock
}

func (m *MockHospitalClient) ReserveAppointment(ctx context.Context, hospitalID, category string,
	reservation models.HospitalReservation) (models.Appointment, error) {
	args := m.Called(ctx, hospitalID, category, reservation)
	return args.Get(0).(models.Appointment), args.Error(1)
}

func (m *MockHospitalClient) GetFee(ctx context.Context, hospitalID string, appointmentNumber int) (models.Fee, error) {
	args := m.Called(ctx, hospitalID, appointmentNumber)
	return args.Get(0).(models.Fee), args.Error(1)
}

type MockPaymentClient struct {
	mock.Mock
}

func (m *MockPaymentClient) SubmitPayment(ctx context.Context, payment models.PaymentRequest) (models.ReservationStatus, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(models.ReservationStatus), args.Error(1)
}

type MockReservationClient struct {
	mock.Mock
}

func (m *MockReservationClient) ForwardReservation(ctx context.Context, category string,
	reservation models.HospitalReservation) (models.Appointment, error) {
	args := m.Called(ctx, category, reservation)
	return args.Get(0).(models.Appointment), args.Error(1)
}
