package client_test

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/CMSgov/healthcare-facade/facade/client"
	"github.com/CMSgov/healthcare-facade/facade/constants"
	facadeErrors "github.com/CMSgov/healthcare-facade/facade/errors"
	"github.com/CMSgov/healthcare-facade/facade/models"
)

type ClientTestSuite struct {
	suite.Suite
	ts        *httptest.Server
	hospital  *client.HospitalClient
	payment   *client.PaymentClient
	forward   *client.ForwardClient
	received  models.HospitalReservation
	payReq    models.PaymentRequest
	requestID string
}

func (s *ClientTestSuite) SetupTest() {
	s.received = models.HospitalReservation{}
	s.payReq = models.PaymentRequest{}
	s.requestID = ""

	router := chi.NewRouter()
	router.Post("/hospital/{hospitalID}/categories/{category}/reserve", func(w http.ResponseWriter, r *http.Request) {
		s.requestID = r.Header.Get(constants.RequestIDHeader)
		if chi.URLParam(r, "hospitalID") != "grandoaks" || chi.URLParam(r, "category") != "surgery" {
			http.Error(w, "Invalid hospital, doctor or category", http.StatusBadRequest)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&s.received); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"appointmentNumber": 1, "doctor": {"name": "thomas collins", "fee": 7000.0},
			"patient": {"name": "John Doe"}, "fee": 7000.0, "confirmed": false,
			"hospital": "grand oak community hospital", "appointmentDate": "2023-10-02"}`)
	})
	router.Get("/hospital/{hospitalID}/categories/appointments/{appointmentNumber}/fee", func(w http.ResponseWriter, r *http.Request) {
		switch chi.URLParam(r, "appointmentNumber") {
		case "1":
			// Some hospital services prefix their JSON with a byte order mark
			fmt.Fprint(w, "\xef\xbb\xbf"+`{"patientName": "John Doe", "doctorName": "thomas collins", "actualFee": "7000.0"}`)
		case "2":
			fmt.Fprint(w, `{"patientName": `)
		default:
			http.Error(w, "Invalid appointment ID", http.StatusNotFound)
		}
	})
	router.Post("/payment/", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&s.payReq); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"appointmentNo": 1, "doctorName": "thomas collins", "patient": "John Doe",
			"actualFee": 7000.0, "discount": 20, "discounted": 5600.0,
			"paymentID": "480fead2-e592-4791-941b-12c0a8d4a10c", "status": "settled"}`)
	})
	router.Post("/grandoaks/categories/{category}/reserve", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "category") == "broken" {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"appointmentNumber": 7, "hospital": "grand oak community hospital"}`)
	})
	s.ts = httptest.NewServer(router)

	s.hospital = client.NewHospitalClient(s.ts.URL+"/hospital", 5*time.Second)
	s.payment = client.NewPaymentClient(s.ts.URL+"/payment", 5*time.Second)
	s.forward = client.NewForwardClient(constants.GrandOakBackend, s.ts.URL+"/grandoaks/categories/", 5*time.Second)
}

func (s *ClientTestSuite) TearDownTest() {
	s.ts.Close()
}

func (s *ClientTestSuite) TestReserveAppointment() {
	reservation := models.HospitalReservation{
		Patient:         models.Patient{Name: "John Doe", SSN: "234-23-525"},
		Doctor:          "thomas collins",
		Hospital:        "grand oak community hospital",
		AppointmentDate: "2023-10-02",
	}

	appt, err := s.hospital.ReserveAppointment(context.Background(), "grandoaks", "surgery", reservation)
	s.NoError(err)
	s.Equal(1, appt.AppointmentNumber)
	s.True(appt.Fee.Equal(decimal.NewFromInt(7000)))
	s.Equal("thomas collins", appt.Doctor.Name)
	s.Equal(reservation, s.received)
	s.NotEmpty(s.requestID)
}

func (s *ClientTestSuite) TestReserveAppointmentPropagatesRequestID() {
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "inbound-id-1")

	_, err := s.hospital.ReserveAppointment(ctx, "grandoaks", "surgery", models.HospitalReservation{})
	s.NoError(err)
	s.Equal("inbound-id-1", s.requestID)
}

func (s *ClientTestSuite) TestReserveAppointmentRejected() {
	_, err := s.hospital.ReserveAppointment(context.Background(), "unknown", "surgery", models.HospitalReservation{})

	var reqErr *facadeErrors.RequestError
	s.True(goerrors.As(err, &reqErr), "expected RequestError, got %v", err)
	s.Equal(http.StatusBadRequest, reqErr.StatusCode)
	s.Equal(constants.HospitalBackend, reqErr.Backend)
	s.Equal("Invalid hospital, doctor or category", reqErr.Body)
}

func (s *ClientTestSuite) TestGetFeeSkipsBOM() {
	fee, err := s.hospital.GetFee(context.Background(), "grandoaks", 1)
	s.NoError(err)
	s.Equal("7000.0", fee.ActualFee)
	s.Equal("John Doe", fee.PatientName)
}

func (s *ClientTestSuite) TestGetFeeUnknownAppointment() {
	_, err := s.hospital.GetFee(context.Background(), "grandoaks", 99)

	var reqErr *facadeErrors.RequestError
	s.True(goerrors.As(err, &reqErr))
	s.Equal(http.StatusNotFound, reqErr.StatusCode)
}

func (s *ClientTestSuite) TestGetFeeMalformedBody() {
	_, err := s.hospital.GetFee(context.Background(), "grandoaks", 2)

	var backendErr *facadeErrors.BackendError
	s.True(goerrors.As(err, &backendErr))
	s.Equal(http.StatusOK, backendErr.StatusCode)
	s.Contains(backendErr.Error(), "failed to decode response body")
}

func (s *ClientTestSuite) TestSubmitPayment() {
	payment := models.PaymentRequest{
		AppointmentNumber: 1,
		Fee:               decimal.NewFromInt(7000),
		CardNumber:        "7844481124110331",
	}

	status, err := s.payment.SubmitPayment(context.Background(), payment)
	s.NoError(err)
	s.Equal("settled", status.Status)
	s.Equal(20, status.Discount)
	s.True(status.Discounted.Equal(decimal.NewFromInt(5600)))
	s.Equal("7844481124110331", s.payReq.CardNumber)
	s.False(s.payReq.Confirmed)
}

func (s *ClientTestSuite) TestForwardReservation() {
	appt, err := s.forward.ForwardReservation(context.Background(), "surgery", models.HospitalReservation{})
	s.NoError(err)
	s.Equal(7, appt.AppointmentNumber)
}

func (s *ClientTestSuite) TestForwardReservationServerError() {
	_, err := s.forward.ForwardReservation(context.Background(), "broken", models.HospitalReservation{})

	var backendErr *facadeErrors.BackendError
	s.True(goerrors.As(err, &backendErr))
	s.Equal(http.StatusServiceUnavailable, backendErr.StatusCode)
	s.Contains(err.Error(), "database unavailable")

	var reqErr *facadeErrors.RequestError
	s.False(goerrors.As(err, &reqErr))
}

func (s *ClientTestSuite) TestPing() {
	s.NoError(s.hospital.Ping(context.Background()))
	s.Equal(constants.HospitalBackend, s.hospital.Name())
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func TestConnectionFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	payment := client.NewPaymentClient(url, time.Second)
	_, err := payment.SubmitPayment(context.Background(), models.PaymentRequest{})

	var backendErr *facadeErrors.BackendError
	assert.True(t, goerrors.As(err, &backendErr))
	assert.Equal(t, 0, backendErr.StatusCode)
	assert.Equal(t, constants.PaymentBackend, backendErr.Backend)
	assert.Error(t, payment.Ping(context.Background()))
}
