package models

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func init() {
	// Fees travel as JSON numbers in both directions.
	decimal.MarshalJSONWithoutQuotes = true
}

// Patient is the patient shape shared by every downstream call and response.
type Patient struct {
	Name    string `json:"name"`
	DOB     string `json:"dob"`
	SSN     string `json:"ssn"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// InboundPatient is the patient as it arrives on a reservation. CardNo is only
// ever forwarded to the payment backend.
type InboundPatient struct {
	Patient
	CardNo string `json:"cardNo,omitempty"`
}

// ReservationRequest is the inbound payload for both the orchestrator and the router.
type ReservationRequest struct {
	Patient         InboundPatient `json:"patient"`
	Doctor          string         `json:"doctor"`
	HospitalID      string         `json:"hospital_id"`
	Hospital        string         `json:"hospital"`
	AppointmentDate string         `json:"appointment_date"`
}

// Bind rejects a reservation that lacks any field the hospitals need to book it.
func (req *ReservationRequest) Bind(r *http.Request) error {
	required := []struct {
		name, value string
	}{
		{"patient.name", req.Patient.Name},
		{"doctor", req.Doctor},
		{"hospital_id", req.HospitalID},
		{"hospital", req.Hospital},
		{"appointment_date", req.AppointmentDate},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return errors.Errorf("missing required field %s", f.name)
		}
	}
	return nil
}

// HospitalReservation is the body posted to a hospital's reserve endpoint.
type HospitalReservation struct {
	Patient         Patient `json:"patient"`
	Doctor          string  `json:"doctor"`
	Hospital        string  `json:"hospital"`
	AppointmentDate string  `json:"appointment_date"`
}

type Doctor struct {
	Name         string          `json:"name"`
	Hospital     string          `json:"hospital"`
	Category     string          `json:"category"`
	Availability string          `json:"availability"`
	Fee          decimal.Decimal `json:"fee"`
}

// Appointment is returned by a hospital once a reservation is accepted.
type Appointment struct {
	AppointmentNumber int             `json:"appointmentNumber"`
	Doctor            Doctor          `json:"doctor"`
	Patient           Patient         `json:"patient"`
	Fee               decimal.Decimal `json:"fee"`
	Confirmed         bool            `json:"confirmed"`
	Hospital          string          `json:"hospital"`
	AppointmentDate   string          `json:"appointmentDate"`
}

// Fee is returned by the fee lookup. ActualFee is a number encoded as a string.
type Fee struct {
	PatientName string `json:"patientName"`
	DoctorName  string `json:"doctorName"`
	ActualFee   string `json:"actualFee"`
}

// PaymentRequest is the body submitted to the payment backend.
type PaymentRequest struct {
	AppointmentNumber int             `json:"appointmentNumber"`
	Doctor            Doctor          `json:"doctor"`
	Patient           Patient         `json:"patient"`
	Fee               decimal.Decimal `json:"fee"`
	Confirmed         bool            `json:"confirmed"`
	CardNumber        string          `json:"card_number"`
}

// ReservationStatus is the settled payment, returned to the caller as-is.
// When decoded from the payment service the original document is kept and
// written back unchanged.
type ReservationStatus struct {
	AppointmentNo int             `json:"appointmentNo"`
	DoctorName    string          `json:"doctorName"`
	Patient       string          `json:"patient"`
	ActualFee     decimal.Decimal `json:"actualFee"`
	Discount      int             `json:"discount"`
	Discounted    decimal.Decimal `json:"discounted"`
	PaymentID     string          `json:"paymentID"`
	Status        string          `json:"status"`

	raw json.RawMessage
}

type plainStatus ReservationStatus

func (s *ReservationStatus) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var p plainStatus
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = ReservationStatus(p)
	s.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (s ReservationStatus) MarshalJSON() ([]byte, error) {
	if len(s.raw) > 0 {
		return s.raw, nil
	}
	return json.Marshal(plainStatus(s))
}
