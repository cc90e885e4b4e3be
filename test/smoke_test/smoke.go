package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/CMSgov/healthcare-facade/facade/models"
)

var (
	apiHost, proto, category, hospitalID, mode string
	timeout                                    int
)

func init() {
	flag.StringVar(&apiHost, "host", "localhost:8290", "host to send requests to")
	flag.StringVar(&proto, "proto", "http", "protocol to use")
	flag.StringVar(&category, "category", "surgery", "doctor category to reserve in")
	flag.StringVar(&hospitalID, "hospital_id", "grandoaks", "hospital to reserve with")
	flag.StringVar(&mode, "mode", "orchestrator", "which listener is under test: orchestrator or router")
	flag.IntVar(&timeout, "timeout", 30, "seconds to wait for each request")
	flag.Parse()

	log.SetReportCaller(true)
}

func main() {
	c := &http.Client{Timeout: time.Duration(timeout) * time.Second}

	if err := checkOperational(c, "/_version"); err != nil {
		log.Errorf("Version check failed %s", err.Error())
		os.Exit(1)
	}
	if err := checkOperational(c, "/_health"); err != nil {
		log.Errorf("Health check failed %s", err.Error())
		os.Exit(1)
	}

	body, err := reserve(c)
	if err != nil {
		log.Errorf("Failed to reserve appointment %s", err.Error())
		os.Exit(1)
	}
	if err := validate(body); err != nil {
		log.Errorf("Failed to validate reservation %s", err.Error())
		os.Exit(1)
	}
	log.Infof("Finished %s smoke test against %s", mode, apiHost)
}

func checkOperational(c *http.Client, path string) error {
	resp, err := c.Get(fmt.Sprintf("%s://%s%s", proto, apiHost, path))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s has unexpected response code received %d, body '%s'", path, resp.StatusCode, body)
	}
	log.Infof("%s: %s", path, body)
	return nil
}

func reserve(c *http.Client) ([]byte, error) {
	req := models.ReservationRequest{
		Patient: models.InboundPatient{
			Patient: models.Patient{
				Name:    "John Doe",
				DOB:     "1940-03-19",
				SSN:     "234-23-525",
				Address: "California",
				Phone:   "8770586755",
				Email:   "johndoe@gmail.com",
			},
			CardNo: "7844481124110331",
		},
		Doctor:          "thomas collins",
		HospitalID:      hospitalID,
		Hospital:        "grand oak community hospital",
		AppointmentDate: time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s://%s/healthcare/categories/%s/reserve", proto, apiHost, category)
	resp, err := c.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("request %s has unexpected response code received %d, body '%s'",
			url, resp.StatusCode, body)
	}
	return body, nil
}

func validate(body []byte) error {
	if mode == "router" {
		var appt models.Appointment
		if err := json.Unmarshal(body, &appt); err != nil {
			return err
		}
		if appt.AppointmentNumber == 0 {
			return fmt.Errorf("appointment number missing from %s", body)
		}
		log.Infof("Reserved appointment %d at %s", appt.AppointmentNumber, appt.Hospital)
		return nil
	}

	var status models.ReservationStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return err
	}
	if status.PaymentID == "" || status.Status == "" {
		return fmt.Errorf("payment not settled: %s", body)
	}
	log.Infof("Appointment %d settled with payment %s (%s)", status.AppointmentNo, status.PaymentID, status.Status)
	return nil
}
