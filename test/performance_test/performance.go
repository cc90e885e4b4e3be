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

	"github.com/Pallinder/go-randomdata"
	vegeta "github.com/tsenart/vegeta/lib"
	"github.com/tsenart/vegeta/lib/plot"

	"github.com/CMSgov/healthcare-facade/facade/models"
)

var (
	apiHost, proto, category, reportFilePath string
	freq, duration                           int
	hospitalIDs                              = []string{"grandoaks", "clemency", "pinevalley"}
)

func init() {
	flag.StringVar(&apiHost, "host", "localhost:8290", "host to send requests to")
	flag.IntVar(&duration, "duration", 60, "seconds: the total time to run the test")
	flag.IntVar(&freq, "freq", 10, "the number of requests per second")
	flag.StringVar(&proto, "proto", "http", "protocol to use")
	flag.StringVar(&category, "category", "surgery", "doctor category to reserve in")
	flag.StringVar(&reportFilePath, "report_path", "../../test_results/performance", "path to write the result.html")
	flag.Parse()

	// create folder if doesn't exist for storing the results
	if _, err := os.Stat(reportFilePath); os.IsNotExist(err) {
		err := os.MkdirAll(reportFilePath, os.ModePerm)
		if err != nil {
			panic(err)
		}
	}
}

func main() {
	results := runReserveTest(makeTargeter())
	var buf bytes.Buffer
	_, err := results.WriteTo(&buf)
	if err != nil {
		panic(err)
	}
	writeResults(fmt.Sprintf("reserve_%s_plot", category), buf)
}

// makeTargeter sends a freshly generated patient on every hit.
func makeTargeter() vegeta.Targeter {
	url := fmt.Sprintf("%s://%s/healthcare/categories/%s/reserve", proto, apiHost, category)
	header := http.Header{
		"Content-Type": {"application/json"},
		"Accept":       {"application/json"},
	}

	return func(tgt *vegeta.Target) error {
		body, err := json.Marshal(randomReservation())
		if err != nil {
			return err
		}
		tgt.Method = http.MethodPost
		tgt.URL = url
		tgt.Header = header
		tgt.Body = body
		return nil
	}
}

func randomReservation() models.ReservationRequest {
	return models.ReservationRequest{
		Patient: models.InboundPatient{
			Patient: models.Patient{
				Name:    randomdata.FullName(randomdata.RandomGender),
				DOB:     randomdata.FullDateInRange("1930-01-01", "2005-12-31"),
				SSN:     randomdata.StringNumberExt(3, "-", 3),
				Address: randomdata.Address(),
				Phone:   randomdata.PhoneNumber(),
				Email:   randomdata.Email(),
			},
			CardNo: randomdata.StringNumberExt(4, "", 4),
		},
		Doctor:          "thomas collins",
		HospitalID:      randomdata.StringSample(hospitalIDs...),
		Hospital:        "grand oak community hospital",
		AppointmentDate: time.Now().AddDate(0, 0, randomdata.Number(1, 60)).Format("2006-01-02"),
	}
}

func runReserveTest(target vegeta.Targeter) *plot.Plot {
	fmt.Printf("running reserve performance for: %s\n", category)
	title := plot.Title(fmt.Sprintf("reserveTest_%s", category))
	p := plot.New(title)
	defer p.Close()

	// 10 request every second for 60 seconds = 600 total calls
	d := time.Second * time.Duration(duration)
	rate := vegeta.Rate{Freq: freq, Per: time.Second}
	plotAttack(p, target, rate, d)

	return p
}

func plotAttack(p *plot.Plot, t vegeta.Targeter, r vegeta.Rate, du time.Duration) {
	attacker := vegeta.NewAttacker()
	for results := range attacker.Attack(t, r, du, fmt.Sprintf("%dps:", r.Freq)) {
		err := p.Add(results)
		if err != nil {
			panic(err)
		}
	}
}

func writeResults(filename string, buf bytes.Buffer) {
	data := buf.Bytes()
	if len(data) > 0 {
		fn := fmt.Sprintf("%s/%s.html", reportFilePath, filename)
		fmt.Printf("Writing results: %s\n", fn)
		err := ioutil.WriteFile(fn, data, 0644)
		if err != nil {
			panic(err)
		}
	}
}
