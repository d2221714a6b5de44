package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

// seeder populates a running server with demo data through the public
// API so the same validation and booking rules apply as in normal use.
type seeder struct {
	client *resty.Client
}

type carPayload struct {
	Make          string `json:"make"`
	Model         string `json:"model"`
	Year          int    `json:"year"`
	Mileage       int    `json:"mileage"`
	Registration  string `json:"registration"`
	OwnerName     string `json:"owner_name"`
	OwnerContact  string `json:"owner_contact"`
	ServiceDue    string `json:"service_due,omitempty"`
	TaxDate       string `json:"tax_date,omitempty"`
	InsuranceDate string `json:"insurance_date,omitempty"`
}

type rentalPayload struct {
	CarID        string  `json:"car_id"`
	RentalDate   string  `json:"rental_date"`
	ReturnDate   string  `json:"return_date"`
	RentalFee    float64 `json:"rental_fee"`
	CustomerName string  `json:"customer_name"`
	RentalType   string  `json:"rental_type"`
	Note         string  `json:"note,omitempty"`
}

var fleet = []carPayload{
	{Make: "Toyota", Model: "Corolla", Year: 2021, Mileage: 42000, Registration: "KVR 101", OwnerName: "Eleni Georgiou", OwnerContact: "+357 99 111222"},
	{Make: "Volkswagen", Model: "Golf", Year: 2020, Mileage: 61000, Registration: "KVR 102", OwnerName: "Andreas Christou", OwnerContact: "+357 99 333444"},
	{Make: "Nissan", Model: "Qashqai", Year: 2022, Mileage: 23000, Registration: "KVR 103", OwnerName: "Maria Ioannou", OwnerContact: "+357 99 555666"},
	{Make: "Hyundai", Model: "i20", Year: 2019, Mileage: 88000, Registration: "KVR 104", OwnerName: "Costas Petrou", OwnerContact: "+357 99 777888"},
	{Make: "Kia", Model: "Sportage", Year: 2023, Mileage: 9000, Registration: "KVR 105", OwnerName: "Eleni Georgiou", OwnerContact: "+357 99 111222"},
}

var customers = []string{
	"John Smith", "Anna Müller", "Pierre Dubois", "Yuki Tanaka",
	"Olga Petrova", "Liam O'Brien", "Sofia Rossi", "Erik Andersen",
}

func (s *seeder) login(username, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	resp, err := s.client.R().
		SetBody(map[string]string{"username": username, "password": password}).
		SetResult(&out).
		Post("/auth/login")
	if err != nil {
		return err
	}

	if resp.IsError() {
		// First run against a fresh database: register the account.
		resp, err = s.client.R().
			SetBody(map[string]string{
				"username":   username,
				"password":   password,
				"email":      username + "@example.com",
				"role":       "admin",
				"first_name": "Seed",
				"last_name":  "Admin",
			}).
			SetResult(&out).
			Post("/auth/register")
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("registration failed with status %s", resp.Status())
		}
	}

	s.client.SetAuthToken(out.Token)
	return nil
}

func (s *seeder) createCar(payload carPayload) (string, error) {
	var out struct {
		Car struct {
			ID string `json:"id"`
		} `json:"car"`
	}
	resp, err := s.client.R().SetBody(payload).SetResult(&out).Post("/cars")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("car creation failed with status %s", resp.Status())
	}
	return out.Car.ID, nil
}

func (s *seeder) createRental(payload rentalPayload) error {
	resp, err := s.client.R().SetBody(payload).Post("/rentals")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("rental creation failed with status %s", resp.Status())
	}
	return nil
}

func (s *seeder) createReminder(title, date, priority string) error {
	resp, err := s.client.R().
		SetBody(map[string]string{
			"title":    title,
			"date":     date,
			"priority": priority,
			"category": "business",
		}).
		Post("/reminders")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("reminder creation failed with status %s", resp.Status())
	}
	return nil
}

func day(offset int) string {
	return time.Now().AddDate(0, 0, offset).Format("2006-01-02")
}

func main() {
	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	rentalCount := 8
	if v := os.Getenv("SEED_RENTALS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rentalCount = n
		}
	}

	username := os.Getenv("SEED_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "changeme123"
	}

	s := &seeder{
		client: resty.New().
			SetBaseURL(apiURL).
			SetTimeout(10 * time.Second),
	}

	log.WithField("api_url", apiURL).Info("Seeding demo data")

	if err := s.login(username, password); err != nil {
		log.WithError(err).Fatal("Failed to authenticate")
	}

	carIDs := make([]string, 0, len(fleet))
	for i, car := range fleet {
		car.ServiceDue = day(20 + i*15)
		car.TaxDate = day(45 + i*10)
		car.InsuranceDate = day(90 + i*5)

		id, err := s.createCar(car)
		if err != nil {
			log.WithError(err).WithField("registration", car.Registration).Error("Failed to create car")
			continue
		}
		carIDs = append(carIDs, id)
		log.WithFields(log.Fields{"car_id": id, "registration": car.Registration}).Info("Created car")
	}
	if len(carIDs) == 0 {
		log.Fatal("No cars created. Is the server running?")
	}

	created := 0
	for i := 0; i < rentalCount; i++ {
		carID := carIDs[i%len(carIDs)]
		start := i * 9
		payload := rentalPayload{
			CarID:        carID,
			RentalDate:   day(start),
			ReturnDate:   day(start + 3 + rand.Intn(5)),
			RentalFee:    float64(120 + rand.Intn(300)),
			CustomerName: customers[rand.Intn(len(customers))],
			RentalType:   "rental",
		}
		if i%3 == 0 {
			payload.RentalType = "reservation"
			payload.Note = "Booked by phone"
		}

		if err := s.createRental(payload); err != nil {
			log.WithError(err).WithField("car_id", carID).Error("Failed to create rental")
			continue
		}
		created++
	}
	log.WithField("rentals", created).Info("Created rentals")

	reminders := []struct{ title, date, priority string }{
		{"Renew trade licence", day(25), "high"},
		{"Quarterly accounts to bookkeeper", day(40), "medium"},
		{"Replace office fire extinguisher", day(120), "low"},
	}
	for _, r := range reminders {
		if err := s.createReminder(r.title, r.date, r.priority); err != nil {
			log.WithError(err).WithField("title", r.title).Error("Failed to create reminder")
			continue
		}
	}

	log.Info("Seeding completed")
}
