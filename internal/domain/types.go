package domain

import "time"

// Entry is one logged food donation. ID and CreatedAt are assigned by the
// ledger service at creation and never change afterwards.
type Entry struct {
	ID            string    `json:"id"`
	FoodType      string    `json:"foodType"`
	ItemName      string    `json:"itemName"`
	Quantity      float64   `json:"quantity"`
	Unit          string    `json:"unit"`
	ExpiryDate    string    `json:"expiryDate"` // YYYY-MM-DD, empty when unknown
	Donor         string    `json:"donor"`
	VolunteerName string    `json:"volunteerName"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Alert is a near-expiry notification. It snapshots the triggering entry's
// fields at generation time and is never updated afterwards.
type Alert struct {
	ID         string    `json:"id"`
	EntryID    string    `json:"entryId"`
	FoodType   string    `json:"foodType"`
	ItemName   string    `json:"itemName"`
	Quantity   float64   `json:"quantity"`
	Unit       string    `json:"unit"`
	ExpiryDate string    `json:"expiryDate"`
	Donor      string    `json:"donor"`
	CreatedAt  time.Time `json:"createdAt"`
	Message    string    `json:"message"`
}
