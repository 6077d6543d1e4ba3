package models

import "time"

// Project is a development containing multiple units. Projects are fetched
// from the store and never written by this application.
type Project struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ProjectNumber string    `json:"project_number"`
	CreatedAt     time.Time `json:"created_at"`
}

// Sentinel display values used when a unit's project cannot be resolved.
const (
	UnknownProjectName   = "غير معروف"
	UnknownProjectNumber = "-"
)
