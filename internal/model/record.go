package model

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire and storage format of calendar dates
const DateLayout = "2006-01-02"

// Record is one inspection tour entry.
// RecordNumber is assigned by a database sequence and is the human-facing identifier.
type Record struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RecordNumber   int64      `gorm:"autoIncrement;uniqueIndex;not null" json:"recordNumber"`
	OutgoingNumber string     `gorm:"type:varchar(100);not null;index" json:"outgoingNumber"`
	FirstName      string     `gorm:"type:varchar(100);not null" json:"firstName"`
	SecondName     string     `gorm:"type:varchar(100);not null" json:"secondName"`
	ThirdName      string     `gorm:"type:varchar(100);not null" json:"thirdName"`
	FourthName     string     `gorm:"type:varchar(100);not null" json:"fourthName"`
	TourDate       time.Time  `gorm:"type:date;not null;index" json:"tourDate"`
	Rank           string     `gorm:"type:varchar(100);not null;index" json:"rank"`
	Governorate    string     `gorm:"type:varchar(100);not null;index" json:"governorate"`
	MilitaryNumber string     `gorm:"type:varchar(100)" json:"militaryNumber"`
	ActionType     string     `gorm:"type:varchar(255)" json:"actionType"`
	Ports          string     `gorm:"type:text" json:"ports"`
	RecordedNotes  string     `gorm:"type:text" json:"recordedNotes"`
	Office         string     `gorm:"type:varchar(255);index" json:"office"`
	PoliceStation  string     `gorm:"type:varchar(255);index" json:"policeStation"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid;index" json:"createdBy,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// FullName joins the four name parts
func (r Record) FullName() string {
	return r.FirstName + " " + r.SecondName + " " + r.ThirdName + " " + r.FourthName
}
