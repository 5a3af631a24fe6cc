package model

import (
	"time"

	"github.com/google/uuid"
)

// PoliceStation is a lookup entry referenced by name from Record.PoliceStation
type PoliceStation struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Governorate string    `gorm:"type:varchar(100)" json:"governorate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Port is a lookup entry referenced by name from Record.Ports
type Port struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Governorate string    `gorm:"type:varchar(100)" json:"governorate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Apply sets the supplied fields; nil leaves a field unchanged
func (p *PoliceStation) Apply(name, governorate *string) {
	if name != nil {
		p.Name = *name
	}
	if governorate != nil {
		p.Governorate = *governorate
	}
}

func (p *PoliceStation) Identity() (uuid.UUID, string) { return p.ID, p.Name }

// Apply sets the supplied fields; nil leaves a field unchanged
func (p *Port) Apply(name, governorate *string) {
	if name != nil {
		p.Name = *name
	}
	if governorate != nil {
		p.Governorate = *governorate
	}
}

func (p *Port) Identity() (uuid.UUID, string) { return p.ID, p.Name }
