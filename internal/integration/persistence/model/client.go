// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealership/backoffice/internal/domain/entity"
)

// ClientModel represents the clients table in the database.
type ClientModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name               string          `gorm:"type:varchar(255);not null"`
	Document           string          `gorm:"type:varchar(50);index"`
	RatingLabel        string          `gorm:"type:varchar(50);not null;default:'UNRATED'"`
	AccumulatedArrears decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CreatedAt          time.Time       `gorm:"not null"`
	UpdatedAt          time.Time       `gorm:"not null"`
}

// TableName returns the table name for the ClientModel.
func (ClientModel) TableName() string {
	return "clients"
}

// ToEntity converts a ClientModel to a domain Client entity.
func (m *ClientModel) ToEntity() *entity.Client {
	return &entity.Client{
		ID:                 m.ID,
		Name:               m.Name,
		Document:           m.Document,
		RatingLabel:        m.RatingLabel,
		AccumulatedArrears: m.AccumulatedArrears,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// ClientFromEntity creates a ClientModel from a domain Client entity.
func ClientFromEntity(client *entity.Client) *ClientModel {
	return &ClientModel{
		ID:                 client.ID,
		Name:               client.Name,
		Document:           client.Document,
		RatingLabel:        client.RatingLabel,
		AccumulatedArrears: client.AccumulatedArrears,
		CreatedAt:          client.CreatedAt,
		UpdatedAt:          client.UpdatedAt,
	}
}
