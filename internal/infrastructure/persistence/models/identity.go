package models

import (
	"github.com/sfa/backend/internal/domain/identity"
)

// UserModel is the persistence model for users. ReferenceID is the business key.
type UserModel struct {
	VersionedModel
	ReferenceID string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	Firstname   string              `gorm:"type:varchar(100);not null"`
	Lastname    string              `gorm:"type:varchar(100);not null"`
	Email       string              `gorm:"type:varchar(255);not null;uniqueIndex"`
	Role        identity.Role       `gorm:"type:varchar(50);not null;index"`
	Manager     string              `gorm:"type:varchar(50);index"`
	TSM         string              `gorm:"column:tsm;type:varchar(50);index"`
	Location    string              `gorm:"type:varchar(100)"`
	Status      identity.UserStatus `gorm:"type:varchar(20);not null;default:'Active'"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		VersionedEntity: m.ToVersioned(),
		ReferenceID:     m.ReferenceID,
		Firstname:       m.Firstname,
		Lastname:        m.Lastname,
		Email:           m.Email,
		Role:            m.Role,
		Manager:         m.Manager,
		TSM:             m.TSM,
		Location:        m.Location,
		Status:          m.Status,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainVersioned(u.VersionedEntity)
	m.ReferenceID = u.ReferenceID
	m.Firstname = u.Firstname
	m.Lastname = u.Lastname
	m.Email = u.Email
	m.Role = u.Role
	m.Manager = u.Manager
	m.TSM = u.TSM
	m.Location = u.Location
	m.Status = u.Status
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
