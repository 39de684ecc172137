package gorm

import "skyreserve/backend/internal/constants"

// Dates are carried as YYYY-MM-DD strings so the same models work
// against Postgres date columns and the sqlite test databases.

type Customer struct {
	Email              string `gorm:"column:email;primaryKey;type:varchar(100)"`
	Name               string `gorm:"column:name;type:varchar(100);not null"`
	Password           string `gorm:"column:password;type:varchar(200);not null"`
	BuildingNumber     string `gorm:"column:building_number;type:varchar(20)"`
	Street             string `gorm:"column:street;type:varchar(100)"`
	City               string `gorm:"column:city;type:varchar(100)"`
	State              string `gorm:"column:state;type:varchar(50)"`
	PhoneNumber        string `gorm:"column:phone_number;type:varchar(30)"`
	PassportNumber     string `gorm:"column:passport_number;type:varchar(30)"`
	PassportExpiration string `gorm:"column:passport_expiration;type:date"`
	PassportCountry    string `gorm:"column:passport_country;type:varchar(50)"`
	DateOfBirth        string `gorm:"column:date_of_birth;type:date"`
}

// TableName specifies the table name for GORM
func (Customer) TableName() string {
	return "customer"
}

// BookingAgent carries a numeric alias id alongside the email key; the
// purchases table references the numeric id, not the email.
type BookingAgent struct {
	Email          string `gorm:"column:email;primaryKey;type:varchar(100)"`
	Password       string `gorm:"column:password;type:varchar(200);not null"`
	BookingAgentID int    `gorm:"column:booking_agent_id;uniqueIndex;not null"`

	Airlines []BookingAgentAirline `gorm:"foreignKey:Email;references:Email"`
}

// TableName specifies the table name for GORM
func (BookingAgent) TableName() string {
	return "booking_agent"
}

// BookingAgentAirline is the works-for affiliation row. An agent may only
// sell tickets for airlines they are affiliated with.
type BookingAgentAirline struct {
	Email       string `gorm:"column:email;primaryKey;type:varchar(100)"`
	AirlineName string `gorm:"column:airline_name;primaryKey;type:varchar(100)"`
}

// TableName specifies the table name for GORM
func (BookingAgentAirline) TableName() string {
	return "booking_agent_work_for"
}

type AirlineStaff struct {
	Username    string `gorm:"column:username;primaryKey;type:varchar(100)"`
	Password    string `gorm:"column:password;type:varchar(200);not null"`
	FirstName   string `gorm:"column:first_name;type:varchar(100)"`
	LastName    string `gorm:"column:last_name;type:varchar(100)"`
	DateOfBirth string `gorm:"column:date_of_birth;type:date"`
	AirlineName string `gorm:"column:airline_name;type:varchar(100);not null"`

	Permissions []Permission `gorm:"foreignKey:Username;references:Username"`
}

// TableName specifies the table name for GORM
func (AirlineStaff) TableName() string {
	return "airline_staff"
}

// Permission is one capability row. A staff member holds a set of these,
// not a single role.
type Permission struct {
	Username       string                   `gorm:"column:username;primaryKey;type:varchar(100)"`
	PermissionType constants.PermissionType `gorm:"column:permission_type;primaryKey;type:varchar(50)"`
}

// TableName specifies the table name for GORM
func (Permission) TableName() string {
	return "permission"
}
