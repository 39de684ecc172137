package gorm

// Airline is the root reference entity; staff, airplanes and flights all
// hang off its name.
type Airline struct {
	AirlineName string `gorm:"column:airline_name;primaryKey;type:varchar(100)"`
}

// TableName specifies the table name for GORM
func (Airline) TableName() string {
	return "airline"
}

type Airport struct {
	AirportName string `gorm:"column:airport_name;primaryKey;type:varchar(50)"`
	AirportCity string `gorm:"column:airport_city;type:varchar(100);not null"`
}

// TableName specifies the table name for GORM
func (Airport) TableName() string {
	return "airport"
}

// Airplane is keyed by (airline_name, airplane_id); the same numeric id
// may exist under two different airlines.
type Airplane struct {
	AirlineName string `gorm:"column:airline_name;primaryKey;type:varchar(100)"`
	AirplaneID  int    `gorm:"column:airplane_id;primaryKey"`
	Seats       int    `gorm:"column:seats;not null"`
}

// TableName specifies the table name for GORM
func (Airplane) TableName() string {
	return "airplane"
}
