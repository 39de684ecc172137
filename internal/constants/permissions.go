package constants

import (
	"database/sql/driver"
	"fmt"
)

// Role is the identity class resolved at login. It is fixed per account
// type and is distinct from staff capabilities, which are open-ended
// permission rows.
type Role string

const (
	RoleCustomer     Role = "customer"
	RoleBookingAgent Role = "booking_agent"
	RoleAirlineStaff Role = "airline_staff"
)

func (r Role) String() string { return string(r) }

// PermissionType is a staff capability. The set is open: new permission
// types can be granted without a code change, so this is deliberately not
// a closed enum. The two values below are the ones the workflows check.
type PermissionType string

const (
	PermissionAdmin    PermissionType = "Admin"
	PermissionOperator PermissionType = "Operator"
)

func (p PermissionType) String() string { return string(p) }

// Scan implements the sql.Scanner interface
func (p *PermissionType) Scan(src interface{}) error {
	if src == nil {
		*p = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*p = PermissionType(v)
	case []byte:
		*p = PermissionType(v)
	default:
		return fmt.Errorf("PermissionType: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (p PermissionType) Value() (driver.Value, error) { return string(p), nil }
