// Package record generates synthetic rows for the fixed user table.
// Randomness comes from an explicit Source so runs can be made reproducible.
package record

import (
	"strconv"
)

// Header lists the column names in output order.
var Header = []string{
	"id", "name", "age", "email", "phone", "register_time", "salary", "address",
}

// TimeLayout is the register_time format.
const TimeLayout = "2006-01-02 15:04:05"

// field bounds
const (
	MinAge = 18
	MaxAge = 60

	MinSalary Cents = 300000
	MaxSalary Cents = 5000000

	// registration window in days, counted back from generation time
	RegisterWindowDays = 365 * 10
)

// Record is one generated row.
type Record struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	RegisterTime string `json:"register_time"`
	Salary       Cents  `json:"salary"`
	Address      string `json:"address"`
}

// AppendFields appends the record's values in Header order and returns the
// extended slice.
func (r Record) AppendFields(dst []string) []string {
	return append(dst,
		strconv.Itoa(r.ID),
		r.Name,
		strconv.Itoa(r.Age),
		r.Email,
		r.Phone,
		r.RegisterTime,
		r.Salary.String(),
		r.Address,
	)
}

// Cents is a monetary amount with two fractional digits.
type Cents int64

// String renders c with exactly two fractional digits, e.g. 3000.50.
func (c Cents) String() string {
	neg := c < 0
	if neg {
		c = -c
	}
	b := make([]byte, 0, 16)
	if neg {
		b = append(b, '-')
	}
	b = strconv.AppendInt(b, int64(c/100), 10)
	frac := int64(c % 100)
	b = append(b, '.', byte('0'+frac/10), byte('0'+frac%10))
	return string(b)
}

// MarshalJSON encodes c as a JSON number with two fractional digits.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}
