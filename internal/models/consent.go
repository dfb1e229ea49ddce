package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// OptInStatus is the canonical representation of a customer's consent
// state. Earlier clients wrote raw booleans for this field, so the
// decoders accept both forms; writes always produce "yes"/"no".
type OptInStatus string

// OptInStatus values
const (
	OptInYes OptInStatus = "yes"
	OptInNo  OptInStatus = "no"
)

// OptedIn reports whether the status represents an opted-in customer
func (s OptInStatus) OptedIn() bool {
	return s == OptInYes
}

// Toggle returns the opposite consent state
func (s OptInStatus) Toggle() OptInStatus {
	if s.OptedIn() {
		return OptInNo
	}
	return OptInYes
}

func (s *OptInStatus) set(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true":
		*s = OptInYes
	case "no", "false", "":
		*s = OptInNo
	default:
		return fmt.Errorf("invalid opt_in_status value: %q", value)
	}
	return nil
}

// UnmarshalJSON accepts both the canonical string form and the legacy
// boolean form used by older clients.
func (s *OptInStatus) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case bool:
		if v {
			*s = OptInYes
		} else {
			*s = OptInNo
		}
		return nil
	case string:
		return s.set(v)
	case nil:
		*s = OptInNo
		return nil
	default:
		return fmt.Errorf("invalid opt_in_status type: %T", raw)
	}
}

// MarshalJSON always emits the canonical string form
func (s OptInStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalBSONValue translates stored legacy booleans on the read path
func (s *OptInStatus) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.Boolean:
		if rv.Boolean() {
			*s = OptInYes
		} else {
			*s = OptInNo
		}
		return nil
	case bsontype.String:
		return s.set(rv.StringValue())
	case bsontype.Null:
		*s = OptInNo
		return nil
	default:
		return fmt.Errorf("cannot decode %s into OptInStatus", t)
	}
}

// MarshalBSONValue always writes the canonical string form
func (s OptInStatus) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bsontype.String, bsoncore.AppendString(nil, string(s)), nil
}

// ConsentRecord is the durable entity representing a customer's TCPA
// opt-in/opt-out state for SMS marketing. Only opt_in_status is ever
// mutated after creation.
type ConsentRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CustomerID  string             `bson:"customer_id" json:"customer_id"`
	FirstName   string             `bson:"first_name" json:"first_name"`
	PhoneNumber string             `bson:"phone_number" json:"phone_number"`
	OptInStatus OptInStatus        `bson:"opt_in_status" json:"opt_in_status"`
	Timestamp   string             `bson:"timestamp" json:"timestamp"`
	IPAddress   string             `bson:"ip_address" json:"ip_address"`
	City        string             `bson:"city" json:"city"`
	Country     string             `bson:"country" json:"country"`
}
