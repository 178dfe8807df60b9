package models

import (
	"fmt"
	"time"
)

// Actor identifies who created or touched a repair record.
type Actor struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// StringList is a multi-select field stored as a JSON array column.
type StringList []string

// Repair is the tracked repair case. Field names on the wire (json tags)
// are part of the history contract and must not be renamed.
type Repair struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	HatakType    string     `gorm:"type:varchar(100)" json:"hatakType"`
	SerialNumber string     `gorm:"type:varchar(100);index" json:"serialNumber"`
	Status       string     `gorm:"type:varchar(30);not null;default:'Pending'" json:"status"`
	Technician   string     `gorm:"type:varchar(255)" json:"technician"`
	Description  string     `gorm:"type:text" json:"description"`
	Notes        string     `gorm:"type:text" json:"notes"`
	ReciveDate   *time.Time `json:"reciveDate"`
	ReturnDate   *time.Time `json:"returnDate"`
	Faults       StringList `gorm:"serializer:json" json:"faults"`
	Accessories  StringList `gorm:"serializer:json" json:"accessories"`
	CreatedBy    Actor      `gorm:"serializer:json" json:"createdBy"`
	Deleted      bool       `gorm:"not null;default:false;index" json:"deleted"`
	CreatedAt    time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updatedAt"`
}

// Snapshot returns the repair as a wire-name keyed map. History rows store
// these snapshots verbatim, and the diff engine compares them.
func (r *Repair) Snapshot() map[string]any {
	return map[string]any{
		"id":           r.ID,
		"hatakType":    r.HatakType,
		"serialNumber": r.SerialNumber,
		"status":       r.Status,
		"technician":   r.Technician,
		"description":  r.Description,
		"notes":        r.Notes,
		"reciveDate":   r.ReciveDate,
		"returnDate":   r.ReturnDate,
		"faults":       append(StringList{}, r.Faults...),
		"accessories":  append(StringList{}, r.Accessories...),
		"createdBy":    r.CreatedBy,
		"deleted":      r.Deleted,
		"createdAt":    r.CreatedAt,
		"updatedAt":    r.UpdatedAt,
	}
}

// ApplyUpdate overwrites a single field from a decoded JSON value.
// Set-valued fields are replaced whole, never merged. Unknown and
// bookkeeping fields are ignored and reported as not applied.
func (r *Repair) ApplyUpdate(field string, value any) bool {
	switch field {
	case "hatakType":
		r.HatakType = asString(value)
	case "serialNumber":
		r.SerialNumber = asString(value)
	case "status":
		r.Status = asString(value)
	case "technician":
		r.Technician = asString(value)
	case "description":
		r.Description = asString(value)
	case "notes":
		r.Notes = asString(value)
	case "reciveDate":
		r.ReciveDate = asDatePtr(value)
	case "returnDate":
		r.ReturnDate = asDatePtr(value)
	case "faults":
		r.Faults = asStringList(value)
	case "accessories":
		r.Accessories = asStringList(value)
	case "createdBy":
		r.CreatedBy = asActor(value)
	case "deleted":
		if b, ok := value.(bool); ok {
			r.Deleted = b
		} else {
			r.Deleted = asString(value) == "true"
		}
	default:
		return false
	}
	return true
}

// ParseDate accepts the date formats clients send: RFC3339 or a bare
// YYYY-MM-DD day.
func ParseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func asString(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprintf("%v", typed)
	}
}

func asDatePtr(v any) *time.Time {
	switch typed := v.(type) {
	case nil:
		return nil
	case time.Time:
		return &typed
	case *time.Time:
		return typed
	case string:
		if typed == "" {
			return nil
		}
		if t, ok := ParseDate(typed); ok {
			return &t
		}
	}
	return nil
}

func asStringList(v any) StringList {
	switch typed := v.(type) {
	case nil:
		return StringList{}
	case StringList:
		return append(StringList{}, typed...)
	case []string:
		return append(StringList{}, typed...)
	case []any:
		out := make(StringList, 0, len(typed))
		for _, item := range typed {
			out = append(out, asString(item))
		}
		return out
	}
	return StringList{asString(v)}
}

func asActor(v any) Actor {
	switch typed := v.(type) {
	case Actor:
		return typed
	case map[string]any:
		actor := Actor{Name: asString(typed["name"])}
		if id, ok := typed["id"].(float64); ok {
			actor.ID = uint(id)
		}
		return actor
	}
	return Actor{}
}
