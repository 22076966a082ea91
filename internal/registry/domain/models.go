package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ClassRule maps a class to its destination group and the product ids
// whose buyers are allowed in.
type ClassRule struct {
	ClassName          string         `json:"class_name" gorm:"primaryKey"`
	Year               int            `json:"year" gorm:"not null;index"`
	GroupTarget        string         `json:"group_target" gorm:"type:text;not null"`
	EligibleProductIDs datatypes.JSON `json:"eligible_product_ids" gorm:"type:jsonb;not null"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

func (ClassRule) TableName() string { return "class_rules" }

// ProductIDs decodes the eligible product id set.
func (r ClassRule) ProductIDs() []string {
	var ids []string
	if len(r.EligibleProductIDs) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.EligibleProductIDs, &ids); err != nil {
		return nil
	}
	return ids
}

// Eligible reports whether productID is in the class's eligible set.
func (r ClassRule) Eligible(productID string) bool {
	for _, id := range r.ProductIDs() {
		if id == productID {
			return true
		}
	}
	return false
}

// Configured reports whether the class can accept submissions: it needs
// a destination group and a non-empty eligible set.
func (r ClassRule) Configured() bool {
	return r.GroupTarget != "" && len(r.ProductIDs()) > 0
}
