package models

import (
	"ecosync-hub/internal/common/enum"
	"strings"
	"time"
)

const DefaultCountry = "BANGLADESH"

type Address struct {
	ID           uint64               `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID       uint64               `json:"user_id" gorm:"not null;index"`
	AddressType  enum.AddressTypeEnum `json:"address_type" gorm:"type:varchar(20);not null;default:'home'"`
	FullName     string               `json:"full_name" gorm:"type:varchar(255);not null"`
	Phone        string               `json:"phone" gorm:"type:varchar(30)"`
	HouseFlatNo  string               `json:"house_flat_no" gorm:"type:varchar(255);not null"`
	RoadStreet   string               `json:"road_street" gorm:"type:varchar(255)"`
	AreaLocality string               `json:"area_locality" gorm:"type:varchar(255)"`
	PostOffice   string               `json:"post_office" gorm:"type:varchar(255)"`
	ThanaUpazila string               `json:"thana_upazila" gorm:"type:varchar(255);not null"`
	District     string               `json:"district" gorm:"type:varchar(255);not null"`
	Division     string               `json:"division" gorm:"type:varchar(255)"`
	PostalCode   string               `json:"postal_code" gorm:"type:varchar(20);not null"`
	Country      string               `json:"country" gorm:"type:varchar(100);not null;default:'BANGLADESH'"`
	IsDefault    bool                 `json:"is_default" gorm:"not null;default:false"`
	CreatedAt    time.Time            `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time            `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Address) TableName() string {
	return "user_addresses"
}

// Format renders the multi-line shipping string handed to checkout.
// Optional parts join their line with ", "; empty lines are dropped.
func (a *Address) Format() string {
	country := a.Country
	if country == "" {
		country = DefaultCountry
	}

	lines := []string{
		a.FullName,
		joinNonEmpty(a.HouseFlatNo, a.RoadStreet),
		joinNonEmpty(a.AreaLocality, a.PostOffice),
		a.ThanaUpazila,
		joinNonEmpty(a.District, a.Division),
		a.PostalCode,
		country,
	}

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func joinNonEmpty(head, tail string) string {
	head, tail = strings.TrimSpace(head), strings.TrimSpace(tail)
	switch {
	case head == "":
		return tail
	case tail == "":
		return head
	}
	return head + ", " + tail
}
