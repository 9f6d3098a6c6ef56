package models

import "time"

// Lead es un registro ya aplanado: Owner.Name viene como OwnerName y
// LeadSource llega normalizado desde la carga.
type Lead struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	OwnerID   string    `json:"owner_id"`
	OwnerName string    `json:"owner_name,omitempty"`
	Source    string    `json:"lead_source"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Product   string    `json:"product,omitempty"`
	Company   string    `json:"company,omitempty"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type SourceCount struct {
	Source string `json:"lead_source"`
	Count  int    `json:"count"`
}

// MonthlyCount agrupa por (mes, status); MonthTotal repite el total del
// mes en cada fila que lo comparte.
type MonthlyCount struct {
	Month      string `json:"month"`
	MonthNum   int    `json:"month_num"`
	Status     string `json:"status"`
	Count      int    `json:"count"`
	MonthTotal int    `json:"month_total"`
}
