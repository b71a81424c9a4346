package domain

type StationStatus string

const (
	StationStatusOnline      StationStatus = "ONLINE"
	StationStatusOffline     StationStatus = "OFFLINE"
	StationStatusMaintenance StationStatus = "MAINTENANCE"
)

type Station struct {
	ID             int32         `json:"id"`
	Name           string        `json:"name"`
	Address        string        `json:"address"`
	Latitude       float64       `json:"latitude"`
	Longitude      float64       `json:"longitude"`
	TotalSlots     int32         `json:"total_slots"`
	AvailableSlots int32         `json:"available_slots"`
	Status         StationStatus `json:"status"`
}
