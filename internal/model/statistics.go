package model

// GroupCount is one row of a grouped report
type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// DashboardStats summarises the record store for the landing page
type DashboardStats struct {
	TotalRecords     int64        `json:"totalRecords"`
	RecordsThisMonth int64        `json:"recordsThisMonth"`
	TotalUsers       int64        `json:"totalUsers"`
	TotalStations    int64        `json:"totalStations"`
	TotalPorts       int64        `json:"totalPorts"`
	TopGovernorates  []GroupCount `json:"topGovernorates"`
}
