package domain

// PublicBackend - описание бэкенда, безопасное для отдачи клиенту
// адрес раскрывается только при Link == true
type PublicBackend struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Link    bool   `json:"link"`
	Address string `json:"address,omitempty"`
}

// DashboardConfig - отфильтрованная конфигурация для клиента
type DashboardConfig struct {
	RefreshInterval int             `json:"refresh_interval"`
	Piholes         []PublicBackend `json:"piholes"`
	ShowQueries     bool            `json:"show_queries"`
}

type InitResponse struct {
	Config DashboardConfig          `json:"config"`
	Data   map[string]BackendResult `json:"data"`
}

type StatsWithQueries struct {
	Stats   map[string]BackendResult `json:"stats"`
	Queries map[string][]QueryRecord `json:"queries"`
}
