package common

// DashboardSummary holds the company figures shown on the dashboard.
type DashboardSummary struct {
	TotalActivos             int     `mapstructure:"totalActivos"`
	ActivosAsignados         int     `mapstructure:"activosAsignados"`
	ActivosEnMantenimiento   int     `mapstructure:"activosEnMantenimiento"`
	MantenimientosPendientes int     `mapstructure:"mantenimientosPendientes"`
	SolicitudesPendientes    int     `mapstructure:"solicitudesPendientes"`
	ValorTotal               float64 `mapstructure:"valorTotal"`
}

// SystemStats holds the figures shown on the system administrator's dashboard.
type SystemStats struct {
	TotalEmpresas   int `mapstructure:"totalEmpresas"`
	EmpresasActivas int `mapstructure:"empresasActivas"`
	TotalUsuarios   int `mapstructure:"totalUsuarios"`
	TotalActivos    int `mapstructure:"totalActivos"`
}

// DepreciationRow is one asset line of the depreciation report. The depreciation itself is computed by the backend.
type DepreciationRow struct {
	ActivoID              string  `mapstructure:"activoId"`
	Codigo                string  `mapstructure:"codigo"`
	Nombre                string  `mapstructure:"nombre"`
	Categoria             string  `mapstructure:"categoria"`
	FechaCompra           string  `mapstructure:"fechaCompra"`
	ValorCompra           float64 `mapstructure:"valorCompra"`
	DepreciacionAnual     float64 `mapstructure:"depreciacionAnual"`
	DepreciacionAcumulada float64 `mapstructure:"depreciacionAcumulada"`
	ValorLibros           float64 `mapstructure:"valorLibros"`
	VidaUtilRestanteMeses int     `mapstructure:"vidaUtilRestanteMeses"`
}

// InventoryRow is one group line of the inventory report.
type InventoryRow struct {
	Grupo       string  `mapstructure:"grupo"`
	Cantidad    int     `mapstructure:"cantidad"`
	Asignados   int     `mapstructure:"asignados"`
	Disponibles int     `mapstructure:"disponibles"`
	ValorTotal  float64 `mapstructure:"valorTotal"`
}

// MaintenanceCostRow is one asset line of the maintenance cost report.
type MaintenanceCostRow struct {
	ActivoID            string  `mapstructure:"activoId"`
	Codigo              string  `mapstructure:"codigo"`
	Nombre              string  `mapstructure:"nombre"`
	CantidadPreventivos int     `mapstructure:"cantidadPreventivos"`
	CantidadCorrectivos int     `mapstructure:"cantidadCorrectivos"`
	CostoTotal          float64 `mapstructure:"costoTotal"`
}
